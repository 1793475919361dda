// Package tui implements internal/ui.UI with Bubble Tea, bridging the
// session's channel-based architecture to Bubble Tea's model/update/view
// loop the way the teacher's BubbleTeaUI does.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mudshell/mudshell/internal/ui"
)

// BubbleTeaUI implements ui.UI using Bubble Tea.
type BubbleTeaUI struct {
	program *tea.Program

	inputChan chan string
	msgQueue  chan tea.Msg
	outbound  chan ui.Event

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a new Bubble Tea-based UI.
func New() *BubbleTeaUI {
	return &BubbleTeaUI{
		inputChan: make(chan string, 2048),
		msgQueue:  make(chan tea.Msg, 4096),
		outbound:  make(chan ui.Event, 256),
		done:      make(chan struct{}),
	}
}

// send queues msg for delivery to the Bubble Tea program. Blocks rather
// than drops: losing server output silently is unacceptable for a MUD
// client.
func (b *BubbleTeaUI) send(msg tea.Msg) {
	select {
	case <-b.done:
	case b.msgQueue <- msg:
	}
}

func (b *BubbleTeaUI) Print(text string)  { b.send(ui.PrintLineMsg(text)) }
func (b *BubbleTeaUI) Echo(text string)   { b.send(ui.EchoLineMsg("\033[32m> " + text + "\033[0m")) }
func (b *BubbleTeaUI) SetPrompt(text string) { b.send(ui.PromptMsg(text)) }

func (b *BubbleTeaUI) SetInput(text string, cursor int) {
	b.send(ui.SetInputMsg{Text: text, Cursor: cursor})
}

func (b *BubbleTeaUI) SetConnectionState(state ui.ConnectionState, addr string) {
	b.send(ui.ConnectionStateMsg{State: state, Address: addr})
}

func (b *BubbleTeaUI) Input() <-chan string    { return b.inputChan }
func (b *BubbleTeaUI) Outbound() <-chan ui.Event { return b.outbound }
func (b *BubbleTeaUI) Done() <-chan struct{}   { return b.done }

// Run starts the TUI and blocks until exit.
func (b *BubbleTeaUI) Run() error {
	model := newModel(b.inputChan, b.outbound)

	b.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		for {
			select {
			case <-b.done:
				return
			case msg, ok := <-b.msgQueue:
				if !ok {
					return
				}
				b.program.Send(msg)
			}
		}
	}()

	_, err := b.program.Run()

	b.doneOnce.Do(func() { close(b.done) })
	close(b.msgQueue)

	return err
}

// Quit signals the TUI to exit.
func (b *BubbleTeaUI) Quit() {
	if b.program != nil {
		b.program.Quit()
	}
	b.doneOnce.Do(func() { close(b.done) })
}
