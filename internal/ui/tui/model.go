package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/mudshell/mudshell/internal/command"
	"github.com/mudshell/mudshell/internal/ui"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

// model is the Bubble Tea model: a scrollback viewport, a prompt overlay
// line, and the native command.Buffer line editor. Bars, panes, and the
// server picker from the teacher's UI have no equivalent here.
type model struct {
	viewport viewport.Model
	lines    []string
	prompt   string
	status   string

	buf *command.Buffer

	width, height int
	ready         bool

	inputChan chan<- string
	outbound  chan<- ui.Event
}

func newModel(inputChan chan<- string, outbound chan<- ui.Event) model {
	return model{
		buf:       command.New(),
		inputChan: inputChan,
		outbound:  outbound,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		inputHeight := 3
		vpHeight := msg.Height - inputHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.viewport.SetContent(strings.Join(m.lines, "\n"))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.viewport.GotoBottom()
		select {
		case m.outbound <- ui.WindowSizeChangedMsg{Width: msg.Width, Height: msg.Height}:
		default:
		}
		return m, nil

	case ui.PrintLineMsg:
		m.appendLine(string(msg))
		return m, nil

	case ui.EchoLineMsg:
		m.appendLine(string(msg))
		return m, nil

	case ui.PromptMsg:
		m.prompt = string(msg)
		return m, nil

	case ui.SetInputMsg:
		m.buf = command.New()
		for _, r := range msg.Text {
			m.buf.PushKey(r)
		}
		return m, nil

	case ui.ConnectionStateMsg:
		m.status = connectionStatusText(msg.State, msg.Address)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) appendLine(text string) {
	m.lines = append(m.lines, text)
	if m.ready {
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		m.viewport.GotoBottom()
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		text := m.buf.Submit()
		select {
		case m.inputChan <- text:
		default:
		}
		m.notifyInputChanged()
		return m, nil

	case tea.KeyTab:
		m.buf.TabComplete()
	case tea.KeyLeft:
		m.buf.MoveLeft()
	case tea.KeyRight:
		m.buf.MoveRight()
	case tea.KeyHome:
		m.buf.MoveToStart()
	case tea.KeyEnd:
		m.buf.MoveToEnd()
	case tea.KeyBackspace:
		m.buf.Remove()
	case tea.KeyDelete:
		m.buf.DeleteRight()
	case tea.KeyUp:
		m.buf.Previous()
	case tea.KeyDown:
		m.buf.Next()
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyPgUp:
		m.viewport.LineUp(m.viewport.Height / 2)
	case tea.KeyPgDown:
		m.viewport.LineDown(m.viewport.Height / 2)
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.buf.PushKey(r)
		}
	case tea.KeyCtrlW:
		m.buf.DeleteWordLeft()
	default:
		if bind := keyBindName(msg); bind != "" {
			select {
			case m.outbound <- ui.ExecuteBindMsg(bind):
			default:
			}
		}
	}
	m.notifyInputChanged()
	return m, nil
}

func (m model) notifyInputChanged() {
	select {
	case m.outbound <- ui.InputChangedMsg{Text: m.buf.Text(), Cursor: m.buf.CursorPos()}:
	default:
	}
}

// keyBindName maps an unhandled chord to the "ctrl-x"/"f1" form expected
// by add_binding, for keys the line editor itself has no use for.
func keyBindName(msg tea.KeyMsg) string {
	s := msg.String()
	switch {
	case strings.HasPrefix(s, "ctrl+"):
		return command.HumanKey("ctrl-", []rune(strings.TrimPrefix(s, "ctrl+"))[0])
	case strings.HasPrefix(s, "alt+"):
		return command.HumanKey("alt-", []rune(strings.TrimPrefix(s, "alt+"))[0])
	case strings.HasPrefix(s, "f") && len(s) <= 3:
		return s
	}
	return ""
}

func connectionStatusText(state ui.ConnectionState, addr string) string {
	switch state {
	case ui.StateConnecting:
		return fmt.Sprintf("connecting to %s...", addr)
	case ui.StateConnected:
		return fmt.Sprintf("connected to %s", addr)
	case ui.StateDisconnecting:
		return "disconnecting..."
	default:
		return "disconnected"
	}
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.prompt != "" {
		b.WriteString(promptStyle.Render(m.prompt))
		b.WriteString("\n")
	}
	b.WriteString(borderStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	line := m.buf.Text()
	cursor := m.buf.CursorPos()
	runes := []rune(line)
	rendered := string(runes[:cursor]) + "│" + string(runes[cursor:])
	b.WriteString("> " + rendered)
	if m.status != "" {
		b.WriteString("  " + statusStyle.Render(m.status))
	}
	return b.String()
}
