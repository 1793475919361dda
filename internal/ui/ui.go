// Package ui defines the contract between the session and its terminal
// display, plus the message types that cross that boundary. The concrete
// implementation lives in ui/tui.
package ui

// UI is the display-layer contract the session drives. Bars, panes, and
// the server picker from the teacher's UI are deliberately absent: this
// client's scope is scrollback, prompt overlay, and the native command
// line editor.
type UI interface {
	Run() error
	Quit()
	Done() <-chan struct{}

	// Input returns submitted command lines.
	Input() <-chan string
	// Outbound returns UI-originated events the session must react to
	// (resize, key binds unhandled by the line editor, cursor changes).
	Outbound() <-chan Event

	Print(text string)
	Echo(text string)
	SetPrompt(text string)
	SetInput(text string, cursor int)
	SetConnectionState(state ConnectionState, addr string)
}

// ConnectionState mirrors the session's connection lifecycle for display.
type ConnectionState int

const (
	StateIdle ConnectionState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

// Event is implemented by every outbound (UI -> session) message.
type Event interface{ isUIEvent() }

// ExecuteBindMsg carries a key chord the line editor didn't handle itself
// (movement, editing, history) for script-side keybinding dispatch.
type ExecuteBindMsg string

func (ExecuteBindMsg) isUIEvent() {}

// WindowSizeChangedMsg reports a terminal resize.
type WindowSizeChangedMsg struct{ Width, Height int }

func (WindowSizeChangedMsg) isUIEvent() {}

// InputChangedMsg reports the live input buffer, for the on_input_changed
// hook.
type InputChangedMsg struct {
	Text   string
	Cursor int
}

func (InputChangedMsg) isUIEvent() {}

// --- Inbound (session -> UI) messages sent over the program's msg queue ---

type PrintLineMsg string
type EchoLineMsg string
type PromptMsg string
type SetInputMsg struct {
	Text   string
	Cursor int
}
type ConnectionStateMsg struct {
	State   ConnectionState
	Address string
}
