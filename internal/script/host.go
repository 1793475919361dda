package script

import "time"

// Host is the bridge between Engine and the rest of the system. It
// decouples Engine from channel/session internals, matching the
// teacher's lua.Host split (mmcdole/rune lua/host.go, services.go) —
// Engine calls out through this narrow interface instead of reaching
// into Session directly.
type Host interface {
	// Output queues a line to the UI scrollback.
	Output(text string)
	// Send queues a line to the server; the network layer telnet-encodes it.
	Send(text string)
	// SendGMCP queues a raw "Type body" GMCP message for transmission.
	SendGMCP(msg string)

	RequestConnect(host string, port int)
	RequestDisconnect()
	RequestQuit()

	// TerminalDimensions reports the current viewport size for rune.terminal_dimensions().
	TerminalDimensions() (cols, rows int)

	// ScheduleTimer arms a timed function and returns its id.
	ScheduleTimer(d time.Duration, repeat bool) int
	CancelTimer(id int)
	CancelAllTimers()
}
