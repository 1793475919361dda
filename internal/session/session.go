// Package session orchestrates the event loop tying network, script, and
// UI together: exactly one goroutine processes events, so the Lua state
// and native rule tables are only ever touched from that goroutine.
package session

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mudshell/mudshell/internal/config"
	"github.com/mudshell/mudshell/internal/eventbus"
	"github.com/mudshell/mudshell/internal/line"
	"github.com/mudshell/mudshell/internal/network"
	"github.com/mudshell/mudshell/internal/script"
	"github.com/mudshell/mudshell/internal/timer"
	"github.com/mudshell/mudshell/internal/ui"
)

// compile-time interface check: Session implements script.Host.
var _ script.Host = (*Session)(nil)

// connState is the session's connection lifecycle: Idle -> Connecting ->
// Connected -> Disconnecting -> Idle. The on_connect hook latches once per
// Idle->Connected edge and is reset on every transition back to Idle
// (the on_connect latch is cleared on disconnect, not kept sticky across
// reconnects).
type connState int

const (
	stateIdle connState = iota
	stateConnecting
	stateConnected
	stateDisconnecting
)

// Config bundles session construction parameters.
type Config struct {
	ConfigDir   string
	UserScripts []string // extra scripts named on the CLI
}

// Stats aggregates runtime counters for the debug monitor.
type Stats struct {
	EventsProcessed uint64
	EventQueueLen   int
	EventQueueCap   int
	Goroutines      int
	Network         network.Stats
	Timers          int
}

// Session is the central orchestrator. It implements script.Host so Lua
// scripts can reach network, UI, and timer operations through one narrow
// seam.
type Session struct {
	net    *network.Client
	ui     ui.UI
	timer  *timer.Service
	engine *script.Engine

	events      chan eventbus.Event
	timerEvents chan timer.Event

	cfg    Config
	cancel context.CancelFunc

	state         connState
	onConnectSeen bool
	lastPrompt    line.Line
	width, height int

	eventsProcessed uint64
	cliHistory      []string

	watcher *fsnotify.Watcher
}

// New creates a passive Session; no goroutines run until Run is called.
func New(net *network.Client, uiInstance ui.UI, cfg Config) *Session {
	timerEvents := make(chan timer.Event, 256)
	s := &Session{
		net:         net,
		ui:          uiInstance,
		timer:       timer.NewService(timerEvents),
		timerEvents: timerEvents,
		events:      make(chan eventbus.Event, 256),
		cfg:         cfg,
		width:       80,
		height:      24,
	}
	s.engine = script.NewEngine(s)
	return s
}

// Run starts the session and blocks until the context is cancelled or the
// UI exits.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	defer func() {
		cancel()
		s.SaveHistory()
		s.engine.Close()
		s.timer.CancelAll()
		s.net.Disconnect()
		if s.watcher != nil {
			s.watcher.Close()
		}
		s.ui.Quit()
	}()

	if err := s.engine.Reset(s.cfg.ConfigDir); err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[system] script error: %s\033[0m", err))
	}
	for _, path := range s.cfg.UserScripts {
		if err := s.engine.LoadFile(path); err != nil {
			s.ui.Print(fmt.Sprintf("\033[31m[system] %s: %s\033[0m", path, err))
		}
	}

	s.loadHistory()
	s.watchConfigDir()

	go s.processEvents(ctx)

	return s.ui.Run()
}

// Stats reports current runtime counters for the debug monitor.
func (s *Session) Stats() Stats {
	return Stats{
		EventsProcessed: s.eventsProcessed,
		EventQueueLen:   len(s.events),
		EventQueueCap:   cap(s.events),
		Goroutines:      runtime.NumGoroutine(),
		Network:         s.net.Stats(),
		Timers:          s.timer.Count(),
	}
}

func (s *Session) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.events:
			s.eventsProcessed++
			s.handleEvent(ev)
		case netEv := <-s.net.Output():
			s.eventsProcessed++
			s.handleEvent(netEv)
		case text := <-s.ui.Input():
			s.eventsProcessed++
			s.handleUserInput(text)
		case tev := <-s.timerEvents:
			s.eventsProcessed++
			s.engine.OnTimer(tev.ID, tev.Repeat)
		case uiEv := <-s.ui.Outbound():
			s.eventsProcessed++
			s.handleUIEvent(uiEv)
		}
	}
}

func (s *Session) handleUIEvent(ev ui.Event) {
	switch m := ev.(type) {
	case ui.WindowSizeChangedMsg:
		s.width, s.height = m.Width, m.Height
	case ui.ExecuteBindMsg:
		s.engine.HandleKeyBind(string(m))
	case ui.InputChangedMsg:
		s.engine.CallHook("on_input_changed", m.Text)
	}
}

func (s *Session) handleEvent(ev eventbus.Event) {
	switch ev.Type {
	case eventbus.Connected:
		s.state = stateConnected
		s.ui.SetConnectionState(ui.StateConnected, s.endpointString())
		if !s.onConnectSeen {
			s.onConnectSeen = true
			s.engine.CallHook("on_connect")
		}

	case eventbus.Disconnected:
		s.state = stateIdle
		s.onConnectSeen = false
		s.ui.SetConnectionState(ui.StateIdle, "")
		s.engine.CallHook("on_disconnect")

	case eventbus.ServerInput:
		s.handleServerInput(ev)

	case eventbus.GMCPReady:
		s.engine.CallHook("on_gmcp_ready")

	case eventbus.GMCPReceive:
		s.engine.DispatchGMCP(ev.GMCPType, ev.GMCPBody)

	case eventbus.GMCPSend:
		s.sendGMCPText(ev.Text)

	case eventbus.Output:
		s.ui.Print(ev.Text)

	case eventbus.Info:
		s.ui.Print("\033[36m[info] " + ev.Text + "\033[0m")

	case eventbus.Error:
		s.ui.Print("\033[31m[error] " + ev.Text + "\033[0m")

	case eventbus.Connect:
		s.connect(ev.Conn.Host, ev.Conn.Port)

	case eventbus.Disconnect:
		s.disconnect()

	case eventbus.Reconnect:
		if host, port, ok := s.net.Endpoint(); ok {
			s.connect(host, port)
		} else {
			s.ui.Print("\033[31m[error] not connected\033[0m")
		}

	case eventbus.LoadServer:
		s.loadServerByName(ev.Server.Name)

	case eventbus.AddServer:
		s.addServer(ev.Server)

	case eventbus.RemoveServer:
		s.removeServerByName(ev.Server.Name)

	case eventbus.ListServers:
		s.listServers()

	case eventbus.ShowHelp:
		s.ui.Print(fmt.Sprintf("\033[36m[help] %s\033[0m", ev.Text))

	case eventbus.ShowSettings, eventbus.ShowSetting, eventbus.ToggleSetting:
		s.ui.Print("\033[36m[settings] not configured\033[0m")

	case eventbus.StartLogging, eventbus.StopLogging:
		// logging sinks are out of scope; acknowledged so scripts/CLI don't stall

	case eventbus.LoadScript:
		if err := s.engine.LoadFile(ev.Text); err != nil {
			s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
		}

	case eventbus.Quit:
		if s.cancel != nil {
			s.cancel()
		}
	}

	if ev.Callback != nil {
		ev.Callback()
	}
}

func (s *Session) handleServerInput(ev eventbus.Event) {
	if ev.IsPrompt {
		if s.lastPrompt.Raw != "" {
			s.ui.Print(s.lastPrompt.Raw)
		}
		l := line.NewPrompt(ev.Text)
		s.engine.CheckPromptTriggerMatch(&l)
		s.lastPrompt = l
		if !l.Gag {
			s.ui.SetPrompt(l.Raw)
		} else {
			s.ui.SetPrompt("")
		}
		return
	}

	s.lastPrompt = line.Line{}
	s.ui.SetPrompt("")

	l := line.New(ev.Text)
	s.engine.CheckTriggerMatch(&l)
	if !l.Gag {
		s.ui.Print(l.Raw)
	}
}

// handleUserInput is the input path: ParseCommand first (a leading "/"
// routes to CLI handling), then alias dispatch, then a plain send.
func (s *Session) handleUserInput(text string) {
	if s.lastPrompt.Raw != "" {
		s.ui.Print(s.lastPrompt.Raw)
		s.lastPrompt = line.Line{}
		s.ui.SetPrompt("")
	}

	if text != "" {
		s.addHistory(text)
	}
	if s.net.LocalEchoEnabled() {
		s.ui.Echo(text)
	}

	ev := ParseCommand(text)
	if ev.Type != eventbus.ServerInput {
		s.handleEvent(ev)
		return
	}

	in := line.New(text)
	if s.engine.CheckAliasMatch(&in) {
		return
	}
	if err := s.net.Send(text); err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
	}
}

func (s *Session) connect(host string, port int) {
	s.state = stateConnecting
	s.ui.SetConnectionState(ui.StateConnecting, fmt.Sprintf("%s:%d", host, port))
	ctx := context.Background()
	if err := s.net.Connect(ctx, host, port); err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] connect: %s\033[0m", err))
		s.state = stateIdle
		s.ui.SetConnectionState(ui.StateIdle, "")
	}
}

func (s *Session) disconnect() {
	if !s.net.IsConnected() {
		return
	}
	s.state = stateDisconnecting
	s.ui.SetConnectionState(ui.StateDisconnecting, "")
	s.net.Disconnect()
	// Client.Disconnect emits no event for a user-initiated close, so
	// complete the Disconnecting -> Idle transition here.
	s.handleEvent(eventbus.Event{Type: eventbus.Disconnected})
}

func (s *Session) endpointString() string {
	host, port, ok := s.net.Endpoint()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// sendGMCPText splits a "Type body" (or bare "Type") payload from
// rune.send_gmcp and forwards it to the network layer.
func (s *Session) sendGMCPText(msg string) {
	msgType, body := msg, ""
	for i, r := range msg {
		if r == ' ' {
			msgType, body = msg[:i], msg[i+1:]
			break
		}
	}
	if err := s.net.SendGMCP(msgType, body); err != nil {
		s.events <- eventbus.Event{Type: eventbus.Error, Text: "gmcp: " + err.Error()}
	}
}

// --- script.Host ---

func (s *Session) Output(text string) { s.ui.Print(text) }
func (s *Session) Send(text string) {
	if err := s.net.Send(text); err != nil {
		s.ui.Print(fmt.Sprintf("\033[31m[error] %s\033[0m", err))
	}
}
func (s *Session) SendGMCP(msg string) { s.sendGMCPText(msg) }

func (s *Session) RequestConnect(host string, port int) { s.connect(host, port) }
func (s *Session) RequestDisconnect()                   { s.disconnect() }
func (s *Session) RequestQuit() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) TerminalDimensions() (int, int) { return s.width, s.height }

func (s *Session) ScheduleTimer(d time.Duration, repeat bool) int {
	if repeat {
		return s.timer.Every(d)
	}
	return s.timer.After(d)
}
func (s *Session) CancelTimer(id int) { s.timer.Cancel(id) }
func (s *Session) CancelAllTimers()   { s.timer.CancelAll() }

// watchConfigDir wires fsnotify onto init.lua so editing it hot-reloads
// the sandbox without restarting the client.
func (s *Session) watchConfigDir() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return
	}
	if err := w.Add(s.cfg.ConfigDir); err != nil {
		w.Close()
		return
	}
	s.watcher = w

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name == config.InitFile() && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					// The reset runs on the event loop, which owns the Lua state.
					s.events <- eventbus.Event{Type: eventbus.Info, Text: "reloading init.lua", Callback: func() {
						if err := s.engine.Reset(s.cfg.ConfigDir); err != nil {
							s.ui.Print("\033[31m[error] reload: " + err.Error() + "\033[0m")
						}
					}}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
}
