package script

import (
	"strings"

	glua "github.com/yuin/gopher-lua"
)

// registerCoreFuncs registers the rune.* primitives: output, send, connect
// control, quit, and terminal geometry.
func (e *Engine) registerCoreFuncs() {
	// rune.send(text): queue a line to the server, bypassing alias dispatch.
	e.L.SetField(e.runeTable, "send", e.L.NewFunction(func(L *glua.LState) int {
		e.host.Send(L.CheckString(1))
		return 0
	}))

	// rune.output(text): queue a line to the local display.
	e.L.SetField(e.runeTable, "output", e.L.NewFunction(func(L *glua.LState) int {
		e.host.Output(L.CheckString(1))
		return 0
	}))

	// rune.quit(): exit the client.
	e.L.SetField(e.runeTable, "quit", e.L.NewFunction(func(L *glua.LState) int {
		e.host.RequestQuit()
		return 0
	}))

	// rune.connect(host, port): connect to a server. Idempotent if already
	// connected to the same host:port.
	e.L.SetField(e.runeTable, "connect", e.L.NewFunction(func(L *glua.LState) int {
		host := L.CheckString(1)
		port := L.CheckInt(2)
		e.host.RequestConnect(host, port)
		return 0
	}))

	// rune.disconnect(): close the active connection, if any.
	e.L.SetField(e.runeTable, "disconnect", e.L.NewFunction(func(L *glua.LState) int {
		e.host.RequestDisconnect()
		return 0
	}))

	// rune.terminal_dimensions(): returns cols, rows.
	e.L.SetField(e.runeTable, "terminal_dimensions", e.L.NewFunction(func(L *glua.LState) int {
		cols, rows := e.host.TerminalDimensions()
		L.Push(glua.LNumber(cols))
		L.Push(glua.LNumber(rows))
		return 2
	}))

	// rune.version(): returns the client name and version string.
	e.L.SetField(e.runeTable, "version", e.L.NewFunction(func(L *glua.LState) int {
		L.Push(glua.LString("mudshell"))
		L.Push(glua.LString("0.1.0"))
		return 2
	}))
}

// NormalizeKeyName canonicalizes a key chord into a "ctrl+r"-style form:
// lowercase modifiers in a fixed ctrl/alt/shift order, joined with "+", bare
// key last. The UI's key handler does not use it; its binding names come
// from command.HumanKey ("ctrl-r").
func NormalizeKeyName(parts ...string) string {
	var mods []string
	var key string
	order := map[string]int{"ctrl": 0, "alt": 1, "shift": 2}
	for _, p := range parts {
		lp := strings.ToLower(p)
		if _, isMod := order[lp]; isMod {
			mods = append(mods, lp)
			continue
		}
		key = lp
	}
	// stable-sort mods by fixed order
	for i := 1; i < len(mods); i++ {
		for j := i; j > 0 && order[mods[j]] < order[mods[j-1]]; j-- {
			mods[j], mods[j-1] = mods[j-1], mods[j]
		}
	}
	if key == "" {
		return strings.Join(mods, "+")
	}
	return strings.Join(append(mods, key), "+")
}
