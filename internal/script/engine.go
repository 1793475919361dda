// Package script embeds a sandboxed Lua VM and the native rule tables
// (aliases, triggers, GMCP listeners, keybindings, timed functions) that
// back the scripting surface. All Engine methods are called from the
// session's single main-loop goroutine; the Lua state is never touched
// concurrently.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	glua "github.com/yuin/gopher-lua"

	"github.com/mudshell/mudshell/internal/line"
)

// Engine owns the Lua VM and the native dispatch tables it backs.
type Engine struct {
	L          *glua.LState
	host       Host
	runeTable  *glua.LTable
	regexCache *lru.Cache[string, *regexp.Regexp]

	aliases        []*Alias
	triggers       []*Trigger
	promptTriggers []*Trigger
	gmcpListeners  map[string]*glua.LFunction
	keybindings    map[string]*glua.LFunction
	timerCallbacks map[int]*glua.LFunction

	aliasSeq   int
	triggerSeq int

	configDir string
}

// NewEngine creates an engine bound to host. Call Reset before use.
func NewEngine(host Host) *Engine {
	return &Engine{host: host}
}

// Reset tears down any existing Lua state and reinitializes a fresh
// sandbox: empty rule tables, cancelled timers, a clean regex cache. Called
// on startup and whenever the user script is hot-reloaded (spec.md's
// "reload tears down and reinstantiates the sandbox" requirement).
func (e *Engine) Reset(configDir string) error {
	e.host.CancelAllTimers()

	if e.L != nil {
		e.L.Close()
	}

	e.L = glua.NewState()
	cache, _ := lru.New[string, *regexp.Regexp](256)
	e.regexCache = cache
	e.aliases = nil
	e.triggers = nil
	e.promptTriggers = nil
	e.gmcpListeners = make(map[string]*glua.LFunction)
	e.keybindings = make(map[string]*glua.LFunction)
	e.timerCallbacks = make(map[int]*glua.LFunction)
	e.aliasSeq = 0
	e.triggerSeq = 0
	e.configDir = configDir

	registerLineType(e.L)

	e.runeTable = e.L.NewTable()
	e.L.SetGlobal("rune", e.runeTable)

	e.registerCoreFuncs()
	e.registerAliasFuncs()
	e.registerTriggerFuncs()
	e.registerGMCPFuncs()
	e.registerBindFuncs()
	e.registerTimerFuncs()
	e.registerRegexFuncs()
	e.registerJSON()

	e.L.SetField(e.runeTable, "config_dir", glua.LString(configDir))

	initPath := filepath.Join(configDir, "init.lua")
	if _, err := os.Stat(initPath); err == nil {
		if err := e.L.DoFile(initPath); err != nil {
			return fmt.Errorf("script: loading %s: %w", initPath, err)
		}
	}
	return nil
}

// LoadFile executes an additional user script against the live sandbox,
// e.g. in response to a /load command.
func (e *Engine) LoadFile(path string) error {
	if err := e.L.DoFile(path); err != nil {
		return fmt.Errorf("script: loading %s: %w", path, err)
	}
	return nil
}

// Close releases the Lua state.
func (e *Engine) Close() {
	if e.L != nil {
		e.host.CancelAllTimers()
		e.L.Close()
	}
}

// compile resolves pattern through the LRU cache, compiling on miss.
func (e *Engine) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := e.regexCache.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	e.regexCache.Add(pattern, re)
	return re, nil
}

// CallHook invokes an optional global Lua function by name (on_connect,
// on_disconnect, on_gmcp_ready), silently doing nothing if undefined.
// Hook latching (on_connect firing once per Idle->Connected edge) is the
// session's concern, not the engine's.
func (e *Engine) CallHook(name string, args ...string) {
	fn, ok := e.L.GetGlobal(name).(*glua.LFunction)
	if !ok {
		return
	}
	e.L.Push(fn)
	for _, a := range args {
		e.L.Push(glua.LString(a))
	}
	if err := e.L.PCall(len(args), 0, nil); err != nil {
		e.host.Output(fmt.Sprintf("[script error in %s: %s]", name, err))
	}
}

// CheckAliasMatch tests input against every registered alias. Every matching
// alias's callback runs, with the regex capture groups as arguments; callback
// return values are ignored. Returns true if any alias matched, in which case
// the caller does not send the input to the server.
func (e *Engine) CheckAliasMatch(input *line.Line) bool {
	if input.BypassScript {
		return false
	}
	matched := false
	for _, a := range e.aliases {
		re, err := e.compile(a.Pattern)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(input.Clean)
		if m == nil {
			continue
		}
		matched = true
		e.call(a.fn, m, newLine(e.L, *input))
	}
	return matched
}

// CheckTriggerMatch tests l against every line trigger, setting
// l.Matched/l.Gag as a side effect. As with aliases, every matching trigger
// fires (not just the first).
func (e *Engine) CheckTriggerMatch(l *line.Line) bool {
	return e.matchTriggers(e.triggers, l)
}

// CheckPromptTriggerMatch tests l against every prompt trigger.
func (e *Engine) CheckPromptTriggerMatch(l *line.Line) bool {
	return e.matchTriggers(e.promptTriggers, l)
}

func (e *Engine) matchTriggers(table []*Trigger, l *line.Line) bool {
	matched := false
	for _, t := range table {
		re, err := e.compile(t.Pattern)
		if err != nil {
			continue
		}
		m := re.FindStringSubmatch(l.Clean)
		if m == nil {
			continue
		}
		matched = true
		if t.Gag {
			l.Gag = true
		}
		e.call(t.fn, m, newLine(e.L, *l))
	}
	if matched {
		l.Matched = true
	}
	return matched
}

// DispatchGMCP invokes the listener registered for the exact msgType, if
// any, with body as its sole argument.
func (e *Engine) DispatchGMCP(msgType, body string) {
	fn, ok := e.gmcpListeners[msgType]
	if !ok {
		return
	}
	e.L.Push(fn)
	e.L.Push(glua.LString(body))
	if err := e.L.PCall(1, 0, nil); err != nil {
		e.host.Output(fmt.Sprintf("[script error in gmcp listener %s: %s]", msgType, err))
	}
}

// HandleKeyBind runs the callback bound to key (the exact name passed to
// add_binding, e.g. "ctrl-r" as produced by the UI), returning true if a
// binding existed.
func (e *Engine) HandleKeyBind(key string) bool {
	fn, ok := e.keybindings[key]
	if !ok {
		return false
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, 0, nil); err != nil {
		e.host.Output(fmt.Sprintf("[script error in binding %s: %s]", key, err))
	}
	return true
}

// OnTimer runs the callback registered for a fired timer. One-shot timers
// are forgotten after firing; repeating timers keep their callback.
func (e *Engine) OnTimer(id int, repeat bool) {
	fn, ok := e.timerCallbacks[id]
	if !ok {
		return
	}
	if !repeat {
		delete(e.timerCallbacks, id)
	}
	e.L.Push(fn)
	if err := e.L.PCall(0, 0, nil); err != nil {
		e.host.Output(fmt.Sprintf("[script error in timer %d: %s]", id, err))
	}
}

// call invokes fn with regex capture groups (m[0] is the whole match) plus
// l, reporting any error to the host instead of aborting dispatch — a
// single broken callback must never take down the rest of the match set.
func (e *Engine) call(fn *glua.LFunction, m []string, l *glua.LUserData) {
	e.L.Push(fn)
	nargs := 0
	for _, g := range m {
		e.L.Push(glua.LString(g))
		nargs++
	}
	e.L.Push(l)
	nargs++
	if err := e.L.PCall(nargs, 0, nil); err != nil {
		e.host.Output(fmt.Sprintf("[script error: %s]", err))
	}
}

// toDuration converts a Lua seconds value to a Go duration.
func toDuration(seconds glua.LNumber) time.Duration {
	return time.Duration(float64(seconds) * float64(time.Second))
}
