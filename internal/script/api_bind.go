package script

import glua "github.com/yuin/gopher-lua"

// registerBindFuncs registers rune.add_binding / rune.remove_binding.
func (e *Engine) registerBindFuncs() {
	// rune.add_binding(key, fn): key is the chord name the UI dispatches,
	// built by command.HumanKey, e.g. "ctrl-r", "alt-x", "f1".
	e.L.SetField(e.runeTable, "add_binding", e.L.NewFunction(func(L *glua.LState) int {
		key := L.CheckString(1)
		fn := L.CheckFunction(2)
		e.keybindings[key] = fn
		return 0
	}))

	// rune.remove_binding(key)
	e.L.SetField(e.runeTable, "remove_binding", e.L.NewFunction(func(L *glua.LState) int {
		delete(e.keybindings, L.CheckString(1))
		return 0
	}))
}

// BoundKeys returns every currently-bound key chord, e.g. for a /bindings
// CLI listing.
func (e *Engine) BoundKeys() []string {
	keys := make([]string, 0, len(e.keybindings))
	for k := range e.keybindings {
		keys = append(keys, k)
	}
	return keys
}
