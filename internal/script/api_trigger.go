package script

import glua "github.com/yuin/gopher-lua"

// registerTriggerFuncs registers rune.add_trigger / rune.remove_trigger.
func (e *Engine) registerTriggerFuncs() {
	// rune.add_trigger(pattern, opts, fn): opts is a table with optional
	// gag (bool) and prompt (bool) fields. Returns an id shared with prompt
	// triggers, so remove_trigger needs no table hint.
	e.L.SetField(e.runeTable, "add_trigger", e.L.NewFunction(func(L *glua.LState) int {
		pattern := L.CheckString(1)
		opts := L.OptTable(2, L.NewTable())
		fn := L.CheckFunction(3)

		gag := glua.LVAsBool(opts.RawGetString("gag"))
		prompt := glua.LVAsBool(opts.RawGetString("prompt"))

		id, err := e.registerTrigger(pattern, gag, prompt, fn)
		if err != nil {
			L.RaiseError("add_trigger: %s", err)
			return 0
		}
		L.Push(glua.LNumber(id))
		return 1
	}))

	// rune.remove_trigger(id)
	e.L.SetField(e.runeTable, "remove_trigger", e.L.NewFunction(func(L *glua.LState) int {
		e.removeTrigger(L.CheckInt(1))
		return 0
	}))
}
