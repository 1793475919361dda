package script

import glua "github.com/yuin/gopher-lua"

// registerAliasFuncs registers rune.add_alias / rune.remove_alias.
func (e *Engine) registerAliasFuncs() {
	// rune.add_alias(pattern, fn): returns an id for remove_alias.
	e.L.SetField(e.runeTable, "add_alias", e.L.NewFunction(func(L *glua.LState) int {
		pattern := L.CheckString(1)
		fn := L.CheckFunction(2)
		id, err := e.registerAlias(pattern, fn)
		if err != nil {
			L.RaiseError("add_alias: %s", err)
			return 0
		}
		L.Push(glua.LNumber(id))
		return 1
	}))

	// rune.remove_alias(id)
	e.L.SetField(e.runeTable, "remove_alias", e.L.NewFunction(func(L *glua.LState) int {
		e.removeAlias(L.CheckInt(1))
		return 0
	}))
}
