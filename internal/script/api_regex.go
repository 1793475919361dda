package script

import glua "github.com/yuin/gopher-lua"

// registerRegexFuncs registers rune.regex.match, exposing the same
// LRU-cached Go regexp engine that drives alias/trigger matching so scripts
// can test patterns ad hoc without registering a trigger.
func (e *Engine) registerRegexFuncs() {
	regexTable := e.L.NewTable()
	e.L.SetField(e.runeTable, "regex", regexTable)

	// rune.regex.match(pattern, text): returns a 1-indexed table of
	// [full_match, group1, group2, ...], or nil if no match.
	e.L.SetField(regexTable, "match", e.L.NewFunction(func(L *glua.LState) int {
		pattern := L.CheckString(1)
		text := L.CheckString(2)

		re, err := e.compile(pattern)
		if err != nil {
			L.Push(glua.LNil)
			L.Push(glua.LString(err.Error()))
			return 2
		}

		m := re.FindStringSubmatch(text)
		if m == nil {
			L.Push(glua.LNil)
			return 1
		}

		tbl := L.NewTable()
		for i, g := range m {
			tbl.RawSetInt(i+1, glua.LString(g))
		}
		L.Push(tbl)
		return 1
	}))
}
