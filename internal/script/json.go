package script

import (
	gjson "github.com/layeh/gopher-json"
	glua "github.com/yuin/gopher-lua"
)

// registerJSON exposes rune.json.encode/decode, backed by gopher-json —
// the natural companion to gopher-lua for the GMCP payloads scripts send
// and receive as Lua tables rather than raw strings.
func (e *Engine) registerJSON() {
	jsonTable := e.L.NewTable()
	e.L.SetField(e.runeTable, "json", jsonTable)

	// rune.json.encode(value): returns a JSON string.
	e.L.SetField(jsonTable, "encode", e.L.NewFunction(func(L *glua.LState) int {
		data, err := gjson.Encode(L.CheckAny(1))
		if err != nil {
			L.RaiseError("json.encode: %s", err)
			return 0
		}
		L.Push(glua.LString(data))
		return 1
	}))

	// rune.json.decode(str): returns a Lua value (table/string/number/...).
	e.L.SetField(jsonTable, "decode", e.L.NewFunction(func(L *glua.LState) int {
		str := L.CheckString(1)
		v, err := gjson.Decode(L, []byte(str))
		if err != nil {
			L.Push(glua.LNil)
			L.Push(glua.LString(err.Error()))
			return 2
		}
		L.Push(v)
		return 1
	}))
}
