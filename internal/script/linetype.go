package script

import (
	"github.com/mudshell/mudshell/internal/line"
	glua "github.com/yuin/gopher-lua"
)

const luaLineTypeName = "line"

// registerLineType registers the Line userdata type with the Lua state.
// Called once per Engine.Reset.
func registerLineType(L *glua.LState) {
	mt := L.NewTypeMetatable(luaLineTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), lineMethods))
}

// newLine wraps a line.Line as Lua userdata and pushes it onto the stack.
func newLine(L *glua.LState, l line.Line) *glua.LUserData {
	ud := L.NewUserData()
	ud.Value = &l
	L.SetMetatable(ud, L.GetTypeMetatable(luaLineTypeName))
	return ud
}

func checkLine(L *glua.LState, n int) *line.Line {
	ud := L.CheckUserData(n)
	if v, ok := ud.Value.(*line.Line); ok {
		return v
	}
	L.ArgError(n, "line expected")
	return nil
}

var lineMethods = map[string]glua.LGFunction{
	"raw":   lineRaw,
	"line":  lineClean,
	"clean": lineClean,
	"gag":   lineGag,
	"matched": func(L *glua.LState) int {
		L.Push(glua.LBool(checkLine(L, 1).Matched))
		return 1
	},
}

// lineRaw returns the line with ANSI styling intact. Usage: line:raw()
func lineRaw(L *glua.LState) int {
	L.Push(glua.LString(checkLine(L, 1).Raw))
	return 1
}

// lineClean returns the line with ANSI styling stripped. Usage: line:line() / line:clean()
func lineClean(L *glua.LState) int {
	L.Push(glua.LString(checkLine(L, 1).Clean))
	return 1
}

// lineGag sets or reads the gag flag. Usage: line:gag() / line:gag(true)
func lineGag(L *glua.LState) int {
	l := checkLine(L, 1)
	if L.GetTop() >= 2 {
		l.Gag = L.CheckBool(2)
		return 0
	}
	L.Push(glua.LBool(l.Gag))
	return 1
}
