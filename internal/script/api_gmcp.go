package script

import glua "github.com/yuin/gopher-lua"

// registerGMCPFuncs registers rune.add_gmcp_receiver / rune.send_gmcp.
func (e *Engine) registerGMCPFuncs() {
	// rune.add_gmcp_receiver(type, fn): fn is called with (body) whenever a
	// GMCP message of the exact given type arrives. Re-registering for the
	// same type replaces the previous listener.
	e.L.SetField(e.runeTable, "add_gmcp_receiver", e.L.NewFunction(func(L *glua.LState) int {
		msgType := L.CheckString(1)
		fn := L.CheckFunction(2)
		e.registerGMCPListener(msgType, fn)
		return 0
	}))

	// rune.send_gmcp(msg): msg is "Type body" (or bare "Type" for an empty
	// body), forwarded to the network layer for framing and transmission.
	e.L.SetField(e.runeTable, "send_gmcp", e.L.NewFunction(func(L *glua.LState) int {
		e.host.SendGMCP(L.CheckString(1))
		return 0
	}))
}
