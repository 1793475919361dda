package script

import glua "github.com/yuin/gopher-lua"

// registerTimerFuncs registers rune.add_timer / rune.remove_timer. Actual
// scheduling lives in the host's timer.Service; the engine only tracks
// which callback a timer id maps to, so OnTimer can run it once the main
// loop observes the fired event.
func (e *Engine) registerTimerFuncs() {
	// rune.add_timer(seconds, repeat, fn): returns an id for remove_timer.
	e.L.SetField(e.runeTable, "add_timer", e.L.NewFunction(func(L *glua.LState) int {
		seconds := L.CheckNumber(1)
		repeat := L.CheckBool(2)
		fn := L.CheckFunction(3)

		id := e.host.ScheduleTimer(toDuration(seconds), repeat)
		e.timerCallbacks[id] = fn

		L.Push(glua.LNumber(id))
		return 1
	}))

	// rune.remove_timer(id)
	e.L.SetField(e.runeTable, "remove_timer", e.L.NewFunction(func(L *glua.LState) int {
		id := L.CheckInt(1)
		e.host.CancelTimer(id)
		delete(e.timerCallbacks, id)
		return 0
	}))
}
