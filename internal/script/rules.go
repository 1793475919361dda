package script

import (
	glua "github.com/yuin/gopher-lua"
)

// Alias is a pattern tested against outgoing command text.
type Alias struct {
	ID      int
	Pattern string
	fn      *glua.LFunction
}

// Trigger is a pattern tested against incoming lines or prompts. Triggers
// and prompt triggers share one id space (registerTrigger) so remove_trigger
// can look in either table without the caller naming which one.
type Trigger struct {
	ID      int
	Pattern string
	Gag     bool
	Prompt  bool
	fn      *glua.LFunction
}

func (e *Engine) nextTriggerID() int {
	e.triggerSeq++
	return e.triggerSeq
}

// registerAlias adds a compiled alias and returns its id.
func (e *Engine) registerAlias(pattern string, fn *glua.LFunction) (int, error) {
	if _, err := e.compile(pattern); err != nil {
		return 0, err
	}
	e.aliasSeq++
	id := e.aliasSeq
	e.aliases = append(e.aliases, &Alias{ID: id, Pattern: pattern, fn: fn})
	return id, nil
}

func (e *Engine) removeAlias(id int) {
	for i, a := range e.aliases {
		if a.ID == id {
			e.aliases = append(e.aliases[:i], e.aliases[i+1:]...)
			return
		}
	}
}

// registerTrigger adds a compiled trigger (line or prompt) and returns its id.
func (e *Engine) registerTrigger(pattern string, gag, prompt bool, fn *glua.LFunction) (int, error) {
	if _, err := e.compile(pattern); err != nil {
		return 0, err
	}
	id := e.nextTriggerID()
	t := &Trigger{ID: id, Pattern: pattern, Gag: gag, Prompt: prompt, fn: fn}
	if prompt {
		e.promptTriggers = append(e.promptTriggers, t)
	} else {
		e.triggers = append(e.triggers, t)
	}
	return id, nil
}

func (e *Engine) removeTrigger(id int) {
	for i, t := range e.triggers {
		if t.ID == id {
			e.triggers = append(e.triggers[:i], e.triggers[i+1:]...)
			return
		}
	}
	for i, t := range e.promptTriggers {
		if t.ID == id {
			e.promptTriggers = append(e.promptTriggers[:i], e.promptTriggers[i+1:]...)
			return
		}
	}
}

// registerGMCPListener binds fn to msgType, replacing any existing listener
// for the same type: at most one listener per message type.
func (e *Engine) registerGMCPListener(msgType string, fn *glua.LFunction) {
	e.gmcpListeners[msgType] = fn
}
