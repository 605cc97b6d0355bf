package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// MatchScript exposes a running match to Lua for tooling and scripted
// demos. Inputs set from the script are held until changed, the way a
// player keeps a direction pressed. Players are 1-based on the Lua
// side.
type MatchScript struct {
	ls   *lua.LState
	sys  *System
	held [2]InputBits // logical symbols currently held per player
}

func NewMatchScript(s *System) *MatchScript {
	ms := &MatchScript{ls: lua.NewState(), sys: s}
	ms.register()
	return ms
}

func (ms *MatchScript) Close() { ms.ls.Close() }

func (ms *MatchScript) DoFile(path string) error { return ms.ls.DoFile(path) }

func (ms *MatchScript) DoString(src string) error { return ms.ls.DoString(src) }

func (ms *MatchScript) register() {
	mod := ms.ls.NewTable()
	ms.ls.SetFuncs(mod, map[string]lua.LGFunction{
		"input":   ms.luaInput,
		"release": ms.luaRelease,
		"step":    ms.luaStep,
		"pos":     ms.luaPos,
		"stamina": ms.luaStamina,
		"meter":   ms.luaMeter,
		"action":  ms.luaAction,
		"status":  ms.luaStatus,
		"reset":   ms.luaReset,
		"over":    ms.luaOver,
		"winner":  ms.luaWinner,
	})
	ms.ls.SetGlobal("match", mod)
}

func (ms *MatchScript) checkPlayer(l *lua.LState) int32 {
	pn := l.CheckInt(1)
	if pn < 1 || pn > 2 {
		l.RaiseError("player must be 1 or 2, got %d", pn)
	}
	return int32(pn - 1)
}

// match.input(player, "D, F, lp") holds the given symbols; commas are
// accepted but only the combined set matters, so "F+lp" is the usual
// form.
func (ms *MatchScript) luaInput(l *lua.LState) int {
	pn := ms.checkPlayer(l)
	seq, err := ReadSequence("script", l.CheckString(2))
	if err != nil {
		l.RaiseError("%v", err)
	}
	var keys InputBits
	for _, step := range seq.steps {
		keys |= step
	}
	ms.held[pn] = keys
	return 0
}

func (ms *MatchScript) luaRelease(l *lua.LState) int {
	pn := ms.checkPlayer(l)
	ms.held[pn] = 0
	return 0
}

// logicalToDevice lowers held logical symbols back to device bits so
// they pass through the same facing resolution as real input.
func logicalToDevice(b InputBits, facing int32) InputBits {
	out := b & (IB_PU | IB_PD | IB_anybutton)
	if b&IB_F != 0 {
		if facing > 0 {
			out |= IB_PR
		} else {
			out |= IB_PL
		}
	}
	if b&IB_B != 0 {
		if facing > 0 {
			out |= IB_PL
		} else {
			out |= IB_PR
		}
	}
	return out
}

func (ms *MatchScript) luaStep(l *lua.LState) int {
	n := 1
	if l.GetTop() >= 1 {
		n = l.CheckInt(1)
	}
	for i := 0; i < n; i++ {
		in := [2]InputBits{
			logicalToDevice(ms.held[0], ms.sys.chars[0].facing),
			logicalToDevice(ms.held[1], ms.sys.chars[1].facing),
		}
		ms.sys.Step(in)
	}
	return 0
}

func (ms *MatchScript) luaPos(l *lua.LState) int {
	c := ms.sys.Char(ms.checkPlayer(l))
	l.Push(lua.LNumber(c.pos[0]))
	l.Push(lua.LNumber(c.pos[1]))
	return 2
}

func (ms *MatchScript) luaStamina(l *lua.LState) int {
	l.Push(lua.LNumber(ms.sys.Char(ms.checkPlayer(l)).life))
	return 1
}

func (ms *MatchScript) luaMeter(l *lua.LState) int {
	l.Push(lua.LNumber(ms.sys.Char(ms.checkPlayer(l)).meter))
	return 1
}

func (ms *MatchScript) luaAction(l *lua.LState) int {
	l.Push(lua.LString(ms.sys.Char(ms.checkPlayer(l)).action.Name))
	return 1
}

// match.status() -> "in_progress" | "ko" | "timeout", winner (0 = none)
func (ms *MatchScript) luaStatus(l *lua.LState) int {
	st := ms.sys.Status()
	var name string
	switch st.State {
	case RS_KO:
		name = "ko"
	case RS_TimeOut:
		name = "timeout"
	default:
		name = "in_progress"
	}
	l.Push(lua.LString(name))
	l.Push(lua.LNumber(st.Winner + 1))
	return 2
}

func (ms *MatchScript) luaReset(l *lua.LState) int {
	ms.sys.ResetRound()
	ms.held = [2]InputBits{}
	return 0
}

func (ms *MatchScript) luaOver(l *lua.LState) int {
	l.Push(lua.LBool(ms.sys.MatchOver()))
	return 1
}

func (ms *MatchScript) luaWinner(l *lua.LState) int {
	l.Push(lua.LNumber(ms.sys.MatchWinner() + 1))
	return 1
}

// RunMatchScript executes a Lua file against the system.
func RunMatchScript(s *System, path string) error {
	ms := NewMatchScript(s)
	defer ms.Close()
	if err := ms.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}
