package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatchScript(t *testing.T) {
	sys := newTestSystem(t, testCharacter(t), testCharacter(t))
	ms := NewMatchScript(sys)
	defer ms.Close()

	src := `
match.input(1, "F")
match.step(10)
local x, y = match.pos(1)
assert(x == 320, "walked to " .. x)
assert(y == 200, "left the ground: " .. y)
assert(match.action(1) == "walk_forward", match.action(1))

match.release(1)
match.input(1, "lp")
match.step(1)
match.release(1)
assert(match.action(1) == "light_punch", match.action(1))

match.step(5)
assert(match.stamina(2) == 90, "stamina " .. match.stamina(2))
assert(match.meter(2) == 0)
assert(match.action(2) == "hit_stand", match.action(2))

local state, winner = match.status()
assert(state == "in_progress", state)
assert(winner == 0, winner)
assert(not match.over())
assert(match.winner() == 0)
`
	if err := ms.DoString(src); err != nil {
		t.Fatal(err)
	}
}

func TestMatchScriptReset(t *testing.T) {
	sys := newTestSystem(t, heavyCharacter(t), testCharacter(t))
	ms := NewMatchScript(sys)
	defer ms.Close()

	src := `
match.input(1, "lp")
match.step(4)
local state, winner = match.status()
assert(state == "ko", state)
assert(winner == 1, winner)

match.reset()
match.step(1)
state = match.status()
assert(state == "in_progress", state)
assert(match.stamina(2) == 100)
`
	if err := ms.DoString(src); err != nil {
		t.Fatal(err)
	}
}

func TestMatchScriptBadPlayer(t *testing.T) {
	sys := newTestSystem(t, testCharacter(t), testCharacter(t))
	ms := NewMatchScript(sys)
	defer ms.Close()
	err := ms.DoString(`match.input(3, "lp")`)
	if err == nil || !strings.Contains(err.Error(), "player") {
		t.Errorf("err = %v, want player range error", err)
	}
	if err := ms.DoString(`match.input(1, "xx")`); err == nil {
		t.Error("bad symbol accepted")
	}
}

func TestRunMatchScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drive.lua")
	src := "match.input(2, \"B\")\nmatch.step(10)\nassert(match.pos(2) == 360)\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	sys := newTestSystem(t, testCharacter(t), testCharacter(t))
	if err := RunMatchScript(sys, path); err != nil {
		t.Fatal(err)
	}
	if err := RunMatchScript(sys, filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing script")
	}
}
