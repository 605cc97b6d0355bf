package main

import "testing"

// Test characters are built in code so each test controls the frame
// data exactly. Geometry: the origin sits at the feet, y grows
// downward and the standing hurtbox spans 40x80 above the feet.

func stdHurt() []Hurtbox {
	return []Hurtbox{{Offset: [2]int32{-20, -80}, Size: [2]int32{40, 80}}}
}

func crouchHurt() []Hurtbox {
	return []Hurtbox{{Offset: [2]int32{-20, -40}, Size: [2]int32{40, 40}}}
}

func idleFrame(dur int32) FrameDefinition {
	return FrameDefinition{Duration: dur, Cancel: CT_Any, SoundCue: -1, Hurtboxes: stdHurt()}
}

func plainAction(name string, frames ...FrameDefinition) ActionDefinition {
	return ActionDefinition{Name: name, SpritesheetPath: name + ".png", Frames: frames}
}

func mustSeq(t *testing.T, name, s string) *InputSequence {
	t.Helper()
	seq, err := ReadSequence(name, s)
	if err != nil {
		t.Fatalf("ReadSequence(%q): %v", s, err)
	}
	return seq
}

// punchHitbox reaches 30px ahead of the origin and is tall enough to
// connect with a crouching opponent.
func punchHitbox() Hitbox {
	return Hitbox{
		Offset:    [2]int32{20, -70},
		Size:      [2]int32{30, 60},
		Damage:    10,
		Hitstun:   12,
		Blockstun: 6,
		Knockback: [2]int32{12, 0},
		DizzyStun: 5,
		BlockHigh: true,
		BlockLow:  true,
	}
}

// attackAction is the shared 3-start 2-active 4-recovery shape used by
// most test attacks.
func attackAction(t *testing.T, name, input string, priority int32, hb Hitbox) ActionDefinition {
	t.Helper()
	return ActionDefinition{
		Name:            name,
		SpritesheetPath: name + ".png",
		Priority:        priority,
		Input:           mustSeq(t, name, input),
		Frames: []FrameDefinition{
			{Duration: 3, Cancel: CT_None, SoundCue: -1, Hurtboxes: stdHurt()},
			{Duration: 2, Cancel: CT_None, SoundCue: 0, Hurtboxes: stdHurt(), Hitboxes: []Hitbox{hb}},
			{Duration: 4, Cancel: CT_None, SoundCue: -1, Hurtboxes: stdHurt()},
		},
	}
}

func reactionAction(name string, hurt []Hurtbox) ActionDefinition {
	return ActionDefinition{Name: name, Frames: []FrameDefinition{
		{Duration: 4, Cancel: CT_None, SoundCue: -1, Hurtboxes: hurt},
	}}
}

// baseActions lays out the fifteen defaults plus a light punch at
// index 15. Tests mutate or append before building the table.
const lightPunchIdx = 15

func baseActions(t *testing.T) []ActionDefinition {
	t.Helper()
	jump := ActionDefinition{
		Name:      "jump",
		Condition: AC_Airborne,
		Frames: []FrameDefinition{
			{Duration: 6, Cancel: CT_None, SoundCue: -1, MoveY: -60, Hurtboxes: stdHurt()},
			{Duration: 4, Cancel: CT_None, SoundCue: -1, Hurtboxes: stdHurt()},
			{Duration: 6, Cancel: CT_None, SoundCue: -1, MoveY: 60, Hurtboxes: stdHurt()},
		},
	}
	return []ActionDefinition{
		plainAction("stand", idleFrame(4), idleFrame(4)),
		plainAction("walk_forward", FrameDefinition{
			Duration: 4, Cancel: CT_Any, SoundCue: -1, MoveX: 8, Hurtboxes: stdHurt(),
		}),
		plainAction("walk_backward", FrameDefinition{
			Duration: 4, Cancel: CT_Any, SoundCue: -1, MoveX: -8, Hurtboxes: stdHurt(),
		}),
		plainAction("crouch", FrameDefinition{
			Duration: 4, Cancel: CT_Any, SoundCue: -1, Hurtboxes: crouchHurt(),
		}),
		jump,
		reactionAction("block_stand", stdHurt()),
		reactionAction("block_crouch", crouchHurt()),
		reactionAction("hit_stand", stdHurt()),
		reactionAction("hit_crouch", crouchHurt()),
		reactionAction("trip", nil),
		reactionAction("launch", nil),
		reactionAction("knockdown_rise", stdHurt()),
		reactionAction("dizzy", stdHurt()),
		reactionAction("ko", nil),
		reactionAction("victory", stdHurt()),
		attackAction(t, "light_punch", "lp", 1, punchHitbox()),
	}
}

func baseDefaults() map[string]ActionIndex {
	return map[string]ActionIndex{
		DA_Stand: 0, DA_WalkForward: 1, DA_WalkBackward: 2, DA_Crouch: 3,
		DA_Jump: 4, DA_BlockStand: 5, DA_BlockCrouch: 6, DA_HitStand: 7,
		DA_HitCrouch: 8, DA_Trip: 9, DA_Launch: 10, DA_Rise: 11,
		DA_Dizzy: 12, DA_KO: 13, DA_Victory: 14,
	}
}

func mustTable(t *testing.T, actions []ActionDefinition, defaults map[string]ActionIndex) *ActionTable {
	t.Helper()
	at, err := NewActionTable(actions, defaults)
	if err != nil {
		t.Fatalf("NewActionTable: %v", err)
	}
	return at
}

func buildCharacter(t *testing.T, actions []ActionDefinition, projs ...ProjectileData) *CharacterData {
	t.Helper()
	return &CharacterData{
		Name:          "tester",
		Speed:         120,
		Stamina:       100,
		StunThreshold: 30,
		Table:         mustTable(t, actions, baseDefaults()),
		Projectiles:   projs,
	}
}

func testCharacter(t *testing.T) *CharacterData {
	t.Helper()
	return buildCharacter(t, baseActions(t))
}

// testStage spawns the fighters a punch length apart next to the right
// wall so retreat tests run out of room quickly.
func testStage() *StageData {
	sd := &StageData{Name: "test", Left: 0, Right: 360, Ground: 200}
	sd.Spawn.P1, sd.Spawn.P2 = 300, 340
	return sd
}

func newTestSystem(t *testing.T, p1, p2 *CharacterData) *System {
	t.Helper()
	cfg := defaultTestConfig()
	cfg.Options.RoundTime = 0
	sys, err := NewSystem(cfg, testStage(), p1, p2)
	if err != nil {
		t.Fatalf("NewSystem: %v", err)
	}
	return sys
}

// press lowers logical symbols to device bits for the given facing, so
// tests can say "back" without tracking sides.
func press(facing int32, syms string) InputBits {
	seq, err := ReadSequence("press", syms)
	if err != nil {
		panic(err)
	}
	var keys InputBits
	for _, step := range seq.steps {
		keys |= step
	}
	return logicalToDevice(keys, facing)
}

func stepN(sys *System, n int, in [2]InputBits) []HitEvent {
	var events []HitEvent
	for i := 0; i < n; i++ {
		out := sys.Step(in)
		events = append(events, out.Hits...)
	}
	return events
}
