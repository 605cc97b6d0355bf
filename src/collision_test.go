package main

import "testing"

func TestWorldRectMirror(t *testing.T) {
	off, size := [2]int32{20, -70}, [2]int32{30, 60}
	pos := [2]int32{100, 200}
	right := worldRect(off, size, pos, 1)
	if right != [4]int32{120, 130, 150, 190} {
		t.Errorf("facing right = %v", right)
	}
	left := worldRect(off, size, pos, -1)
	if left != [4]int32{50, 130, 80, 190} {
		t.Errorf("facing left = %v", left)
	}
}

func TestRectGapX(t *testing.T) {
	a := [4]int32{0, 0, 10, 10}
	b := [4]int32{25, 0, 30, 10}
	if g := rectGapX(a, b); g != 15 {
		t.Errorf("gap = %d, want 15", g)
	}
	if g := rectGapX(b, a); g != 15 {
		t.Errorf("gap should be symmetric, got %d", g)
	}
	c := [4]int32{5, 0, 25, 10}
	if g := rectGapX(a, c); g != 0 {
		t.Errorf("overlapping gap = %d, want 0", g)
	}
}

func TestStandingBlock(t *testing.T) {
	sys := newTestSystem(t, testCharacter(t), testCharacter(t))
	in := [2]InputBits{0, press(-1, "B")}
	events := stepN(sys, 1, [2]InputBits{IB_lp, in[1]})
	events = append(events, stepN(sys, 3, in)...)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if !ev.Blocked || ev.Damage != 2 || ev.StunTicks != 6 || ev.DizzyStun != 0 {
		t.Errorf("blocked event = %+v", ev)
	}
	if ev.Knockback != [2]int32{6, 0} {
		t.Errorf("blocked knockback = %v, want halved {6,0}", ev.Knockback)
	}
	p2 := sys.Char(1)
	if p2.life != 98 {
		t.Errorf("P2 life = %d, want 98", p2.life)
	}
	if p2.action.Name != "block_stand" {
		t.Errorf("P2 action = %q, want block_stand", p2.action.Name)
	}
}

func TestCrouchingBlock(t *testing.T) {
	sys := newTestSystem(t, testCharacter(t), testCharacter(t))
	in := [2]InputBits{0, press(-1, "B+D")}
	events := stepN(sys, 1, [2]InputBits{IB_lp, in[1]})
	events = append(events, stepN(sys, 3, in)...)

	if len(events) != 1 || !events[0].Blocked {
		t.Fatalf("events = %+v", events)
	}
	if got := sys.Char(1).action.Name; got != "block_crouch" {
		t.Errorf("P2 action = %q, want block_crouch", got)
	}
}

// A low guard only covers hitboxes flagged blockable-low; everything
// else lands as a clean hit.
func TestLowGuardDoesNotCoverOverhead(t *testing.T) {
	actions := baseActions(t)
	actions[lightPunchIdx].Frames[1].Hitboxes[0].BlockLow = false
	sys := newTestSystem(t, buildCharacter(t, actions), testCharacter(t))

	in := [2]InputBits{0, press(-1, "B+D")}
	events := stepN(sys, 1, [2]InputBits{IB_lp, in[1]})
	events = append(events, stepN(sys, 3, in)...)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Blocked || ev.Damage != 10 {
		t.Errorf("overhead vs low guard = %+v, want a full hit", ev)
	}
	if got := sys.Char(1).action.Name; got != "hit_crouch" {
		t.Errorf("P2 action = %q, want hit_crouch", got)
	}
}

func TestUnblockableIgnoresGuard(t *testing.T) {
	actions := baseActions(t)
	hb := &actions[lightPunchIdx].Frames[1].Hitboxes[0]
	hb.BlockHigh, hb.BlockLow = false, false
	sys := newTestSystem(t, buildCharacter(t, actions), testCharacter(t))

	in := [2]InputBits{0, press(-1, "B")}
	events := stepN(sys, 1, [2]InputBits{IB_lp, in[1]})
	events = append(events, stepN(sys, 3, in)...)

	if len(events) != 1 || events[0].Blocked || events[0].Damage != 10 {
		t.Errorf("unblockable vs guard = %+v, want a full hit", events)
	}
}

// Trading while a counter window is open amplifies both events.
func TestCounterHitTrade(t *testing.T) {
	build := func() *CharacterData {
		actions := baseActions(t)
		actions[lightPunchIdx].CounterWindow = [2]int32{0, 2}
		return buildCharacter(t, actions)
	}
	sys := newTestSystem(t, build(), build())
	in := [2]InputBits{IB_lp, press(-1, "lp")}
	events := stepN(sys, 1, in)
	events = append(events, stepN(sys, 4, noInput)...)

	if len(events) != 2 {
		t.Fatalf("got %d events, want one per ordered pair", len(events))
	}
	for _, ev := range events {
		if !ev.Counter {
			t.Errorf("event not flagged counter: %+v", ev)
		}
		if ev.Damage != 15 || ev.StunTicks != 18 {
			t.Errorf("counter scaling = %+v, want damage 15 stun 18", ev)
		}
	}
	if l0, l1 := sys.Char(0).life, sys.Char(1).life; l0 != 85 || l1 != 85 {
		t.Errorf("life after trade = %d, %d, want 85 each", l0, l1)
	}
}

func TestOneEventPerOrderedPair(t *testing.T) {
	actions := baseActions(t)
	// Two overlapping hitboxes on the active frame still yield one event
	fr := &actions[lightPunchIdx].Frames[1]
	fr.Hitboxes = append(fr.Hitboxes, punchHitbox())
	sys := newTestSystem(t, buildCharacter(t, actions), testCharacter(t))

	events := stepN(sys, 1, [2]InputBits{IB_lp, 0})
	events = append(events, stepN(sys, 5, noInput)...)
	if len(events) != 1 {
		t.Errorf("got %d events, want 1", len(events))
	}
}

func TestInvulnerableDefenderSkipped(t *testing.T) {
	sys := newTestSystem(t, testCharacter(t), testCharacter(t))
	sys.Char(1).invulnTicks = 1 << 20
	events := stepN(sys, 1, [2]InputBits{IB_lp, 0})
	events = append(events, stepN(sys, 10, noInput)...)
	if len(events) != 0 {
		t.Errorf("got %d events against an invulnerable defender", len(events))
	}
}

// A multi-hit action re-arms on frame advance once the cooldown has
// elapsed; hits land on the first and third active frames here.
func TestMultiHitCooldown(t *testing.T) {
	actions := baseActions(t)
	active := FrameDefinition{Duration: 4, Cancel: CT_None, SoundCue: -1,
		Hurtboxes: stdHurt(), Hitboxes: []Hitbox{punchHitbox()}}
	rapid := ActionDefinition{
		Name:     "rapid_kicks",
		Priority: 2,
		MultiHit: true,
		Input:    mustSeq(t, "rapid_kicks", "mk"),
		Frames:   []FrameDefinition{active, active, active, active},
	}
	actions = append(actions, rapid)
	sys := newTestSystem(t, buildCharacter(t, actions), testCharacter(t))

	events := stepN(sys, 1, [2]InputBits{IB_mk, 0})
	events = append(events, stepN(sys, 19, noInput)...)
	if len(events) != 2 {
		t.Fatalf("multi-hit landed %d times, want 2", len(events))
	}
	if got := sys.Char(1).life; got != 80 {
		t.Errorf("P2 life = %d, want 80", got)
	}
}

func TestLaunchAndKnockdown(t *testing.T) {
	actions := baseActions(t)
	hb := &actions[lightPunchIdx].Frames[1].Hitboxes[0]
	hb.Effect = HE_Launch
	hb.Knockback = [2]int32{10, -40}
	sys := newTestSystem(t, buildCharacter(t, actions), testCharacter(t))

	stepN(sys, 1, [2]InputBits{IB_lp, 0})
	stepN(sys, 3, noInput)
	p2 := sys.Char(1)
	if p2.action.Name != "launch" {
		t.Fatalf("P2 action = %q on launch hit, want launch", p2.action.Name)
	}
	stepN(sys, 6, noInput)
	if !p2.airborne() {
		t.Error("launched defender never left the ground")
	}
	stepN(sys, 60, noInput)
	if p2.pos[1] != sys.arena.Ground {
		t.Errorf("defender hanging at y=%d", p2.pos[1])
	}
	if p2.action.Name != "stand" {
		t.Errorf("P2 action = %q after rise, want stand", p2.action.Name)
	}
}

func TestTripEffect(t *testing.T) {
	actions := baseActions(t)
	actions[lightPunchIdx].Frames[1].Hitboxes[0].Effect = HE_Trip
	sys := newTestSystem(t, buildCharacter(t, actions), testCharacter(t))

	stepN(sys, 1, [2]InputBits{IB_lp, 0})
	stepN(sys, 3, noInput)
	if got := sys.Char(1).action.Name; got != "trip" {
		t.Fatalf("P2 action = %q, want trip", got)
	}
	stepN(sys, 12, noInput)
	if got := sys.Char(1).action.Name; got != "knockdown_rise" {
		t.Errorf("P2 action = %q after trip, want knockdown_rise", got)
	}
}
