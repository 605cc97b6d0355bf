package main

// MeterMax is the capacity of the special gauge.
const MeterMax = 100

// CharStateFlag is a bitmask of a character's active status flags.
type CharStateFlag int32

const (
	CSF_guarding CharStateFlag = 1 << iota
	CSF_guardlow
	CSF_counter
	CSF_reaction // forced reaction (hitstun, blockstun, trip, launch, dizzy, ko)
	CSF_blockstun
	CSF_knockdown
	CSF_dizzy
	CSF_ko
	CSF_hitThisAction // current action landed at least one hit
)

// Char owns one character's live state and advances it one tick at a
// time. Transitions out of the current action are decided dynamically
// each tick from the action table, the motion matcher and the
// character's situation; there is no static transition graph.
type Char struct {
	id    int32
	data  *CharacterData
	table *ActionTable
	cfg   *Config
	arena *Arena
	enemy *Char

	buffer *InputBuffer

	pos    [2]int32
	vel    [2]int32 // translation applied this tick
	facing int32    // 1 faces right, -1 faces left

	life  int32
	meter int32
	stun  int32 // dizzy accumulator

	actionIdx  ActionIndex
	action     *ActionDefinition
	frameIdx   int32
	frameTicks int32 // remaining display ticks of the current frame

	stunTicks   int32 // remaining forced-reaction ticks
	invulnTicks int32
	kb          [2]int32 // knockback being applied over the reaction
	kbTotal     int32
	kbTicks     int32

	hitArmed    bool
	lastHitTick int32
	flags       CharStateFlag

	now      int32
	soundCue int32             // cue fired this tick, -1 for none
	spawns   []ProjectileIndex // projectile spawns requested this tick
}

func NewChar(id int32, data *CharacterData, cfg *Config, arena *Arena) *Char {
	c := &Char{
		id:    id,
		data:  data,
		table: data.Table,
		cfg:   cfg,
		arena: arena,
	}
	depth := data.Table.LongestSequence() + int(cfg.Input.BufferPadding)
	c.buffer = NewInputBuffer(depth)
	return c
}

func (c *Char) resetRound(spawnX, facing int32) {
	c.pos = [2]int32{spawnX, c.arena.Ground}
	c.vel = [2]int32{}
	c.facing = facing
	c.life = c.data.Stamina
	c.meter = 0
	c.stun = 0
	c.stunTicks = 0
	c.invulnTicks = 0
	c.kb = [2]int32{}
	c.kbTotal, c.kbTicks = 0, 0
	c.flags = 0
	c.lastHitTick = -1 << 30
	c.soundCue = -1
	c.spawns = nil
	c.buffer.Reset()
	c.actionIdx = c.table.Default(DA_Stand)
	c.action = c.table.Action(c.actionIdx)
	c.hitArmed = true
	c.setFrame(0)
}

func (c *Char) csf(f CharStateFlag) bool { return c.flags&f != 0 }
func (c *Char) setCSF(f CharStateFlag)   { c.flags |= f }
func (c *Char) unsetCSF(f CharStateFlag) { c.flags &^= f }

func (c *Char) airborne() bool { return c.pos[1] < c.arena.Ground }

func (c *Char) crouching() bool {
	return c.actionIdx == c.table.Default(DA_Crouch) ||
		c.actionIdx == c.table.Default(DA_BlockCrouch) ||
		c.actionIdx == c.table.Default(DA_HitCrouch)
}

func (c *Char) situation() ActionCondition {
	if c.airborne() {
		return AC_Airborne
	}
	if c.crouching() {
		return AC_Crouching
	}
	return AC_Standing
}

func (c *Char) invulnerable() bool {
	return c.invulnTicks > 0 || c.csf(CSF_ko)
}

func (c *Char) curFrame() *FrameDefinition {
	return &c.action.Frames[c.frameIdx]
}

func (c *Char) setFrame(idx int32) {
	c.frameIdx = idx
	fr := &c.action.Frames[idx]
	c.frameTicks = fr.Duration
	if fr.SoundCue >= 0 {
		c.soundCue = fr.SoundCue
	}
	c.spawns = append(c.spawns, fr.Projectiles...)
	// Multi-hit actions re-arm on frame advance once the cooldown has
	// elapsed; single-hit actions stay spent until the next action.
	if !c.hitArmed && c.action.MultiHit &&
		c.now-c.lastHitTick >= c.cfg.Options.MultiHitCooldown {
		c.hitArmed = true
	}
}

func (c *Char) changeAction(ai ActionIndex, forced bool) {
	ad := c.table.Action(ai)
	if !forced {
		c.meter = Clamp(c.meter-ad.MeterCost+ad.MeterGain, 0, MeterMax)
	}
	c.actionIdx = ai
	c.action = ad
	c.hitArmed = true
	c.unsetCSF(CSF_hitThisAction)
	c.setFrame(0)
}

// step advances the character by one simulation tick. The input buffer
// must already hold this tick's snapshot.
func (c *Char) step(now int32) {
	c.now = now
	c.soundCue = -1
	c.vel = [2]int32{}
	c.spawns = c.spawns[:0]

	if c.invulnTicks > 0 {
		c.invulnTicks--
	}

	if c.csf(CSF_reaction) {
		c.stepReaction()
	} else {
		c.faceEnemy()
		c.stepAction()
	}

	if !c.csf(CSF_reaction) && c.stun > 0 {
		c.stun = Max(0, c.stun-c.cfg.Options.StunDecay)
	}

	c.updateFlags()
}

// faceEnemy turns a grounded character toward the opponent whenever
// the current frame allows voluntary action changes. The action's
// x-offset keeps the feet anchored across the flip.
func (c *Char) faceEnemy() {
	if c.enemy == nil || c.airborne() || c.curFrame().Cancel != CT_Any {
		return
	}
	d := c.enemy.pos[0] - c.pos[0]
	if d != 0 && SignOf(d) != c.facing {
		c.facing = SignOf(d)
		c.pos[0] = Clamp(c.pos[0]+c.action.XOffset*c.facing, c.arena.Left, c.arena.Right)
	}
}

func (c *Char) stepAction() {
	c.frameTicks--
	exhausted := false
	if c.frameTicks <= 0 {
		if c.frameIdx+1 < int32(len(c.action.Frames)) {
			c.setFrame(c.frameIdx + 1)
		} else {
			exhausted = true
			c.frameTicks = 0
		}
	}

	fr := c.curFrame()
	cancelable := exhausted || fr.Cancel == CT_Any ||
		(fr.Cancel == CT_OnHit && c.csf(CSF_hitThisAction))
	if cancelable {
		if ai, ok := c.selectAction(); ok {
			c.changeAction(ai, false)
		} else {
			def := c.defaultForSituation()
			if def != c.actionIdx {
				c.changeAction(def, false)
			} else if exhausted {
				c.setFrame(0) // defaults loop
			}
		}
	}

	c.applyFrameMove()
}

// selectAction evaluates every input-selectable action in the table's
// precomputed order and returns the first one whose condition, meter
// cost, proximity and input sequence all qualify.
func (c *Char) selectAction() (ActionIndex, bool) {
	hist := c.buffer.History(c.buffer.Len())
	for _, ai := range c.table.SelOrder() {
		ad := c.table.Action(ai)
		if ad.Condition != c.situation() {
			continue
		}
		if ad.MeterCost > c.meter {
			continue
		}
		if ad.Proximity > 0 && c.enemy != nil && c.distanceTo(c.enemy) > ad.Proximity {
			continue
		}
		if !ad.Input.Matches(hist) {
			continue
		}
		return ai, true
	}
	return 0, false
}

// defaultForSituation resolves the fallback action from the held
// directions and the character's situation.
func (c *Char) defaultForSituation() ActionIndex {
	if c.airborne() {
		if c.action.Condition == AC_Airborne {
			return c.actionIdx
		}
		return c.table.Default(DA_Jump)
	}
	var keys InputBits
	if snap, ok := c.buffer.Latest(); ok {
		keys = snap.keys
	}
	switch {
	case keys&IB_PU != 0:
		return c.table.Default(DA_Jump)
	case keys&IB_PD != 0:
		return c.table.Default(DA_Crouch)
	case keys&IB_F != 0:
		return c.table.Default(DA_WalkForward)
	case keys&IB_B != 0:
		return c.table.Default(DA_WalkBackward)
	}
	return c.table.Default(DA_Stand)
}

// moveShare splits an integer translation evenly across a frame's
// duration so the per-tick amounts always telescope to the total.
func moveShare(total, dur, elapsed int32) int32 {
	return total*elapsed/dur - total*(elapsed-1)/dur
}

func (c *Char) applyFrameMove() {
	fr := c.curFrame()
	elapsed := fr.Duration - c.frameTicks + 1
	if elapsed < 1 || elapsed > fr.Duration {
		return
	}
	c.applyMove(moveShare(fr.MoveX, fr.Duration, elapsed)*c.facing,
		moveShare(fr.MoveY, fr.Duration, elapsed))
}

func (c *Char) applyMove(dx, dy int32) {
	nx := Clamp(c.pos[0]+dx, c.arena.Left, c.arena.Right)
	ny := Min(c.pos[1]+dy, c.arena.Ground)
	c.vel[0] += nx - c.pos[0]
	c.vel[1] += ny - c.pos[1]
	c.pos[0], c.pos[1] = nx, ny
}

func (c *Char) stepReaction() {
	// The reaction animation advances normally and holds its final
	// frame for as long as the stun lasts.
	c.frameTicks--
	if c.frameTicks <= 0 {
		if c.frameIdx+1 < int32(len(c.action.Frames)) {
			c.setFrame(c.frameIdx + 1)
		} else {
			c.frameTicks = 0
		}
	}

	if c.kbTicks > 0 {
		elapsed := c.kbTotal - c.kbTicks + 1
		c.applyMove(moveShare(c.kb[0], c.kbTotal, elapsed),
			moveShare(c.kb[1], c.kbTotal, elapsed))
		c.kbTicks--
	} else if c.airborne() && c.csf(CSF_knockdown) {
		c.applyMove(0, c.cfg.Options.Gravity)
	}

	if c.csf(CSF_ko) {
		return
	}

	c.stunTicks--
	if c.stunTicks > 0 {
		return
	}
	if c.airborne() && c.csf(CSF_knockdown) {
		// Keep falling until the ground ends the knockdown
		c.stunTicks = 1
		return
	}

	c.invulnTicks = c.cfg.Options.PostHitInvuln
	wasKnockdown := c.csf(CSF_knockdown)
	c.unsetCSF(CSF_reaction | CSF_blockstun | CSF_knockdown | CSF_dizzy)
	if wasKnockdown {
		c.changeAction(c.table.Default(DA_Rise), true)
	} else {
		c.changeAction(c.defaultForSituation(), true)
	}
}

// applyHit transitions the character into the forced reaction an
// incoming HitEvent demands. Forced transitions pre-empt any cancel
// tier.
func (c *Char) applyHit(ev *HitEvent) {
	c.life = Max(0, c.life-ev.Damage)
	if c.life == 0 {
		c.enterReaction(c.table.Default(DA_KO), ev)
		c.setCSF(CSF_ko)
		return
	}
	if ev.Blocked {
		da := DA_BlockStand
		if c.csf(CSF_guardlow) {
			da = DA_BlockCrouch
		}
		c.enterReaction(c.table.Default(da), ev)
		c.setCSF(CSF_blockstun)
		return
	}
	c.stun += ev.DizzyStun
	if c.stun >= c.data.StunThreshold {
		c.stun = 0
		c.enterReaction(c.table.Default(DA_Dizzy), ev)
		c.setCSF(CSF_dizzy)
		c.stunTicks = c.cfg.Options.DizzyTicks
		return
	}
	switch {
	case ev.Effect == HE_Trip:
		c.enterReaction(c.table.Default(DA_Trip), ev)
		c.setCSF(CSF_knockdown)
	case ev.Effect == HE_Launch || c.airborne():
		c.enterReaction(c.table.Default(DA_Launch), ev)
		c.setCSF(CSF_knockdown)
	case c.crouching():
		c.enterReaction(c.table.Default(DA_HitCrouch), ev)
	default:
		c.enterReaction(c.table.Default(DA_HitStand), ev)
	}
}

func (c *Char) enterReaction(ai ActionIndex, ev *HitEvent) {
	c.changeAction(ai, true)
	c.unsetCSF(CSF_blockstun | CSF_knockdown | CSF_dizzy | CSF_counter)
	c.setCSF(CSF_reaction)
	c.stunTicks = Max(ev.StunTicks, 1)
	c.kb = ev.Knockback
	c.kbTotal = c.stunTicks
	c.kbTicks = c.kbTotal
}

// markHit records that the character's current action connected.
func (c *Char) markHit(now int32) {
	c.hitArmed = false
	c.lastHitTick = now
	c.setCSF(CSF_hitThisAction)
}

// attackActive reports whether this tick's hitboxes may connect.
func (c *Char) attackActive() bool {
	return c.hitArmed && !c.csf(CSF_reaction) && len(c.curFrame().Hitboxes) > 0
}

// updateFlags refreshes the counter window and the guard stance for
// this tick's collision pass.
func (c *Char) updateFlags() {
	if !c.csf(CSF_reaction) && c.action.CounterOpen(c.frameIdx) {
		c.setCSF(CSF_counter)
	} else {
		c.unsetCSF(CSF_counter)
	}

	guard, low := false, false
	if c.csf(CSF_blockstun) {
		guard = true
		low = c.actionIdx == c.table.Default(DA_BlockCrouch)
	} else if !c.csf(CSF_reaction) && !c.airborne() && c.curFrame().Cancel == CT_Any {
		if snap, ok := c.buffer.Latest(); ok && snap.keys&IB_B != 0 {
			guard = true
			low = snap.keys&IB_PD != 0
		}
	}
	if guard {
		c.setCSF(CSF_guarding)
	} else {
		c.unsetCSF(CSF_guarding)
	}
	if low {
		c.setCSF(CSF_guardlow)
	} else {
		c.unsetCSF(CSF_guardlow)
	}
}

// distanceTo is the horizontal gap between the two characters'
// closest hurtboxes, or the origin distance when either side has no
// hurtboxes on its current frame.
func (c *Char) distanceTo(e *Char) int32 {
	mine := c.hurtboxRects()
	theirs := e.hurtboxRects()
	if len(mine) == 0 || len(theirs) == 0 {
		return Abs(e.pos[0] - c.pos[0])
	}
	best := int32(1 << 30)
	for _, a := range mine {
		for _, b := range theirs {
			best = Min(best, rectGapX(a, b))
		}
	}
	return best
}

func (c *Char) hurtboxRects() [][4]int32 {
	fr := c.curFrame()
	out := make([][4]int32, 0, len(fr.Hurtboxes))
	for i := range fr.Hurtboxes {
		out = append(out, worldRect(fr.Hurtboxes[i].Offset, fr.Hurtboxes[i].Size, c.pos, c.facing))
	}
	return out
}
