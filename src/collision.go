package main

// worldRect places a box defined in character-local coordinates into
// world space, mirroring the horizontal offset when facing left.
// Rects are {x1, y1, x2, y2} with y growing downward.
func worldRect(off, size, pos [2]int32, facing int32) [4]int32 {
	var x int32
	if facing < 0 {
		x = pos[0] - off[0] - size[0]
	} else {
		x = pos[0] + off[0]
	}
	y := pos[1] + off[1]
	return [4]int32{x, y, x + size[0], y + size[1]}
}

func rectOverlap(a, b [4]int32) bool {
	return a[0] < b[2] && b[0] < a[2] && a[1] < b[3] && b[1] < a[3]
}

// rectGapX is the horizontal distance between two rects, zero when
// they overlap on the x axis.
func rectGapX(a, b [4]int32) int32 {
	if a[2] <= b[0] {
		return b[0] - a[2]
	}
	if b[2] <= a[0] {
		return a[0] - b[2]
	}
	return 0
}

// HitEvent is the transient result of one resolved overlap. All
// block/counter modifiers are already folded into the values; the
// orchestrator applies it to the defender and then discards it.
type HitEvent struct {
	Attacker   int32
	Defender   int32
	Damage     int32
	StunTicks  int32
	DizzyStun  int32
	Knockback  [2]int32 // world-space, pushes along the attacker's facing
	Effect     HitEffect
	Blocked    bool
	Counter    bool
	Projectile bool
	projRef    *Projectile
}

// resolveHitbox folds guard and counter modifiers into an event.
// A successful block downgrades the event rather than suppressing it.
func resolveHitbox(hb *Hitbox, attacker, defender *Char, attackerFacing int32, proj *Projectile, cfg *Config) *HitEvent {
	ev := &HitEvent{
		Attacker:   attacker.id,
		Defender:   defender.id,
		Damage:     hb.Damage,
		StunTicks:  hb.Hitstun,
		DizzyStun:  hb.DizzyStun,
		Knockback:  [2]int32{hb.Knockback[0] * attackerFacing, hb.Knockback[1]},
		Effect:     hb.Effect,
		Projectile: proj != nil,
		projRef:    proj,
	}
	if defender.csf(CSF_guarding) && !hb.Unblockable() {
		covered := hb.BlockHigh
		if defender.csf(CSF_guardlow) {
			covered = hb.BlockLow
		}
		if covered {
			ev.Blocked = true
			ev.Damage /= cfg.Options.BlockDamageDiv
			ev.StunTicks = hb.Blockstun
			ev.DizzyStun = 0
			ev.Knockback[0] /= 2
			ev.Knockback[1] = 0
			ev.Effect = HE_None
			return ev
		}
	}
	if defender.csf(CSF_counter) {
		ev.Counter = true
		ev.Damage = ev.Damage * 3 / 2
		ev.StunTicks = ev.StunTicks * 3 / 2
		ev.Knockback[0] = ev.Knockback[0] * 3 / 2
	}
	return ev
}

// resolveHits runs the per-tick collision pass after both characters
// have advanced. For each (attacker, defender) ordering it tests the
// attacker's armed hitboxes, then the attacker's live projectiles,
// against the defender's hurtboxes; the first qualifying overlap in
// declaration order wins and at most one event is produced per
// ordered pair per tick. Output order and contents depend only on the
// inputs.
func resolveHits(chars [2]*Char, projs []*Projectile, cfg *Config) []HitEvent {
	var events []HitEvent
	for ai := 0; ai < 2; ai++ {
		attacker, defender := chars[ai], chars[1-ai]
		if defender.invulnerable() {
			continue
		}
		hurt := defender.hurtboxRects()
		if len(hurt) == 0 {
			continue
		}
		if ev := charHit(attacker, defender, hurt, cfg); ev != nil {
			events = append(events, *ev)
			continue
		}
		if ev := projectileHit(attacker, defender, hurt, projs, cfg); ev != nil {
			events = append(events, *ev)
		}
	}
	return events
}

func charHit(attacker, defender *Char, hurt [][4]int32, cfg *Config) *HitEvent {
	if !attacker.attackActive() {
		return nil
	}
	fr := attacker.curFrame()
	for i := range fr.Hitboxes {
		hb := &fr.Hitboxes[i]
		hr := worldRect(hb.Offset, hb.Size, attacker.pos, attacker.facing)
		for _, dr := range hurt {
			if rectOverlap(hr, dr) {
				return resolveHitbox(hb, attacker, defender, attacker.facing, nil, cfg)
			}
		}
	}
	return nil
}

func projectileHit(attacker, defender *Char, hurt [][4]int32, projs []*Projectile, cfg *Config) *HitEvent {
	for _, p := range projs {
		if p.owner != attacker.id {
			continue
		}
		hbs := p.hitboxes()
		for i := range hbs {
			hb := &hbs[i]
			hr := worldRect(hb.Offset, hb.Size, p.pos, p.facing)
			for _, dr := range hurt {
				if rectOverlap(hr, dr) {
					return resolveHitbox(hb, attacker, defender, p.facing, p, cfg)
				}
			}
		}
	}
	return nil
}

// resolveProjectileTrades cancels opposing projectiles against each
// other: overlapping hitboxes trade stamina simultaneously.
func resolveProjectileTrades(projs []*Projectile) {
	for i := 0; i < len(projs); i++ {
		for j := i + 1; j < len(projs); j++ {
			a, b := projs[i], projs[j]
			if a.owner == b.owner || !a.active() || !b.active() {
				continue
			}
			if projectilesOverlap(a, b) {
				sa, sb := a.stamina, b.stamina
				a.trade(sb)
				b.trade(sa)
			}
		}
	}
}

func projectilesOverlap(a, b *Projectile) bool {
	for _, ha := range a.hitboxes() {
		ra := worldRect(ha.Offset, ha.Size, a.pos, a.facing)
		for _, hb := range b.hitboxes() {
			rb := worldRect(hb.Offset, hb.Size, b.pos, b.facing)
			if rectOverlap(ra, rb) {
				return true
			}
		}
	}
	return false
}
