package main

import "fmt"

// ProjectileData is the immutable definition of a projectile type.
// Frames before FirstLoopFrame play once as startup, frames from
// FirstLoopFrame up to ImpactFrame repeat while the projectile
// travels, and the frames from ImpactFrame onward play once after a
// collision before the projectile is removed.
type ProjectileData struct {
	Name            string
	Offset          [2]int32 // spawn offset from the owner's origin
	Size            [2]int32
	XSpeed          int32
	YSpeed          int32
	SpritesheetPath string
	Stamina         int32
	FirstLoopFrame  int32
	ImpactFrame     int32
	Frames          []FrameDefinition
}

func (pd *ProjectileData) validate() error {
	if len(pd.Frames) == 0 {
		return Error("no frames")
	}
	if pd.Stamina <= 0 {
		return Error("stamina must be positive")
	}
	n := int32(len(pd.Frames))
	if pd.FirstLoopFrame < 0 || pd.FirstLoopFrame >= n {
		return fmt.Errorf("first loop frame %d outside %d frames", pd.FirstLoopFrame, n)
	}
	if pd.ImpactFrame < pd.FirstLoopFrame || pd.ImpactFrame >= n {
		return fmt.Errorf("impact frame %d outside %d frames", pd.ImpactFrame, n)
	}
	for i := range pd.Frames {
		if pd.Frames[i].Duration < 1 {
			return fmt.Errorf("frame %d: duration must be at least 1", i)
		}
	}
	return nil
}

// Projectile is a live projectile travelling across the arena. It
// belongs to the character that fired it and can never hit its owner.
type Projectile struct {
	data       *ProjectileData
	owner      int32
	pos        [2]int32
	facing     int32
	frameIdx   int32
	frameTicks int32
	stamina    int32
	impacted   bool
	dead       bool
}

func NewProjectile(data *ProjectileData, owner int32, ownerPos [2]int32, facing int32) *Projectile {
	p := &Projectile{
		data:    data,
		owner:   owner,
		facing:  facing,
		stamina: data.Stamina,
	}
	p.pos = [2]int32{ownerPos[0] + data.Offset[0]*facing, ownerPos[1] + data.Offset[1]}
	p.setFrame(0)
	return p
}

func (p *Projectile) setFrame(idx int32) {
	p.frameIdx = idx
	p.frameTicks = p.data.Frames[idx].Duration
}

func (p *Projectile) curFrame() *FrameDefinition {
	return &p.data.Frames[p.frameIdx]
}

// step advances one tick: animation first, then travel. Projectiles
// that leave the arena are removed without an impact animation.
func (p *Projectile) step(arena *Arena) {
	if p.dead {
		return
	}
	p.frameTicks--
	if p.frameTicks <= 0 {
		next := p.frameIdx + 1
		switch {
		case p.impacted:
			if next >= int32(len(p.data.Frames)) {
				p.dead = true
				return
			}
			p.setFrame(next)
		case next >= p.data.ImpactFrame || next >= int32(len(p.data.Frames)):
			// Travel frames loop until something stops the projectile
			p.setFrame(p.data.FirstLoopFrame)
		default:
			p.setFrame(next)
		}
	}
	if !p.impacted {
		p.pos[0] += p.data.XSpeed * p.facing
		p.pos[1] += p.data.YSpeed
		if p.pos[0] < arena.Left-p.data.Size[0] || p.pos[0] > arena.Right+p.data.Size[0] ||
			p.pos[1] > arena.Ground+p.data.Size[1] {
			p.dead = true
		}
	}
}

// impact switches to the impact animation; the projectile stops
// moving and stops producing hits.
func (p *Projectile) impact() {
	if p.impacted || p.dead {
		return
	}
	p.impacted = true
	p.setFrame(p.data.ImpactFrame)
}

// trade applies an opposing projectile's stamina. Reaching zero
// cancels this projectile out.
func (p *Projectile) trade(other int32) {
	p.stamina -= other
	if p.stamina <= 0 {
		p.impact()
	}
}

// active reports whether the projectile can still deal hits.
func (p *Projectile) active() bool {
	return !p.dead && !p.impacted
}

func (p *Projectile) hitboxes() []Hitbox {
	if !p.active() {
		return nil
	}
	return p.curFrame().Hitboxes
}
