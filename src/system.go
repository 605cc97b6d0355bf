package main

import "fmt"

type RoundState int32

const (
	RS_InProgress RoundState = iota
	RS_KO
	RS_TimeOut
)

// RoundStatus is exposed to presentation collaborators for menu and
// flow control. Winner is -1 while the round runs or when it ends in
// a draw.
type RoundStatus struct {
	State     RoundState
	Winner    int32
	TicksLeft int32
}

// CharSnapshot is the per-character render state for one tick.
type CharSnapshot struct {
	Spritesheet string
	Action      string
	Frame       int32
	Pos         [2]int32
	Facing      int32
}

type SoundCue struct {
	Char int32
	Cue  int32
}

// TickOutput is everything the presentation layer needs from one tick.
// HitEvents are valid only until the next Step call.
type TickOutput struct {
	Chars  [2]CharSnapshot
	Hits   []HitEvent
	Cues   []SoundCue
	Status RoundStatus
}

// System drives two character state machines and the collision
// resolver in lockstep. Everything happens inside a single-threaded
// Step call per simulation tick; there are no suspension points and
// no locks. Given identical inputs and identical character data the
// whole simulation is bit-for-bit reproducible.
type System struct {
	cfg   *Config
	stage *StageData
	arena Arena
	chars [2]*Char
	projs []*Projectile

	tick      int32
	ticksLeft int32
	status    RoundStatus
	round     int32
	wins      [2]int32
	draws     int32

	statsLog StatsLog
	recorder *ReplayRecorder
}

func NewSystem(cfg *Config, stage *StageData, p1, p2 *CharacterData) (*System, error) {
	if cfg == nil || stage == nil || p1 == nil || p2 == nil {
		return nil, Error("system needs a config, a stage and two characters")
	}
	if err := stage.validate(); err != nil {
		return nil, err
	}
	s := &System{cfg: cfg, stage: stage, arena: stage.Arena()}
	s.chars[0] = NewChar(0, p1, cfg, &s.arena)
	s.chars[1] = NewChar(1, p2, cfg, &s.arena)
	s.chars[0].enemy = s.chars[1]
	s.chars[1].enemy = s.chars[0]
	s.statsLog.startMatch(cfg)
	s.ResetRound()
	return s, nil
}

// ResetRound discards all live state and reinitializes from
// round-start defaults. Only ever called at a tick boundary.
func (s *System) ResetRound() {
	s.round++
	s.chars[0].resetRound(s.stage.Spawn.P1, 1)
	s.chars[1].resetRound(s.stage.Spawn.P2, -1)
	s.projs = nil
	s.ticksLeft = s.cfg.Options.RoundTime
	s.status = RoundStatus{State: RS_InProgress, Winner: -1, TicksLeft: s.ticksLeft}
}

// SetRecorder attaches a replay recorder; every subsequent Step writes
// its raw inputs through it.
func (s *System) SetRecorder(rr *ReplayRecorder) { s.recorder = rr }

// Step advances the whole simulation by one tick: buffer inputs,
// advance both characters, move projectiles, resolve collisions,
// apply hit events and settle the round state.
func (s *System) Step(in [2]InputBits) TickOutput {
	s.tick++
	if s.recorder != nil {
		s.recorder.WriteTick(in)
	}

	running := s.status.State == RS_InProgress
	for i, c := range s.chars {
		if running {
			c.buffer.Push(s.tick, in[i].SymbolsFor(c.facing))
		} else {
			// The round is decided; inputs no longer reach the buffer
			c.buffer.Push(s.tick, 0)
		}
	}

	for _, c := range s.chars {
		c.step(s.tick)
	}

	for _, c := range s.chars {
		for _, pi := range c.spawns {
			s.projs = append(s.projs, NewProjectile(&c.data.Projectiles[pi], c.id, c.pos, c.facing))
		}
	}
	for _, p := range s.projs {
		p.step(&s.arena)
	}

	var events []HitEvent
	if running {
		events = resolveHits(s.chars, s.projs, s.cfg)
		for i := range events {
			ev := &events[i]
			s.chars[ev.Defender].applyHit(ev)
			if ev.Projectile {
				ev.projRef.impact()
			} else {
				s.chars[ev.Attacker].markHit(s.tick)
			}
		}
		resolveProjectileTrades(s.projs)
	}
	s.pruneProjectiles()

	if running {
		s.settleRound()
	}

	return s.output(events)
}

func (s *System) settleRound() {
	ko0 := s.chars[0].csf(CSF_ko)
	ko1 := s.chars[1].csf(CSF_ko)
	switch {
	case ko0 || ko1:
		s.status.State = RS_KO
		switch {
		case ko0 && ko1:
			s.status.Winner = -1
		case ko0:
			s.status.Winner = 1
		default:
			s.status.Winner = 0
		}
	case s.cfg.Options.RoundTime > 0:
		s.ticksLeft--
		s.status.TicksLeft = s.ticksLeft
		if s.ticksLeft <= 0 {
			s.status.State = RS_TimeOut
			switch {
			case s.chars[0].life > s.chars[1].life:
				s.status.Winner = 0
			case s.chars[1].life > s.chars[0].life:
				s.status.Winner = 1
			default:
				s.status.Winner = -1
			}
		}
	}
	if s.status.State == RS_InProgress {
		return
	}
	// Round decided: book the result and strike the victory pose
	if s.status.Winner >= 0 {
		s.wins[s.status.Winner]++
		w := s.chars[s.status.Winner]
		if !w.csf(CSF_reaction) {
			w.changeAction(w.table.Default(DA_Victory), true)
		}
	} else {
		s.draws++
	}
	s.statsLog.addRound(s)
	if s.MatchOver() {
		s.statsLog.finalizeMatch(s)
	}
}

func (s *System) pruneProjectiles() {
	alive := s.projs[:0]
	for _, p := range s.projs {
		if !p.dead {
			alive = append(alive, p)
		}
	}
	s.projs = alive
}

func (s *System) output(events []HitEvent) TickOutput {
	out := TickOutput{Hits: events, Status: s.status}
	for i, c := range s.chars {
		out.Chars[i] = CharSnapshot{
			Spritesheet: c.action.SpritesheetPath,
			Action:      c.action.Name,
			Frame:       c.frameIdx,
			Pos:         c.pos,
			Facing:      c.facing,
		}
		if c.soundCue >= 0 {
			out.Cues = append(out.Cues, SoundCue{Char: c.id, Cue: c.soundCue})
		}
	}
	return out
}

func (s *System) Status() RoundStatus { return s.status }

func (s *System) RoundOver() bool { return s.status.State != RS_InProgress }

// MatchOver reports whether either side has the configured round wins.
func (s *System) MatchOver() bool {
	return s.wins[0] >= s.cfg.Options.RoundsToWin || s.wins[1] >= s.cfg.Options.RoundsToWin
}

// MatchWinner returns the winning character id, or -1 while the match
// runs.
func (s *System) MatchWinner() int32 {
	for i := range s.wins {
		if s.wins[i] >= s.cfg.Options.RoundsToWin {
			return int32(i)
		}
	}
	return -1
}

func (s *System) Char(i int32) *Char {
	if i < 0 || int(i) >= len(s.chars) {
		panic(Error(fmt.Sprintf("no character %d", i)))
	}
	return s.chars[i]
}
