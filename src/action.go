package main

import (
	"fmt"
	"sort"
)

// ActionCondition is the situational state a character must be in to
// start an action.
type ActionCondition int32

const (
	AC_Standing ActionCondition = iota
	AC_Crouching
	AC_Airborne
)

// CancelTier controls whether a frame may be interrupted voluntarily.
// Forced transitions (getting hit, blocking) ignore the tier.
type CancelTier int32

const (
	CT_None  CancelTier = iota // runs to completion
	CT_Any                     // may be interrupted by any reselection
	CT_OnHit                   // may be interrupted only after landing a hit this action
)

// HitEffect is the extra reaction imposed on an unblocked defender.
type HitEffect int32

const (
	HE_None   HitEffect = iota
	HE_Trip             // defender trips to the ground
	HE_Launch           // defender is launched into the air
)

type Hurtbox struct {
	Offset [2]int32
	Size   [2]int32
}

type Hitbox struct {
	Offset    [2]int32
	Size      [2]int32
	Damage    int32
	Hitstun   int32
	Blockstun int32
	Knockback [2]int32
	DizzyStun int32
	Effect    HitEffect
	BlockHigh bool // blockable from a standing guard
	BlockLow  bool // blockable from a crouching guard
}

// Unblockable reports whether no guard stance can block this hitbox.
func (hb *Hitbox) Unblockable() bool { return !hb.BlockHigh && !hb.BlockLow }

// ActionIndex is a validated index into a character's action list.
// All indices stored in loaded data are checked against the catalog
// size at load time.
type ActionIndex int32

// ProjectileIndex is a validated index into a character's projectile
// list.
type ProjectileIndex int32

// FrameDefinition is one animation frame of an action.
type FrameDefinition struct {
	Duration    int32 // ticks this frame is displayed
	Cancel      CancelTier
	MoveX       int32 // applied over the whole frame, mirrored by facing
	MoveY       int32 // negative moves up
	SoundCue    int32 // -1 for none
	Hurtboxes   []Hurtbox
	Hitboxes    []Hitbox
	Projectiles []ProjectileIndex // spawned when the frame starts
}

// ActionDefinition is one entry of a character's action catalog.
// Immutable after load; shared read-only by every instance of the
// character type.
type ActionDefinition struct {
	Name            string
	SpritesheetPath string
	FrameWidth      int32
	FrameHeight     int32
	XOffset         int32 // foot-anchor correction applied on facing flips
	Condition       ActionCondition
	MultiHit        bool
	Priority        int32
	MeterGain       int32
	MeterCost       int32
	Proximity       int32 // 0 = any distance
	CounterWindow   [2]int32
	Frames          []FrameDefinition
	Input           *InputSequence
}

// CounterOpen reports whether the counter-hit window covers the frame.
func (ad *ActionDefinition) CounterOpen(frame int32) bool {
	return ad.CounterWindow[1] > ad.CounterWindow[0] &&
		frame >= ad.CounterWindow[0] && frame < ad.CounterWindow[1]
}

// Selectable reports whether the action can ever be chosen by input.
func (ad *ActionDefinition) Selectable() bool {
	return ad.Input != nil && ad.Input.Len() > 0
}

// Names of the default actions every character must provide. They are
// referenced by index into the action list and resolved by situation
// when no input-selected action qualifies.
const (
	DA_Stand        = "stand"
	DA_WalkForward  = "walk_forward"
	DA_WalkBackward = "walk_backward"
	DA_Crouch       = "crouch"
	DA_Jump         = "jump"
	DA_BlockStand   = "block_stand"
	DA_BlockCrouch  = "block_crouch"
	DA_HitStand     = "hit_stand"
	DA_HitCrouch    = "hit_crouch"
	DA_Trip         = "trip"
	DA_Launch       = "launch"
	DA_Rise         = "knockdown_rise"
	DA_Dizzy        = "dizzy"
	DA_KO           = "ko"
	DA_Victory      = "victory"
)

var requiredDefaults = []string{
	DA_Stand, DA_WalkForward, DA_WalkBackward, DA_Crouch, DA_Jump,
	DA_BlockStand, DA_BlockCrouch, DA_HitStand, DA_HitCrouch,
	DA_Trip, DA_Launch, DA_Rise, DA_Dizzy, DA_KO, DA_Victory,
}

// ActionTable is the immutable per-character catalog of actions.
// Selection order is precomputed at load: descending priority, actions
// with a proximity requirement ahead of those without at equal
// priority, declaration order as the final tie-breaker.
type ActionTable struct {
	actions  []ActionDefinition
	defaults map[string]ActionIndex
	selOrder []ActionIndex
	maxSeq   int
}

func NewActionTable(actions []ActionDefinition, defaults map[string]ActionIndex) (*ActionTable, error) {
	at := &ActionTable{actions: actions, defaults: defaults}
	if err := at.validate(); err != nil {
		return nil, err
	}
	at.buildSelOrder()
	for i := range at.actions {
		if at.actions[i].Input != nil {
			at.maxSeq = Max(at.maxSeq, at.actions[i].Input.Len())
		}
	}
	return at, nil
}

func (at *ActionTable) validate() error {
	if len(at.actions) == 0 {
		return Error("action list is empty")
	}
	for i := range at.actions {
		ad := &at.actions[i]
		if len(ad.Frames) == 0 {
			return fmt.Errorf("action %d %q: no frames", i, ad.Name)
		}
		if ad.Priority < 0 {
			return fmt.Errorf("action %d %q: negative priority", i, ad.Name)
		}
		if ad.MeterCost < 0 || ad.MeterCost > MeterMax ||
			ad.MeterGain < 0 || ad.MeterGain > MeterMax {
			return fmt.Errorf("action %d %q: meter values must be within 0-%d", i, ad.Name, MeterMax)
		}
		if ad.Proximity < 0 {
			return fmt.Errorf("action %d %q: negative proximity", i, ad.Name)
		}
		if ad.CounterWindow[0] < 0 || ad.CounterWindow[1] > int32(len(ad.Frames)) ||
			ad.CounterWindow[0] > ad.CounterWindow[1] {
			return fmt.Errorf("action %d %q: counter window out of range", i, ad.Name)
		}
		for j := range ad.Frames {
			fr := &ad.Frames[j]
			if fr.Duration < 1 {
				return fmt.Errorf("action %d %q: frame %d: duration must be at least 1", i, ad.Name, j)
			}
			if fr.Cancel < CT_None || fr.Cancel > CT_OnHit {
				return fmt.Errorf("action %d %q: frame %d: bad cancel tier %d", i, ad.Name, j, fr.Cancel)
			}
			for k, hb := range fr.Hitboxes {
				if hb.Size[0] <= 0 || hb.Size[1] <= 0 {
					return fmt.Errorf("action %d %q: frame %d: hitbox %d has no area", i, ad.Name, j, k)
				}
				if hb.Damage < 0 || hb.Hitstun < 0 || hb.Blockstun < 0 || hb.DizzyStun < 0 {
					return fmt.Errorf("action %d %q: frame %d: hitbox %d has negative values", i, ad.Name, j, k)
				}
				if hb.Effect < HE_None || hb.Effect > HE_Launch {
					return fmt.Errorf("action %d %q: frame %d: hitbox %d has bad effect %d", i, ad.Name, j, k, hb.Effect)
				}
			}
			for k, hu := range fr.Hurtboxes {
				if hu.Size[0] <= 0 || hu.Size[1] <= 0 {
					return fmt.Errorf("action %d %q: frame %d: hurtbox %d has no area", i, ad.Name, j, k)
				}
			}
		}
	}
	for _, name := range requiredDefaults {
		idx, ok := at.defaults[name]
		if !ok {
			return fmt.Errorf("default action %q is not defined", name)
		}
		if idx < 0 || int(idx) >= len(at.actions) {
			return fmt.Errorf("default action %q: index %d outside action list", name, idx)
		}
	}
	for name, idx := range at.defaults {
		if idx < 0 || int(idx) >= len(at.actions) {
			return fmt.Errorf("default action %q: index %d outside action list", name, idx)
		}
	}
	return nil
}

func (at *ActionTable) buildSelOrder() {
	for i := range at.actions {
		if at.actions[i].Selectable() {
			at.selOrder = append(at.selOrder, ActionIndex(i))
		}
	}
	sort.SliceStable(at.selOrder, func(i, j int) bool {
		a, b := &at.actions[at.selOrder[i]], &at.actions[at.selOrder[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		// Proximity-limited actions outrank unlimited ones
		return a.Proximity > 0 && b.Proximity == 0
	})
}

func (at *ActionTable) Action(i ActionIndex) *ActionDefinition {
	if i < 0 || int(i) >= len(at.actions) {
		panic(Error(fmt.Sprintf("action index %d outside loaded list", i)))
	}
	return &at.actions[i]
}

func (at *ActionTable) Len() int { return len(at.actions) }

// Default resolves a default action by name. Missing names are an
// authoring bug; the table is validated at load so this never fires on
// valid data.
func (at *ActionTable) Default(name string) ActionIndex {
	idx, ok := at.defaults[name]
	if !ok {
		panic(Error(fmt.Sprintf("default action %q not defined", name)))
	}
	return idx
}

// SelOrder is the precomputed action evaluation order.
func (at *ActionTable) SelOrder() []ActionIndex { return at.selOrder }

// LongestSequence is the step count of the longest input sequence,
// used to size input buffers.
func (at *ActionTable) LongestSequence() int { return at.maxSeq }
