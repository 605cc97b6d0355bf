package main

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// CharacterData is the immutable definition of one character type,
// loaded once at character-select time. The GUI editor and schema
// validation live outside the core; this loader still re-checks every
// range so malformed data is rejected before a round starts instead of
// corrupting a running match.
type CharacterData struct {
	Name          string
	Speed         int32 // walk speed, pixels per second
	Stamina       int32
	StunThreshold int32
	MugshotPath   string
	Table         *ActionTable
	Projectiles   []ProjectileData
}

// LoadCharacterFile reads a character definition from a JSON document.
// Any malformed or out-of-range value is fatal here; nothing is
// silently defaulted.
func LoadCharacterFile(path string) (*CharacterData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", path, err)
	}
	cd, err := ParseCharacter(data)
	if err != nil {
		return nil, fmt.Errorf("character %s: %w", path, err)
	}
	return cd, nil
}

// ParseCharacter parses and validates a JSON character definition.
func ParseCharacter(data []byte) (*CharacterData, error) {
	if !gjson.ValidBytes(data) {
		return nil, Error("not valid JSON")
	}
	root := gjson.ParseBytes(data)

	cd := &CharacterData{
		Name:          root.Get("name").Str,
		Speed:         int32(root.Get("speed").Int()),
		Stamina:       int32(root.Get("stamina").Int()),
		StunThreshold: int32(root.Get("stun_threshold").Int()),
		MugshotPath:   root.Get("mugshot").Str,
	}
	if cd.Name == "" {
		return nil, Error("missing character name")
	}
	if cd.Stamina <= 0 {
		return nil, fmt.Errorf("%s: stamina must be positive", cd.Name)
	}
	if cd.StunThreshold <= 0 {
		return nil, fmt.Errorf("%s: stun threshold must be positive", cd.Name)
	}
	if cd.Speed < 0 {
		return nil, fmt.Errorf("%s: negative walk speed", cd.Name)
	}

	// Projectiles are parsed first so frame spawn references can be
	// bounds-checked against them.
	var perr error
	root.Get("projectiles").ForEach(func(_, v gjson.Result) bool {
		pd, err := parseProjectile(v)
		if err != nil {
			perr = err
			return false
		}
		cd.Projectiles = append(cd.Projectiles, *pd)
		return true
	})
	if perr != nil {
		return nil, fmt.Errorf("%s: %w", cd.Name, perr)
	}

	var actions []ActionDefinition
	var aerr error
	root.Get("actions").ForEach(func(_, v gjson.Result) bool {
		ad, err := parseAction(v, len(cd.Projectiles))
		if err != nil {
			aerr = err
			return false
		}
		actions = append(actions, *ad)
		return true
	})
	if aerr != nil {
		return nil, fmt.Errorf("%s: %w", cd.Name, aerr)
	}

	defaults := map[string]ActionIndex{}
	root.Get("defaults").ForEach(func(k, v gjson.Result) bool {
		defaults[k.Str] = ActionIndex(v.Int())
		return true
	})

	table, err := NewActionTable(actions, defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cd.Name, err)
	}
	cd.Table = table
	return cd, nil
}

func parseAction(v gjson.Result, nproj int) (*ActionDefinition, error) {
	ad := &ActionDefinition{
		Name:            v.Get("name").Str,
		SpritesheetPath: v.Get("spritesheet").Str,
		FrameWidth:      int32(v.Get("frame_width").Int()),
		FrameHeight:     int32(v.Get("frame_height").Int()),
		XOffset:         int32(v.Get("x_offset").Int()),
		Condition:       ActionCondition(v.Get("condition").Int()),
		MultiHit:        v.Get("multi_hit").Bool(),
		Priority:        int32(v.Get("priority").Int()),
		MeterGain:       int32(v.Get("meter_gain").Int()),
		MeterCost:       int32(v.Get("meter_cost").Int()),
		Proximity:       int32(v.Get("proximity").Int()),
	}
	if ad.Condition < AC_Standing || ad.Condition > AC_Airborne {
		return nil, fmt.Errorf("action %q: bad condition %d", ad.Name, ad.Condition)
	}
	if cw := v.Get("counter_window"); cw.Exists() {
		arr := cw.Array()
		if len(arr) != 2 {
			return nil, fmt.Errorf("action %q: counter window needs two frame indices", ad.Name)
		}
		ad.CounterWindow = [2]int32{int32(arr[0].Int()), int32(arr[1].Int())}
	}
	if in := v.Get("input"); in.Exists() {
		seq, err := ReadSequence(ad.Name, in.Str)
		if err != nil {
			return nil, err
		}
		ad.Input = seq
	}
	var ferr error
	v.Get("frames").ForEach(func(_, fv gjson.Result) bool {
		fr, err := parseFrame(fv, nproj)
		if err != nil {
			ferr = fmt.Errorf("action %q: %w", ad.Name, err)
			return false
		}
		ad.Frames = append(ad.Frames, *fr)
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	return ad, nil
}

func parseFrame(v gjson.Result, nproj int) (*FrameDefinition, error) {
	fr := &FrameDefinition{
		Duration: int32(v.Get("duration").Int()),
		Cancel:   CancelTier(v.Get("cancelable").Int()),
		MoveX:    int32(v.Get("move_x").Int()),
		MoveY:    int32(v.Get("move_y").Int()),
		SoundCue: -1,
	}
	if sc := v.Get("sound"); sc.Exists() {
		fr.SoundCue = int32(sc.Int())
	}
	v.Get("hurtboxes").ForEach(func(_, bv gjson.Result) bool {
		fr.Hurtboxes = append(fr.Hurtboxes, Hurtbox{
			Offset: parseVec(bv, "x", "y"),
			Size:   parseVec(bv, "w", "h"),
		})
		return true
	})
	v.Get("hitboxes").ForEach(func(_, bv gjson.Result) bool {
		fr.Hitboxes = append(fr.Hitboxes, Hitbox{
			Offset:    parseVec(bv, "x", "y"),
			Size:      parseVec(bv, "w", "h"),
			Damage:    int32(bv.Get("damage").Int()),
			Hitstun:   int32(bv.Get("hitstun").Int()),
			Blockstun: int32(bv.Get("blockstun").Int()),
			Knockback: parseVec(bv, "knockback_x", "knockback_y"),
			DizzyStun: int32(bv.Get("dizzy_stun").Int()),
			Effect:    HitEffect(bv.Get("effect").Int()),
			BlockHigh: bv.Get("can_block_high").Bool(),
			BlockLow:  bv.Get("can_block_low").Bool(),
		})
		return true
	})
	var perr error
	v.Get("projectiles").ForEach(func(_, pv gjson.Result) bool {
		pi := ProjectileIndex(pv.Int())
		if pi < 0 || int(pi) >= nproj {
			perr = fmt.Errorf("projectile index %d outside projectile list", pi)
			return false
		}
		fr.Projectiles = append(fr.Projectiles, pi)
		return true
	})
	if perr != nil {
		return nil, perr
	}
	return fr, nil
}

func parseProjectile(v gjson.Result) (*ProjectileData, error) {
	pd := &ProjectileData{
		Name:            v.Get("name").Str,
		Offset:          parseVec(v, "x", "y"),
		Size:            parseVec(v, "w", "h"),
		XSpeed:          int32(v.Get("x_speed").Int()),
		YSpeed:          int32(v.Get("y_speed").Int()),
		SpritesheetPath: v.Get("spritesheet").Str,
		Stamina:         int32(v.Get("stamina").Int()),
		FirstLoopFrame:  int32(v.Get("first_loop_frame").Int()),
		ImpactFrame:     int32(v.Get("first_collision_frame").Int()),
	}
	var ferr error
	v.Get("frames").ForEach(func(_, fv gjson.Result) bool {
		fr, err := parseFrame(fv, 0)
		if err != nil {
			ferr = err
			return false
		}
		if len(fr.Hurtboxes) > 0 {
			ferr = Error("projectile frames cannot carry hurtboxes")
			return false
		}
		pd.Frames = append(pd.Frames, *fr)
		return true
	})
	if ferr != nil {
		return nil, fmt.Errorf("projectile %q: %w", pd.Name, ferr)
	}
	if err := pd.validate(); err != nil {
		return nil, fmt.Errorf("projectile %q: %w", pd.Name, err)
	}
	return pd, nil
}

func parseVec(v gjson.Result, xkey, ykey string) [2]int32 {
	return [2]int32{int32(v.Get(xkey).Int()), int32(v.Get(ykey).Int())}
}
