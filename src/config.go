package main

import (
	_ "embed" // Support for go:embed resources
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

//go:embed resources/defaultConfig.ini
var defaultConfig []byte

// Config carries every tunable of the simulation core. It is loaded
// once and passed into the match orchestrator at construction; the
// core holds no process-wide mutable settings.
type Config struct {
	Options struct {
		RoundsToWin      int32 `ini:"RoundsToWin"`
		RoundTime        int32 `ini:"RoundTime"` // ticks; 0 disables the timer
		StunDecay        int32 `ini:"StunDecay"` // dizzy accumulator decay per tick
		DizzyTicks       int32 `ini:"DizzyTicks"`
		BlockDamageDiv   int32 `ini:"BlockDamageDiv"` // blocked damage = damage / div
		MultiHitCooldown int32 `ini:"MultiHitCooldown"`
		PostHitInvuln    int32 `ini:"PostHitInvuln"`
		Gravity          int32 `ini:"Gravity"` // fall speed while knocked down airborne
	} `ini:"Options"`
	Input struct {
		BufferPadding int32 `ini:"BufferPadding"` // history headroom beyond the longest sequence
	} `ini:"Input"`
	Save struct {
		StatsFile string `ini:"StatsFile"`
	} `ini:"Save"`
}

// loadConfig reads the embedded defaults, overlaid with the given INI
// file when it exists.
func loadConfig(def string) (*Config, error) {
	options := ini.LoadOptions{
		IgnoreInlineComment:     false,
		SkipUnrecognizableLines: true,
	}
	var iniFile *ini.File
	var err error
	if _, serr := os.Stat(def); def == "" || serr != nil {
		iniFile, err = ini.LoadSources(options, defaultConfig)
	} else {
		iniFile, err = ini.LoadSources(options, defaultConfig, def)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	c := &Config{}
	if err := iniFile.MapTo(c); err != nil {
		return nil, fmt.Errorf("failed to map config: %w", err)
	}
	c.normalize()
	return c, nil
}

// Normalize values
func (c *Config) normalize() {
	c.Options.RoundsToWin = Clamp(c.Options.RoundsToWin, 1, 99)
	c.Options.RoundTime = Max(c.Options.RoundTime, 0)
	c.Options.StunDecay = Max(c.Options.StunDecay, 0)
	c.Options.DizzyTicks = Max(c.Options.DizzyTicks, 1)
	c.Options.BlockDamageDiv = Max(c.Options.BlockDamageDiv, 1)
	c.Options.MultiHitCooldown = Max(c.Options.MultiHitCooldown, 0)
	c.Options.PostHitInvuln = Max(c.Options.PostHitInvuln, 0)
	c.Options.Gravity = Max(c.Options.Gravity, 1)
	c.Input.BufferPadding = Clamp(c.Input.BufferPadding, 0, 120)
}

// defaultTestConfig is shared by the test files; it mirrors the
// embedded defaults without touching the filesystem.
func defaultTestConfig() *Config {
	c := &Config{}
	c.Options.RoundsToWin = 2
	c.Options.RoundTime = 5940
	c.Options.StunDecay = 1
	c.Options.DizzyTicks = 180
	c.Options.BlockDamageDiv = 4
	c.Options.MultiHitCooldown = 6
	c.Options.PostHitInvuln = 10
	c.Options.Gravity = 4
	c.Input.BufferPadding = 30
	c.Save.StatsFile = "save/stats.json"
	return c
}
