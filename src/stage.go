package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StageData describes the arena the external stage editor produced:
// wall bounds, ground level and the two spawn points. Backgrounds,
// music and parallax layers are presentation concerns and never reach
// the simulation core.
type StageData struct {
	Name   string `yaml:"name"`
	Left   int32  `yaml:"left"`
	Right  int32  `yaml:"right"`
	Ground int32  `yaml:"ground"`
	Spawn  struct {
		P1 int32 `yaml:"p1"`
		P2 int32 `yaml:"p2"`
	} `yaml:"spawn"`
}

func LoadStageFile(path string) (*StageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", path, err)
	}
	var sd StageData
	if err := yaml.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("stage %s: %w", path, err)
	}
	if err := sd.validate(); err != nil {
		return nil, fmt.Errorf("stage %s: %w", path, err)
	}
	return &sd, nil
}

func (sd *StageData) validate() error {
	if sd.Left >= sd.Right {
		return fmt.Errorf("left wall %d must be less than right wall %d", sd.Left, sd.Right)
	}
	if sd.Spawn.P1 < sd.Left || sd.Spawn.P1 > sd.Right ||
		sd.Spawn.P2 < sd.Left || sd.Spawn.P2 > sd.Right {
		return Error("spawn points outside the walls")
	}
	return nil
}

// Arena is the fixed bound set position updates are clamped against.
type Arena struct {
	Left   int32
	Right  int32
	Ground int32
}

func (sd *StageData) Arena() Arena {
	return Arena{Left: sd.Left, Right: sd.Right, Ground: sd.Ground}
}

// DefaultStage is used by tests and by the driver when no stage file
// is given.
func DefaultStage() *StageData {
	sd := &StageData{Name: "default", Left: 0, Right: 640, Ground: 200}
	sd.Spawn.P1, sd.Spawn.P2 = 160, 480
	return sd
}
