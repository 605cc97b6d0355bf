package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// StatsFighterState captures an end-of-round snapshot for one side.
type StatsFighterState struct {
	Name    string `json:"name"`
	Life    int32  `json:"life"`    // stamina remaining at round end
	LifeMax int32  `json:"lifeMax"` // starting stamina
	Meter   int32  `json:"meter"`
	Win     bool   `json:"win"`
	WinKO   bool   `json:"winKO"`
	WinTime bool   `json:"winTime"` // won on time-out
	KO      bool   `json:"ko"`      // this fighter was KO'd
}

// StatsRound stores all per-round stats.
// Indices: side 0 == P1, side 1 == P2.
type StatsRound struct {
	Index    int32                `json:"index"` // 1-based round number
	Ticks    int32                `json:"ticks"` // ticks the round lasted
	Fighters [2]StatsFighterState `json:"fighters"`
}

// StatsMatch aggregates one match between the two sides.
type StatsMatch struct {
	RoundTime int32        `json:"roundTime"` // configured round time in ticks
	WinSide   int32        `json:"winSide"`   // -1 while undecided
	Wins      [2]int32     `json:"wins"`
	Draws     int32        `json:"draws"`
	Rounds    []StatsRound `json:"rounds"`
}

// StatsLog is a simple container for many matches.
type StatsLog struct {
	Matches []StatsMatch `json:"matches"`
}

func (sl *StatsLog) reset() {
	sl.Matches = nil
}

func (sl *StatsLog) startMatch(cfg *Config) {
	sl.Matches = append(sl.Matches, StatsMatch{
		RoundTime: cfg.Options.RoundTime,
		WinSide:   -1,
	})
}

func (sl *StatsLog) currentStatsMatch() *StatsMatch {
	if len(sl.Matches) == 0 {
		return nil
	}
	return &sl.Matches[len(sl.Matches)-1]
}

// addRound records a just-decided round from the live system state.
func (sl *StatsLog) addRound(s *System) {
	m := sl.currentStatsMatch()
	if m == nil {
		return
	}
	r := StatsRound{
		Index: s.round,
		Ticks: s.cfg.Options.RoundTime - s.ticksLeft,
	}
	if s.cfg.Options.RoundTime == 0 {
		r.Ticks = s.tick
	}
	for i, c := range s.chars {
		won := s.status.Winner == c.id
		r.Fighters[i] = StatsFighterState{
			Name:    c.data.Name,
			Life:    c.life,
			LifeMax: c.data.Stamina,
			Meter:   c.meter,
			Win:     won,
			WinKO:   won && s.status.State == RS_KO,
			WinTime: won && s.status.State == RS_TimeOut,
			KO:      c.csf(CSF_ko),
		}
	}
	m.Rounds = append(m.Rounds, r)
	m.Wins = s.wins
	m.Draws = s.draws
}

func (sl *StatsLog) finalizeMatch(s *System) {
	m := sl.currentStatsMatch()
	if m == nil {
		return
	}
	m.WinSide = s.MatchWinner()
	m.Wins = s.wins
	m.Draws = s.draws
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

// saveStats merges the log into the stats file, preserving any other
// keys already stored there.
func (sl *StatsLog) saveStats(path string) error {
	data, _ := os.ReadFile(path)
	if len(data) == 0 {
		data = []byte(`{}`)
	}

	var ticks int32
	for _, m := range sl.Matches {
		for _, r := range m.Rounds {
			ticks += r.Ticks
		}
	}
	curPlay := gjson.GetBytes(data, "playtime").Float()
	curPlay = round2(curPlay + float64(ticks)/3600.0) // minutes at 60 ticks/s
	data, _ = sjson.SetBytes(data, "playtime", curPlay)

	buf, err := json.Marshal(sl.Matches)
	if err != nil {
		return err
	}
	data, _ = sjson.SetRawBytes(data, "matches", buf)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
