package main

import (
	"flag"
	"fmt"
	"os"
)

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Sidewalk error:", err)
	os.Exit(1)
}

func main() {
	var (
		cfgPath   = flag.String("config", "save/config.ini", "engine configuration file")
		char1Path = flag.String("char1", "", "player 1 character definition (JSON)")
		char2Path = flag.String("char2", "", "player 2 character definition (JSON)")
		stagePath = flag.String("stage", "", "stage definition (YAML)")
		replay    = flag.String("replay", "", "replay file to play back")
		record    = flag.String("record", "", "record inputs to a replay file")
		script    = flag.String("script", "", "Lua script that drives the match")
		maxTicks  = flag.Int("maxticks", 60*60*10, "safety cap on simulated ticks")
	)
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fatal(err)
	}

	if *char1Path == "" || *char2Path == "" {
		fatal(Error("both -char1 and -char2 are required"))
	}
	p1, err := LoadCharacterFile(*char1Path)
	if err != nil {
		fatal(err)
	}
	p2, err := LoadCharacterFile(*char2Path)
	if err != nil {
		fatal(err)
	}

	stage := DefaultStage()
	if *stagePath != "" {
		if stage, err = LoadStageFile(*stagePath); err != nil {
			fatal(err)
		}
	}

	sys, err := NewSystem(cfg, stage, p1, p2)
	if err != nil {
		fatal(err)
	}

	if *record != "" {
		rr, err := NewReplayRecorder(*record)
		if err != nil {
			fatal(err)
		}
		defer rr.Close()
		sys.SetRecorder(rr)
	}

	if *script != "" {
		if err := RunMatchScript(sys, *script); err != nil {
			fatal(err)
		}
	} else {
		var rf *ReplayFile
		if *replay != "" {
			if rf, err = OpenReplayFile(*replay); err != nil {
				fatal(err)
			}
			defer rf.Close()
		}
		for t := 0; t < *maxTicks && !sys.MatchOver(); t++ {
			var in [2]InputBits
			if rf != nil {
				var ok bool
				if in, ok = rf.ReadTick(); !ok {
					break
				}
			}
			sys.Step(in)
			if sys.RoundOver() && !sys.MatchOver() {
				sys.ResetRound()
			}
		}
	}

	switch w := sys.MatchWinner(); w {
	case -1:
		fmt.Println("match unfinished")
	default:
		fmt.Printf("winner: %s (P%d)\n", sys.Char(w).data.Name, w+1)
	}

	if cfg.Save.StatsFile != "" {
		if err := sys.statsLog.saveStats(cfg.Save.StatsFile); err != nil {
			fmt.Fprintln(os.Stderr, "failed to save stats:", err)
		}
	}
}
