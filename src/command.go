package main

import (
	"fmt"
	"strings"
)

// InputSequence is the ordered list of input steps that unlocks an
// action. Each step is a set of simultaneous symbols. Sequences are
// compiled once at load time from the textual notation and never
// modified afterwards.
type InputSequence struct {
	name  string
	steps []InputBits
}

// ReadSequence compiles a textual input sequence. Steps are separated
// by commas, simultaneous symbols within a step by "+":
//
//	"D, F, lp"   quarter-circle forward light punch
//	"B+lk"       back and light kick together
//
// Directions are U/D/B/F, buttons lp/mp/hp/lk/mk/hk. An unknown symbol
// is a load-time error, never silently skipped.
func ReadSequence(name, seqstr string) (*InputSequence, error) {
	seq := &InputSequence{name: name}
	if strings.TrimSpace(seqstr) == "" {
		return seq, nil
	}
	for _, stepstr := range strings.Split(seqstr, ",") {
		var step InputBits
		for _, symstr := range strings.Split(stepstr, "+") {
			sym, err := parseSymbol(symstr)
			if err != nil {
				return nil, fmt.Errorf("sequence %q: %w", name, err)
			}
			step |= sym
		}
		if step == 0 {
			return nil, fmt.Errorf("sequence %q: empty step", name)
		}
		seq.steps = append(seq.steps, step)
	}
	return seq, nil
}

func parseSymbol(s string) (InputBits, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		s = strings.ToUpper(s)
	} else {
		s = strings.ToLower(s)
	}
	for _, sn := range symbolNames {
		if sn.name == s {
			return sn.bit, nil
		}
	}
	return 0, fmt.Errorf("unknown input symbol %q", s)
}

func (seq *InputSequence) Len() int { return len(seq.steps) }

// Matches reports whether the buffered history satisfies the sequence.
//
// A single-step sequence matches when the latest snapshot contains the
// step's symbols as a subset, so plain button actions fire on the tick
// they are pressed. Longer sequences are matched with a forward scan:
// each step must be satisfied by some snapshot, snapshots are consumed
// in chronological order and never reused, and snapshots that don't
// satisfy the current step are skipped as noise rather than failing
// the match. The result depends only on the history contents.
func (seq *InputSequence) Matches(hist []InputSnapshot) bool {
	if len(seq.steps) == 0 || len(hist) == 0 {
		return false
	}
	if len(seq.steps) == 1 {
		last := hist[len(hist)-1]
		return last.keys&seq.steps[0] == seq.steps[0]
	}
	idx := 0
	for i := range hist {
		if hist[i].keys&seq.steps[idx] == seq.steps[idx] {
			idx++
			if idx == len(seq.steps) {
				return true
			}
		}
	}
	return false
}
