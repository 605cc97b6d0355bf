package main

import (
	"encoding/binary"
	"fmt"
	"os"
)

// InputBits packs one tick's worth of input for one player.
// The low bits are device-level (Left/Right are absolute screen
// directions); IB_B and IB_F are the logical facing-relative symbols
// derived from them when a snapshot is buffered.
type InputBits int32

const (
	IB_PU InputBits = 1 << iota
	IB_PD
	IB_PL
	IB_PR
	IB_lp
	IB_mp
	IB_hp
	IB_lk
	IB_mk
	IB_hk
	IB_B
	IB_F
	IB_anybutton = IB_lp | IB_mp | IB_hp | IB_lk | IB_mk | IB_hk
	IB_anydir    = IB_PU | IB_PD | IB_B | IB_F
)

// Save device inputs as input bits to send or record
func (ibit *InputBits) KeysToBits(U, D, L, R, lp, mp, hp, lk, mk, hk bool) {
	*ibit = InputBits(Btoi(U) |
		Btoi(D)<<1 |
		Btoi(L)<<2 |
		Btoi(R)<<3 |
		Btoi(lp)<<4 |
		Btoi(mp)<<5 |
		Btoi(hp)<<6 |
		Btoi(lk)<<7 |
		Btoi(mk)<<8 |
		Btoi(hk)<<9)
}

// SymbolsFor converts device bits into the logical ten-symbol set for a
// character with the given facing. Left/Right become Back/Forward and
// conflicting directions are resolved with absolute priority: Up beats
// Down, Forward beats Back. Bits outside the alphabet are dropped.
func (ibit InputBits) SymbolsFor(facing int32) InputBits {
	out := ibit & (IB_PU | IB_PD | IB_anybutton)
	l := ibit&IB_PL != 0
	r := ibit&IB_PR != 0
	var b, f bool
	if facing < 0 {
		b, f = r, l
	} else {
		b, f = l, r
	}
	if out&IB_PU != 0 && out&IB_PD != 0 {
		out &^= IB_PD
	}
	if b && f {
		b = false
	}
	if b {
		out |= IB_B
	}
	if f {
		out |= IB_F
	}
	return out
}

var symbolNames = []struct {
	bit  InputBits
	name string
}{
	{IB_PU, "U"},
	{IB_PD, "D"},
	{IB_B, "B"},
	{IB_F, "F"},
	{IB_lp, "lp"},
	{IB_mp, "mp"},
	{IB_hp, "hp"},
	{IB_lk, "lk"},
	{IB_mk, "mk"},
	{IB_hk, "hk"},
}

func (ibit InputBits) String() string {
	s := ""
	for _, sn := range symbolNames {
		if ibit&sn.bit != 0 {
			if s != "" {
				s += "+"
			}
			s += sn.name
		}
	}
	return s
}

// InputSnapshot is one buffered tick of logical inputs.
type InputSnapshot struct {
	tick int32
	keys InputBits
}

// InputBuffer is a fixed-capacity ring of input snapshots. The capacity
// is decided at load time from the longest input sequence among the
// loaded actions; the oldest snapshot is evicted on overflow.
type InputBuffer struct {
	buf   []InputSnapshot
	start int
	count int
}

func NewInputBuffer(capacity int) *InputBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &InputBuffer{buf: make([]InputSnapshot, capacity)}
}

func (ib *InputBuffer) Reset() {
	ib.start, ib.count = 0, 0
}

// Push appends a snapshot, evicting the oldest entry when full.
func (ib *InputBuffer) Push(tick int32, keys InputBits) {
	if ib.count < len(ib.buf) {
		ib.buf[(ib.start+ib.count)%len(ib.buf)] = InputSnapshot{tick, keys}
		ib.count++
	} else {
		ib.buf[ib.start] = InputSnapshot{tick, keys}
		ib.start = (ib.start + 1) % len(ib.buf)
	}
}

// History returns up to depth snapshots in chronological order, oldest
// first. A short history simply yields fewer snapshots.
func (ib *InputBuffer) History(depth int) []InputSnapshot {
	n := Min(depth, ib.count)
	if n <= 0 {
		return nil
	}
	out := make([]InputSnapshot, n)
	first := ib.count - n
	for i := 0; i < n; i++ {
		out[i] = ib.buf[(ib.start+first+i)%len(ib.buf)]
	}
	return out
}

// Latest returns the most recent snapshot.
func (ib *InputBuffer) Latest() (InputSnapshot, bool) {
	if ib.count == 0 {
		return InputSnapshot{}, false
	}
	return ib.buf[(ib.start+ib.count-1)%len(ib.buf)], true
}

func (ib *InputBuffer) Len() int { return ib.count }

// ReplayFile plays back a recorded match: one pair of device-level
// InputBits per tick, little-endian int32.
type ReplayFile struct {
	fp *os.File
}

func OpenReplayFile(filename string) (*ReplayFile, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", filename, err)
	}
	return &ReplayFile{fp: fp}, nil
}

func (rf *ReplayFile) Close() {
	if rf.fp != nil {
		rf.fp.Close()
		rf.fp = nil
	}
}

// ReadTick returns the next tick's inputs for both players, or false at
// end of file.
func (rf *ReplayFile) ReadTick() ([2]InputBits, bool) {
	var ib [2]int32
	if rf.fp == nil {
		return [2]InputBits{}, false
	}
	if err := binary.Read(rf.fp, binary.LittleEndian, &ib); err != nil {
		return [2]InputBits{}, false
	}
	return [2]InputBits{InputBits(ib[0]), InputBits(ib[1])}, true
}

// ReplayRecorder writes the per-tick input stream of a running match.
type ReplayRecorder struct {
	fp *os.File
}

func NewReplayRecorder(filename string) (*ReplayRecorder, error) {
	fp, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", filename, err)
	}
	return &ReplayRecorder{fp: fp}, nil
}

func (rr *ReplayRecorder) WriteTick(in [2]InputBits) {
	if rr.fp == nil {
		return
	}
	binary.Write(rr.fp, binary.LittleEndian, [2]int32{int32(in[0]), int32(in[1])})
}

func (rr *ReplayRecorder) Close() {
	if rr.fp != nil {
		rr.fp.Close()
		rr.fp = nil
	}
}
