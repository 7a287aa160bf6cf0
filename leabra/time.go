// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import "github.com/goki/ki/kit"

// leabra.Time contains all the timing state and parameter information for running a network
type Time struct {
	Time        float32 `desc:"accumulated amount of time the network has been running, in simulation-time (not real world time), in seconds"`
	Cycle       int     `desc:"cycle counter within the current phase"`
	CycleTot    int     `desc:"total cycle count -- increments continuously from whenever it was last reset"`
	Trial       int     `desc:"number of completed trials since the last Reset"`
	Phase       Phase   `desc:"current phase of the trial"`
	Dt          float32 `def:"1" min:"0" desc:"integration step size passed to every layer Step -- 1 = one cycle of the time constants"`
	MinusCycles int     `def:"75" min:"1" desc:"number of cycles to settle in the minus phase"`
	PlusCycles  int     `def:"25" min:"1" desc:"number of cycles to settle in the plus phase"`
	TimePerCyc  float32 `def:"0.001" desc:"amount of time to increment per cycle"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.Dt = 1
	tm.MinusCycles = 75
	tm.PlusCycles = 25
	tm.TimePerCyc = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Cycle = 0
	tm.CycleTot = 0
	tm.Trial = 0
	tm.Phase = Idle
	if tm.MinusCycles == 0 {
		tm.Defaults()
	}
}

// PhaseStart starts a new phase of settling
func (tm *Time) PhaseStart(ph Phase) {
	tm.Phase = ph
	tm.Cycle = 0
}

// CycleInc increments at the cycle level
func (tm *Time) CycleInc() {
	tm.Cycle++
	tm.CycleTot++
	tm.Time += tm.TimePerCyc
}

// Phase is the orchestration state of a trial
type Phase int32

//go:generate stringer -type=Phase

var KiT_Phase = kit.Enums.AddEnum(PhaseN, kit.NotBitFlag, nil)

func (ev Phase) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Phase) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The trial phases
const (
	// Idle is the state outside of a trial -- cycles run with inputs clamped
	Idle Phase = iota

	// Minus is settling with inputs clamped and outputs free -- the expectation
	Minus

	// Plus is settling with inputs and targets clamped -- the outcome
	Plus

	// Learn is the weight update at the end of a trial
	Learn

	PhaseN
)
