// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"fmt"

	"github.com/emer/etable/minmax"
)

// leabra.Unit holds all of the state for one rate-code point-neuron unit.
// Units are owned by their Layer and referenced elsewhere only by index.
type Unit struct {
	Spec *UnitSpec `view:"-" json:"-" desc:"shared activation parameters -- owned by the layer's configuration"`

	Act     float32 `desc:"rate-coded activation value in the 0-1 range, including adaptation effects"`
	ActLrn  float32 `desc:"learning activation value, not affected by adaptation -- drives the Avg* learning averages"`
	Net     float32 `desc:"integrated excitatory conductance (net input) -- does *not* include Gbar.E"`
	NetRaw  float32 `desc:"excitatory input accumulated by connections during the current cycle -- consumed by the next integration"`
	GiRaw   float32 `desc:"inhibitory input accumulated by inhibitory connections during the current cycle"`
	GiSyn   float32 `desc:"integrated synaptic inhibition from inhibitory connections"`
	Gi      float32 `desc:"total inhibitory conductance: layer inhibition plus GiSyn -- does *not* include Gbar.I"`
	Inet    float32 `desc:"net current produced by all channels -- drives update of Vm"`
	Vm      float32 `desc:"membrane potential -- integrates Inet current over time"`
	Adapt   float32 `desc:"adaptation current, when UnitSpec.Adapt.On"`
	ActM    float32 `desc:"activation at the end of the minus phase"`
	ActP    float32 `desc:"activation at the end of the plus phase"`
	ActDif  float32 `desc:"ActP - ActM"`
	AvgSS   float32 `desc:"super-short time-scale average of ActLrn"`
	AvgS    float32 `desc:"short time-scale average of ActLrn -- the plus phase for learning"`
	AvgM    float32 `desc:"medium time-scale average of ActLrn -- the minus phase for learning"`
	AvgSLrn float32 `desc:"short time-scale average actually used for learning -- AvgS with a small mix of AvgM"`
	AvgL    float32 `desc:"long time-scale average of trial-level activation, floored at AvgL.Min -- the BCM floating threshold"`
	AvgLLrn float32 `desc:"how much to learn based on the AvgL floating threshold"`

	Logs map[string][]float32 `view:"-" json:"-" desc:"per-cycle recorded values for each of UnitLogVars"`

	netDone bool
}

// UnitVars are the unit variables accessible by name through VarByName
var UnitVars = []string{"act", "act_lrn", "net", "g_i", "I_net", "v_m", "adapt", "act_m", "act_p", "act_dif", "avg_ss", "avg_s", "avg_m", "avg_s_lrn", "avg_l", "avg_l_lrn"}

// UnitLogVars are the variables recorded into Logs every cycle
var UnitLogVars = []string{"net", "I_net", "g_i", "v_m", "act", "adapt"}

// VarByName returns the value of the named unit variable
func (u *Unit) VarByName(varNm string) (float32, error) {
	switch varNm {
	case "act":
		return u.Act, nil
	case "act_lrn":
		return u.ActLrn, nil
	case "net":
		return u.Net, nil
	case "g_i":
		return u.Gi, nil
	case "I_net":
		return u.Inet, nil
	case "v_m":
		return u.Vm, nil
	case "adapt":
		return u.Adapt, nil
	case "act_m":
		return u.ActM, nil
	case "act_p":
		return u.ActP, nil
	case "act_dif":
		return u.ActDif, nil
	case "avg_ss":
		return u.AvgSS, nil
	case "avg_s":
		return u.AvgS, nil
	case "avg_m":
		return u.AvgM, nil
	case "avg_s_lrn":
		return u.AvgSLrn, nil
	case "avg_l":
		return u.AvgL, nil
	case "avg_l_lrn":
		return u.AvgLLrn, nil
	}
	return 0, fmt.Errorf("unit variable named: %s not found", varNm)
}

// Accumulate adds to the excitatory input for the current cycle.
// Called by connections during propagation, before Integrate.
func (u *Unit) Accumulate(delta float32) {
	u.NetRaw += delta
}

// AccumulateInhib adds to the synaptic inhibitory input for the current cycle.
func (u *Unit) AccumulateInhib(delta float32) {
	u.GiRaw += delta
}

// NetFmRaw integrates Net from the accumulated input, so that the layer can
// read the current cycle's Net before computing inhibition.
// Integrate does this itself when it has not been done for this cycle.
func (u *Unit) NetFmRaw(dt float32) {
	u.Spec.NetFmRaw(u, dt)
	u.netDone = true
}

// Integrate performs one integration step of size dt, given the layer
// inhibitory conductance gi: net input, membrane potential, activation,
// adaptation and learning averages.  The accumulated input is consumed.
func (u *Unit) Integrate(gi, dt float32) {
	us := u.Spec
	if !u.netDone {
		us.NetFmRaw(u, dt)
	}
	u.netDone = false
	u.Gi = gi + u.GiSyn
	us.VmFmG(u, dt)
	us.ActFmG(u, dt)
	us.Avgs.AvgsFmAct(u.ActLrn, dt, &u.AvgSS, &u.AvgS, &u.AvgM, &u.AvgSLrn)
}

// Clamp sets the activation directly from ext, within the given range,
// instead of integrating.  Net and the learning averages are still updated.
func (u *Unit) Clamp(ext, dt float32, rng minmax.F32) {
	us := u.Spec
	if !u.netDone {
		us.NetFmRaw(u, dt)
	}
	u.netDone = false
	us.HardClamp(u, ext, rng)
	us.Avgs.AvgsFmAct(u.ActLrn, dt, &u.AvgSS, &u.AvgS, &u.AvgM, &u.AvgSLrn)
}

// CapturePhase records the current activation as the minus or plus phase activation
func (u *Unit) CapturePhase(ph Phase) {
	switch ph {
	case Minus:
		u.ActM = u.Act
	case Plus:
		u.ActP = u.Act
		u.ActDif = u.ActP - u.ActM
	}
}

// EndTrial updates the long-term average AvgL from the medium-term
// average at the end of the plus phase, and the AvgLLrn learning factor.
func (u *Unit) EndTrial() {
	u.Spec.AvgL.AvgLFmAvgM(u.AvgM, &u.AvgL, &u.AvgLLrn)
}

// ResetLogs clears all recorded values
func (u *Unit) ResetLogs() {
	u.Logs = make(map[string][]float32, len(UnitLogVars))
}

// UpdateLogs appends the current values of UnitLogVars to Logs
func (u *Unit) UpdateLogs() {
	if u.Logs == nil {
		u.ResetLogs()
	}
	u.Logs["net"] = append(u.Logs["net"], u.Net)
	u.Logs["I_net"] = append(u.Logs["I_net"], u.Inet)
	u.Logs["g_i"] = append(u.Logs["g_i"], u.Gi)
	u.Logs["v_m"] = append(u.Logs["v_m"], u.Vm)
	u.Logs["act"] = append(u.Logs["act"], u.Act)
	u.Logs["adapt"] = append(u.Logs["adapt"], u.Adapt)
}
