// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
	"github.com/emer/refleabra/chans"
	"github.com/emer/refleabra/nxx1"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the activation params and functions for leabra

// minDenom is the smallest magnitude allowed for a conductance denominator
const minDenom = 1.0e-6

// leabra.UnitSpec contains all the activation computation params and functions
// for a point-neuron unit.  One UnitSpec is shared by pointer across all the
// units of one or more layers, and must not be modified during a trial.
// Call Update after changing any field.
type UnitSpec struct {
	Act     nxx1.Params `view:"inline" desc:"noisy x/(x+1) rate code activation function parameters: Thr (act_thr), Gain (act_gain), NVar (act_sd)"`
	Init    InitParams  `view:"inline" desc:"initial values for key state variables -- decayed toward at the start of each trial"`
	Dt      DtParams    `view:"inline" desc:"time and rate constants for updating of activation state"`
	Gbar    chans.Chans `view:"inline" desc:"[Defaults: 1, .1, 1] maximal conductances levels for channels (g_bar_e, g_bar_l, g_bar_i)"`
	Erev    chans.Chans `view:"inline" desc:"[Defaults: 1, .3, .25] reversal potentials for each channel (e_rev_e, e_rev_l, e_rev_i)"`
	VmRange minmax.F32  `view:"inline" desc:"range for Vm membrane potential -- [0, 2.0] by default"`
	Avgs    AvgParams   `view:"inline" desc:"running average activation time constants for learning"`
	AvgL    AvgLParams  `view:"inline" desc:"long-term running average activation (avg_l_init, avg_l_gain, avg_l_min)"`
	Adapt   AdaptParams `view:"inline" desc:"adaptation current (adapt_on) -- reduces activation under sustained input"`

	ErevSubThr chans.Chans `inactive:"+" view:"-" json:"-" xml:"-" desc:"Erev - Act.Thr for each channel -- used in computing GeThrFmG"`
	ThrSubErev chans.Chans `inactive:"+" view:"-" json:"-" xml:"-" desc:"Act.Thr - Erev for each channel -- used in computing GeThrFmG"`
}

// NewUnitSpec returns a new UnitSpec with default values
func NewUnitSpec() *UnitSpec {
	us := &UnitSpec{}
	us.Defaults()
	return us
}

func (us *UnitSpec) Defaults() {
	us.Act.Defaults()
	us.Init.Defaults()
	us.Dt.Defaults()
	us.Gbar.SetAll(1.0, 0.1, 1.0)
	us.Erev.SetAll(1.0, 0.3, 0.25)
	us.VmRange.Max = 2.0
	us.Avgs.Defaults()
	us.AvgL.Defaults()
	us.Adapt.Defaults()
	us.Update()
}

// Update must be called after any changes to parameters
func (us *UnitSpec) Update() {
	us.ErevSubThr.SetFmOtherMinus(us.Erev, us.Act.Thr)
	us.ThrSubErev.SetFmMinusOther(us.Act.Thr, us.Erev)
	if math32.Abs(us.ThrSubErev.E) < minDenom {
		us.ThrSubErev.E = -minDenom
	}
	us.Act.Update()
	us.Dt.Update()
	us.Avgs.Update()
	us.AvgL.Update()
	us.Adapt.Update()
}

// Validate returns an error describing every setting that cannot be simulated.
func (us *UnitSpec) Validate() error {
	var errs []string
	if us.Gbar.E < 0 || us.Gbar.L < 0 || us.Gbar.I < 0 {
		errs = append(errs, fmt.Sprintf("Gbar values must be >= 0, got %+v", us.Gbar))
	} else if us.Gbar.Sum() == 0 {
		errs = append(errs, "Gbar values sum to zero")
	}
	if us.Act.Gain <= 0 || us.Act.NVar <= 0 {
		errs = append(errs, fmt.Sprintf("Act Gain and NVar must be > 0, got %v, %v", us.Act.Gain, us.Act.NVar))
	}
	if us.Act.Thr == us.Erev.E {
		errs = append(errs, fmt.Sprintf("Act.Thr must differ from Erev.E: %v", us.Act.Thr))
	}
	if us.Dt.VmTau <= 0 || us.Dt.NetTau <= 0 {
		errs = append(errs, fmt.Sprintf("Dt taus must be > 0, got VmTau: %v, NetTau: %v", us.Dt.VmTau, us.Dt.NetTau))
	}
	if us.Avgs.SSTau <= 0 || us.Avgs.STau <= 0 || us.Avgs.MTau <= 0 || us.AvgL.Tau <= 0 {
		errs = append(errs, "Avgs and AvgL taus must be > 0")
	}
	if us.AvgL.Gain <= us.AvgL.Min {
		errs = append(errs, fmt.Sprintf("AvgL.Gain: %v must be > AvgL.Min: %v", us.AvgL.Gain, us.AvgL.Min))
	}
	if us.Adapt.On && us.Adapt.Tau <= 0 {
		errs = append(errs, fmt.Sprintf("Adapt.Tau must be > 0, got %v", us.Adapt.Tau))
	}
	if len(errs) == 0 {
		return nil
	}
	msg := "UnitSpec:"
	for _, e := range errs {
		msg += " " + e + ";"
	}
	return errors.New(msg)
}

///////////////////////////////////////////////////////////////////////
//  Init

// DecayState decays the activation state toward initial values in proportion to given decay parameter
// Called with us.Init.Decay by Layer at the start of each trial.  ActM, ActP and the
// learning averages are retained.
func (us *UnitSpec) DecayState(u *Unit, decay float32) {
	if decay > 0 {
		u.Act -= decay * (u.Act - us.Init.Act)
		u.ActLrn -= decay * (u.ActLrn - us.Init.Act)
		u.Net -= decay * (u.Net - us.Init.Net)
		u.Gi -= decay * u.Gi
		u.GiSyn -= decay * u.GiSyn
		u.Adapt -= decay * u.Adapt
		u.Vm -= decay * (u.Vm - us.Init.Vm)
	}
	u.NetRaw = 0
	u.GiRaw = 0
	u.Inet = 0
}

// InitActs initializes all activation state, including the learning averages.
func (us *UnitSpec) InitActs(u *Unit) {
	u.Act = us.Init.Act
	u.ActLrn = us.Init.Act
	u.Net = us.Init.Net
	u.NetRaw = 0
	u.GiRaw = 0
	u.GiSyn = 0
	u.Gi = 0
	u.Inet = 0
	u.Adapt = 0
	u.Vm = us.Init.Vm
	u.ActM = 0
	u.ActP = 0
	u.ActDif = 0
	u.AvgSS = us.Avgs.Init
	u.AvgS = us.Avgs.Init
	u.AvgM = us.Avgs.Init
	u.AvgSLrn = 0
	u.AvgL = us.AvgL.Init
	u.AvgLLrn = 0
	u.netDone = false
}

///////////////////////////////////////////////////////////////////////
//  Cycle

// NetFmRaw integrates the excitatory Net conductance from the NetRaw
// accumulator, and synaptic inhibition GiSyn from GiRaw.  Both accumulators are consumed.
func (us *UnitSpec) NetFmRaw(u *Unit, dt float32) {
	u.Net += dt * us.Dt.NetDt * (u.NetRaw - u.Net)
	u.NetRaw = 0
	u.GiSyn += dt * us.Dt.NetDt * (u.GiRaw - u.GiSyn)
	if u.GiSyn < 0 {
		u.GiSyn = 0
	}
	u.GiRaw = 0
}

// InetFmG computes net current from conductances and Vm, less the adaptation current
func (us *UnitSpec) InetFmG(vm, ge, gi, adapt float32) float32 {
	return ge*(us.Erev.E-vm) + us.Gbar.L*(us.Erev.L-vm) + gi*(us.Erev.I-vm) - adapt
}

// VmFmG computes membrane potential Vm from conductances Net and Gi.
// The Vm value is only used in pure rate-code computation within the sub-threshold regime
// because firing rate is a direct function of excitatory conductance above threshold.
func (us *UnitSpec) VmFmG(u *Unit, dt float32) {
	ge := u.Net * us.Gbar.E
	gi := u.Gi * us.Gbar.I
	u.Inet = us.InetFmG(u.Vm, ge, gi, u.Adapt)
	u.Vm = us.VmRange.ClipVal(u.Vm + dt*us.Dt.VmDt*u.Inet)
}

// GeThrFmG computes the threshold for the excitatory conductance given the
// inhibitory and leak conductances and the given adaptation current.
func (us *UnitSpec) GeThrFmG(u *Unit, adapt float32) float32 {
	return (us.Gbar.I*u.Gi*us.ErevSubThr.I + us.Gbar.L*us.ErevSubThr.L - adapt) / us.ThrSubErev.E
}

// ActFmG computes rate-coded activation Act from conductances, and the
// non-adapted learning activation ActLrn.
func (us *UnitSpec) ActFmG(u *Unit, dt float32) {
	var nwAct, nwActLrn float32
	if u.Act < us.Act.VmActThr && u.Vm <= us.Act.Thr {
		// Vm dynamics drive sub-threshold activation; using ge - geThr here
		// would make units active right away
		nwAct = us.Act.NoisyXX1(u.Vm - us.Act.Thr)
		nwActLrn = nwAct
	} else {
		ge := u.Net * us.Gbar.E
		geThr := us.GeThrFmG(u, u.Adapt)
		nwAct = us.Act.NoisyXX1(ge - geThr)
		if u.Adapt != 0 {
			geThr = us.GeThrFmG(u, 0)
			nwActLrn = us.Act.NoisyXX1(ge - geThr)
		} else {
			nwActLrn = nwAct
		}
	}
	u.Act += dt * us.Dt.VmDt * (nwAct - u.Act)
	u.ActLrn += dt * us.Dt.VmDt * (nwActLrn - u.ActLrn)

	if us.Adapt.On {
		us.Adapt.AdaptFmAct(&u.Adapt, u.Vm, u.Act, us.Erev.L, dt)
	}
}

// HardClamp sets the activation directly from ext, clipped to rng,
// with Vm set to the corresponding point above threshold.
func (us *UnitSpec) HardClamp(u *Unit, ext float32, rng minmax.F32) {
	clmp := rng.ClipVal(ext)
	u.Act = clmp
	u.ActLrn = clmp
	u.Vm = us.Act.Thr + u.Act/us.Act.Gain
	u.Inet = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  InitParams

// InitParams are initial values for key state variables.
// Applied at start of trial through DecayState.
type InitParams struct {
	Decay float32 `def:"0,1" max:"1" min:"0" desc:"proportion to decay activation state toward initial values at start of every trial"`
	Vm    float32 `def:"0.4" desc:"initial membrane potential -- see Erev.L for the resting potential (typically .3)"`
	Act   float32 `def:"0" desc:"initial activation value -- typically 0"`
	Net   float32 `def:"0" desc:"initial excitatory conductance (net input)"`
}

func (ai *InitParams) Defaults() {
	ai.Decay = 1
	ai.Vm = 0.4
	ai.Act = 0
	ai.Net = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  DtParams

// DtParams are time and rate constants for temporal derivatives (Vm, net input).
// All time constants are in cycles; the step size passed to Integrate multiplies the rates.
type DtParams struct {
	VmTau  float32 `def:"3.3" min:"1" desc:"membrane potential and rate-code activation time constant in cycles"`
	NetTau float32 `def:"1.4,3,5" min:"1" desc:"time constant for integrating the net excitatory and synaptic inhibitory conductances, in cycles"`

	VmDt  float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
	NetDt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
}

func (dp *DtParams) Defaults() {
	dp.VmTau = 3.3
	dp.NetTau = 1.4
	dp.Update()
}

func (dp *DtParams) Update() {
	dp.VmDt = 1 / dp.VmTau
	dp.NetDt = 1 / dp.NetTau
}

//////////////////////////////////////////////////////////////////////////////////////
//  AdaptParams

// AdaptParams are the adaptation current parameters.  The current tracks a
// mix of depolarization and activity, and is subtracted from the net current
// and added to the excitatory threshold.
type AdaptParams struct {
	On        bool    `desc:"apply the adaptation current (adapt_on)"`
	Tau       float32 `viewif:"On" def:"144" min:"1" desc:"time constant in cycles for the adaptation current"`
	VmGain    float32 `viewif:"On" def:"0.04" desc:"gain on the membrane potential above leak reversal driving adaptation"`
	SpikeGain float32 `viewif:"On" def:"0.00805" desc:"gain on activation (firing rate) driving adaptation"`

	Dt float32 `view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
}

func (ap *AdaptParams) Defaults() {
	ap.On = false
	ap.Tau = 144
	ap.VmGain = 0.04
	ap.SpikeGain = 0.00805
	ap.Update()
}

func (ap *AdaptParams) Update() {
	ap.Dt = 1 / ap.Tau
}

// AdaptFmAct integrates the adaptation current toward its drive
func (ap *AdaptParams) AdaptFmAct(adapt *float32, vm, act, erevL, dt float32) {
	drive := ap.VmGain*(vm-erevL) + ap.SpikeGain*act
	*adapt += dt * ap.Dt * (drive - *adapt)
}
