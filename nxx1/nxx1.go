// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nxx1 provides the noisy x/(x+1) rate-code activation function used by
the point-neuron units: a saturating sigmoid-like response with an initial
largely-linear regime above threshold.

The x/(x+1) function is convolved with a gaussian noise kernel of width NVar,
which gives a graded, continuous onset of firing slightly below threshold
instead of a hard step.  The convolution is approximated piecewise:
a sigmoid below threshold, a linear interpolation just above it, and a
gain-corrected x/(x+1) above that.
*/
package nxx1

import "github.com/chewxy/math32"

// Params are the noisy x/(x+1) activation function parameters.
// Thr, Gain and NVar correspond to the act_thr, act_gain and act_sd
// settings of a unit.  Call Update after changing any of them.
type Params struct {
	Thr      float32 `def:"0.5" desc:"threshold value Theta (Q) for firing output activation"`
	Gain     float32 `def:"100" min:"0" desc:"gain (gamma) of the rate-coded activation function -- lower values give more graded responses"`
	NVar     float32 `def:"0.005" min:"0" desc:"width of the gaussian noise kernel convolved with x/(x+1) -- sets the curvature near threshold (act_sd)"`
	VmActThr float32 `def:"0.01" desc:"activation below which Vm - Thr drives the activation directly, instead of the conductance-based ge - geThr"`

	SigMult      float32 `def:"0.33" view:"-" json:"-" desc:"multiplier on the sub-threshold sigmoid"`
	SigMultPow   float32 `def:"0.8" view:"-" json:"-" desc:"power applied to Gain * NVar for the effective sigmoid multiplier"`
	SigGain      float32 `def:"3" view:"-" json:"-" desc:"gain on x for the sub-threshold sigmoid, relative to NVar"`
	InterpRange  float32 `def:"0.01" view:"-" json:"-" desc:"range above zero over which values are linearly interpolated"`
	GainCorRange float32 `def:"10" view:"-" json:"-" desc:"range in units of NVar over which the gain correction applies"`
	GainCor      float32 `def:"0.1" view:"-" json:"-" desc:"gain correction multiplier"`

	sigGainNVar float32
	sigMultEff  float32
	sigValAt0   float32
	interpVal   float32
}

func (xp *Params) Defaults() {
	xp.Thr = 0.5
	xp.Gain = 100
	xp.NVar = 0.005
	xp.VmActThr = 0.01
	xp.SigMult = 0.33
	xp.SigMultPow = 0.8
	xp.SigGain = 3.0
	xp.InterpRange = 0.01
	xp.GainCorRange = 10.0
	xp.GainCor = 0.1
	xp.Update()
}

// Update recomputes the derived sigmoid and interpolation constants.
func (xp *Params) Update() {
	xp.sigGainNVar = xp.SigGain / xp.NVar
	xp.sigMultEff = xp.SigMult * math32.Pow(xp.Gain*xp.NVar, xp.SigMultPow)
	xp.sigValAt0 = 0.5 * xp.sigMultEff
	xp.interpVal = xp.XX1GainCor(xp.InterpRange) - xp.sigValAt0
}

// XX1 is the basic x/(x+1) function.
func XX1(x float32) float32 { return x / (x + 1) }

// XX1GainCor is x/(x+1) at the configured gain, with the gain reduced
// within GainCorRange * NVar of zero to compensate for the convolution.
func (xp *Params) XX1GainCor(x float32) float32 {
	cor := (xp.GainCorRange - (x / xp.NVar)) / xp.GainCorRange
	if cor < 0 {
		return XX1(xp.Gain * x)
	}
	g := xp.Gain * (1 - xp.GainCor*cor)
	return XX1(g * x)
}

// NoisyXX1 returns the activation for x, the distance above threshold
// (either Vm - Thr or ge - geThr).
func (xp *Params) NoisyXX1(x float32) float32 {
	switch {
	case x < 0:
		return xp.sigMultEff / (1 + math32.Exp(-(x * xp.sigGainNVar)))
	case x < xp.InterpRange:
		interp := 1 - ((xp.InterpRange - x) / xp.InterpRange)
		return xp.sigValAt0 + interp*xp.interpVal
	default:
		return xp.XX1GainCor(x)
	}
}
