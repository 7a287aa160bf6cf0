// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/goki/mat32"
)

///////////////////////////////////////////////////////////////////////
//  learn.go contains the learning params and functions for leabra

//////////////////////////////////////////////////////////////////////////////////////
//  AvgParams

// AvgParams are the time constants for the running averages of activation
// that drive XCAL learning: super-short (SS), short (S) and medium (M),
// plus the mix of M into the short-term learning average.
type AvgParams struct {
	SSTau float32 `def:"2,4,7" min:"1" desc:"time constant in cycles for integrating super-short average (AvgSS) from ActLrn"`
	STau  float32 `def:"2" min:"1" desc:"time constant in cycles for integrating short average (AvgS) from AvgSS -- plus-phase activity"`
	MTau  float32 `def:"10" min:"1" desc:"time constant in cycles for integrating medium average (AvgM) from AvgS -- minus-phase expectation"`
	LrnM  float32 `def:"0.1,0" min:"0" max:"1" desc:"how much of the medium term average activation to mix in with the short (plus phase) to compute AvgSLrn"`
	Init  float32 `def:"0.15" min:"0" max:"1" desc:"initial value for the averages"`

	SSDt float32 `view:"-" json:"-" xml:"-" inactive:"+" desc:"rate = 1 / tau"`
	SDt  float32 `view:"-" json:"-" xml:"-" inactive:"+" desc:"rate = 1 / tau"`
	MDt  float32 `view:"-" json:"-" xml:"-" inactive:"+" desc:"rate = 1 / tau"`
	LrnS float32 `view:"-" json:"-" xml:"-" inactive:"+" desc:"1 - LrnM"`
}

func (aa *AvgParams) Defaults() {
	aa.SSTau = 2
	aa.STau = 2
	aa.MTau = 10
	aa.LrnM = 0.1
	aa.Init = 0.15
	aa.Update()
}

func (aa *AvgParams) Update() {
	aa.SSDt = 1 / aa.SSTau
	aa.SDt = 1 / aa.STau
	aa.MDt = 1 / aa.MTau
	aa.LrnS = 1 - aa.LrnM
}

// AvgsFmAct updates the running averages from the learning activation.
func (aa *AvgParams) AvgsFmAct(ruAct, dt float32, avgSS, avgS, avgM, avgSLrn *float32) {
	*avgSS += dt * aa.SSDt * (ruAct - *avgSS)
	*avgS += dt * aa.SDt * (*avgSS - *avgS)
	*avgM += dt * aa.MDt * (*avgS - *avgM)
	*avgSLrn = aa.LrnS**avgS + aa.LrnM**avgM
}

//////////////////////////////////////////////////////////////////////////////////////
//  AvgLParams

// AvgLParams are parameters for computing the long-term floating average value, AvgL
// which is used for driving BCM-style hebbian learning in XCAL -- this form of learning
// increases contrast of weights and generally decreases overall activity of neuron,
// to prevent "hog" units -- it is computed as a running average of the (gain multiplied)
// medium-time-scale average activation at the end of the trial.
// Also computes an adaptive amount of BCM learning, AvgLLrn, based on AvgL.
type AvgLParams struct {
	Init   float32 `def:"0.4" min:"0" max:"1" desc:"initial AvgL value at start of training (avg_l_init)"`
	Gain   float32 `def:"1.5,2,2.5,3,4,5" min:"0" desc:"gain multiplier on activation used in computing the running average AvgL value (avg_l_gain)"`
	Min    float32 `def:"0.2" min:"0" desc:"miniumum AvgL value (avg_l_min) -- AvgL is floored here"`
	Tau    float32 `def:"10" min:"1" desc:"time constant in trials for updating AvgL"`
	LrnMax float32 `def:"0.5" min:"0" desc:"maximum AvgLLrn value, which is amount of learning driven by AvgL factor -- when AvgL is at its maximum value (i.e., Gain), then AvgLLrn will be at this maximum value"`
	LrnMin float32 `def:"0.0001,0.0004" min:"0" desc:"miniumum AvgLLrn value (amount of learning driven by AvgL factor) -- when AvgL is at its minimum value, then AvgLLrn will be at this minimum value"`

	Dt      float32 `view:"-" json:"-" xml:"-" inactive:"+" desc:"rate = 1 / tau"`
	LrnFact float32 `view:"-" json:"-" xml:"-" inactive:"+" desc:"(LrnMax - LrnMin) / (Gain - Min)"`
}

func (al *AvgLParams) Defaults() {
	al.Init = 0.4
	al.Gain = 2.5
	al.Min = 0.2
	al.Tau = 10
	al.LrnMax = 0.5
	al.LrnMin = 0.0001
	al.Update()
}

func (al *AvgLParams) Update() {
	al.Dt = 1 / al.Tau
	al.LrnFact = (al.LrnMax - al.LrnMin) / (al.Gain - al.Min)
}

// AvgLFmAvgM computes long-term average activation value, and learning factor, from given
// medium-scale running average activation avgM
func (al *AvgLParams) AvgLFmAvgM(avgM float32, avgL, lrn *float32) {
	*avgL += al.Dt * (al.Gain*avgM - *avgL)
	if *avgL < al.Min {
		*avgL = al.Min
	}
	*lrn = al.LrnFact * (*avgL - al.Min)
}

//////////////////////////////////////////////////////////////////////////////////////
//  LearnSynParams

// LearnSynParams manages learning-related parameters at the synapse-level.
type LearnSynParams struct {
	Lrate float32     `def:"0.04,0.1,0.2" desc:"learning rate (lrate) -- 0 freezes the weights"`
	XCal  XCalParams  `view:"inline" desc:"parameters for the XCal learning rule"`
	WtSig WtSigParams `view:"inline" desc:"parameters for the sigmoidal contrast weight enhancement"`
}

func (ls *LearnSynParams) Defaults() {
	ls.Lrate = 0.04
	ls.XCal.Defaults()
	ls.WtSig.Defaults()
	ls.Update()
}

func (ls *LearnSynParams) Update() {
	ls.XCal.Update()
}

// Validate returns an error for learning settings that are out of range.
func (ls *LearnSynParams) Validate() error {
	if ls.Lrate < 0 {
		return fmt.Errorf("Lrate must be >= 0, got %v", ls.Lrate)
	}
	if ls.WtSig.Gain <= 0 || ls.WtSig.Off <= 0 {
		return fmt.Errorf("WtSig Gain and Off must be > 0, got %v, %v", ls.WtSig.Gain, ls.WtSig.Off)
	}
	return nil
}

// CHLdWt returns the error-driven and BCM Hebbian weight change components
// from the sending and receiving unit averages.
// The error term compares plus-phase (AvgSLrn) vs. minus-phase (AvgM) co-activation.
// The BCM term compares plus-phase co-activation against the receiver's AvgL.
func (ls *LearnSynParams) CHLdWt(suAvgSLrn, suAvgM, ruAvgSLrn, ruAvgM, ruAvgL float32) (err, bcm float32) {
	srs := suAvgSLrn * ruAvgSLrn
	srm := suAvgM * ruAvgM
	bcm = ls.XCal.DWt(srs, ruAvgL)
	err = ls.XCal.DWt(srs, srm)
	return
}

// WtFmDWt updates the linear weight LWt from dwt with soft bounding,
// then the effective sigmoidal Wt from LWt.  dwt is zeroed.
func (ls *LearnSynParams) WtFmDWt(dwt, wt, lwt *float32) {
	if *dwt == 0 {
		return
	}
	if ls.WtSig.SoftBound {
		if *dwt > 0 {
			*dwt *= (1 - *lwt)
		} else {
			*dwt *= *lwt
		}
	}
	*lwt = mat32.Clamp(*lwt+*dwt, 0, 1)
	*wt = ls.WtSig.SigFmLinWt(*lwt)
	*dwt = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  XCalParams

// XCalParams are parameters for temporally eXtended Contrastive Attractor Learning function (XCAL)
// which is the standard learning equation for leabra .
type XCalParams struct {
	MLrn    float32 `def:"1" min:"0" desc:"multiplier on error-driven learning from the medium-term threshold (m_lrn) -- 1 for standard mixed learning, 0 for pure hebbian"`
	SetLLrn bool    `def:"false" desc:"if true, use the fixed LLrn weighting factor for the BCM hebbian component instead of the receiving unit's AvgLLrn"`
	LLrn    float32 `viewif:"SetLLrn" desc:"fixed weighting factor for the BCM hebbian component -- MLrn = 0 and LLrn = 1 gives pure hebbian learning"`
	DRev    float32 `def:"0.1" min:"0" max:"0.99" desc:"proportional point within LTD range where magnitude reverses to go back down to zero at zero"`
	DThr    float32 `def:"0.0001,0.01" min:"0" desc:"minimum LTD threshold value below which no weight change occurs"`
	LrnThr  float32 `def:"0.01" desc:"don't learn when sending unit short and medium averages are both below this value"`

	DRevRatio float32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"-(1-DRev)/DRev -- multiplication factor in learning rule -- builds in the minus sign!"`
}

func (xc *XCalParams) Defaults() {
	xc.MLrn = 1
	xc.SetLLrn = false
	xc.LLrn = 1
	xc.DRev = 0.1
	xc.DThr = 0.0001
	xc.LrnThr = 0.01
	xc.Update()
}

func (xc *XCalParams) Update() {
	if xc.DRev > 0 {
		xc.DRevRatio = -(1 - xc.DRev) / xc.DRev
	} else {
		xc.DRevRatio = -1
	}
}

// DWt is the XCAL "check mark" function: linear above thrP * DRev,
// reversing down to zero below it.
func (xc *XCalParams) DWt(srval, thrP float32) float32 {
	switch {
	case srval < xc.DThr:
		return 0
	case srval > thrP*xc.DRev:
		return srval - thrP
	default:
		return srval * xc.DRevRatio
	}
}

// LongLrate returns the learning rate for the long-term floating average (BCM) component
func (xc *XCalParams) LongLrate(avgLLrn float32) float32 {
	if xc.SetLLrn {
		return xc.LLrn
	}
	return avgLLrn
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtSigParams

// WtSigParams are sigmoidal weight contrast enhancement function parameters.
// Learning operates on the linear LWt and the effective Wt = sig(LWt).
type WtSigParams struct {
	Gain      float32 `def:"1,6" min:"0" desc:"gain (contrast, sharpness) of the weight contrast function (1 = linear)"`
	Off       float32 `def:"1" min:"0" desc:"offset of the function (1=centered at .5, >1=higher, <1=lower) -- 1 is standard for XCAL"`
	SoftBound bool    `def:"true" desc:"apply exponential soft bounding to the weight changes"`
}

func (ws *WtSigParams) Defaults() {
	ws.Gain = 6
	ws.Off = 1
	ws.SoftBound = true
}

// SigFun is the sigmoid function for value w in 0-1 range, with gain and offset params
func SigFun(w, gain, off float32) float32 {
	if w <= 0 {
		return 0
	}
	if w >= 1 {
		return 1
	}
	return 1 / (1 + math32.Pow((off*(1-w))/w, gain))
}

// SigFun61 is the sigmoid function for value w in 0-1 range, with default gain = 6, offset = 1 params
func SigFun61(w float32) float32 {
	if w <= 0 {
		return 0
	}
	if w >= 1 {
		return 1
	}
	pwguts := (1 - w) / w
	return 1 / (1 + pwguts*pwguts*pwguts*pwguts*pwguts*pwguts)
}

// SigInvFun is the inverse of the sigmoid function
func SigInvFun(w, gain, off float32) float32 {
	if w <= 0 {
		return 0
	}
	if w >= 1 {
		return 1
	}
	return 1.0 / (1.0 + math32.Pow((1.0-w)/w, 1/gain)/off)
}

// SigFmLinWt returns sigmoidal contrast-enhanced weight from linear weight
func (ws *WtSigParams) SigFmLinWt(lw float32) float32 {
	switch {
	case ws.Gain == 1 && ws.Off == 1:
		return lw
	case ws.Gain == 6 && ws.Off == 1:
		return SigFun61(lw)
	default:
		return SigFun(lw, ws.Gain, ws.Off)
	}
}

// LinFmSigWt returns linear weight from sigmoidal contrast-enhanced weight
func (ws *WtSigParams) LinFmSigWt(sw float32) float32 {
	if ws.Gain == 1 && ws.Off == 1 {
		return sw
	}
	return SigInvFun(sw, ws.Gain, ws.Off)
}
