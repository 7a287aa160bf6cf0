// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package fffb provides layer-level feedforward (FF) and feedback (FB)
inhibition, computed from the average excitatory net input into a layer (FF)
and the layer's own average activation on the previous cycle (FB).

All units in a layer receive the same inhibitory conductance, which yields a
graded k-winners-take-all competition without explicit rank selection.
*/
package fffb

import "fmt"

// Params parameterizes feedforward (FF) and feedback (FB) inhibition.
// The field names follow the layer settings g_i, ff, fb, fb_dt, ff0 and lay_inhib.
type Params struct {
	On       bool    `def:"true" desc:"compute inhibition from layer activity (lay_inhib) -- if false, the constant Gi is used as the inhibitory conductance"`
	Gi       float32 `min:"0" def:"1.8" desc:"overall inhibition gain (g_i) -- scales both the ff and fb terms -- when On is false this is used directly as the conductance"`
	FF       float32 `viewif:"On" min:"0" def:"1" desc:"feedforward inhibition multiplier on average net input above FF0"`
	FB       float32 `viewif:"On" min:"0" def:"1" desc:"feedback inhibition multiplier on average activation"`
	FBDt     float32 `viewif:"On" min:"0" def:"0.7142857" desc:"rate of integration of the feedback term per cycle (fb_dt = 1 / time constant)"`
	FF0      float32 `viewif:"On" def:"0.1" desc:"feedforward zero point -- average net input below this gives no FF inhibition"`
	MaxVsAvg float32 `viewif:"On" def:"0" desc:"proportion of max vs. average net input used for FF inhibition -- 0 = all average"`
}

func (fb *Params) Defaults() {
	fb.On = true
	fb.Gi = 1.8
	fb.FF = 1
	fb.FB = 1
	fb.FBDt = 1 / 1.4
	fb.FF0 = 0.1
	fb.MaxVsAvg = 0
}

// Validate returns an error for settings that cannot be integrated.
func (fb *Params) Validate() error {
	if fb.Gi < 0 {
		return fmt.Errorf("fffb: Gi must be >= 0, got %v", fb.Gi)
	}
	if fb.On && fb.FBDt <= 0 {
		return fmt.Errorf("fffb: FBDt must be > 0, got %v", fb.FBDt)
	}
	return nil
}

// FFInhib returns the feedforward term from the average and max net input.
func (fb *Params) FFInhib(avgNet, maxNet float32) float32 {
	net := avgNet + fb.MaxVsAvg*(maxNet-avgNet)
	if net <= fb.FF0 {
		return 0
	}
	return fb.FF * (net - fb.FF0)
}

// FBUpdt integrates the feedback term toward FB * avgAct.
func (fb *Params) FBUpdt(fbi *float32, avgAct float32) {
	*fbi += fb.FBDt * (fb.FB*avgAct - *fbi)
}

// Inhib computes the layer inhibition into inh.Gi.  inh.Net must hold the
// current cycle's net input stats and inh.Act the previous cycle's activation stats.
func (fb *Params) Inhib(inh *Inhib) {
	if !fb.On {
		inh.FFi = 0
		inh.FBi = 0
		inh.Gi = fb.Gi
		return
	}
	inh.FFi = fb.FFInhib(inh.Net.Avg, inh.Net.Max)
	fb.FBUpdt(&inh.FBi, inh.Act.Avg)
	inh.Gi = fb.Gi * (inh.FFi + inh.FBi)
	if inh.Gi < 0 {
		inh.Gi = 0
	}
}
