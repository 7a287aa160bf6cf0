// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestXCalDWt(t *testing.T) {
	xc := XCalParams{}
	xc.Defaults()
	thr := float32(0.5)
	srv := []float32{0.8, 0.5, 0.2, 0.03, 0.00001}
	trg := []float32{0.3, 0, -0.3, 0.03 * xc.DRevRatio, 0}
	for i, sr := range srv {
		dw := xc.DWt(sr, thr)
		if dif := math32.Abs(dw - trg[i]); dif > 1e-6 {
			t.Errorf("xcal srval: %v, thr: %v, got: %v, trg: %v, dif: %v\n", sr, thr, dw, trg[i], dif)
		}
	}
	// continuous at the reversal point
	rev := thr * xc.DRev
	lo := xc.DWt(rev-1e-6, thr)
	hi := xc.DWt(rev, thr)
	if dif := math32.Abs(lo - hi); dif > 1e-4 {
		t.Errorf("xcal not continuous at reversal: %v vs %v, dif: %v\n", lo, hi, dif)
	}
}

func TestAvgLFmAvgM(t *testing.T) {
	us := NewUnitSpec()
	al := &us.AvgL
	avgL := al.Init
	var lrn float32
	al.AvgLFmAvgM(0, &avgL, &lrn)
	trg := al.Init + al.Dt*(0-al.Init)
	if dif := math32.Abs(avgL - trg); dif > difTol {
		t.Errorf("avg_l: %v, trg: %v, dif: %v\n", avgL, trg, dif)
	}
	for i := 0; i < 200; i++ {
		al.AvgLFmAvgM(0, &avgL, &lrn)
	}
	if avgL != al.Min {
		t.Errorf("avg_l should floor at Min: %v, got: %v\n", al.Min, avgL)
	}
	if lrn != 0 {
		t.Errorf("avg_l_lrn at Min should be 0, got: %v\n", lrn)
	}
	for i := 0; i < 500; i++ {
		al.AvgLFmAvgM(1, &avgL, &lrn)
	}
	if dif := math32.Abs(avgL - al.Gain); dif > 1e-4 {
		t.Errorf("avg_l should converge to Gain * avg_m: %v, got: %v\n", al.Gain, avgL)
	}
	if dif := math32.Abs(lrn - (al.LrnMax - al.LrnMin)); dif > 1e-4 {
		t.Errorf("avg_l_lrn at Gain: %v, trg: %v\n", lrn, al.LrnMax-al.LrnMin)
	}
}

func TestAvgsFmAct(t *testing.T) {
	us := NewUnitSpec()
	aa := &us.Avgs
	ss, s, m := aa.Init, aa.Init, aa.Init
	var slrn float32
	for i := 0; i < 200; i++ {
		aa.AvgsFmAct(1, 1, &ss, &s, &m, &slrn)
	}
	for _, v := range []float32{ss, s, m, slrn} {
		if dif := math32.Abs(v - 1); dif > 1e-4 {
			t.Errorf("averages should converge to constant act 1: ss: %v, s: %v, m: %v, s_lrn: %v\n", ss, s, m, slrn)
			break
		}
	}
	// short tracks faster than medium
	aa.AvgsFmAct(0, 1, &ss, &s, &m, &slrn)
	aa.AvgsFmAct(0, 1, &ss, &s, &m, &slrn)
	if !(ss < s && s < m) {
		t.Errorf("after a drop: ss: %v < s: %v < m: %v expected\n", ss, s, m)
	}
}

func TestWtSig(t *testing.T) {
	ws := WtSigParams{}
	ws.Defaults()
	for _, lw := range []float32{0.25, 0.4, 0.5, 0.6, 0.75} {
		sw := ws.SigFmLinWt(lw)
		gen := SigFun(lw, 6, 1)
		if dif := math32.Abs(sw - gen); dif > 1e-6 {
			t.Errorf("SigFun61: %v != SigFun: %v at lw: %v\n", sw, gen, lw)
		}
		back := ws.LinFmSigWt(sw)
		if dif := math32.Abs(back - lw); dif > 1e-5 {
			t.Errorf("LinFmSigWt(SigFmLinWt(%v)) = %v, dif: %v\n", lw, back, dif)
		}
	}
	if ws.SigFmLinWt(0.5) != 0.5 {
		t.Errorf("sig of 0.5 should be 0.5, got: %v\n", ws.SigFmLinWt(0.5))
	}
	ws.Gain = 1
	if ws.SigFmLinWt(0.3) != 0.3 || ws.LinFmSigWt(0.3) != 0.3 {
		t.Errorf("gain 1 should be linear\n")
	}
}

func TestWtFmDWtBounds(t *testing.T) {
	ls := LearnSynParams{}
	ls.Defaults()
	lwt := float32(0.5)
	wt := ls.WtSig.SigFmLinWt(lwt)
	for i := 0; i < 1000; i++ {
		dwt := float32(0.3)
		ls.WtFmDWt(&dwt, &wt, &lwt)
		if dwt != 0 {
			t.Fatalf("dwt should be zeroed after update: %v\n", dwt)
		}
	}
	if lwt > 1 || wt > 1 || lwt < 0 || wt < 0 {
		t.Errorf("weights out of bounds after increases: lwt: %v, wt: %v\n", lwt, wt)
	}
	for i := 0; i < 1000; i++ {
		dwt := float32(-0.3)
		ls.WtFmDWt(&dwt, &wt, &lwt)
	}
	if lwt > 1 || wt > 1 || lwt < 0 || wt < 0 {
		t.Errorf("weights out of bounds after decreases: lwt: %v, wt: %v\n", lwt, wt)
	}
	ls.WtSig.SoftBound = false
	dwt := float32(-5)
	ls.WtFmDWt(&dwt, &wt, &lwt)
	if lwt != 0 || wt != 0 {
		t.Errorf("hard bounded weights should clip at 0: lwt: %v, wt: %v\n", lwt, wt)
	}
}
