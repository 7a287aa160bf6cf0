// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"testing"

	"github.com/chewxy/math32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-8)

func TestActUpdt(t *testing.T) {
	// note: these values have been validated against emergent v8.5.6 svn 11473 in
	// demo/leabra/basic_leabra_test.proj, TestAct program
	geinc := []float32{.01, .02, .03, .04, .05, .1, .2, .3}
	corge := []float32{0.007142857, 0.023469387, 0.049562685, 0.085589334, 0.13159695, 0.21617055, 0.3831916, 0.64519763}
	ge := make([]float32, len(geinc))
	corinet := []float32{-0.015714284, -0.0048542274, 0.011293108, 0.032156322, 0.056659013, 0.09967137, 0.1782439, 0.275567}
	inet := make([]float32, len(geinc))
	corvm := []float32{0.3952381, 0.39376712, 0.39718926, 0.4069336, 0.424103, 0.45430642, 0.50831974, 0.5918249}
	vm := make([]float32, len(geinc))
	coract := []float32{2.8884673e-29, 3.2081596e-29, 1.1549086e-28, 3.2309342e-26, 9.598328e-22, 7.120265e-14, 0.29335475, 0.5022214}
	act := make([]float32, len(geinc))

	us := NewUnitSpec()
	us.Gbar.L = 0.2 // was default when test was created

	u := &Unit{Spec: us}
	us.InitActs(u)

	geRaw := float32(0) // input was given as increments on a running raw value
	for i := range geinc {
		geRaw += geinc[i]
		u.Accumulate(geRaw)
		u.Integrate(0, 1)
		ge[i] = u.Net
		inet[i] = u.Inet
		vm[i] = u.Vm
		act[i] = u.Act
		difge := math32.Abs(ge[i] - corge[i])
		if difge > difTol { // allow for small numerical diffs
			t.Errorf("ge err: idx: %v, geinc: %v, ge: %v, corge: %v, dif: %v\n", i, geinc[i], ge[i], corge[i], difge)
		}
		difinet := math32.Abs(inet[i] - corinet[i])
		if difinet > difTol { // allow for small numerical diffs
			t.Errorf("Inet err: idx: %v, geinc: %v, inet: %v, corinet: %v, dif: %v\n", i, geinc[i], inet[i], corinet[i], difinet)
		}
		difvm := math32.Abs(vm[i] - corvm[i])
		if difvm > difTol { // allow for small numerical diffs
			t.Errorf("Vm err: idx: %v, geinc: %v, vm: %v, corvm: %v, dif: %v\n", i, geinc[i], vm[i], corvm[i], difvm)
		}
		difact := math32.Abs(act[i] - coract[i])
		if difact > difTol { // allow for small numerical diffs
			t.Errorf("Act err: idx: %v, geinc: %v, act: %v, coract: %v, dif: %v\n", i, geinc[i], act[i], coract[i], difact)
		}
	}
	if len(u.Logs["act"]) != 0 {
		t.Errorf("unit logs are only recorded by the layer, got %d entries\n", len(u.Logs["act"]))
	}
}

func TestActUpdtDt(t *testing.T) {
	// two half steps with constant input are not one full step, but approach it
	us := NewUnitSpec()
	full := &Unit{Spec: us}
	half := &Unit{Spec: us}
	us.InitActs(full)
	us.InitActs(half)
	full.Accumulate(0.5)
	full.Integrate(0, 1)
	for i := 0; i < 2; i++ {
		half.Accumulate(0.5)
		half.Integrate(0, 0.5)
	}
	if math32.Abs(full.Net-half.Net) > 0.1 {
		t.Errorf("net with half steps: %v, full step: %v\n", half.Net, full.Net)
	}
	if half.Net >= full.Net {
		t.Errorf("net with half steps: %v should be below full step: %v\n", half.Net, full.Net)
	}
}

func TestAdaptDecay(t *testing.T) {
	us := NewUnitSpec()
	us.Adapt.On = true
	us.Adapt.Tau = 20
	us.Update()
	u := &Unit{Spec: us}
	us.InitActs(u)

	var acts []float32
	for cyc := 0; cyc < 200; cyc++ {
		u.Accumulate(0.6)
		u.Integrate(0, 1)
		acts = append(acts, u.Act)
	}
	peak := float32(0)
	for _, a := range acts {
		peak = math32.Max(peak, a)
	}
	last := acts[len(acts)-1]
	if peak <= 0.1 {
		t.Fatalf("unit never became active: peak act: %v\n", peak)
	}
	if last >= peak {
		t.Errorf("adaptation did not reduce act: peak: %v, last: %v\n", peak, last)
	}
	if u.Adapt <= 0 {
		t.Errorf("adapt current should be positive under sustained input: %v\n", u.Adapt)
	}
	if u.ActLrn < u.Act {
		t.Errorf("act_lrn: %v should not be reduced by adaptation below act: %v\n", u.ActLrn, u.Act)
	}
}

func TestUnitSpecValidate(t *testing.T) {
	us := NewUnitSpec()
	if err := us.Validate(); err != nil {
		t.Errorf("defaults should validate: %v\n", err)
	}
	us.Gbar.SetAll(0, 0, 0)
	if err := us.Validate(); err == nil {
		t.Errorf("zero Gbar should not validate\n")
	}
	us = NewUnitSpec()
	us.Gbar.SetAll(1, -1, 0.5)
	if err := us.Validate(); err == nil {
		t.Errorf("negative Gbar.L should not validate\n")
	}
	us.Gbar.SetAll(1, 0.1, -0.2)
	if err := us.Validate(); err == nil {
		t.Errorf("negative Gbar.I should not validate\n")
	}
	us.Gbar.SetAll(1, 0, 0)
	if err := us.Validate(); err != nil {
		t.Errorf("zero components with a positive sum should validate: %v\n", err)
	}
	us = NewUnitSpec()
	us.Dt.VmTau = 0
	if err := us.Validate(); err == nil {
		t.Errorf("zero VmTau should not validate\n")
	}
	us = NewUnitSpec()
	us.Act.Thr = us.Erev.E
	if err := us.Validate(); err == nil {
		t.Errorf("Thr == Erev.E should not validate\n")
	}
}

func TestHardClamp(t *testing.T) {
	us := NewUnitSpec()
	ls := NewLayerSpec()
	u := &Unit{Spec: us}
	us.InitActs(u)
	u.Clamp(1.5, 1, ls.ClampRange)
	if u.Act != 1 {
		t.Errorf("clamp should clip to range: act: %v\n", u.Act)
	}
	trg := us.Act.Thr + 1/us.Act.Gain
	if dif := math32.Abs(u.Vm - trg); dif > difTol {
		t.Errorf("clamped vm: %v, trg: %v, dif: %v\n", u.Vm, trg, dif)
	}
	u.Clamp(-0.5, 1, ls.ClampRange)
	if u.Act != 0 {
		t.Errorf("clamp should clip to range: act: %v\n", u.Act)
	}
}
