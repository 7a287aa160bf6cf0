// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/erand"
)

func testLayers(t *testing.T, ns, nr int) (*Layer, *Layer) {
	send, err := NewLayer("Send", ns, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	recv, err := NewLayer("Recv", nr, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return send, recv
}

func TestBuildFull(t *testing.T) {
	send, recv := testLayers(t, 3, 4)
	cn, err := NewConnection(send, recv, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(cn.Links) != 12 {
		t.Fatalf("full links: %d, trg: 12\n", len(cn.Links))
	}
	seen := map[[2]int32]bool{}
	for ri := 0; ri < 4; ri++ {
		if cn.RConN[ri] != 3 || cn.RConIdxSt[ri] != int32(ri*3) {
			t.Errorf("recv: %d: n: %d, st: %d\n", ri, cn.RConN[ri], cn.RConIdxSt[ri])
		}
		for li := cn.RConIdxSt[ri]; li < cn.RConIdxSt[ri]+cn.RConN[ri]; li++ {
			lk := cn.Links[li]
			if lk.Recv != int32(ri) {
				t.Errorf("link: %d recv: %d, trg: %d\n", li, lk.Recv, ri)
			}
			seen[[2]int32{lk.Send, lk.Recv}] = true
		}
	}
	if len(seen) != 12 {
		t.Errorf("full should link every pair exactly once, distinct pairs: %d\n", len(seen))
	}
	if cn.Name() != "SendToRecv" {
		t.Errorf("connection name: %s\n", cn.Name())
	}
}

func TestBuildOneToOne(t *testing.T) {
	send, recv := testLayers(t, 4, 4)
	cs := NewConnSpec()
	cs.Proj = OneToOne
	cn, err := NewConnection(send, recv, cs)
	if err != nil {
		t.Fatal(err)
	}
	if len(cn.Links) != 4 {
		t.Fatalf("one-to-one links: %d, trg: 4\n", len(cn.Links))
	}
	for li, lk := range cn.Links {
		if lk.Send != int32(li) || lk.Recv != int32(li) {
			t.Errorf("link: %d: send: %d, recv: %d\n", li, lk.Send, lk.Recv)
		}
	}

	_, small := testLayers(t, 4, 3)
	if _, err := NewConnection(send, small, cs); err == nil {
		t.Errorf("one-to-one size mismatch should be an error\n")
	}
	if _, err := NewConnection(nil, recv, cs); err == nil {
		t.Errorf("nil layer should be an error\n")
	}
	bad := NewConnSpec()
	bad.Proj = ProjTypeN
	if _, err := NewConnection(send, recv, bad); err == nil {
		t.Errorf("unknown proj should be an error\n")
	}
	bad = NewConnSpec()
	bad.WtInit.Dist = erand.RndDistsN
	if _, err := NewConnection(send, recv, bad); err == nil {
		t.Errorf("unknown weight distribution should be an error\n")
	}
	bad.WtInit.Dist = erand.Gamma
	if _, err := NewConnection(send, recv, bad); err != nil {
		t.Errorf("any erand distribution should be accepted: %v\n", err)
	}
}

func TestParseTags(t *testing.T) {
	for tag, trg := range map[string]ProjType{"full": Full, "1to1": OneToOne, "one-to-one": OneToOne, "OneToOne": OneToOne} {
		pt, err := ParseProjType(tag)
		if err != nil || pt != trg {
			t.Errorf("proj tag: %q: %v, %v, trg: %v\n", tag, pt, err, trg)
		}
	}
	if _, err := ParseProjType("ring"); err == nil {
		t.Errorf("unknown proj tag should be an error\n")
	}
	for tag, trg := range map[string]LearnRule{"leabra": XCAL, "none": NoLearn, "": NoLearn, "XCAL": XCAL} {
		lr, err := ParseLearnRule(tag)
		if err != nil || lr != trg {
			t.Errorf("rule tag: %q: %v, %v, trg: %v\n", tag, lr, err, trg)
		}
	}
	if _, err := ParseLearnRule("hebb"); err == nil {
		t.Errorf("unknown rule tag should be an error\n")
	}
}

func TestInitWts(t *testing.T) {
	send, recv := testLayers(t, 5, 5)
	cs := NewConnSpec()
	cn, err := NewConnection(send, recv, cs)
	if err != nil {
		t.Fatal(err)
	}
	cn.InitWts(erand.NewSysRand(1))
	var w1 []float32
	cn.LinkVals(&w1, "wt")
	cn.InitWts(erand.NewSysRand(1))
	var w2 []float32
	cn.LinkVals(&w2, "wt")
	distinct := map[float32]bool{}
	for li := range w1 {
		if w1[li] != w2[li] {
			t.Errorf("same seed should give same weights: link: %d: %v vs %v\n", li, w1[li], w2[li])
		}
		if w1[li] < 0.25 || w1[li] > 0.75 {
			t.Errorf("uniform weight out of mean +/- var: %v\n", w1[li])
		}
		distinct[w1[li]] = true
		lk := cn.Links[li]
		if dif := math32.Abs(cs.Learn.WtSig.SigFmLinWt(lk.LWt) - lk.Wt); dif > 1e-5 {
			t.Errorf("lwt: %v does not map to wt: %v\n", lk.LWt, lk.Wt)
		}
	}
	if len(distinct) < 2 {
		t.Errorf("uniform weights should vary\n")
	}

	cs.WtInit.Var = 0
	cn.InitWts(erand.NewSysRand(2))
	for li, lk := range cn.Links {
		if lk.Wt != 0.5 {
			t.Errorf("zero var weight: link: %d: %v\n", li, lk.Wt)
		}
	}
	cs.WtInit.Dist = erand.Gaussian
	cs.WtInit.Mean = 0.9
	cs.WtInit.Var = 1
	cn.InitWts(erand.NewSysRand(3))
	for li, lk := range cn.Links {
		if lk.Wt < 0 || lk.Wt > 1 {
			t.Errorf("gaussian weight not clipped: link: %d: %v\n", li, lk.Wt)
		}
	}
}

// TestScaleProportional checks that doubling Abs on one of two one-to-one
// connections doubles its contribution, independent of the other.
func TestScaleProportional(t *testing.T) {
	net1 := func(abs1 float32) float32 {
		in0, _ := NewLayer("In0", 1, nil, nil)
		in1, _ := NewLayer("In1", 1, nil, nil)
		out, _ := NewLayer("Out", 1, nil, nil)
		cs0 := NewConnSpec()
		cs0.Proj = OneToOne
		cs0.WtInit.Var = 0
		cs1 := NewConnSpec()
		cs1.Proj = OneToOne
		cs1.WtInit.Var = 0
		cs1.WtScale.Abs = abs1
		c0, _ := NewConnection(in0, out, cs0)
		c1, _ := NewConnection(in1, out, cs1)
		if _, err := NewNetwork("Scale", 1, []*Layer{in0, in1, out}, []*Connection{c0, c1}); err != nil {
			t.Fatal(err)
		}
		in0.Units[0].Act = 0
		in1.Units[0].Act = 0.8
		c1.Propagate()
		c0.Propagate()
		return out.Units[0].NetRaw
	}
	n1 := net1(1)
	n2 := net1(2)
	if dif := math32.Abs(n2 - 2*n1); dif > difTol {
		t.Errorf("doubling abs: %v should double contribution: %v, dif: %v\n", n2, n1, dif)
	}
	// 0.8 * 0.5 wt * abs / (rel sum 2)
	if dif := math32.Abs(n1 - 0.2); dif > difTol {
		t.Errorf("contribution: %v, trg: 0.2, dif: %v\n", n1, dif)
	}
}

func TestGScaleRelNorm(t *testing.T) {
	in0, in1 := testLayers(t, 2, 2)
	out, _ := NewLayer("Out", 2, nil, nil)
	inh, _ := NewLayer("Inh", 2, nil, nil)
	cs0 := NewConnSpec()
	cs1 := NewConnSpec()
	cs1.WtScale.Rel = 3
	csi := NewConnSpec()
	csi.Type = emer.Inhib
	csi.WtScale.Rel = 5
	c0, _ := NewConnection(in0, out, cs0)
	c1, _ := NewConnection(in1, out, cs1)
	ci, _ := NewConnection(inh, out, csi)
	if _, err := NewNetwork("Rel", 1, []*Layer{in0, in1, inh, out}, []*Connection{c0, c1, ci}); err != nil {
		t.Fatal(err)
	}
	if dif := math32.Abs(c0.GScale - 0.25); dif > difTol {
		t.Errorf("c0 gscale: %v, trg: 0.25\n", c0.GScale)
	}
	if dif := math32.Abs(c1.GScale - 0.75); dif > difTol {
		t.Errorf("c1 gscale: %v, trg: 0.75\n", c1.GScale)
	}
	if dif := math32.Abs(ci.GScale - 1); dif > difTol {
		t.Errorf("inhib gscale normalized separately: %v, trg: 1\n", ci.GScale)
	}
}

func TestInhibPrjn(t *testing.T) {
	send, recv := testLayers(t, 1, 1)
	cs := NewConnSpec()
	cs.Type = emer.Inhib
	cs.WtInit.Var = 0
	cn, err := NewConnection(send, recv, cs)
	if err != nil {
		t.Fatal(err)
	}
	cn.InitWts(erand.NewSysRand(1))
	send.Units[0].Act = 1
	cn.Propagate()
	if recv.Units[0].NetRaw != 0 {
		t.Errorf("inhib connection should not drive net: %v\n", recv.Units[0].NetRaw)
	}
	if recv.Units[0].GiRaw != 0.5 {
		t.Errorf("inhib connection g_i raw: %v, trg: 0.5\n", recv.Units[0].GiRaw)
	}
}

func TestLearnOff(t *testing.T) {
	for _, off := range []string{"rule", "lrate"} {
		send, recv := testLayers(t, 2, 2)
		cs := NewConnSpec()
		if off == "rule" {
			cs.Rule = NoLearn
		} else {
			cs.Learn.Lrate = 0
		}
		cn, err := NewConnection(send, recv, cs)
		if err != nil {
			t.Fatal(err)
		}
		cn.InitWts(erand.NewSysRand(1))
		var before []float32
		cn.LinkVals(&before, "wt")
		for ui := range send.Units {
			send.Units[ui].AvgS = 0.9
			send.Units[ui].AvgM = 0.1
			send.Units[ui].AvgSLrn = 0.9
			recv.Units[ui].AvgSLrn = 0.9
			recv.Units[ui].AvgM = 0.1
		}
		for i := 0; i < 10; i++ {
			if err := cn.Learn(); err != nil {
				t.Fatal(err)
			}
		}
		var after []float32
		cn.LinkVals(&after, "wt")
		for li := range before {
			if before[li] != after[li] {
				t.Errorf("%s off: link: %d wt changed: %v -> %v\n", off, li, before[li], after[li])
			}
		}
	}
}

func TestLearnDirection(t *testing.T) {
	send, recv := testLayers(t, 1, 1)
	cs := NewConnSpec()
	cs.WtInit.Var = 0
	cn, err := NewConnection(send, recv, cs)
	if err != nil {
		t.Fatal(err)
	}
	cn.InitWts(erand.NewSysRand(1))
	su := &send.Units[0]
	ru := &recv.Units[0]
	// plus phase co-activity above the minus phase: LTP
	su.AvgS, su.AvgM, su.AvgSLrn = 0.9, 0.9, 0.9
	ru.AvgSLrn, ru.AvgM, ru.AvgL, ru.AvgLLrn = 0.9, 0.2, 0.4, 0
	wt0 := cn.Links[0].Wt
	if err := cn.Learn(); err != nil {
		t.Fatal(err)
	}
	if cn.Links[0].Wt <= wt0 {
		t.Errorf("wt should increase: %v -> %v\n", wt0, cn.Links[0].Wt)
	}
	// minus above plus: LTD
	ru.AvgSLrn, ru.AvgM = 0.2, 0.9
	wt1 := cn.Links[0].Wt
	if err := cn.Learn(); err != nil {
		t.Fatal(err)
	}
	if cn.Links[0].Wt >= wt1 {
		t.Errorf("wt should decrease: %v -> %v\n", wt1, cn.Links[0].Wt)
	}
	// inactive sender: no change
	su.AvgS, su.AvgM = 0, 0
	wt2 := cn.Links[0].Wt
	if err := cn.Learn(); err != nil {
		t.Fatal(err)
	}
	if cn.Links[0].Wt != wt2 {
		t.Errorf("inactive sender should not learn: %v -> %v\n", wt2, cn.Links[0].Wt)
	}
}

func TestLearnNaN(t *testing.T) {
	send, recv := testLayers(t, 2, 2)
	cs := NewConnSpec()
	cs.WtInit.Var = 0
	cn, err := NewConnection(send, recv, cs)
	if err != nil {
		t.Fatal(err)
	}
	cn.InitWts(erand.NewSysRand(1))
	for ui := range send.Units {
		su := &send.Units[ui]
		su.AvgS, su.AvgM, su.AvgSLrn = 0.9, 0.9, 0.9
		ru := &recv.Units[ui]
		ru.AvgSLrn, ru.AvgM, ru.AvgL, ru.AvgLLrn = 0.9, 0.2, 0.4, 0
	}
	cn.Links[3].LWt = math32.NaN()
	err = cn.Learn()
	if err == nil {
		t.Fatalf("NaN weight should be an error\n")
	}
	msg := err.Error()
	if !strings.Contains(msg, "SendToRecv") || !strings.Contains(msg, "link 3") {
		t.Errorf("error should name the connection and link, got: %v\n", msg)
	}
}
