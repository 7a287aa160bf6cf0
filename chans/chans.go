// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package chans provides the conductance channels of the point-neuron
equivalent RC circuit: excitatory, leak and inhibitory.  The same triple
holds maximal conductances (g_bar) and reversal potentials (e_rev).
*/
package chans

// Chans are ion channels used in computing point-neuron activation function
type Chans struct {
	E float32 `desc:"excitatory sodium (Na) AMPA channels activated by synaptic glutamate"`
	L float32 `desc:"constant leak (potassium, K+) channels -- determines resting potential"`
	I float32 `desc:"inhibitory chloride (Cl-) channels activated by synaptic GABA"`
}

// SetAll sets all the values
func (ch *Chans) SetAll(e, l, i float32) {
	ch.E, ch.L, ch.I = e, l, i
}

// Sum returns E + L + I
func (ch *Chans) Sum() float32 {
	return ch.E + ch.L + ch.I
}

// SetFmOtherMinus sets all the values from other Chans minus given value
func (ch *Chans) SetFmOtherMinus(oth Chans, minus float32) {
	ch.E, ch.L, ch.I = oth.E-minus, oth.L-minus, oth.I-minus
}

// SetFmMinusOther sets all the values from given value minus other Chans
func (ch *Chans) SetFmMinusOther(minus float32, oth Chans) {
	ch.E, ch.L, ch.I = minus-oth.E, minus-oth.L, minus-oth.I
}
