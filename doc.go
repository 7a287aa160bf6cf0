// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package refleabra is a reference implementation of the Leabra rate-coded
point-neuron algorithm, written to reproduce the numbers of the reference
simulator cycle for cycle, for small networks of layers joined by
full or one-to-one connections.

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* leabra: units, layers, connections and the network, with the minus / plus
phase trial structure and XCAL learning.  Per-cycle unit logs are
available as etable tables.

* fffb: feedforward and feedback layer-level inhibition.

* nxx1: the noisy x/(x+1) activation function.

* chans: excitatory, leak and inhibitory channel parameters.

* examples: runnable programs.  examples/pair and examples/netin write the
logs of the two reference scenarios as tab-separated values, and
examples/bench times larger networks.
*/
package refleabra
