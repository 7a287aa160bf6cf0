// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/goki/mat32"
)

// leabra.Link is one weighted edge from a sending unit to a receiving unit.
// Units are referenced by index into their layers, never owned.
type Link struct {
	Send int32   `desc:"index of the sending unit in the sending layer"`
	Recv int32   `desc:"index of the receiving unit in the receiving layer"`
	Wt   float32 `desc:"effective synaptic weight value in 0-1 range -- sigmoidal contrast-enhanced version of LWt"`
	LWt  float32 `desc:"linear (underlying) weight value -- learns according to the XCAL learning rule"`
	DWt  float32 `desc:"change in synaptic weight, from learning"`
}

// LinkVars are the link variables accessible by name
var LinkVars = []string{"wt", "lwt", "dwt"}

// VarByName returns the value of the named link variable
func (lk *Link) VarByName(varNm string) (float32, error) {
	switch varNm {
	case "wt":
		return lk.Wt, nil
	case "lwt":
		return lk.LWt, nil
	case "dwt":
		return lk.DWt, nil
	}
	return 0, fmt.Errorf("link variable named: %s not found", varNm)
}

// leabra.Connection is a projection of Links from a sending layer to a receiving layer.
// Links are stored receiver-major: all the links of receiving unit ri are
// Links[RConIdxSt[ri] : RConIdxSt[ri]+RConN[ri]].
type Connection struct {
	Cls       string    `desc:"space-separated class names for parameter styling"`
	Send      *Layer    `desc:"sending layer"`
	Recv      *Layer    `desc:"receiving layer"`
	Spec      *ConnSpec `desc:"connection parameters, possibly shared with other connections"`
	Links     []Link    `desc:"the links, ordered by receiving unit then sending unit"`
	RConN     []int32   `view:"-" desc:"number of links for each receiving unit"`
	RConIdxSt []int32   `view:"-" desc:"starting index into Links for each receiving unit"`
	GScale    float32   `inactive:"+" desc:"effective scale applied to all links: Abs * Rel normalized over the receiving layer's connections"`
}

// NewConnection returns a new Connection from send to recv, with its links built.
// A nil spec is replaced with defaults.  Weights are drawn by InitWts.
func NewConnection(send, recv *Layer, spec *ConnSpec) (*Connection, error) {
	if send == nil || recv == nil {
		return nil, errors.New("NewConnection: send and recv layers must be non-nil")
	}
	if spec == nil {
		spec = NewConnSpec()
	}
	cn := &Connection{Send: send, Recv: recv, Spec: spec, GScale: 1}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("NewConnection %s: %w", cn.Name(), err)
	}
	if err := cn.Build(); err != nil {
		return nil, err
	}
	return cn, nil
}

// Name is the automatic name: Send + "To" + Recv
func (cn *Connection) Name() string { return cn.Send.Nm + "To" + cn.Recv.Nm }

// Class returns the connection type and class names, for params selectors
func (cn *Connection) Class() string { return cn.Spec.Type.String() + " " + cn.Cls }

// TypeName is the type name for params selectors
func (cn *Connection) TypeName() string { return "Prjn" }

// Pattern returns the emergent projection pattern for the topology
func (cn *Connection) Pattern() prjn.Pattern {
	if cn.Spec.Proj == OneToOne {
		return prjn.NewOneToOne()
	}
	return prjn.NewFull()
}

// Build constructs the links according to the topology: Full links every
// sending unit to every receiving unit, OneToOne links unit i to unit i
// and requires equal layer sizes.
func (cn *Connection) Build() error {
	ns := cn.Send.NUnits()
	nr := cn.Recv.NUnits()
	if cn.Spec.Proj == OneToOne && ns != nr {
		return fmt.Errorf("Connection %s: OneToOne requires equal layer sizes, send: %d, recv: %d", cn.Name(), ns, nr)
	}
	same := cn.Send == cn.Recv
	_, recvn, cons := cn.Pattern().Connect(cn.Send.Shape(), cn.Recv.Shape(), same)
	cn.RConN = make([]int32, nr)
	cn.RConIdxSt = make([]int32, nr)
	tot := int32(0)
	for ri := 0; ri < nr; ri++ {
		n := recvn.Values[ri]
		cn.RConN[ri] = n
		cn.RConIdxSt[ri] = tot
		tot += n
	}
	cn.Links = make([]Link, 0, tot)
	for ri := 0; ri < nr; ri++ {
		for si := 0; si < ns; si++ {
			if cons.Value1D(ri*ns + si) {
				cn.Links = append(cn.Links, Link{Send: int32(si), Recv: int32(ri)})
			}
		}
	}
	if int32(len(cn.Links)) != tot {
		return fmt.Errorf("Connection %s: built %d links, pattern counted %d", cn.Name(), len(cn.Links), tot)
	}
	return nil
}

// UpdateParams updates all params given any changes that might have been made to individual values
func (cn *Connection) UpdateParams() {
	cn.Spec.Update()
}

// ApplyParams applies given parameter style Sheet to this connection.
// Calls UpdateParams if anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (cn *Connection) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(cn, setMsg)
	if app {
		cn.UpdateParams()
	}
	return app, err
}

// AllParams returns a listing of all parameters in the Connection
func (cn *Connection) AllParams() string {
	str := "///////////////////////////////////////////////////\nPrjn: " + cn.Name() + "\n"
	b, _ := json.MarshalIndent(&cn.Spec.WtInit, "", " ")
	str += "WtInit: {\n " + JsonToParams(b)
	b, _ = json.MarshalIndent(&cn.Spec.WtScale, "", " ")
	str += "WtScale: {\n " + JsonToParams(b)
	b, _ = json.MarshalIndent(&cn.Spec.Learn, "", " ")
	str += "Learn: {\n " + JsonToParams(b)
	return str
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitWts initializes the weights from WtInit, drawing from rnd.
// Weights are clipped to the 0-1 range, and LWt is the linear equivalent.
func (cn *Connection) InitWts(rnd erand.Rand) {
	wts := &cn.Spec.Learn.WtSig
	for li := range cn.Links {
		lk := &cn.Links[li]
		lk.Wt = mat32.Clamp(float32(cn.Spec.WtInit.Gen(-1, rnd)), 0, 1)
		lk.LWt = wts.LinFmSigWt(lk.Wt)
		lk.DWt = 0
	}
}

// SetWt sets the weight of all links to wt, clipped to 0-1
func (cn *Connection) SetWt(wt float32) {
	wt = mat32.Clamp(wt, 0, 1)
	lwt := cn.Spec.Learn.WtSig.LinFmSigWt(wt)
	for li := range cn.Links {
		lk := &cn.Links[li]
		lk.Wt = wt
		lk.LWt = lwt
		lk.DWt = 0
	}
}

// LinkVals fills in values of given variable name for each link, in Links order
func (cn *Connection) LinkVals(vals *[]float32, varNm string) error {
	nl := len(cn.Links)
	if *vals == nil || cap(*vals) < nl {
		*vals = make([]float32, nl)
	} else if len(*vals) < nl {
		*vals = (*vals)[0:nl]
	}
	for li := range cn.Links {
		v, err := cn.Links[li].VarByName(varNm)
		if err != nil {
			return fmt.Errorf("Connection %s: %w", cn.Name(), err)
		}
		(*vals)[li] = v
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Cycle

// Propagate sends the sending activations through the weights to the
// receiving units: Act * Wt * GScale is accumulated into excitatory input,
// or synaptic inhibition for Inhib connections.
func (cn *Connection) Propagate() {
	sus := cn.Send.Units
	rus := cn.Recv.Units
	scale := cn.GScale
	if cn.Spec.Type == emer.Inhib {
		for li := range cn.Links {
			lk := &cn.Links[li]
			rus[lk.Recv].AccumulateInhib(sus[lk.Send].Act * lk.Wt * scale)
		}
		return
	}
	for li := range cn.Links {
		lk := &cn.Links[li]
		rus[lk.Recv].Accumulate(sus[lk.Send].Act * lk.Wt * scale)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Learn

// DWt computes the weight change (learning) for all links, from the
// sending and receiving unit averages.
func (cn *Connection) DWt() {
	if !cn.Spec.IsLearning() {
		return
	}
	ls := &cn.Spec.Learn
	sus := cn.Send.Units
	rus := cn.Recv.Units
	for li := range cn.Links {
		lk := &cn.Links[li]
		su := &sus[lk.Send]
		if su.AvgS < ls.XCal.LrnThr && su.AvgM < ls.XCal.LrnThr {
			lk.DWt = 0
			continue
		}
		ru := &rus[lk.Recv]
		err, bcm := ls.CHLdWt(su.AvgSLrn, su.AvgM, ru.AvgSLrn, ru.AvgM, ru.AvgL)
		bcm *= ls.XCal.LongLrate(ru.AvgLLrn)
		err *= ls.XCal.MLrn
		lk.DWt = ls.Lrate * (bcm + err)
	}
}

// WtFmDWt updates the weights from the weight changes, with soft bounding.
// Returns an error naming the first link whose weight is NaN.
func (cn *Connection) WtFmDWt() error {
	if !cn.Spec.IsLearning() {
		return nil
	}
	ls := &cn.Spec.Learn
	for li := range cn.Links {
		lk := &cn.Links[li]
		ls.WtFmDWt(&lk.DWt, &lk.Wt, &lk.LWt)
		if math32.IsNaN(lk.Wt) {
			return fmt.Errorf("Connection %s: link %d (send: %d, recv: %d): wt is NaN", cn.Name(), li, lk.Send, lk.Recv)
		}
	}
	return nil
}

// Learn computes the weight changes and applies them.
// No-op for NoLearn or a zero learning rate.
func (cn *Connection) Learn() error {
	cn.DWt()
	return cn.WtFmDWt()
}
