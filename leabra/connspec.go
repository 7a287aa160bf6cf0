// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/erand"
	"github.com/goki/ki/ints"
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// leabra.ConnSpec holds the parameters of a Connection: topology, learning
// rule, initial weight distribution, scaling and learning rate.
// One ConnSpec may be shared by several connections.  Call Update after changes.
type ConnSpec struct {
	Proj    ProjType       `desc:"topology of the links: Full or OneToOne (proj)"`
	Rule    LearnRule      `desc:"learning rule: XCAL or NoLearn (lrule) -- NoLearn freezes the weights"`
	Type    emer.PrjnType  `desc:"Forward, Back and Lateral connections drive excitatory net input -- Inhib connections drive synaptic inhibition"`
	WtInit  WtInitParams   `view:"inline" desc:"initial random weight distribution (rnd_mean, rnd_var)"`
	WtScale WtScaleParams  `view:"inline" desc:"weight scaling parameters (wt_scale_abs, wt_scale_rel)"`
	Learn   LearnSynParams `view:"inline" desc:"synaptic learning parameters (lrate, m_lrn)"`
}

// NewConnSpec returns a new ConnSpec with default values
func NewConnSpec() *ConnSpec {
	cs := &ConnSpec{}
	cs.Defaults()
	return cs
}

func (cs *ConnSpec) Defaults() {
	cs.Proj = Full
	cs.Rule = XCAL
	cs.Type = emer.Forward
	cs.WtInit.Defaults()
	cs.WtScale.Defaults()
	cs.Learn.Defaults()
}

// Update must be called after any changes to parameters
func (cs *ConnSpec) Update() {
	cs.Learn.Update()
}

// Validate returns an error for settings that cannot be built or simulated.
func (cs *ConnSpec) Validate() error {
	var errs []string
	if cs.Proj < 0 || cs.Proj >= ProjTypeN {
		errs = append(errs, fmt.Sprintf("unknown Proj: %v", cs.Proj))
	}
	if cs.Rule < 0 || cs.Rule >= LearnRuleN {
		errs = append(errs, fmt.Sprintf("unknown Rule: %v", cs.Rule))
	}
	if cs.Type < 0 || cs.Type >= emer.PrjnTypeN {
		errs = append(errs, fmt.Sprintf("unknown Type: %v", cs.Type))
	}
	if err := cs.WtInit.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if cs.WtScale.Abs < 0 || cs.WtScale.Rel < 0 {
		errs = append(errs, fmt.Sprintf("WtScale Abs and Rel must be >= 0, got %v, %v", cs.WtScale.Abs, cs.WtScale.Rel))
	}
	if err := cs.Learn.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.New("ConnSpec: " + strings.Join(errs, "; "))
}

// IsLearning returns true if the spec changes weights at all
func (cs *ConnSpec) IsLearning() bool {
	return cs.Rule == XCAL && cs.Learn.Lrate != 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  ProjType

// ProjType is the topology of links between two layers
type ProjType int32

//go:generate stringer -type=ProjType

var KiT_ProjType = kit.Enums.AddEnum(ProjTypeN, kit.NotBitFlag, nil)

func (ev ProjType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ProjType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The projection topologies
const (
	// Full connects every sending unit to every receiving unit
	Full ProjType = iota

	// OneToOne connects sending unit i to receiving unit i -- layer sizes must match
	OneToOne

	ProjTypeN
)

// ParseProjType returns the ProjType for a topology tag such as "full" or "1to1"
func ParseProjType(tag string) (ProjType, error) {
	switch strings.ToLower(tag) {
	case "full":
		return Full, nil
	case "1to1", "one-to-one", "onetoone":
		return OneToOne, nil
	}
	var pt ProjType
	if err := pt.FromString(tag); err != nil {
		return Full, fmt.Errorf("unknown projection topology: %q", tag)
	}
	return pt, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  LearnRule

// LearnRule is the synaptic learning rule of a connection
type LearnRule int32

//go:generate stringer -type=LearnRule

var KiT_LearnRule = kit.Enums.AddEnum(LearnRuleN, kit.NotBitFlag, nil)

func (ev LearnRule) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LearnRule) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The learning rules
const (
	// NoLearn keeps the weights frozen at their initial values
	NoLearn LearnRule = iota

	// XCAL is the leabra mix of error-driven and BCM hebbian learning
	XCAL

	LearnRuleN
)

// ParseLearnRule returns the LearnRule for a rule tag: "leabra" or "none"
func ParseLearnRule(tag string) (LearnRule, error) {
	switch strings.ToLower(tag) {
	case "leabra", "xcal":
		return XCAL, nil
	case "none", "":
		return NoLearn, nil
	}
	var lr LearnRule
	if err := lr.FromString(tag); err != nil {
		return NoLearn, fmt.Errorf("unknown learning rule: %q", tag)
	}
	return lr, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are weight initialization parameters: the distribution of
// initial weights, drawn by erand.  Var = 0 gives the constant Mean for
// Uniform and Gaussian.
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 0.5
	wp.Var = 0.25
	wp.Dist = erand.Uniform
}

func (wp *WtInitParams) Validate() error {
	if wp.Dist < 0 || wp.Dist >= erand.RndDistsN {
		return fmt.Errorf("unknown WtInit distribution: %v", wp.Dist)
	}
	if wp.Var < 0 {
		return fmt.Errorf("WtInit Var must be >= 0, got %v", wp.Var)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtScaleParams

// WtScaleParams are weight scaling parameters: modulates overall strength of
// a connection, using both absolute and relative factors.
type WtScaleParams struct {
	Abs     float32 `def:"1" min:"0" desc:"absolute scaling (wt_scale_abs), which is not subject to normalization: directly multiplies weight values"`
	Rel     float32 `def:"1" min:"0" desc:"relative scaling (wt_scale_rel) that shifts balance between different connections -- normalized by the sum of Rel over all connections of the same type into the receiving layer"`
	ActNorm bool    `def:"false" desc:"also normalize by the expected number of active sending units, from the sending layer's running average activity"`
}

func (ws *WtScaleParams) Defaults() {
	ws.Abs = 1
	ws.Rel = 1
	ws.ActNorm = false
}

// SLayActScale computes scaling factor based on sending layer activity level (savg), number of units
// in sending layer (snu), and number of recv connections (ncon).
// Uses a fixed standard-error-of-the-mean extra value of 2 added to the
// expected number of active connections, for partial connectivity.
func (ws *WtScaleParams) SLayActScale(savg, snu, ncon float32) float32 {
	ncon = math32.Max(ncon, 1)
	semExtra := 2
	slayActN := int(mat32.Round(savg * snu)) // sending layer actual # active
	slayActN = ints.MaxInt(slayActN, 1)
	if ncon == snu {
		return 1 / float32(slayActN)
	}
	rMaxActN := int(math32.Min(ncon, float32(slayActN))) // max number we could get
	rAvgActN := int(mat32.Round(savg * ncon))            // recv average actual # active if uniform
	rAvgActN = ints.MaxInt(rAvgActN, 1)
	rExpActN := ints.MinInt(rAvgActN+semExtra, rMaxActN)
	return 1 / float32(rExpActN)
}

// FullScale returns the un-normalized scale: Abs * Rel, times SLayActScale if ActNorm
func (ws *WtScaleParams) FullScale(savg, snu, ncon float32) float32 {
	sc := ws.Abs * ws.Rel
	if ws.ActNorm {
		sc *= ws.SLayActScale(savg, snu, ncon)
	}
	return sc
}
