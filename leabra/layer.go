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
	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/emer/refleabra/fffb"
)

// leabra.LayerSpec holds the layer-level parameters: inhibition, expected
// activity and clamping range.  One LayerSpec may be shared by several layers.
type LayerSpec struct {
	Inhib      fffb.Params  `view:"inline" desc:"FFFB inhibition parameters (g_i, ff, fb, fb_dt, ff0, lay_inhib)"`
	ActAvg     ActAvgParams `view:"inline" desc:"running average activity parameters, used for optional netinput normalization"`
	ClampRange minmax.F32   `view:"inline" desc:"range of clamped activation values"`
}

// NewLayerSpec returns a new LayerSpec with default values
func NewLayerSpec() *LayerSpec {
	ls := &LayerSpec{}
	ls.Defaults()
	return ls
}

func (ls *LayerSpec) Defaults() {
	ls.Inhib.Defaults()
	ls.ActAvg.Defaults()
	ls.ClampRange.Set(0, 1)
}

// Update must be called after any changes to parameters
func (ls *LayerSpec) Update() {
	ls.ActAvg.Update()
}

// Validate returns an error for settings that cannot be simulated.
func (ls *LayerSpec) Validate() error {
	if err := ls.Inhib.Validate(); err != nil {
		return fmt.Errorf("LayerSpec: %w", err)
	}
	if ls.ActAvg.Tau <= 0 {
		return fmt.Errorf("LayerSpec: ActAvg.Tau must be > 0, got %v", ls.ActAvg.Tau)
	}
	if ls.ClampRange.Min > ls.ClampRange.Max {
		return fmt.Errorf("LayerSpec: ClampRange Min > Max: %v", ls.ClampRange)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActAvgParams

// ActAvgParams represents expected average activity levels in the layer.
// Used for computing running-average computation that is then used for netinput scaling.
type ActAvgParams struct {
	Init     float32 `min:"0" def:"0.15" desc:"initial estimated average activity level in the layer"`
	Fixed    bool    `def:"false" desc:"if true, then the Init value is used as a constant for ActPAvgEff, instead of the actual running average activation"`
	UseFirst bool    `viewif:"Fixed=false" def:"true" desc:"use the first actual average value to override the Init value"`
	Tau      float32 `viewif:"Fixed=false" def:"100" min:"1" desc:"time constant in trials for integrating the running average"`
	Adjust   float32 `viewif:"Fixed=false" def:"1" desc:"adjustment multiplier on the computed ActPAvg value that gives ActPAvgEff"`

	Dt float32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"rate = 1 / tau"`
}

func (aa *ActAvgParams) Defaults() {
	aa.Init = 0.15
	aa.Fixed = false
	aa.UseFirst = true
	aa.Tau = 100
	aa.Adjust = 1
	aa.Update()
}

func (aa *ActAvgParams) Update() {
	aa.Dt = 1 / aa.Tau
}

// EffInit returns the initial value for the effective layer activity
func (aa *ActAvgParams) EffInit() float32 {
	if aa.Fixed {
		return aa.Init
	}
	return aa.Adjust * aa.Init
}

// AvgFmAct updates the running-average activation given average activity level in layer
func (aa *ActAvgParams) AvgFmAct(avg *float32, act float32) {
	if act < 0.0001 {
		return
	}
	if aa.UseFirst && *avg == aa.Init {
		*avg += 0.5 * (act - *avg)
	} else {
		*avg += aa.Dt * (act - *avg)
	}
}

// EffFmAvg updates the effective value from the running-average value
func (aa *ActAvgParams) EffFmAvg(eff *float32, avg float32) {
	if aa.Fixed {
		*eff = aa.Init
	} else {
		*eff = aa.Adjust * avg
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Layer

// leabra.Layer is a population of units sharing one inhibitory conductance per cycle.
// The order of Units is their identity for clamping and logging.
type Layer struct {
	Nm         string         `desc:"name of the layer -- must be unique within the network"`
	Cls        string         `desc:"space-separated class names for parameter styling"`
	Typ        emer.LayerType `desc:"Hidden, Input or Target -- set by the network from its clamp patterns"`
	Index      int            `desc:"index of this layer in the network"`
	Spec       *LayerSpec     `desc:"layer parameters, possibly shared with other layers"`
	UnitSpec   *UnitSpec      `desc:"unit parameters, shared by all units"`
	Shp        etensor.Shape  `desc:"shape of the layer -- one dimension of Units"`
	Units      []Unit         `desc:"the units of the layer"`
	Inhib      fffb.Inhib     `desc:"inhibition state -- FBi carries across cycles"`
	ActPAvg    float32        `inactive:"+" desc:"running-average plus-phase activity, updated each trial"`
	ActPAvgEff float32        `inactive:"+" desc:"effective ActPAvg used for netinput normalization, via ActAvg.Adjust"`
	RecvConns  []*Connection  `view:"-" desc:"connections received by this layer, in network order"`
	Logging    bool           `desc:"record per-cycle unit logs"`
}

// NewLayer returns a new Layer of given size.  Nil specs are replaced with defaults.
func NewLayer(name string, size int, spec *LayerSpec, us *UnitSpec) (*Layer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("NewLayer: layer %q size must be > 0, got %d", name, size)
	}
	if spec == nil {
		spec = NewLayerSpec()
	}
	if us == nil {
		us = NewUnitSpec()
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("NewLayer: layer %q: %w", name, err)
	}
	if err := us.Validate(); err != nil {
		return nil, fmt.Errorf("NewLayer: layer %q: %w", name, err)
	}
	ly := &Layer{Nm: name, Spec: spec, UnitSpec: us, Typ: emer.Hidden, Logging: true}
	ly.Shp.SetShape([]int{size}, nil, []string{"Units"})
	ly.Units = make([]Unit, size)
	for ui := range ly.Units {
		ly.Units[ui].Spec = us
	}
	ly.InitActs()
	return ly, nil
}

// Name returns the name of the layer
func (ly *Layer) Name() string { return ly.Nm }

// Class returns the layer type and class names, for params selectors
func (ly *Layer) Class() string { return ly.Typ.String() + " " + ly.Cls }

// TypeName is the type name for params selectors
func (ly *Layer) TypeName() string { return "Layer" }

// Shape returns the shape of the layer
func (ly *Layer) Shape() *etensor.Shape { return &ly.Shp }

// NUnits returns the number of units
func (ly *Layer) NUnits() int { return len(ly.Units) }

// UpdateParams updates all params given any changes that might have been made to individual values
// including those in the receiving connections of this layer
func (ly *Layer) UpdateParams() {
	ly.Spec.Update()
	ly.UnitSpec.Update()
	for _, cn := range ly.RecvConns {
		cn.UpdateParams()
	}
}

// ApplyParams applies given parameter style Sheet to this layer and its recv connections.
// Calls UpdateParams on anything set to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (ly *Layer) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	app, err := pars.Apply(ly, setMsg)
	if app {
		ly.UpdateParams()
		applied = true
	}
	if err != nil {
		rerr = err
	}
	for _, cn := range ly.RecvConns {
		app, err = cn.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// AllParams returns a listing of all parameters in the Layer
func (ly *Layer) AllParams() string {
	str := "/////////////////////////////////////////////////\nLayer: " + ly.Nm + "\n"
	b, _ := json.MarshalIndent(ly.Spec, "", " ")
	str += "Spec: {\n " + JsonToParams(b)
	b, _ = json.MarshalIndent(ly.UnitSpec, "", " ")
	str += "UnitSpec: {\n " + JsonToParams(b)
	for _, cn := range ly.RecvConns {
		str += cn.AllParams()
	}
	return str
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitActs fully initializes activation state and the inhibition state
func (ly *Layer) InitActs() {
	for ui := range ly.Units {
		ly.UnitSpec.InitActs(&ly.Units[ui])
	}
	ly.Inhib.Init()
	ly.ActPAvg = ly.Spec.ActAvg.Init
	ly.ActPAvgEff = ly.Spec.ActAvg.EffInit()
}

// InitTrial decays the unit and inhibition state toward initial values
// at the start of a trial.  ActM, ActP and the learning averages are retained.
func (ly *Layer) InitTrial() {
	decay := ly.UnitSpec.Init.Decay
	for ui := range ly.Units {
		ly.UnitSpec.DecayState(&ly.Units[ui], decay)
	}
	ly.Inhib.Decay(decay)
}

// ResetLogs clears the recorded logs of all units
func (ly *Layer) ResetLogs() {
	for ui := range ly.Units {
		ly.Units[ui].ResetLogs()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Cycle

// BeginCycle resets the per-cycle net input stats.  The activation stats
// from the previous cycle are kept for feedback inhibition.
func (ly *Layer) BeginCycle() {
	ly.Inhib.Net.Init()
}

// NetFmRaw integrates the net input of all units and gathers the net input stats
func (ly *Layer) NetFmRaw(dt float32) {
	for ui := range ly.Units {
		u := &ly.Units[ui]
		u.NetFmRaw(dt)
		ly.Inhib.Net.UpdateVal(u.Net, int32(ui))
	}
	ly.Inhib.Net.CalcAvg()
}

// ComputeInhib returns the inhibitory conductance shared by all units this cycle.
// The net input stats must already be gathered by NetFmRaw.
func (ly *Layer) ComputeInhib() float32 {
	ly.Spec.Inhib.Inhib(&ly.Inhib)
	return ly.Inhib.Gi
}

// Step runs one cycle of integration with step size dt: net input,
// inhibition, then every unit's Integrate with the same inhibition.
func (ly *Layer) Step(dt float32) error {
	ly.NetFmRaw(dt)
	gi := ly.ComputeInhib()
	for ui := range ly.Units {
		ly.Units[ui].Integrate(gi, dt)
	}
	return ly.cycleEnd()
}

// Clamp sets the unit activations directly from pattern instead of Step.
// The pattern length must equal the number of units.
func (ly *Layer) Clamp(pattern []float32, dt float32) error {
	if len(pattern) != len(ly.Units) {
		return fmt.Errorf("Layer %s: Clamp pattern length: %d, units: %d: %w", ly.Nm, len(pattern), len(ly.Units), ErrLayerSize)
	}
	ly.NetFmRaw(dt)
	ly.Inhib.FFi = 0
	ly.Inhib.FBi = 0
	ly.Inhib.Gi = 0
	for ui := range ly.Units {
		ly.Units[ui].Clamp(pattern[ui], dt, ly.Spec.ClampRange)
	}
	return ly.cycleEnd()
}

// cycleEnd gathers the activation stats for the next cycle's feedback
// inhibition, checks for NaN and records the logs.
func (ly *Layer) cycleEnd() error {
	ly.Inhib.Act.Init()
	var err error
	for ui := range ly.Units {
		u := &ly.Units[ui]
		if err == nil && math32.IsNaN(u.Act) {
			err = fmt.Errorf("Layer %s: unit %d: act is NaN (net: %v, v_m: %v, g_i: %v)", ly.Nm, ui, u.Net, u.Vm, u.Gi)
		}
		ly.Inhib.Act.UpdateVal(u.Act, int32(ui))
		if ly.Logging {
			u.UpdateLogs()
		}
	}
	ly.Inhib.Act.CalcAvg()
	return err
}

//////////////////////////////////////////////////////////////////////////////////////
//  Phase and Trial

// CapturePhase records the minus or plus phase activations of all units
func (ly *Layer) CapturePhase(ph Phase) {
	for ui := range ly.Units {
		ly.Units[ui].CapturePhase(ph)
	}
}

// EndTrial updates the long-term unit averages and the running average
// plus-phase activity of the layer.
func (ly *Layer) EndTrial() {
	var sum float32
	for ui := range ly.Units {
		u := &ly.Units[ui]
		u.EndTrial()
		sum += u.ActP
	}
	ly.Spec.ActAvg.AvgFmAct(&ly.ActPAvg, sum/float32(len(ly.Units)))
	ly.Spec.ActAvg.EffFmAvg(&ly.ActPAvgEff, ly.ActPAvg)
}

// SSE returns the sum-squared-error over the layer between the target
// pattern and the minus phase activations.  The plus phase activations of a
// clamped output layer equal the (clipped) targets.
func (ly *Layer) SSE(targ []float32) (float32, error) {
	if len(targ) != len(ly.Units) {
		return 0, fmt.Errorf("Layer %s: target length: %d, units: %d: %w", ly.Nm, len(targ), len(ly.Units), ErrLayerSize)
	}
	var sse float32
	for ui := range ly.Units {
		d := ly.Spec.ClampRange.ClipVal(targ[ui]) - ly.Units[ui].ActM
		sse += d * d
	}
	return sse, nil
}

// GScaleFmAvgAct computes the effective scale of every receiving connection:
// Abs * Rel normalized by the total Rel of all connections of the same
// excitatory / inhibitory type into this layer.
func (ly *Layer) GScaleFmAvgAct() {
	totGeRel := float32(0)
	totGiRel := float32(0)
	for _, cn := range ly.RecvConns {
		slay := cn.Send
		ncon := float32(1)
		if cn.Spec.Proj == Full {
			ncon = float32(slay.NUnits())
		}
		cn.GScale = cn.Spec.WtScale.FullScale(slay.ActPAvgEff, float32(slay.NUnits()), ncon)
		if cn.Spec.Type == emer.Inhib {
			totGiRel += cn.Spec.WtScale.Rel
		} else {
			totGeRel += cn.Spec.WtScale.Rel
		}
	}
	for _, cn := range ly.RecvConns {
		if cn.Spec.Type == emer.Inhib {
			if totGiRel > 0 {
				cn.GScale /= totGiRel
			}
		} else {
			if totGeRel > 0 {
				cn.GScale /= totGeRel
			}
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Unit values

// UnitVals fills in values of given variable name on unit,
// for each unit in the layer, into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (ly *Layer) UnitVals(vals *[]float32, varNm string) error {
	nu := len(ly.Units)
	if *vals == nil || cap(*vals) < nu {
		*vals = make([]float32, nu)
	} else if len(*vals) < nu {
		*vals = (*vals)[0:nu]
	}
	for ui := range ly.Units {
		v, err := ly.Units[ui].VarByName(varNm)
		if err != nil {
			return fmt.Errorf("Layer %s: %w", ly.Nm, err)
		}
		(*vals)[ui] = v
	}
	return nil
}

// ErrLayerSize is returned when a pattern does not match the size of its layer
var ErrLayerSize = errors.New("pattern size does not match layer size")
