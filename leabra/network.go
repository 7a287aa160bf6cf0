// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/timer"
	"github.com/goki/ki/ints"
	"github.com/sourcegraph/conc/pool"
)

// ErrPhase is returned when an operation is called out of trial order,
// e.g., Learn before a completed plus phase.
var ErrPhase = errors.New("leabra: operation not valid in the current phase")

// leabra.Network orchestrates layers and connections through cycles and trials.
// Every cycle propagates all connections before any layer integrates.
type Network struct {
	Nm       string                 `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers   []*Layer               `desc:"list of layers, in update order"`
	Conns    []*Connection          `desc:"list of connections"`
	LayMap   map[string]*Layer      `view:"-" desc:"map of name to layers"`
	Time     Time                   `desc:"cycle, trial and phase state"`
	Seed     int64                  `desc:"random seed for weight initialization"`
	Rand     erand.SysRand          `view:"-" desc:"random number generator for weight initialization, from Seed"`
	Inputs   map[string][]float32   `desc:"patterns clamped on input layers in every phase, keyed by layer name"`
	Outputs  map[string][]float32   `desc:"target patterns clamped on output layers in the plus phase, keyed by layer name"`
	NThreads int                    `desc:"number of goroutines used for propagation and integration -- 1 = sequential"`
	FunTimes map[string]*timer.Time `view:"-" desc:"timers for each major function (step of processing)"`
	Logging  bool                   `desc:"record per-cycle unit logs in all layers"`
}

// NewNetwork returns a new Network of given layers and connections, with
// weights initialized from seed.  Layer names must be unique, and every
// connection must join layers of the network.  All errors are reported together.
func NewNetwork(name string, seed int64, layers []*Layer, conns []*Connection) (*Network, error) {
	nt := &Network{Nm: name, Seed: seed, Layers: layers, Conns: conns, NThreads: 1, Logging: true}
	nt.Time.Defaults()
	nt.FunTimes = make(map[string]*timer.Time)
	nt.Inputs = make(map[string][]float32)
	nt.Outputs = make(map[string][]float32)
	if err := nt.Build(); err != nil {
		return nil, err
	}
	nt.InitWts()
	return nt, nil
}

// Build checks the layers and connections and records the receiving
// connections of each layer.  Called by NewNetwork.
func (nt *Network) Build() error {
	emsg := ""
	nt.LayMap = make(map[string]*Layer, len(nt.Layers))
	for li, ly := range nt.Layers {
		if ly == nil {
			emsg += fmt.Sprintf("Layer %d is nil\n", li)
			continue
		}
		if _, has := nt.LayMap[ly.Nm]; has {
			emsg += fmt.Sprintf("Layer named: %v is duplicated in Network: %v\n", ly.Nm, nt.Nm)
		}
		ly.Index = li
		ly.RecvConns = nil
		nt.LayMap[ly.Nm] = ly
	}
	for ci, cn := range nt.Conns {
		if cn == nil {
			emsg += fmt.Sprintf("Connection %d is nil\n", ci)
			continue
		}
		if cn.Send == nil || cn.Recv == nil {
			emsg += fmt.Sprintf("Connection %d has a nil Send or Recv layer\n", ci)
			continue
		}
		if !nt.hasLayer(cn.Send) || !nt.hasLayer(cn.Recv) {
			emsg += fmt.Sprintf("Connection %s joins layers not in Network: %v\n", cn.Name(), nt.Nm)
			continue
		}
		cn.Recv.RecvConns = append(cn.Recv.RecvConns, cn)
	}
	if emsg != "" {
		return errors.New(emsg)
	}
	return nil
}

func (nt *Network) hasLayer(ly *Layer) bool {
	if ly == nil {
		return false
	}
	return nt.LayMap[ly.Nm] == ly
}

// Name returns the name of the network
func (nt *Network) Name() string { return nt.Nm }

// LayerByName returns a layer by looking it up by name in the layer map (nil if not found).
func (nt *Network) LayerByName(name string) *Layer {
	return nt.LayMap[name]
}

// LayerByNameTry returns a layer by looking it up by name -- emits a log error message
// if layer is not found
func (nt *Network) LayerByNameTry(name string) (*Layer, error) {
	ly := nt.LayerByName(name)
	if ly == nil {
		err := fmt.Errorf("Layer named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return ly, err
	}
	return ly, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitWts re-seeds the random generator from Seed and initializes all
// weights, in connection order, then all activation state and counters.
func (nt *Network) InitWts() {
	nt.Rand.NewRand(nt.Seed)
	for _, cn := range nt.Conns {
		cn.InitWts(&nt.Rand)
	}
	nt.InitActs()
	nt.ResetLogs()
}

// InitActs fully initializes the activation state and learning averages of
// all layers, and the effective connection scales.  Weights are not changed.
func (nt *Network) InitActs() {
	for _, ly := range nt.Layers {
		ly.Logging = nt.Logging
		ly.InitActs()
	}
	for _, ly := range nt.Layers {
		ly.GScaleFmAvgAct()
	}
	nt.Time.Reset()
}

// ResetLogs clears the per-cycle logs of all units
func (nt *Network) ResetLogs() {
	for _, ly := range nt.Layers {
		ly.ResetLogs()
	}
}

// SetLogging turns per-cycle unit logs on or off in all layers
func (nt *Network) SetLogging(on bool) {
	nt.Logging = on
	for _, ly := range nt.Layers {
		ly.Logging = on
	}
}

// SetNThreads sets the number of goroutines used by Cycle, bounded by the number of layers
func (nt *Network) SetNThreads(nthr int) {
	nt.NThreads = ints.MaxInt(ints.MinInt(nthr, len(nt.Layers)), 1)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Clamp patterns

// SetInputs registers the patterns clamped in every phase, replacing any
// previous inputs.  Layer names and pattern sizes are checked.
func (nt *Network) SetInputs(pats map[string][]float32) error {
	if err := nt.checkPats(pats); err != nil {
		return err
	}
	for nm := range nt.Inputs {
		nt.resetLayType(nm)
	}
	nt.Inputs = copyPats(pats)
	for nm := range nt.Inputs {
		nt.LayMap[nm].Typ = emer.Input
	}
	return nil
}

// SetOutputs registers the target patterns clamped in the plus phase,
// replacing any previous outputs.  Layer names and pattern sizes are checked.
func (nt *Network) SetOutputs(pats map[string][]float32) error {
	if err := nt.checkPats(pats); err != nil {
		return err
	}
	for nm := range nt.Outputs {
		nt.resetLayType(nm)
	}
	nt.Outputs = copyPats(pats)
	for nm := range nt.Outputs {
		nt.LayMap[nm].Typ = emer.Target
	}
	return nil
}

func (nt *Network) checkPats(pats map[string][]float32) error {
	var errs []string
	for nm, pat := range pats {
		ly, err := nt.LayerByNameTry(nm)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if len(pat) != ly.NUnits() {
			errs = append(errs, fmt.Errorf("Layer %s: pattern length: %d, units: %d: %w", nm, len(pat), ly.NUnits(), ErrLayerSize).Error())
		}
	}
	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return errors.New(strings.Join(errs, "\n"))
}

func (nt *Network) resetLayType(nm string) {
	if ly := nt.LayMap[nm]; ly != nil {
		ly.Typ = emer.Hidden
	}
}

func copyPats(pats map[string][]float32) map[string][]float32 {
	cp := make(map[string][]float32, len(pats))
	for nm, pat := range pats {
		cp[nm] = append([]float32(nil), pat...)
	}
	return cp
}

// clampPat returns the pattern to clamp on the layer in the current phase, or nil
func (nt *Network) clampPat(ly *Layer) []float32 {
	if pat, has := nt.Inputs[ly.Nm]; has {
		return pat
	}
	if nt.Time.Phase == Plus {
		if pat, has := nt.Outputs[ly.Nm]; has {
			return pat
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Cycle

// Cycle runs one cycle of the network: all connections propagate, then every
// layer steps, or clamps when it has a pattern for the current phase.
// Idle cycles clamp as in the minus phase.
func (nt *Network) Cycle() error {
	nt.FunTimerStart("Cycle")
	defer nt.FunTimerStop("Cycle")
	for _, ly := range nt.Layers {
		ly.BeginCycle()
	}
	nt.layFun(func(ly *Layer) error {
		for _, cn := range ly.RecvConns {
			cn.Propagate()
		}
		return nil
	})
	dt := nt.Time.Dt
	err := nt.layFun(func(ly *Layer) error {
		if pat := nt.clampPat(ly); pat != nil {
			return ly.Clamp(pat, dt)
		}
		return ly.Step(dt)
	})
	nt.Time.CycleInc()
	return err
}

// layFun calls fun on every layer and waits for all to finish.  With
// NThreads > 1 the layers run concurrently on a bounded pool.
// Returns the error of the first layer, in layer order, that failed.
func (nt *Network) layFun(fun func(ly *Layer) error) error {
	errs := make([]error, len(nt.Layers))
	if nt.NThreads <= 1 {
		for li, ly := range nt.Layers {
			errs[li] = fun(ly)
		}
	} else {
		p := pool.New().WithMaxGoroutines(nt.NThreads)
		for li, ly := range nt.Layers {
			li, ly := li, ly
			p.Go(func() {
				errs[li] = fun(ly)
			})
		}
		p.Wait()
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Trial

// Trial runs one full trial: the minus phase with inputs clamped, the plus
// phase with inputs and targets clamped, then learning.  Returns the
// sum-squared error of the minus phase activations against the targets.
func (nt *Network) Trial() (float32, error) {
	nt.FunTimerStart("Trial")
	defer nt.FunTimerStop("Trial")
	for _, ly := range nt.Layers {
		ly.InitTrial()
	}
	for _, ly := range nt.Layers {
		ly.GScaleFmAvgAct()
	}
	if err := nt.settle(Minus, nt.Time.MinusCycles); err != nil {
		return 0, err
	}
	if err := nt.settle(Plus, nt.Time.PlusCycles); err != nil {
		return 0, err
	}
	sse, err := nt.SSE()
	if err != nil {
		return 0, err
	}
	if err := nt.Learn(); err != nil {
		return 0, err
	}
	return sse, nil
}

// settle runs ncyc cycles in the given phase, then records the phase activations.
// The phase is left set, so that Learn can check for a completed plus phase.
func (nt *Network) settle(ph Phase, ncyc int) error {
	nt.Time.PhaseStart(ph)
	for cyc := 0; cyc < ncyc; cyc++ {
		if err := nt.Cycle(); err != nil {
			nt.Time.PhaseStart(Idle)
			return fmt.Errorf("%v phase cycle %d: %w", ph, cyc, err)
		}
	}
	for _, ly := range nt.Layers {
		ly.CapturePhase(ph)
	}
	return nil
}

// SSE returns the sum-squared error over all target layers, between the
// targets and the minus phase activations.
func (nt *Network) SSE() (float32, error) {
	var sse float32
	for _, ly := range nt.Layers {
		targ, has := nt.Outputs[ly.Nm]
		if !has {
			continue
		}
		lsse, err := ly.SSE(targ)
		if err != nil {
			return 0, err
		}
		sse += lsse
	}
	return sse, nil
}

// Learn updates the weights of every connection, then the long-term unit
// averages.  Only valid directly after a completed plus phase: returns
// ErrPhase otherwise.
func (nt *Network) Learn() error {
	if nt.Time.Phase != Plus {
		return fmt.Errorf("Learn in %v phase: %w", nt.Time.Phase, ErrPhase)
	}
	nt.FunTimerStart("Learn")
	defer nt.FunTimerStop("Learn")
	nt.Time.PhaseStart(Learn)
	defer nt.Time.PhaseStart(Idle)
	for _, cn := range nt.Conns {
		if err := cn.Learn(); err != nil {
			return err
		}
	}
	for _, ly := range nt.Layers {
		ly.EndTrial()
	}
	nt.Time.Trial++
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Params

// ApplyParams applies given parameter style Sheet to layers and connections in this network.
// Calls UpdateParams to ensure derived parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// it always prints a message if a parameter fails to be set.
// returns true if any params were set, and error if there were any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, ly := range nt.Layers {
		app, err := ly.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	if applied {
		for _, ly := range nt.Layers {
			ly.GScaleFmAvgAct()
		}
	}
	return applied, rerr
}

// AllParams returns a listing of all parameters in the Network.
func (nt *Network) AllParams() string {
	nds := ""
	for _, ly := range nt.Layers {
		nds += ly.AllParams()
	}
	return nds
}

// NonDefaultParams returns a listing of all parameters in the Network that
// are not at their default values -- useful for setting param styles etc.
func (nt *Network) NonDefaultParams() string {
	nds := ""
	for _, ly := range nt.Layers {
		nds += ly.NonDefaultParams()
	}
	return nds
}

// AllWtScales returns a listing of all WtScale parameters and effective scales
func (nt *Network) AllWtScales() string {
	str := ""
	for _, ly := range nt.Layers {
		str += "\nLayer: " + ly.Nm + "\n"
		for _, cn := range ly.RecvConns {
			str += fmt.Sprintf("\t%23s\t\tAbs:\t%g\tRel:\t%g\tGScale:\t%g\n", cn.Name(), cn.Spec.WtScale.Abs, cn.Spec.WtScale.Rel, cn.GScale)
		}
	}
	return str
}

//////////////////////////////////////////////////////////////////////////////////////
//  Reports

// SizeReport returns a string reporting the size of each layer and connection
// in the network, and total memory footprint.
func (nt *Network) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, ly := range nt.Layers {
		nn := len(ly.Units)
		nmem := nn * int(unsafe.Sizeof(Unit{}))
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Units: %d\t UnitMem: %v \t Recv From:\n", ly.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, cn := range ly.RecvConns {
			ns := len(cn.Links)
			syn += ns
			pmem := ns*int(unsafe.Sizeof(Link{})) + (len(cn.RConN)+len(cn.RConIdxSt))*4
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Links: %d\t LinkMem: %v\n", cn.Send.Nm, ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Units: %d\t UnitMem: %v \t Links: %d \t LinkMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

// TimerReport reports the amount of time spent in each function
func (nt *Network) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TimerReport: %v, NThreads: %v\n", nt.Nm, nt.NThreads)
	fmt.Fprintf(&b, "\t%13s \t%7s\t%7s\n", "Function Name", "Secs", "Pct")
	fnms := make([]string, 0, len(nt.FunTimes))
	for k := range nt.FunTimes {
		fnms = append(fnms, k)
	}
	sort.Strings(fnms)
	pcts := make([]float64, len(fnms))
	tot := 0.0
	for i, fn := range fnms {
		pcts[i] = nt.FunTimes[fn].TotalSecs()
		tot += pcts[i]
	}
	for i, fn := range fnms {
		pct := 0.0
		if tot > 0 {
			pct = 100 * (pcts[i] / tot)
		}
		fmt.Fprintf(&b, "\t%13s \t%7.3f\t%7.1f\n", fn, pcts[i], pct)
	}
	fmt.Fprintf(&b, "\t%13s \t%7.3f\n", "Total", tot)
	return b.String()
}

// FunTimerStart starts function timer for given function name -- ensures creation of timer
func (nt *Network) FunTimerStart(fun string) {
	if nt.FunTimes == nil {
		nt.FunTimes = make(map[string]*timer.Time)
	}
	ft, ok := nt.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		nt.FunTimes[fun] = ft
	}
	ft.Start()
}

// FunTimerStop stops function timer -- timer must already exist
func (nt *Network) FunTimerStop(fun string) {
	ft := nt.FunTimes[fun]
	ft.Stop()
}

// TimerReset resets all function timers
func (nt *Network) TimerReset() {
	for _, ft := range nt.FunTimes {
		ft.Reset()
	}
}
