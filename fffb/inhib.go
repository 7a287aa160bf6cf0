// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fffb

import "github.com/emer/etable/minmax"

// Inhib contains the state values for layer FFFB inhibition.
// FBi is carried across cycles; Net is gathered fresh each cycle.
type Inhib struct {
	FFi float32         `desc:"computed feedforward inhibition"`
	FBi float32         `desc:"computed feedback inhibition, integrated across cycles"`
	Gi  float32         `desc:"overall inhibitory conductance shared by all units in the layer"`
	Net minmax.AvgMax32 `desc:"average and max integrated net input, which drive FF inhibition"`
	Act minmax.AvgMax32 `desc:"average and max activation from the previous cycle, which drive FB inhibition"`
}

func (fi *Inhib) Init() {
	fi.FFi = 0
	fi.FBi = 0
	fi.Gi = 0
	fi.Net.Init()
	fi.Act.Init()
	fi.Act.Max = 0
}

// Decay reduces inhibition values by given decay proportion
func (fi *Inhib) Decay(decay float32) {
	fi.Net.Max -= decay * fi.Net.Max
	fi.Net.Avg -= decay * fi.Net.Avg
	fi.Act.Max -= decay * fi.Act.Max
	fi.Act.Avg -= decay * fi.Act.Avg
	fi.FFi -= decay * fi.FFi
	fi.FBi -= decay * fi.FBi
	fi.Gi -= decay * fi.Gi
}
