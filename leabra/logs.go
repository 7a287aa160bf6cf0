// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"io"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// LogTable returns the per-cycle unit logs of the layer as a table, with one
// row per recorded cycle and one column per UnitLogVars variable, each cell
// holding the values of all units in unit order.
func (ly *Layer) LogTable() *etable.Table {
	nu := ly.NUnits()
	nrow := 0
	if nu > 0 {
		nrow = len(ly.Units[0].Logs["act"])
	}
	sch := etable.Schema{
		{"Cycle", etensor.INT64, nil, nil},
	}
	for _, vn := range UnitLogVars {
		sch = append(sch, etable.Column{vn, etensor.FLOAT32, []int{nu}, []string{"Units"}})
	}
	dt := &etable.Table{}
	dt.SetMetaData("name", ly.Nm+"Log")
	dt.SetMetaData("desc", "per-cycle unit values of layer "+ly.Nm)
	dt.SetMetaData("precision", "8")
	dt.SetFromSchema(sch, nrow)
	for row := 0; row < nrow; row++ {
		dt.SetCellFloat("Cycle", row, float64(row))
	}
	for _, vn := range UnitLogVars {
		col := dt.ColByName(vn)
		for ui := range ly.Units {
			vals := ly.Units[ui].Logs[vn]
			for row := 0; row < nrow && row < len(vals); row++ {
				col.SetFloat1D(row*nu+ui, float64(vals[row]))
			}
		}
	}
	return dt
}

// WriteLogs writes the per-cycle unit logs of the layer as tab-separated
// values with headers.
func (ly *Layer) WriteLogs(w io.Writer) error {
	return ly.LogTable().WriteCSV(w, etable.Tab, etable.Headers)
}
