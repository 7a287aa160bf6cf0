// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package leabra

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goki/ki/indent"
)

// JsonToParams reformates json output to suitable params display output
func JsonToParams(b []byte) string {
	br := strings.Replace(string(b), `"`, ``, -1)
	br = strings.Replace(br, ",\n", "", -1)
	br = strings.Replace(br, "{\n", "{", -1)
	br = strings.Replace(br, "} ", "}\n  ", -1)
	br = strings.Replace(br, "\n }", " }", -1)
	br = strings.Replace(br, "\n  }\n", " }", -1)
	return br[1:] + "\n"
}

// NonDefaultParams returns a listing of the parameters of the layer and its
// receiving connections that differ from their default values.
func (ly *Layer) NonDefaultParams() string {
	str := NonDefaultFields("Layer: "+ly.Nm+" Spec", ly.Spec, NewLayerSpec())
	str += NonDefaultFields("Layer: "+ly.Nm+" UnitSpec", ly.UnitSpec, NewUnitSpec())
	for _, cn := range ly.RecvConns {
		str += NonDefaultFields("Prjn: "+cn.Name(), cn.Spec, NewConnSpec())
	}
	return str
}

// NonDefaultFields returns a listing of the fields of cur that differ from
// def, by dotted field path, under the given header.  Both must be the same
// params type.  Returns "" if nothing differs.
func NonDefaultFields(hdr string, cur, def interface{}) string {
	cm, err := jsonMap(cur)
	if err != nil {
		return hdr + ": " + err.Error() + "\n"
	}
	dm, err := jsonMap(def)
	if err != nil {
		return hdr + ": " + err.Error() + "\n"
	}
	var lines []string
	diffFields("", cm, dm, &lines)
	if len(lines) == 0 {
		return ""
	}
	sort.Strings(lines)
	return hdr + "\n" + strings.Join(lines, "")
}

func jsonMap(obj interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	err = json.Unmarshal(b, &m)
	return m, err
}

func diffFields(path string, cur, def map[string]interface{}, lines *[]string) {
	for k, cv := range cur {
		fp := k
		if path != "" {
			fp = path + "." + k
		}
		dv := def[k]
		cs, csub := cv.(map[string]interface{})
		ds, dsub := dv.(map[string]interface{})
		if csub && dsub {
			diffFields(fp, cs, ds, lines)
			continue
		}
		if !reflect.DeepEqual(cv, dv) {
			*lines = append(*lines, fmt.Sprintf("%s%s: %v\t(def: %v)\n", indent.TabBytes(1), fp, cv, dv))
		}
	}
}
