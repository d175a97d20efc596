// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import "strings"

// A Param is a single named parameter value.
type Param struct {
	Name  string
	Value Value
}

// A ParameterSet is an ordered set of parameters. The order is the
// insertion order and only matters for job naming.
type ParameterSet []Param

// Get returns the value of parameter name.
func (ps ParameterSet) Get(name string) (Value, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Set returns ps with name set to v. An existing parameter is updated
// in place; a new one is appended.
func (ps ParameterSet) Set(name string, v Value) ParameterSet {
	for i := range ps {
		if ps[i].Name == name {
			ps[i].Value = v
			return ps
		}
	}
	return append(ps, Param{name, v})
}

// Names returns the parameter names in order.
func (ps ParameterSet) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// Clone returns a copy of ps that shares no state with it.
func (ps ParameterSet) Clone() ParameterSet {
	return append(ParameterSet(nil), ps...)
}

// Equal reports whether ps and o have the same parameters with equal
// values in the same order.
func (ps ParameterSet) Equal(o ParameterSet) bool {
	if len(ps) != len(o) {
		return false
	}
	for i := range ps {
		if ps[i].Name != o[i].Name || !ps[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

// String returns ps as comma-separated name=value pairs.
func (ps ParameterSet) String() string {
	var buf strings.Builder
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(p.Name)
		buf.WriteByte('=')
		buf.WriteString(p.Value.String())
	}
	return buf.String()
}
