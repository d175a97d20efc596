// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"fmt"
	"strings"
)

// Naming is the policy used to derive a job name from its parameters.
// The policy is fixed per experiment.
type Naming int

const (
	// Positional joins the values of the product axes in axis
	// declaration order with commas, e.g. "TPCC,NO_WAIT,4".
	// Names are only injective if the values that can appear at a
	// position are distinguishable, which Matrix.Jobs checks.
	Positional Naming = iota

	// KeyValue joins name=value pairs in parameter order with commas,
	// e.g. "WORKLOAD=TPCC,CC_ALG=NO_WAIT,THREAD_CNT=4".
	KeyValue
)

func (n Naming) String() string {
	switch n {
	case Positional:
		return "positional"
	case KeyValue:
		return "keyvalue"
	}
	return fmt.Sprintf("Naming(%d)", int(n))
}

// ParseNaming parses the String form of a Naming.
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(s) {
	case "positional", "values":
		return Positional, nil
	case "keyvalue", "key=value", "kv":
		return KeyValue, nil
	}
	return 0, fmt.Errorf("unknown naming policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (n Naming) MarshalText() ([]byte, error) {
	if n != Positional && n != KeyValue {
		return nil, fmt.Errorf("invalid naming policy %d", int(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Naming) UnmarshalText(text []byte) error {
	v, err := ParseNaming(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

func (n Naming) name(ps ParameterSet, primary []Value) string {
	if n == KeyValue {
		return ps.String()
	}
	var buf strings.Builder
	for i, v := range primary {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(v.String())
	}
	return buf.String()
}
