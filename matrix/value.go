// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Kind is the type of a scalar Value.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// A Value is a single scalar parameter or measurement value.
//
// The zero Value is the empty string.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a floating-point Value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// ParseValue coerces s to an integer Value if possible, else to a
// float Value, else leaves it as a string Value. Booleans are never
// inferred: "true" is a string.
func ParseValue(s string) Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return String(s)
}

// FromInterface converts a decoded YAML or JSON scalar to a Value.
func FromInterface(x interface{}) (Value, error) {
	switch x := x.(type) {
	case Value:
		return x, nil
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Value{}, fmt.Errorf("value %d overflows int64", x)
		}
		return Int(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	}
	return Value{}, fmt.Errorf("unsupported value %v of type %T", x, x)
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// String returns the canonical text form of v. This is the form used
// in job names and in generated configuration files.
//
// Float values always contain a decimal point or an exponent, so that
// 1.0 round-trips through ParseValue as a float rather than an int.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case KindBool:
		if v.i != 0 {
			return "true"
		}
		return "false"
	}
	return v.s
}

// Float64 returns v as a float64. It reports false if v is not numeric.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	}
	return 0, false
}

// Equal reports whether v and o denote the same value. Numeric values
// compare by magnitude, so Int(4) equals Float(4).
func (v Value) Equal(o Value) bool {
	if a, ok := v.Float64(); ok {
		if b, ok := o.Float64(); ok {
			return a == b
		}
		return false
	}
	return v.kind == o.kind && v.String() == o.String()
}

// Compare orders v and o. Numeric values order numerically and before
// non-numeric values; everything else orders by text.
func Compare(v, o Value) int {
	a, aok := v.Float64()
	b, bok := o.Float64()
	switch {
	case aok && bok:
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(v.String(), o.String())
}

// MarshalYAML implements yaml.Marshaler. The node carries an explicit
// tag so that a float such as 1.0 is not read back as an integer.
func (v Value) MarshalYAML() (interface{}, error) {
	tag := "!!str"
	switch v.kind {
	case KindInt:
		tag = "!!int"
	case KindFloat:
		tag = "!!float"
	case KindBool:
		tag = "!!bool"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler for the yaml.v3 decoder.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var x interface{}
	if err := unmarshal(&x); err != nil {
		return err
	}
	val, err := FromInterface(x)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
