// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaFile is the name of the schema file stored in each experiment
// directory.
const SchemaFile = "schema.yaml"

// A Schema is the axis metadata of an experiment. It is everything
// needed to decode a job name back into its ParameterSet.
type Schema struct {
	Experiment string       `yaml:"experiment"`
	Naming     Naming       `yaml:"naming"`
	Axes       []AxisSchema `yaml:"axes,omitempty"`
}

// An AxisSchema describes one axis of a Schema. Values lists every
// value the axis takes in any product of the experiment. Linked axis
// values are aligned with Values.
type AxisSchema struct {
	Name   string       `yaml:"name"`
	Values []Value      `yaml:"values"`
	Linked []AxisSchema `yaml:"linked,omitempty"`
}

// Schema returns the schema of m. Axes that appear in several products
// are merged, in first-appearance order.
func (m *Matrix) Schema() *Schema {
	s := &Schema{Experiment: m.Name, Naming: m.Naming}
	for _, p := range m.Products {
		for _, a := range p {
			s.add(a)
		}
	}
	return s
}

// add merges axis a into s.
func (s *Schema) add(a Axis) {
	i := 0
	for i < len(s.Axes) && s.Axes[i].Name != a.Name {
		i++
	}
	if i == len(s.Axes) {
		s.Axes = append(s.Axes, AxisSchema{Name: a.Name})
	}
	s.Axes[i].merge(a)
}

func (as *AxisSchema) merge(a Axis) {
	for _, l := range a.Linked {
		if as.linked(l.Name) < 0 {
			// Earlier values had no such linked axis.
			blank := make([]Value, len(as.Values))
			for j := range blank {
				blank[j] = String("")
			}
			as.Linked = append(as.Linked, AxisSchema{Name: l.Name, Values: blank})
		}
	}
	for vi, v := range a.Values {
		if as.index(v.String()) >= 0 {
			continue
		}
		as.Values = append(as.Values, v)
		for li := range as.Linked {
			lv := String("")
			for _, l := range a.Linked {
				if l.Name == as.Linked[li].Name {
					lv = l.Values[vi]
				}
			}
			as.Linked[li].Values = append(as.Linked[li].Values, lv)
		}
	}
}

func (as *AxisSchema) linked(name string) int {
	for i, l := range as.Linked {
		if l.Name == name {
			return i
		}
	}
	return -1
}

func (as *AxisSchema) axis() Axis {
	a := Axis{Name: as.Name, Values: as.Values}
	for _, l := range as.Linked {
		a.Linked = append(a.Linked, l.axis())
	}
	return a
}

func (s *Schema) axisNames() []string {
	names := make([]string, len(s.Axes))
	for i, as := range s.Axes {
		names[i] = as.Name
	}
	return names
}

// Merge returns a schema that decodes the job names of both s and o,
// as when an experiment directory written with schema s is swept
// again with schema o. The axes and values of s keep their order and
// those only o has follow them.
//
// Merge fails if the two schemas name jobs differently, or, for
// positional names, if their axes differ.
func (s *Schema) Merge(o *Schema) (*Schema, error) {
	if s.Naming != o.Naming {
		return nil, fmt.Errorf("schema naming %v conflicts with %v", o.Naming, s.Naming)
	}
	if s.Naming == Positional {
		sn, on := s.axisNames(), o.axisNames()
		if strings.Join(sn, ",") != strings.Join(on, ",") {
			return nil, fmt.Errorf("positional axes %v conflict with %v", on, sn)
		}
	}
	m := &Schema{Experiment: s.Experiment, Naming: s.Naming}
	if m.Experiment == "" {
		m.Experiment = o.Experiment
	}
	for _, x := range []*Schema{s, o} {
		for i := range x.Axes {
			m.add(x.Axes[i].axis())
		}
	}
	return m, nil
}

func (as *AxisSchema) index(text string) int {
	for i, v := range as.Values {
		if v.String() == text {
			return i
		}
	}
	return -1
}

// value returns the declared value of as whose text form is text, or
// the ParseValue coercion of text if as does not declare it.
func (as *AxisSchema) value(text string) (Value, int) {
	if i := as.index(text); i >= 0 {
		return as.Values[i], i
	}
	return ParseValue(text), -1
}

// A DecodeError reports a job name that does not match its schema.
type DecodeError struct {
	Name string
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("job %q: %s", e.Name, e.Msg)
}

// Decode returns the ParameterSet encoded by job name name.
func (s *Schema) Decode(name string) (ParameterSet, error) {
	if name == "" {
		return nil, &DecodeError{name, "empty job name"}
	}
	toks := strings.Split(name, ",")
	var ps ParameterSet
	switch s.Naming {
	case Positional:
		if len(toks) != len(s.Axes) {
			return nil, &DecodeError{name, fmt.Sprintf("have %d values, schema has %d axes", len(toks), len(s.Axes))}
		}
		for i, tok := range toks {
			as := &s.Axes[i]
			v, vi := as.value(tok)
			ps = append(ps, Param{as.Name, v})
			if len(as.Linked) == 0 {
				continue
			}
			if vi < 0 {
				return nil, &DecodeError{name, fmt.Sprintf("value %q of axis %s is not in the schema, cannot restore linked axes", tok, as.Name)}
			}
			for _, l := range as.Linked {
				ps = append(ps, Param{l.Name, l.Values[vi]})
			}
		}

	case KeyValue:
		for _, tok := range toks {
			eq := strings.IndexByte(tok, '=')
			if eq <= 0 {
				return nil, &DecodeError{name, fmt.Sprintf("token %q is not key=value", tok)}
			}
			key, text := tok[:eq], tok[eq+1:]
			ps = append(ps, Param{key, s.lookup(key, text)})
		}

	default:
		return nil, &DecodeError{name, fmt.Sprintf("unknown naming policy %v", s.Naming)}
	}
	return ps, nil
}

// lookup types text as a value of the axis (or linked axis) called key.
func (s *Schema) lookup(key, text string) Value {
	for i := range s.Axes {
		as := &s.Axes[i]
		if as.Name == key {
			v, _ := as.value(text)
			return v
		}
		for j := range as.Linked {
			if as.Linked[j].Name == key {
				v, _ := as.Linked[j].value(text)
				return v
			}
		}
	}
	return ParseValue(text)
}

// InferSchema guesses the schema of a job name produced without a
// stored schema. Only key=value names are self-describing; for any
// other name it returns nil.
func InferSchema(name string) *Schema {
	if name == "" {
		return nil
	}
	for _, tok := range strings.Split(name, ",") {
		if strings.IndexByte(tok, '=') <= 0 {
			return nil
		}
	}
	return &Schema{Naming: KeyValue}
}

// Marshal returns the YAML encoding of s.
func (s *Schema) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes s to path as YAML.
func (s *Schema) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	return os.WriteFile(path, data, 0666)
}

// ParseSchema decodes a YAML schema.
func ParseSchema(data []byte) (*Schema, error) {
	s := new(Schema)
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadSchema reads a YAML schema from path.
func ReadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseSchema(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
