// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package matrix generates the jobs of a parameter-sweep experiment.
//
// An experiment is a Matrix: one or more Products, each of which is
// the cartesian product of a list of Axes. Every combination becomes a
// Job, whose name is a deterministic serialization of its
// ParameterSet. Job names double as result directory names, so they
// must be injective over the experiment; Matrix.Jobs reports an error
// rather than let two jobs share a directory.
//
// The axis metadata of a Matrix is captured by a Schema, which is the
// inverse of job naming: Schema.Decode turns a job name back into the
// ParameterSet it was generated from.
package matrix

import (
	"fmt"
	"strings"
)

// An Axis is one varying parameter of an experiment: a name and an
// ordered list of candidate values.
type Axis struct {
	Name   string
	Values []Value

	// Linked axes vary in lock-step with this axis: when this axis
	// takes Values[i], each linked axis takes its own Values[i].
	// Linked axes are not product dimensions and are not encoded in
	// positional job names.
	Linked []Axis
}

// NewAxis returns an Axis with the given name and values. Each value is
// converted with FromInterface.
func NewAxis(name string, values ...interface{}) (Axis, error) {
	a := Axis{Name: name}
	for _, x := range values {
		v, err := FromInterface(x)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %s: %w", name, err)
		}
		a.Values = append(a.Values, v)
	}
	return a, nil
}

// A Product is a list of Axes whose cartesian product forms a set of
// jobs. The first axis varies slowest.
type Product []Axis

// Len returns the number of parameter sets in p, which is the product
// of the cardinalities of its axes.
func (p Product) Len() int {
	if len(p) == 0 {
		return 0
	}
	n := 1
	for _, a := range p {
		n *= len(a.Values)
	}
	return n
}

// Sets returns every parameter set of p in nested-loop order.
func (p Product) Sets() []ParameterSet {
	n := p.Len()
	if n == 0 {
		return nil
	}
	sets := make([]ParameterSet, 0, n)
	idx := make([]int, len(p))
	for k := 0; k < n; k++ {
		var ps ParameterSet
		for i, a := range p {
			ps = append(ps, Param{a.Name, a.Values[idx[i]]})
			for _, l := range a.Linked {
				ps = append(ps, Param{l.Name, l.Values[idx[i]]})
			}
		}
		sets = append(sets, ps)

		// Advance the odometer, last axis fastest.
		for i := len(idx) - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(p[i].Values) {
				break
			}
			idx[i] = 0
		}
	}
	return sets
}

// primary returns the values of the product axes (excluding linked
// axes) in ps, in axis order.
func (p Product) primary(ps ParameterSet) []Value {
	vals := make([]Value, 0, len(p))
	for _, a := range p {
		v, _ := ps.Get(a.Name)
		vals = append(vals, v)
	}
	return vals
}

// A Matrix describes an experiment: a name, a naming policy, and the
// products whose jobs make up the experiment.
type Matrix struct {
	Name     string
	Naming   Naming
	Products []Product
}

// A Job is one concrete parameter combination.
type Job struct {
	Name   string
	Params ParameterSet
}

// A DuplicateJobError reports that two distinct parameter sets of a
// Matrix produced the same job name.
type DuplicateJobError struct {
	Name          string
	First, Second ParameterSet
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("job name %q is shared by {%s} and {%s}", e.Name, e.First, e.Second)
}

// Len returns the number of jobs in m.
func (m *Matrix) Len() int {
	n := 0
	for _, p := range m.Products {
		n += p.Len()
	}
	return n
}

// Jobs returns the jobs of m, product by product, in nested-loop order.
func (m *Matrix) Jobs() ([]Job, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, m.Len())
	seen := make(map[string]int)
	for _, p := range m.Products {
		for _, ps := range p.Sets() {
			name := m.Naming.name(ps, p.primary(ps))
			if err := checkJobName(name); err != nil {
				return nil, fmt.Errorf("experiment %s: %w", m.Name, err)
			}
			if i, ok := seen[name]; ok {
				return nil, &DuplicateJobError{name, jobs[i].Params, ps}
			}
			seen[name] = len(jobs)
			jobs = append(jobs, Job{Name: name, Params: ps})
		}
	}
	return jobs, nil
}

func (m *Matrix) validate() error {
	if m.Name == "" {
		return fmt.Errorf("experiment has no name")
	}
	if strings.ContainsAny(m.Name, `/\`) || m.Name == "." || m.Name == ".." {
		return fmt.Errorf("experiment name %q is not a valid directory name", m.Name)
	}
	if len(m.Products) == 0 {
		return fmt.Errorf("experiment %s has no products", m.Name)
	}
	var positional []string
	for pi, p := range m.Products {
		if len(p) == 0 {
			return fmt.Errorf("experiment %s: product %d has no axes", m.Name, pi)
		}
		names := make(map[string]bool)
		var primary []string
		for _, a := range p {
			if err := m.validateAxis(a, len(a.Values), names); err != nil {
				return err
			}
			for _, l := range a.Linked {
				if len(l.Linked) > 0 {
					return fmt.Errorf("experiment %s: linked axis %s has linked axes of its own", m.Name, l.Name)
				}
				if err := m.validateAxis(l, len(a.Values), names); err != nil {
					return err
				}
			}
			primary = append(primary, a.Name)
		}
		if m.Naming == Positional {
			if positional == nil {
				positional = primary
			} else if strings.Join(positional, ",") != strings.Join(primary, ",") {
				return fmt.Errorf("experiment %s: positional naming needs the same axes in every product, have %v and %v", m.Name, positional, primary)
			}
		}
	}
	return nil
}

func (m *Matrix) validateAxis(a Axis, n int, names map[string]bool) error {
	if a.Name == "" {
		return fmt.Errorf("experiment %s: axis with empty name", m.Name)
	}
	if strings.ContainsAny(a.Name, ",/= \t") {
		return fmt.Errorf("experiment %s: axis name %q contains a separator", m.Name, a.Name)
	}
	if names[a.Name] {
		return fmt.Errorf("experiment %s: axis %s appears twice in one product", m.Name, a.Name)
	}
	names[a.Name] = true
	if len(a.Values) != n {
		return fmt.Errorf("experiment %s: linked axis %s has %d values, want %d", m.Name, a.Name, len(a.Values), n)
	}
	bad := ",/"
	if m.Naming == KeyValue {
		bad += "="
	}
	for _, v := range a.Values {
		if s := v.String(); strings.ContainsAny(s, bad) {
			return fmt.Errorf("experiment %s: value %q of axis %s contains one of %q", m.Name, s, a.Name, bad)
		}
	}
	return nil
}

func checkJobName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("job name %q is not a valid directory name", name)
	}
	return nil
}
