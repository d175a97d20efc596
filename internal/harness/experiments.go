// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harness

import (
	"fmt"

	"golang.org/x/benchsweep/catalog"
	"golang.org/x/benchsweep/matrix"
)

// ExperimentConfig describes an experiment in the configuration file:
//
//	experiments:
//	  - name: rw-small
//	    naming: keyvalue
//	    products:
//	      - axes:
//	          - name: THREAD_CNT
//	            values: [1, 2, 4]
//	          - name: READ_PERC
//	            values: [0.1, 0.9]
//	            linked:
//	              - name: WRITE_PERC
//	                values: [0.9, 0.1]
type ExperimentConfig struct {
	Name     string          `mapstructure:"name"`
	Naming   matrix.Naming   `mapstructure:"naming"`
	Products []ProductConfig `mapstructure:"products"`
}

type ProductConfig struct {
	Axes []AxisConfig `mapstructure:"axes"`
}

type AxisConfig struct {
	Name   string        `mapstructure:"name"`
	Values []interface{} `mapstructure:"values"`
	Linked []AxisConfig  `mapstructure:"linked"`
}

func (ac AxisConfig) axis() (matrix.Axis, error) {
	a, err := matrix.NewAxis(ac.Name, ac.Values...)
	if err != nil {
		return matrix.Axis{}, err
	}
	for _, lc := range ac.Linked {
		l, err := lc.axis()
		if err != nil {
			return matrix.Axis{}, err
		}
		a.Linked = append(a.Linked, l)
	}
	return a, nil
}

// Matrix converts ec to a Matrix and checks that it generates jobs.
func (ec ExperimentConfig) Matrix() (*matrix.Matrix, error) {
	if ec.Name == "" {
		return nil, fmt.Errorf("experiment with no name")
	}
	m := &matrix.Matrix{Name: ec.Name, Naming: ec.Naming}
	for _, pc := range ec.Products {
		var p matrix.Product
		for _, ac := range pc.Axes {
			a, err := ac.axis()
			if err != nil {
				return nil, fmt.Errorf("experiment %s: %w", ec.Name, err)
			}
			p = append(p, a)
		}
		m.Products = append(m.Products, p)
	}
	if _, err := m.Jobs(); err != nil {
		return nil, fmt.Errorf("experiment %s: %w", ec.Name, err)
	}
	return m, nil
}

// AllExperiments returns the built-in experiments followed by the
// configured ones. A configured experiment takes the place of a
// built-in one with the same name.
func (c *Config) AllExperiments() ([]*matrix.Matrix, error) {
	all := catalog.Experiments()
	index := make(map[string]int)
	for i, m := range all {
		index[m.Name] = i
	}
	for _, ec := range c.Experiments {
		m, err := ec.Matrix()
		if err != nil {
			return nil, err
		}
		if i, ok := index[m.Name]; ok {
			all[i] = m
			continue
		}
		index[m.Name] = len(all)
		all = append(all, m)
	}
	return all, nil
}

// Experiment returns the experiment called name.
func (c *Config) Experiment(name string) (*matrix.Matrix, error) {
	all, err := c.AllExperiments()
	if err != nil {
		return nil, err
	}
	for _, m := range all {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("unknown experiment %q", name)
}
