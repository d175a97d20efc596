// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultfmt reads the result directories produced by a sweep.
//
// Each job of an experiment owns a directory
//
//	<results>/<experiment>/<job name>/
//
// holding the compile and run transcripts and the result file written
// by the benchmark. The first line of the result file is a summary of
// key=value measurements separated by blanks or commas, for example
//
//	[summary] txn_cnt=100, abort_cnt=3, run_time=1.5, time_index=25
//
// A Reader walks an experiment directory and produces one Result per
// job, combining the job's configuration, decoded from the directory
// name, with the measurements from its summary line.
package resultfmt

import (
	"fmt"

	"golang.org/x/benchsweep/matrix"
)

// Files of a job result directory.
const (
	CompileOut = "compile.out"
	CompileErr = "compile.err"
	RunOut     = "run.out"
	RunErr     = "run.err"
	ResultFile = "result.txt"

	// DoneFile marks a job whose build and run both succeeded. It is
	// written last.
	DoneFile = "done"
)

// A Metric is a single measurement from a summary line.
type Metric struct {
	Key   string
	Value matrix.Value
}

// Metrics is the ordered list of measurements from a summary line.
type Metrics []Metric

// Get returns the value of measurement key.
func (m Metrics) Get(key string) (matrix.Value, bool) {
	for _, x := range m {
		if x.Key == key {
			return x.Value, true
		}
	}
	return matrix.Value{}, false
}

func (m Metrics) set(key string, v matrix.Value) Metrics {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = v
			return m
		}
	}
	return append(m, Metric{key, v})
}

// A Result is the record of one job: its configuration and its
// measurements. The two families share one field namespace, so a
// Result can be projected on either kind of field, but they are kept
// apart so that a clash between them is caught when the Result is
// built.
type Result struct {
	// Job is the job name, which is also the result directory name.
	Job string

	// Config is the job's parameter set.
	Config matrix.ParameterSet

	// Metrics is the job's summary line.
	Metrics Metrics

	dir string
}

// A CollisionError reports a field that appears both as a
// configuration parameter and as a measurement, with different
// values.
type CollisionError struct {
	Job    string
	Field  string
	Config matrix.Value
	Metric matrix.Value
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("job %s: field %s is %s in the configuration but %s in the summary", e.Job, e.Field, e.Config, e.Metric)
}

// NewResult returns the Result of job with the given configuration
// and measurements. A field may appear in both families only if it has
// the same value in both; otherwise NewResult returns a
// *CollisionError.
func NewResult(job string, config matrix.ParameterSet, metrics Metrics) (*Result, error) {
	for _, m := range metrics {
		if v, ok := config.Get(m.Key); ok && !v.Equal(m.Value) {
			return nil, &CollisionError{job, m.Key, v, m.Value}
		}
	}
	return &Result{Job: job, Config: config, Metrics: metrics}, nil
}

// Dir returns the directory the Result was read from, or "" if it was
// not read by a Reader.
func (r *Result) Dir() string {
	return r.dir
}

// Get returns the value of field, looking first at the configuration
// and then at the measurements.
func (r *Result) Get(field string) (matrix.Value, bool) {
	if v, ok := r.Config.Get(field); ok {
		return v, true
	}
	return r.Metrics.Get(field)
}

// Float returns the numeric value of field.
func (r *Result) Float(field string) (float64, error) {
	v, ok := r.Get(field)
	if !ok {
		return 0, fmt.Errorf("job %s: no field %s", r.Job, field)
	}
	f, ok := v.Float64()
	if !ok {
		return 0, fmt.Errorf("job %s: field %s=%s is not numeric", r.Job, field, v)
	}
	return f, nil
}

// String returns the value of field as text, or "" if it is absent.
func (r *Result) String(field string) string {
	v, _ := r.Get(field)
	return v.String()
}

// Fields returns the names of all fields of r, configuration first.
// A field present in both families is listed once.
func (r *Result) Fields() []string {
	fields := r.Config.Names()
	for _, m := range r.Metrics {
		if _, ok := r.Config.Get(m.Key); !ok {
			fields = append(fields, m.Key)
		}
	}
	return fields
}
