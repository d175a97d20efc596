// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/benchsweep/matrix"
)

// A Record is a single record read from an experiment directory. It is
// either a *Result or a *Warning.
type Record interface {
	// Dir returns the job directory the record was read from.
	Dir() string
}

var _ Record = (*Result)(nil)
var _ Record = (*Warning)(nil)

// A Warning reports a job directory that could not be turned into a
// Result. Warnings are not fatal: the Reader moves on to the next job.
type Warning struct {
	Job string
	Err error

	dir string
}

func (w *Warning) Dir() string { return w.dir }

func (w *Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.dir, w.Err)
}

func (w *Warning) Unwrap() error { return w.Err }

// Options configure a Reader.
type Options struct {
	// Schema decodes job names. If nil, the Reader uses the
	// experiment's schema file, and failing that infers a key=value
	// schema from each job name.
	Schema *matrix.Schema
}

// A Reader reads the job results of one experiment directory.
//
// Its API is modeled on bufio.Scanner. Jobs are visited in sorted
// directory-name order; entries that are not directories are skipped.
type Reader struct {
	dir    string
	schema *matrix.Schema
	jobs   []string
	rec    Record
	err    error
}

// NewReader returns a Reader for the experiment directory dir.
func NewReader(dir string, opts *Options) (*Reader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	r := &Reader{dir: dir}
	for _, e := range entries {
		if e.IsDir() {
			r.jobs = append(r.jobs, e.Name())
		}
	}
	sort.Strings(r.jobs)

	if opts != nil && opts.Schema != nil {
		r.schema = opts.Schema
	} else {
		s, err := matrix.ReadSchema(filepath.Join(dir, matrix.SchemaFile))
		switch {
		case err == nil:
			r.schema = s
		case errors.Is(err, fs.ErrNotExist):
			// Fall back to per-job inference.
		default:
			return nil, err
		}
	}
	return r, nil
}

// Schema returns the schema used to decode job names, or nil if the
// Reader infers it per job.
func (r *Reader) Schema() *matrix.Schema {
	return r.schema
}

// Scan advances to the next job and reports whether there was one.
// The caller should use Record to get it. When Scan returns false,
// the caller should check Err.
func (r *Reader) Scan() bool {
	if r.err != nil || len(r.jobs) == 0 {
		return false
	}
	job := r.jobs[0]
	r.jobs = r.jobs[1:]
	dir := filepath.Join(r.dir, job)

	warn := func(err error) bool {
		r.rec = &Warning{Job: job, Err: err, dir: dir}
		return true
	}

	metrics, err := ReadResultFile(filepath.Join(dir, ResultFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return warn(fmt.Errorf("%s does not exist", ResultFile))
		}
		r.err = err
		return false
	}

	schema := r.schema
	if schema == nil {
		schema = matrix.InferSchema(job)
		if schema == nil {
			return warn(fmt.Errorf("no %s and job name is not key=value", matrix.SchemaFile))
		}
	}
	config, err := schema.Decode(job)
	if err != nil {
		return warn(err)
	}

	res, err := NewResult(job, config, metrics)
	if err != nil {
		return warn(err)
	}
	res.dir = dir
	r.rec = res
	return true
}

// Record returns the record read by the last call to Scan.
func (r *Reader) Record() Record {
	return r.rec
}

// Err returns the I/O error that stopped Scan, if any.
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every job of the experiment directory dir.
func ReadAll(dir string, opts *Options) ([]*Result, []*Warning, error) {
	r, err := NewReader(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	var results []*Result
	var warnings []*Warning
	for r.Scan() {
		switch rec := r.Record().(type) {
		case *Result:
			results = append(results, rec)
		case *Warning:
			warnings = append(warnings, rec)
		}
	}
	return results, warnings, r.Err()
}
