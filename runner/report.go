// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

// An Outcome is what happened to one job.
type Outcome struct {
	Job string
	Dir string

	// Skipped is set if the job was already done and nothing ran.
	Skipped bool
	// Retried is set if the job directory existed without a
	// completion marker and the job ran again.
	Retried bool

	BuildOK bool
	// Ran is set if the run step was executed.
	Ran   bool
	RunOK bool

	// Missing lists parameters that have no #define in the baseline
	// configuration.
	Missing []string

	// Err is a filesystem or execution error that stopped the job.
	Err error
}

// Done reports whether the job both built and ran successfully.
func (o *Outcome) Done() bool {
	return o.BuildOK && o.RunOK
}

// A Report describes one sweep over an experiment.
type Report struct {
	Experiment string
	Jobs       []*Outcome
}

// Counts summarizes a Report.
type Counts struct {
	Jobs        int
	Skipped     int
	Retried     int
	BuildFailed int
	RunFailed   int
	Passed      int
	Errors      int
}

// Counts tallies the outcomes of r.
func (r *Report) Counts() Counts {
	var c Counts
	for _, o := range r.Jobs {
		c.Jobs++
		switch {
		case o.Skipped:
			c.Skipped++
			continue
		case o.Err != nil:
			c.Errors++
		case o.Done():
			c.Passed++
		}
		if o.Retried {
			c.Retried++
		}
		if o.Err == nil && !o.BuildOK {
			c.BuildFailed++
		}
		if o.Err == nil && o.Ran && !o.RunOK {
			c.RunFailed++
		}
	}
	return c
}

// Executed returns the number of jobs that were not skipped.
func (c Counts) Executed() int {
	return c.Jobs - c.Skipped
}
