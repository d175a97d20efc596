// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import "fmt"

// BuildFailurePolicy says what to do with a job whose build failed.
type BuildFailurePolicy int

const (
	// Continue runs the job anyway. The run usually fails too, but
	// its transcript is kept for inspection.
	Continue BuildFailurePolicy = iota
	// Abort skips the run step.
	Abort
)

func (p BuildFailurePolicy) String() string {
	switch p {
	case Continue:
		return "continue"
	case Abort:
		return "abort"
	}
	return fmt.Sprintf("BuildFailurePolicy(%d)", int(p))
}

// ParseBuildFailurePolicy parses "continue" or "abort".
func ParseBuildFailurePolicy(s string) (BuildFailurePolicy, error) {
	switch s {
	case "continue", "":
		return Continue, nil
	case "abort":
		return Abort, nil
	}
	return 0, fmt.Errorf("unknown build failure policy %q", s)
}

func (p *BuildFailurePolicy) UnmarshalText(text []byte) error {
	v, err := ParseBuildFailurePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ResumePolicy says which existing job directories count as done.
type ResumePolicy int

const (
	// ResumeExists skips every job whose directory exists, even if
	// the job was interrupted or failed. Result directories are never
	// written to twice.
	ResumeExists ResumePolicy = iota
	// ResumeComplete skips only jobs whose completion marker exists.
	// Other existing job directories are rerun; the files of the
	// earlier attempt are first moved into a numbered attempt-N
	// subdirectory of the job directory.
	ResumeComplete
)

func (p ResumePolicy) String() string {
	switch p {
	case ResumeExists:
		return "exists"
	case ResumeComplete:
		return "complete"
	}
	return fmt.Sprintf("ResumePolicy(%d)", int(p))
}

// ParseResumePolicy parses "exists" or "complete".
func ParseResumePolicy(s string) (ResumePolicy, error) {
	switch s {
	case "exists", "":
		return ResumeExists, nil
	case "complete":
		return ResumeComplete, nil
	}
	return 0, fmt.Errorf("unknown resume policy %q", s)
}

func (p *ResumePolicy) UnmarshalText(text []byte) error {
	v, err := ParseResumePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
