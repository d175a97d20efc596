// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner executes the jobs of an experiment: for each job it
// writes the job's compile-time configuration, builds the benchmark,
// runs it, and records both transcripts in the job's result directory.
//
// Jobs run one at a time. Without Isolate, every job writes the same
// active configuration file in the source tree, so two sweeps must not
// share a source tree.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"golang.org/x/benchsweep/defines"
	"golang.org/x/benchsweep/matrix"
	"golang.org/x/benchsweep/resultfmt"
)

// PassMarker is the text whose presence in the run's standard output
// means the run passed.
const PassMarker = "PASS"

// A Runner runs experiments.
type Runner struct {
	// ResultsRoot is the directory under which each experiment gets
	// its own directory of job result directories.
	ResultsRoot string

	// SourceDir is the benchmark's source tree. Build and Run execute
	// there, or in a private copy of it if Isolate is set.
	SourceDir string

	// Baseline and Active are the baseline and active configuration
	// files. Relative paths are relative to SourceDir.
	Baseline string
	Active   string

	// Build is the build command. Run is the run command; the result
	// file path is appended to it after OutputFlag.
	Build      string
	Run        string
	OutputFlag string

	// Isolate builds and runs each job in a temporary copy of
	// SourceDir instead of in SourceDir itself.
	Isolate bool

	OnBuildFailure BuildFailurePolicy
	Resume         ResumePolicy

	// Timeout bounds each build and each run. Zero means no limit.
	Timeout time.Duration

	// Exec runs commands. If nil, Shell{} is used.
	Exec Executor

	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

func (r *Runner) exec() Executor {
	if r.Exec == nil {
		return Shell{}
	}
	return r.Exec
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

func (r *Runner) sourcePath(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// An Action is what a sweep will do with a job.
type Action int

const (
	ActionRun Action = iota
	ActionSkip
	ActionRetry
)

func (a Action) String() string {
	switch a {
	case ActionRun:
		return "run"
	case ActionSkip:
		return "skip"
	case ActionRetry:
		return "retry"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// A PlannedJob is a job and what RunExperiment would do with it.
type PlannedJob struct {
	matrix.Job
	Dir    string
	Action Action
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (r *Runner) action(dir string) (Action, error) {
	ok, err := exists(dir)
	if err != nil || !ok {
		return ActionRun, err
	}
	if r.Resume == ResumeExists {
		return ActionSkip, nil
	}
	done, err := exists(filepath.Join(dir, resultfmt.DoneFile))
	if err != nil {
		return ActionRun, err
	}
	if done {
		return ActionSkip, nil
	}
	return ActionRetry, nil
}

// Plan returns the jobs of m and what RunExperiment would do with each
// of them, without changing anything on disk.
func (r *Runner) Plan(m *matrix.Matrix) ([]PlannedJob, error) {
	jobs, err := m.Jobs()
	if err != nil {
		return nil, err
	}
	expDir := filepath.Join(r.ResultsRoot, m.Name)
	plan := make([]PlannedJob, len(jobs))
	for i, job := range jobs {
		dir := filepath.Join(expDir, job.Name)
		a, err := r.action(dir)
		if err != nil {
			return nil, err
		}
		plan[i] = PlannedJob{job, dir, a}
	}
	return plan, nil
}

// RunExperiment runs every job of m that is not already done.
//
// Build and run failures are recorded in the Report and logged but are
// not errors. Filesystem and execution errors stop the job they occur
// in; RunExperiment carries on with the next job and returns all such
// errors together at the end. Cancelling ctx stops the sweep.
func (r *Runner) RunExperiment(ctx context.Context, m *matrix.Matrix) (*Report, error) {
	jobs, err := m.Jobs()
	if err != nil {
		return nil, err
	}
	expDir := filepath.Join(r.ResultsRoot, m.Name)
	if err := os.MkdirAll(expDir, 0777); err != nil {
		return nil, errors.Wrap(err, "creating experiment directory")
	}
	log := r.log().WithField("experiment", m.Name)
	if err := r.writeSchema(log, expDir, m); err != nil {
		return nil, err
	}
	baseline, err := os.ReadFile(r.sourcePath(r.SourceDir, r.Baseline))
	if err != nil {
		return nil, errors.Wrap(err, "reading baseline configuration")
	}

	log.Infof("%d jobs", len(jobs))
	report := &Report{Experiment: m.Name}
	var result *multierror.Error
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		o := r.runJob(ctx, log.WithField("job", job.Name), expDir, job, baseline)
		report.Jobs = append(report.Jobs, o)
		if o.Err != nil {
			log.WithField("job", job.Name).WithError(o.Err).Error("job failed")
			result = multierror.Append(result, errors.Wrapf(o.Err, "job %s", job.Name))
		}
	}
	c := report.Counts()
	log.WithFields(logrus.Fields{
		"executed": c.Executed(),
		"skipped":  c.Skipped,
		"passed":   c.Passed,
	}).Info("experiment finished")
	return report, result.ErrorOrNil()
}

// writeSchema writes the schema of m to expDir. If expDir already has
// a schema, from an earlier sweep of a smaller matrix, the two are
// merged so that every job directory stays decodable.
func (r *Runner) writeSchema(log logrus.FieldLogger, expDir string, m *matrix.Matrix) error {
	path := filepath.Join(expDir, matrix.SchemaFile)
	want := m.Schema()
	old, err := matrix.ReadSchema(path)
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(want.WriteFile(path), "writing schema")
	}
	if err != nil {
		return errors.Wrap(err, "reading schema")
	}
	merged, err := old.Merge(want)
	if err != nil {
		return errors.Wrapf(err, "%s", path)
	}
	oldData, err := old.Marshal()
	if err != nil {
		return err
	}
	newData, err := merged.Marshal()
	if err != nil {
		return err
	}
	if bytes.Equal(oldData, newData) {
		return nil
	}
	log.Info("schema updated")
	return errors.Wrap(merged.WriteFile(path), "writing schema")
}

func (r *Runner) runJob(ctx context.Context, log logrus.FieldLogger, expDir string, job matrix.Job, baseline []byte) *Outcome {
	dir := filepath.Join(expDir, job.Name)
	o := &Outcome{Job: job.Name, Dir: dir}

	a, err := r.action(dir)
	if err != nil {
		o.Err = err
		return o
	}
	switch a {
	case ActionSkip:
		log.Warn("skip")
		o.Skipped = true
		return o
	case ActionRetry:
		log.Warn("retry")
		o.Retried = true
		prev, err := moveAside(dir)
		if err != nil {
			o.Err = errors.Wrap(err, "saving previous attempt")
			return o
		}
		log.WithField("previous", prev).Debug("previous attempt saved")
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		o.Err = errors.Wrap(err, "creating result directory")
		return o
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		o.Err = err
		return o
	}

	srcDir := r.SourceDir
	if r.Isolate {
		tmp, cleanup, err := r.isolate(job.Name)
		if err != nil {
			o.Err = err
			return o
		}
		defer cleanup()
		srcDir = tmp
	}

	missing, err := defines.WriteFile(r.sourcePath(srcDir, r.Active), baseline, defines.FromParams(job.Params))
	if err != nil {
		o.Err = errors.Wrap(err, "writing configuration")
		return o
	}
	if len(missing) > 0 {
		o.Missing = missing
		log.WithField("missing", missing).Warn("parameters have no #define in the baseline configuration")
	}

	exit, err := r.step(ctx, srcDir, r.Build, absDir, resultfmt.CompileOut, resultfmt.CompileErr, nil)
	if err != nil {
		o.Err = errors.Wrap(err, "build")
		return o
	}
	if exit == 0 {
		o.BuildOK = true
		log.Info("PASS compile")
	} else {
		log.WithField("exit", exit).Error("ERROR in compiling job")
		if r.OnBuildFailure == Abort {
			log.Warn("run skipped after build failure")
			return o
		}
	}

	run := fmt.Sprintf("%s %s %s", r.Run, r.OutputFlag, shellQuote(filepath.Join(absDir, resultfmt.ResultFile)))
	pass := newMarkerWriter(PassMarker)
	if _, err := r.step(ctx, srcDir, run, absDir, resultfmt.RunOut, resultfmt.RunErr, pass); err != nil {
		o.Err = errors.Wrap(err, "run")
		return o
	}
	o.Ran = true
	if pass.found {
		o.RunOK = true
		log.Info("PASS execution")
	} else {
		log.Error("FAILED execution")
	}

	if o.Done() {
		if err := os.WriteFile(filepath.Join(dir, resultfmt.DoneFile), nil, 0666); err != nil {
			o.Err = errors.Wrap(err, "writing completion marker")
		}
	}
	return o
}

// attemptPrefix names the subdirectories that hold the files of
// earlier attempts at a retried job.
const attemptPrefix = "attempt-"

// moveAside moves the regular files of job directory dir into a new
// attempt-N subdirectory, N being the lowest number not yet used, and
// returns its path.
func moveAside(dir string) (string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var prev string
	for n := 1; ; n++ {
		prev = filepath.Join(dir, fmt.Sprintf("%s%d", attemptPrefix, n))
		err := os.Mkdir(prev, 0777)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}
	}
	for _, e := range ents {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Rename(filepath.Join(dir, e.Name()), filepath.Join(prev, e.Name())); err != nil {
			return "", err
		}
	}
	return prev, nil
}

// step runs command in srcDir with its output streams going to the
// files outName and errName in resultDir. If tee is non-nil, it also
// receives standard output.
func (r *Runner) step(ctx context.Context, srcDir, command, resultDir, outName, errName string, tee io.Writer) (exit int, err error) {
	stdout, err := os.Create(filepath.Join(resultDir, outName))
	if err != nil {
		return -1, err
	}
	defer func() {
		if cerr := stdout.Close(); err == nil && cerr != nil {
			exit, err = -1, cerr
		}
	}()
	stderr, err := os.Create(filepath.Join(resultDir, errName))
	if err != nil {
		return -1, err
	}
	defer func() {
		if cerr := stderr.Close(); err == nil && cerr != nil {
			exit, err = -1, cerr
		}
	}()

	var w io.Writer = stdout
	if tee != nil {
		w = io.MultiWriter(stdout, tee)
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.exec().Execute(ctx, srcDir, command, w, stderr)
}
