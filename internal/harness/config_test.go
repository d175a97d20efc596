// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"golang.org/x/benchsweep/matrix"
	"golang.org/x/benchsweep/runner"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	if err := os.WriteFile(path, []byte(text), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := Decode(NewViper())
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		ResultsRoot:    "results",
		SourceDir:      ".",
		Baseline:       "config-std.h",
		Active:         "config.h",
		Build:          "make -j",
		Run:            "./rundb",
		OutputFlag:     "-o",
		OnBuildFailure: runner.Continue,
		Resume:         runner.ResumeExists,
		Export:         ExportConfig{Driver: "sqlite3", DSN: "results.db"},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
resultsRoot: /data/sweeps
build: make -j8
isolate: true
onBuildFailure: abort
resume: complete
timeout: 10m
archive:
  bucket: sweep-results
experiments:
  - name: rw-small
    naming: keyvalue
    products:
      - axes:
          - name: THREAD_CNT
            values: [1, 2, 4]
          - name: READ_PERC
            values: [0.1, 0.9]
            linked:
              - name: WRITE_PERC
                values: [0.9, 0.1]
`)
	c, err := LoadConfig(NewViper(), path)
	if err != nil {
		t.Fatal(err)
	}
	if c.ResultsRoot != "/data/sweeps" || c.Build != "make -j8" || !c.Isolate {
		t.Errorf("got %+v", c)
	}
	if c.Run != "./rundb" {
		t.Errorf("Run = %q, want default", c.Run)
	}
	if c.OnBuildFailure != runner.Abort || c.Resume != runner.ResumeComplete {
		t.Errorf("policies: %v, %v", c.OnBuildFailure, c.Resume)
	}
	if c.Timeout != 10*time.Minute {
		t.Errorf("Timeout = %v", c.Timeout)
	}
	if c.Archive.Bucket != "sweep-results" {
		t.Errorf("Archive = %+v", c.Archive)
	}

	m, err := c.Experiment("rw-small")
	if err != nil {
		t.Fatal(err)
	}
	if m.Naming != matrix.KeyValue {
		t.Errorf("Naming = %v", m.Naming)
	}
	jobs, err := m.Jobs()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 6 {
		t.Fatalf("got %d jobs, want 6", len(jobs))
	}
	if got, want := jobs[1].Name, "THREAD_CNT=1,READ_PERC=0.9,WRITE_PERC=0.1"; got != want {
		t.Errorf("job 1 = %s, want %s", got, want)
	}

	r := c.Runner(nil)
	if r.ResultsRoot != "/data/sweeps" || r.OnBuildFailure != runner.Abort || !r.Isolate {
		t.Errorf("Runner = %+v", r)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("SWEEP_RESULTSROOT", "/tmp/env-results")
	t.Setenv("SWEEP_EXPORT_DRIVER", "mysql")
	path := writeConfig(t, "resultsRoot: /data/sweeps\n")
	c, err := LoadConfig(NewViper(), path)
	if err != nil {
		t.Fatal(err)
	}
	if c.ResultsRoot != "/tmp/env-results" {
		t.Errorf("ResultsRoot = %q", c.ResultsRoot)
	}
	if c.Export.Driver != "mysql" {
		t.Errorf("Export.Driver = %q", c.Export.Driver)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		name, text, want string
	}{
		{"policy", "onBuildFailure: ignore\n", "unknown build failure policy"},
		{"naming", "experiments:\n  - name: x\n    naming: csv\n", "unknown naming policy"},
		{"duplicate", `
experiments:
  - name: dup
    products:
      - axes:
          - name: A
            values: [1, 1]
`, "shared by"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(NewViper(), writeConfig(t, tc.text))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("got %v, want error containing %q", err, tc.want)
			}
		})
	}

	if _, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("explicit missing file: want error")
	}
}

func TestExperimentOverride(t *testing.T) {
	c := &Config{Experiments: []ExperimentConfig{{
		Name:     "zipf",
		Naming:   matrix.Positional,
		Products: []ProductConfig{{Axes: []AxisConfig{{Name: "ZIPF_THETA", Values: []interface{}{0.5}}}}},
	}}}
	all, err := c.AllExperiments()
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, m := range all {
		if m.Name == "zipf" {
			n++
			if m.Len() != 1 {
				t.Errorf("zipf has %d jobs, want the configured 1", m.Len())
			}
		}
	}
	if n != 1 {
		t.Errorf("found %d zipf experiments, want 1", n)
	}
	if _, err := c.Experiment("nope"); err == nil {
		t.Errorf("Experiment(nope): want error")
	}
}

func TestConfigureLogging(t *testing.T) {
	defer func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	}()
	var buf bytes.Buffer
	ConfigureLogging(&buf, false)
	logrus.Debug("hidden")
	logrus.WithField("job", "IDX_BTREE,1").Info("PASS compile")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged without verbose:\n%s", out)
	}
	if !strings.Contains(out, "PASS compile") || !strings.Contains(out, "job=IDX_BTREE,1") {
		t.Errorf("log output:\n%s", out)
	}
	ConfigureLogging(&buf, true)
	logrus.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug message not logged with verbose")
	}
}
