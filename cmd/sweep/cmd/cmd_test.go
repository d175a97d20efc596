// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"golang.org/x/benchsweep/store"
)

const rundb = `echo "[summary] txn_cnt=100, time_index=25" > "$2"
echo PASS
`

const configText = `resultsRoot: %s
sourceDir: %s
build: "true"
run: sh ./rundb.sh
experiments:
  - name: zipf
    naming: positional
    products:
      - axes:
          - {name: WORKLOAD, values: [TPCC]}
          - {name: CC_ALG, values: [NO_WAIT]}
          - {name: INDEX_STRUCT, values: [IDX_BTREE, IDX_HASH]}
          - {name: CORE_CNT, values: [32]}
          - {name: ZIPF_THETA, values: [0.6, 0.9]}
`

// setup writes a fake benchmark source tree and a configuration that
// points at it, and returns the configuration file and results root.
func setup(t *testing.T) (config, results string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	results = filepath.Join(dir, "results")
	if err := os.Mkdir(src, 0777); err != nil {
		t.Fatal(err)
	}
	for name, data := range map[string]string{
		"config-std.h": "#define ZIPF_THETA 0.6\n#define CORE_CNT 4\n",
		"config.h":     "#define ZIPF_THETA 0.6\n#define CORE_CNT 4\n",
		"rundb.sh":     rundb,
	} {
		if err := os.WriteFile(filepath.Join(src, name), []byte(data), 0666); err != nil {
			t.Fatal(err)
		}
	}
	config = filepath.Join(dir, "sweep.yaml")
	if err := os.WriteFile(config, []byte(fmt.Sprintf(configText, results, src)), 0666); err != nil {
		t.Fatal(err)
	}
	return config, results
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeLog(t, args...)
	return out, err
}

// executeLog runs sweep with args and returns its output and its log.
func executeLog(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := RootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if err != nil {
		t.Logf("sweep %s: log:\n%s", strings.Join(args, " "), stderr.String())
	}
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	config, _ := setup(t)
	out, err := execute(t, "list", "--config", config)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`scalability +keyvalue +120\n`, `zipf +positional +4\n`, `zipf-throughput +zipf +2x2\n`} {
		if !regexp.MustCompile(want).MatchString(out) {
			t.Errorf("list output does not match %s:\n%s", want, out)
		}
	}
}

func TestRunPlotExport(t *testing.T) {
	config, results := setup(t)

	out, err := execute(t, "run", "--dry-run", "--config", config, "zipf")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out, "run  zipf"); got != 4 {
		t.Errorf("dry run planned %d jobs, want 4:\n%s", got, out)
	}
	if _, err := os.Stat(results); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", results)
	}

	out, err = execute(t, "run", "--config", config, "zipf")
	if err != nil {
		t.Fatal(err)
	}
	if want := "zipf: 4 jobs, 0 skipped, 4 passed, 0 build failures, 0 run failures\n"; out != want {
		t.Errorf("run output = %q, want %q", out, want)
	}
	if _, err := os.Stat(filepath.Join(results, "zipf", "TPCC,NO_WAIT,IDX_HASH,32,0.9", "done")); err != nil {
		t.Error(err)
	}

	out, err = execute(t, "run", "--config", config, "zipf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "4 skipped") {
		t.Errorf("second run output = %q", out)
	}

	figDir := t.TempDir()
	out, log, err := executeLog(t, "plot", "--config", config, "--out", figDir, "zipf-throughput")
	if err != nil {
		t.Fatal(err)
	}
	// Each plotted series is reported with its variance without -v.
	if got := strings.Count(log, "var="); got != 2 {
		t.Errorf("plot logged %d series, want 2:\n%s", got, log)
	}
	png := filepath.Join(figDir, "zipf-throughput.png")
	if strings.TrimSpace(out) != png {
		t.Errorf("plot output = %q, want %q", out, png)
	}
	if fi, err := os.Stat(png); err != nil || fi.Size() == 0 {
		t.Errorf("figure not written: %v", err)
	}

	dsn := filepath.Join(t.TempDir(), "results.db")
	out, err = execute(t, "export", "--config", config, "--driver", "sqlite3", "--dsn", dsn, "zipf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "zipf: exported 4 results as export ") {
		t.Errorf("export output = %q", out)
	}
	db, err := store.OpenSQL("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if n, err := db.CountExports(); err != nil || n != 1 {
		t.Errorf("CountExports = %d, %v; want 1", n, err)
	}
}

func TestErrors(t *testing.T) {
	config, _ := setup(t)
	for _, args := range [][]string{
		{"run", "--config", config, "no-such-experiment"},
		{"plot", "--config", config, "no-such-figure"},
		{"archive", "--config", config},
		{"list", "--config", filepath.Join(t.TempDir(), "missing.yaml")},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("sweep %s: want error", strings.Join(args, " "))
		}
	}
}
