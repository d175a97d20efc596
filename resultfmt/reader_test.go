// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/benchsweep/matrix"
)

// writeJob creates a job directory under exp. If summary is "", no
// result file is written.
func writeJob(t *testing.T, exp, job, summary string) {
	t.Helper()
	dir := filepath.Join(exp, job)
	if err := os.MkdirAll(dir, 0777); err != nil {
		t.Fatal(err)
	}
	if summary == "" {
		return
	}
	if err := os.WriteFile(filepath.Join(dir, ResultFile), []byte(summary+"\n"), 0666); err != nil {
		t.Fatal(err)
	}
}

func positionalSchema(t *testing.T) *matrix.Schema {
	t.Helper()
	axis := func(name string, values ...interface{}) matrix.Axis {
		a, err := matrix.NewAxis(name, values...)
		if err != nil {
			t.Fatal(err)
		}
		return a
	}
	m := &matrix.Matrix{
		Name:   "test",
		Naming: matrix.Positional,
		Products: []matrix.Product{{
			axis("WORKLOAD", "TPCC", "YCSB"),
			axis("CC_ALG", "NO_WAIT", "SILO"),
			axis("INDEX_STRUCT", "IDX_BTREE", "IDX_HASH"),
			axis("THREAD_CNT", 1, 4),
			axis("ZIPF_THETA", 0.5, 0.9),
		}},
	}
	return m.Schema()
}

func TestReaderPositional(t *testing.T) {
	exp := t.TempDir()
	if err := positionalSchema(t).WriteFile(filepath.Join(exp, matrix.SchemaFile)); err != nil {
		t.Fatal(err)
	}
	writeJob(t, exp, "TPCC,NO_WAIT,IDX_BTREE,4,0.5", "res: txn_cnt=100, time_index=25, THREAD_CNT=4")
	writeJob(t, exp, "YCSB,SILO,IDX_HASH,1,0.9", "") // no result file
	writeJob(t, exp, "TPCC,SILO,IDX_HASH,1,0.9", "[summary] THREAD_CNT=2")
	if err := os.WriteFile(filepath.Join(exp, "stray.txt"), nil, 0666); err != nil {
		t.Fatal(err)
	}

	results, warnings, err := ReadAll(exp, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	res := results[0]
	wantConfig := matrix.ParameterSet{
		{Name: "WORKLOAD", Value: matrix.String("TPCC")},
		{Name: "CC_ALG", Value: matrix.String("NO_WAIT")},
		{Name: "INDEX_STRUCT", Value: matrix.String("IDX_BTREE")},
		{Name: "THREAD_CNT", Value: matrix.Int(4)},
		{Name: "ZIPF_THETA", Value: matrix.Float(0.5)},
	}
	if diff := cmp.Diff(wantConfig, res.Config); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
	if f, err := res.Float("time_index"); err != nil || f != 25 {
		t.Errorf("time_index = %v, %v", f, err)
	}
	if res.Dir() != filepath.Join(exp, "TPCC,NO_WAIT,IDX_BTREE,4,0.5") {
		t.Errorf("Dir() = %s", res.Dir())
	}

	// Warnings come in sorted directory order.
	if len(warnings) != 2 {
		t.Fatalf("got %d warnings, want 2: %v", len(warnings), warnings)
	}
	var ce *CollisionError
	if warnings[0].Job != "TPCC,SILO,IDX_HASH,1,0.9" || !errors.As(warnings[0], &ce) {
		t.Errorf("warning 0 = %v, want collision on TPCC,SILO,IDX_HASH,1,0.9", warnings[0])
	}
	if warnings[1].Job != "YCSB,SILO,IDX_HASH,1,0.9" || !strings.Contains(warnings[1].Error(), ResultFile) {
		t.Errorf("warning 1 = %v, want missing result file", warnings[1])
	}
}

func TestReaderDecodeFailure(t *testing.T) {
	exp := t.TempDir()
	writeJob(t, exp, "TPCC,NO_WAIT", "txn_cnt=1")
	_, warnings, err := ReadAll(exp, &Options{Schema: positionalSchema(t)})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	var de *matrix.DecodeError
	if !errors.As(warnings[0], &de) {
		t.Errorf("want *matrix.DecodeError, got %v", warnings[0].Err)
	}
}

func TestReaderInferred(t *testing.T) {
	exp := t.TempDir()
	writeJob(t, exp, "THREAD_CNT=8,WORKLOAD=YCSB", "txn_cnt=5 time_index=1")
	writeJob(t, exp, "YCSB,8", "txn_cnt=5")

	r, err := NewReader(exp, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Schema() != nil {
		t.Errorf("Schema() = %v, want nil without a schema file", r.Schema())
	}
	var got []string
	for r.Scan() {
		switch rec := r.Record().(type) {
		case *Result:
			got = append(got, "result "+rec.Config.String())
		case *Warning:
			got = append(got, "warning "+rec.Job)
		}
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	want := []string{"result THREAD_CNT=8,WORKLOAD=YCSB", "warning YCSB,8"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestReaderMissingDir(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Errorf("NewReader on missing directory succeeded")
	}
}
