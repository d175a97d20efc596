// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/benchsweep/matrix"
)

func TestParseSummary(t *testing.T) {
	for _, test := range []struct {
		line string
		want Metrics
	}{
		{"", nil},
		{"[summary]", nil},
		{
			"res: txn_cnt=100, time_index=25, THREAD_CNT=4",
			Metrics{
				{"txn_cnt", matrix.Int(100)},
				{"time_index", matrix.Int(25)},
				{"THREAD_CNT", matrix.Int(4)},
			},
		},
		{
			"[summary] run_time=1.5,latency=0.25\tname=foo",
			Metrics{
				{"run_time", matrix.Float(1.5)},
				{"latency", matrix.Float(0.25)},
				{"name", matrix.String("foo")},
			},
		},
		{
			// Later keys win; tokens without a key are ignored.
			"a=1 =2 b a=3",
			Metrics{{"a", matrix.Int(3)}},
		},
		{
			"empty= x=a=b",
			Metrics{{"empty", matrix.String("")}, {"x", matrix.String("a=b")}},
		},
	} {
		got := ParseSummary([]byte(test.line))
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("ParseSummary(%q) (-want +got):\n%s", test.line, diff)
		}
	}
}

func TestReadResultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ResultFile)
	data := "[summary] txn_cnt=10, time_index=2.5\nsecond line=ignored\n"
	if err := os.WriteFile(path, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	m, err := ReadResultFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Metrics{{"txn_cnt", matrix.Int(10)}, {"time_index", matrix.Float(2.5)}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if _, err := ReadResultFile(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v, want ErrNotExist", err)
	}
}

func TestNewResultCollision(t *testing.T) {
	config := matrix.ParameterSet{{Name: "THREAD_CNT", Value: matrix.Int(4)}}

	// Same value in both families is fine.
	res, err := NewResult("j", config, Metrics{{"THREAD_CNT", matrix.Float(4)}, {"txn_cnt", matrix.Int(1)}})
	if err != nil {
		t.Fatalf("equal values: %v", err)
	}
	if diff := cmp.Diff([]string{"THREAD_CNT", "txn_cnt"}, res.Fields()); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}

	_, err = NewResult("j", config, Metrics{{"THREAD_CNT", matrix.Int(8)}})
	var ce *CollisionError
	if !errors.As(err, &ce) {
		t.Fatalf("want *CollisionError, got %v", err)
	}
	if ce.Field != "THREAD_CNT" {
		t.Errorf("collision field = %s", ce.Field)
	}
}

func TestResultFloat(t *testing.T) {
	res, err := NewResult("j",
		matrix.ParameterSet{{Name: "WORKLOAD", Value: matrix.String("TPCC")}},
		Metrics{{"txn_cnt", matrix.Int(100)}})
	if err != nil {
		t.Fatal(err)
	}
	if f, err := res.Float("txn_cnt"); err != nil || f != 100 {
		t.Errorf("Float(txn_cnt) = %v, %v", f, err)
	}
	if _, err := res.Float("WORKLOAD"); err == nil {
		t.Errorf("Float(WORKLOAD) succeeded, want error")
	}
	if _, err := res.Float("nope"); err == nil {
		t.Errorf("Float(nope) succeeded, want error")
	}
	if got := res.String("WORKLOAD"); got != "TPCC" {
		t.Errorf("String(WORKLOAD) = %q", got)
	}
}
