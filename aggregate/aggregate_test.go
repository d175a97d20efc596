// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/benchsweep/matrix"
	"golang.org/x/benchsweep/resultfmt"
)

// res builds a Result from "k=v" configuration and summary strings.
func res(t *testing.T, config, summary string) *resultfmt.Result {
	t.Helper()
	s := matrix.InferSchema(config)
	if s == nil {
		t.Fatalf("bad config %q", config)
	}
	ps, err := s.Decode(config)
	if err != nil {
		t.Fatal(err)
	}
	r, err := resultfmt.NewResult(config, ps, resultfmt.ParseSummary([]byte(summary)))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestProjectionInterning(t *testing.T) {
	p := NewProjection("WORKLOAD", "THREAD_CNT")
	a, err := p.Project(res(t, "WORKLOAD=TPCC,THREAD_CNT=4,CC_ALG=SILO", ""))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := p.Project(res(t, "CC_ALG=NO_WAIT,THREAD_CNT=4,WORKLOAD=TPCC", ""))
	c, _ := p.Project(res(t, "WORKLOAD=TPCC,THREAD_CNT=8", ""))
	if a != b {
		t.Errorf("keys with equal values differ: %s, %s", a, b)
	}
	if a == c {
		t.Errorf("keys with different values are equal: %s", a)
	}
	if got := a.String(); got != "WORKLOAD:TPCC THREAD_CNT:4" {
		t.Errorf("String() = %q", got)
	}
	if got := a.StringValues(); got != "TPCC 4" {
		t.Errorf("StringValues() = %q", got)
	}
	if v, ok := a.Get("THREAD_CNT"); !ok || !v.Equal(matrix.Int(4)) {
		t.Errorf("Get(THREAD_CNT) = %v, %v", v, ok)
	}
	if _, ok := a.Get("CC_ALG"); ok {
		t.Errorf("Get(CC_ALG) found a field outside the projection")
	}

	if _, err := p.Project(res(t, "WORKLOAD=TPCC", "")); err == nil {
		t.Errorf("projecting a result without THREAD_CNT succeeded")
	}
}

func TestSortKeys(t *testing.T) {
	p := NewProjection("x")
	var keys []Key
	for _, v := range []string{"x=10", "x=b", "x=2", "x=a", "x=1.5"} {
		k, err := p.Project(res(t, v, ""))
		if err != nil {
			t.Fatal(err)
		}
		keys = append(keys, k)
	}
	SortKeys(keys)
	var got []string
	for _, k := range keys {
		got = append(got, k.StringValues())
	}
	want := []string{"1.5", "2", "10", "a", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestGroupByOrder(t *testing.T) {
	results := []*resultfmt.Result{
		res(t, "A=2,B=1", ""),
		res(t, "A=1,B=1", ""),
		res(t, "A=2,B=2", ""),
	}
	groups, err := GroupBy(results, NewProjection("A"))
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups", len(groups))
	}
	if groups[0].Key.StringValues() != "2" || len(groups[0].Results) != 2 {
		t.Errorf("first group = %s with %d results", groups[0].Key, len(groups[0].Results))
	}
	if groups[0].Results[0] != results[0] || groups[0].Results[1] != results[2] {
		t.Errorf("results reordered within group")
	}

	SortGroups(groups)
	if groups[0].Key.StringValues() != "1" {
		t.Errorf("after SortGroups first group = %s", groups[0].Key)
	}

	all, err := GroupBy(results, NewProjection())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || len(all[0].Results) != 3 {
		t.Errorf("empty projection: got %d groups", len(all))
	}
}

func TestBuildTwoSeries(t *testing.T) {
	var results []*resultfmt.Result
	// Insert in scrambled x order.
	for _, cc := range []string{"NO_WAIT", "SILO"} {
		for _, n := range []string{"4", "1", "2"} {
			results = append(results, res(t,
				"WORKLOAD=TPCC,INDEX_STRUCT=IDX_HASH,CC_ALG="+cc+",THREAD_CNT="+n,
				"txn_cnt=100 time_index=8"))
		}
	}
	series, err := Build(results, []string{"WORKLOAD", "INDEX_STRUCT", "CC_ALG"}, "THREAD_CNT", IndexLatency)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 2 {
		t.Fatalf("got %d series, want 2", len(series))
	}
	for i, cc := range []string{"NO_WAIT", "SILO"} {
		s := series[i]
		if v, _ := s.Key.Get("CC_ALG"); v.String() != cc {
			t.Errorf("series %d is %s, want CC_ALG %s", i, s.Key, cc)
		}
		xs, ys := s.XYs()
		if diff := cmp.Diff([]float64{1, 2, 4}, xs); diff != "" {
			t.Errorf("series %d xs (-want +got):\n%s", i, diff)
		}
		// 8 / 100 / threads * 1e6
		if diff := cmp.Diff([]float64{80000, 40000, 20000}, ys); diff != "" {
			t.Errorf("series %d ys (-want +got):\n%s", i, diff)
		}
	}
}

func TestNewSeriesLastWins(t *testing.T) {
	g := &Group{Results: []*resultfmt.Result{
		res(t, "run=1,N=2", "v=10"),
		res(t, "run=2,N=1", "v=5"),
		res(t, "run=3,N=2", "v=30"),
	}}
	s, err := NewSeries(g, "N", Field("v"))
	if err != nil {
		t.Fatal(err)
	}
	xs, ys := s.XYs()
	if diff := cmp.Diff([]float64{1, 2}, xs); diff != "" {
		t.Errorf("xs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{5, 30}, ys); diff != "" {
		t.Errorf("ys (-want +got):\n%s", diff)
	}

	if _, err := NewSeries(g, "missing", Field("v")); err == nil {
		t.Errorf("missing x field succeeded")
	}
	if _, err := NewSeries(g, "N", Field("nope")); err == nil {
		t.Errorf("missing y field succeeded")
	}
}

func TestDerivations(t *testing.T) {
	r := res(t, "THREAD_CNT=4,CORE_CNT=2", "txn_cnt=100 time_index=25")
	check := func(name string, d Derivation, want float64) {
		t.Helper()
		got, err := d(r)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		} else if got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	check("IndexLatency", IndexLatency, 62500)
	check("IndexLatencyBy(CORE_CNT)", IndexLatencyBy("CORE_CNT"), 125000)
	check("Throughput", Throughput, 4)
	check("Field", Field("txn_cnt"), 100)

	zero := res(t, "THREAD_CNT=4", "txn_cnt=0 time_index=0")
	if _, err := IndexLatency(zero); err == nil {
		t.Errorf("IndexLatency with txn_cnt=0 succeeded")
	}
	if _, err := Throughput(zero); err == nil {
		t.Errorf("Throughput with time_index=0 succeeded")
	}
}

func TestSummary(t *testing.T) {
	g := &Group{Results: []*resultfmt.Result{
		res(t, "N=1", "v=2"),
		res(t, "N=2", "v=4"),
		res(t, "N=3", "v=6"),
	}}
	g.Key, _ = NewProjection().Project(g.Results[0])
	s, err := NewSeries(g, "N", Field("v"))
	if err != nil {
		t.Fatal(err)
	}
	sum := s.Summary()
	if sum.N != 3 || sum.Min != 2 || sum.Max != 6 {
		t.Errorf("got %+v", sum)
	}
	// Population variance: ((2-4)² + 0 + (6-4)²) / 3.
	if math.Abs(sum.Mean-4) > 1e-9 || math.Abs(sum.Variance-8.0/3) > 1e-9 {
		t.Errorf("mean, variance = %v, %v, want 4, 8/3", sum.Mean, sum.Variance)
	}
	if str := s.String(); !strings.Contains(str, "{1: 2, 2: 4, 3: 6} var=2.66667") {
		t.Errorf("String() = %q", str)
	}

	one := &Group{Key: g.Key, Results: g.Results[:1]}
	s, err = NewSeries(one, "N", Field("v"))
	if err != nil {
		t.Fatal(err)
	}
	if v := s.Summary().Variance; v != 0 {
		t.Errorf("single-point variance = %v, want 0", v)
	}
}
