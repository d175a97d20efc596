// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot/vg"

	"golang.org/x/benchsweep/aggregate"
	"golang.org/x/benchsweep/chart"
	"golang.org/x/benchsweep/resultfmt"
)

// A Figure is a chart of one experiment's results.
type Figure struct {
	chart.Figure

	// Experiment is the name of the experiment whose results are
	// plotted.
	Experiment string

	// GroupBy lists the fields whose values distinguish series.
	GroupBy []string

	// X is the field plotted on the x axis, and Y derives the value
	// plotted on the y axis.
	X string
	Y aggregate.Derivation
}

// Series groups results into the series of f.
func (f *Figure) Series(results []*resultfmt.Result) ([]*aggregate.Series, error) {
	s, err := aggregate.Build(results, f.GroupBy, f.X, f.Y)
	if err != nil {
		return nil, fmt.Errorf("figure %s: %w", f.Name, err)
	}
	return s, nil
}

// Render groups results and saves the figure to path. It returns the
// plotted series.
func (f *Figure) Render(results []*resultfmt.Result, path string) ([]*aggregate.Series, error) {
	series, err := f.Series(results)
	if err != nil {
		return nil, err
	}
	if err := f.Figure.Save(series, path); err != nil {
		return nil, err
	}
	return series, nil
}

func fieldsOf(fields ...string) func(*resultfmt.Result) string {
	return func(r *resultfmt.Result) string {
		vals := make([]string, len(fields))
		for i, f := range fields {
			vals[i] = r.String(f)
		}
		return strings.Join(vals, " ")
	}
}

// byIndexStruct puts B-trees in panel 0 and hash indexes in panel 1.
func byIndexStruct(r *resultfmt.Result) (int, error) {
	_, i, err := parse("index structure", r.String("INDEX_STRUCT"), IndexStructs)
	if err != nil {
		return 0, fmt.Errorf("job %s: %w", r.Job, err)
	}
	return i, nil
}

// workloadByIndex lays out a 2×2 grid with workloads on rows and hash
// before B-tree on columns.
func workloadByIndex() *chart.Table {
	return chart.GridTable(
		"WORKLOAD", strs(TPCC, YCSB),
		"INDEX_STRUCT", strs(IdxHash, IdxBtree),
	)
}

const (
	latencyLabel    = "Average Index Time per Transaction (µs)"
	throughputLabel = "Throughput (txn/sec)"
)

func inches(w, h float64) (vg.Length, vg.Length) {
	return vg.Length(w) * vg.Inch, vg.Length(h) * vg.Inch
}

// Figures returns the built-in figures.
func Figures() []*Figure {
	var figs []*Figure
	add := func(f *Figure, w, h float64) {
		f.Width, f.Height = inches(w, h)
		figs = append(figs, f)
	}

	add(&Figure{
		Figure: chart.Figure{
			Name: "scalability-1", Rows: 2, Cols: 2,
			XLabel: "Number of Threads", YLabel: latencyLabel, XLogBase: 2,
			Title: fieldsOf("WORKLOAD", "INDEX_STRUCT"),
			Label: fieldsOf("CC_ALG"),
			Panel: workloadByIndex().Lookup,
		},
		Experiment: "scalability",
		GroupBy:    []string{"CC_ALG", "INDEX_STRUCT", "WORKLOAD"},
		X:          "THREAD_CNT",
		Y:          aggregate.IndexLatency,
	}, 10, 10)

	add(&Figure{
		Figure: chart.Figure{
			Name: "scalability-2", Rows: 2, Cols: 5, XLogBase: 2,
			Title: fieldsOf("WORKLOAD", "CC_ALG"),
			Label: fieldsOf("INDEX_STRUCT"),
			Panel: chart.GridTable("WORKLOAD", strs(TPCC, YCSB), "CC_ALG", strs(CCAlgs...)).Lookup,
		},
		Experiment: "scalability",
		GroupBy:    []string{"CC_ALG", "INDEX_STRUCT", "WORKLOAD"},
		X:          "THREAD_CNT",
		Y:          aggregate.IndexLatency,
	}, 20, 8)

	add(&Figure{
		Figure: chart.Figure{
			Name: "rw", Rows: 1, Cols: 2,
			XLabel: "Read Percentage", YLabel: latencyLabel,
			Title: fieldsOf("WORKLOAD", "INDEX_STRUCT"),
			Panel: byIndexStruct,
		},
		Experiment: "rw",
		GroupBy:    []string{"WORKLOAD", "INDEX_STRUCT"},
		X:          "READ_PERC",
		Y:          aggregate.IndexLatency,
	}, 8, 4)

	add(&Figure{
		Figure: chart.Figure{
			Name: "fanout", Rows: 1, Cols: 1,
			XLabel: "B-Tree Order", YLabel: latencyLabel, XLogBase: 2,
			Title: fieldsOf("WORKLOAD", "INDEX_STRUCT"),
		},
		Experiment: "fanout",
		X:          "BTREE_ORDER",
		Y:          aggregate.IndexLatency,
	}, 7, 5)

	add(&Figure{
		Figure: chart.Figure{
			Name: "hotset", Rows: 1, Cols: 2,
			XLabel: "Hotspot Percentage", YLabel: latencyLabel,
			Title: fieldsOf("WORKLOAD", "INDEX_STRUCT"),
			Panel: byIndexStruct,
		},
		Experiment: "hotset",
		GroupBy:    []string{"WORKLOAD", "INDEX_STRUCT"},
		X:          "ZIPF_THETA",
		Y:          aggregate.IndexLatency,
	}, 10, 5)

	add(&Figure{
		Figure: chart.Figure{
			Name: "contention", Rows: 1, Cols: 2,
			XLabel: "Number of Warehouses", YLabel: latencyLabel,
			Title: fieldsOf("WORKLOAD", "INDEX_STRUCT"),
			Panel: byIndexStruct,
		},
		Experiment: "contention",
		GroupBy:    []string{"WORKLOAD", "INDEX_STRUCT"},
		X:          "NUM_WH",
		Y:          aggregate.IndexLatency,
	}, 10, 5)

	add(&Figure{
		Figure: chart.Figure{
			Name: "fanout-throughput", Rows: 2, Cols: 2,
			XLabel: "Number of fanout", YLabel: throughputLabel,
			Title: fieldsOf("WORKLOAD", "INDEX_STRUCT"),
			Label: fieldsOf("CC_ALG"),
			Panel: workloadByIndex().Lookup,
		},
		Experiment: "fanout",
		GroupBy:    []string{"WORKLOAD", "CC_ALG", "INDEX_STRUCT"},
		X:          "BTREE_ORDER",
		Y:          aggregate.Throughput,
	}, 16, 10)

	add(&Figure{
		Figure: chart.Figure{
			Name: "zipf-throughput", Rows: 2, Cols: 2,
			XLabel: "Hotset Percentage", YLabel: throughputLabel,
			Title: fieldsOf("WORKLOAD", "INDEX_STRUCT"),
			Label: fieldsOf("CC_ALG"),
			Panel: workloadByIndex().Lookup,
		},
		Experiment: "zipf",
		GroupBy:    []string{"WORKLOAD", "CC_ALG", "INDEX_STRUCT"},
		X:          "ZIPF_THETA",
		Y:          aggregate.Throughput,
	}, 16, 10)

	return figs
}

// LookupFigure returns the built-in figure called name.
func LookupFigure(name string) (*Figure, bool) {
	for _, f := range Figures() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
