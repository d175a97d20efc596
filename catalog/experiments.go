// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package catalog holds the built-in experiments and figures of the
// index study: which compile-time parameters each experiment sweeps,
// and how each figure groups, derives and lays out their results.
package catalog

import (
	"math"

	"golang.org/x/benchsweep/matrix"
)

func strAxis[T ~string](name string, xs ...T) matrix.Axis {
	a := matrix.Axis{Name: name}
	for _, x := range xs {
		a.Values = append(a.Values, matrix.String(string(x)))
	}
	return a
}

func intAxis(name string, xs ...int64) matrix.Axis {
	a := matrix.Axis{Name: name}
	for _, x := range xs {
		a.Values = append(a.Values, matrix.Int(x))
	}
	return a
}

func floatAxis(name string, xs ...float64) matrix.Axis {
	a := matrix.Axis{Name: name}
	for _, x := range xs {
		a.Values = append(a.Values, matrix.Float(x))
	}
	return a
}

// pow2 returns 2^lo, ..., 2^hi.
func pow2(lo, hi int) []int64 {
	var xs []int64
	for i := lo; i <= hi; i++ {
		xs = append(xs, 1<<i)
	}
	return xs
}

// tenths returns n/10 for n in [lo, hi].
func tenths(lo, hi int) []float64 {
	var xs []float64
	for i := lo; i <= hi; i++ {
		xs = append(xs, float64(i)/10)
	}
	return xs
}

func single(name string, n int64) matrix.Axis { return intAxis(name, n) }

// Experiments returns the built-in experiments. Each call returns
// fresh values that the caller may modify.
func Experiments() []*matrix.Matrix {
	// Reads and writes always add up to 1; WRITE_PERC follows
	// READ_PERC rather than being a separate dimension.
	readPerc := tenths(0, 10)
	writePerc := make([]float64, len(readPerc))
	for i, r := range readPerc {
		writePerc[i] = math.Round((1-r)*10) / 10
	}
	readAxis := floatAxis("READ_PERC", readPerc...)
	readAxis.Linked = []matrix.Axis{floatAxis("WRITE_PERC", writePerc...)}

	return []*matrix.Matrix{
		{
			Name:   "scalability",
			Naming: matrix.KeyValue,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", YCSB, TPCC),
				intAxis("THREAD_CNT", pow2(0, 5)...),
				strAxis("CC_ALG", CCAlgs...),
				strAxis("INDEX_STRUCT", IndexStructs...),
			}},
		},
		{
			Name:   "fanout",
			Naming: matrix.KeyValue,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", TPCC),
				single("THREAD_CNT", 1),
				strAxis("CC_ALG", NoWait),
				strAxis("INDEX_STRUCT", IdxBtree),
				intAxis("BTREE_ORDER", pow2(2, 14)...),
			}},
		},
		{
			Name:   "contention",
			Naming: matrix.KeyValue,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", TPCC),
				single("THREAD_CNT", 1),
				strAxis("CC_ALG", NoWait),
				strAxis("INDEX_STRUCT", IndexStructs...),
				intAxis("NUM_WH", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20),
			}},
		},
		{
			Name:   "rw",
			Naming: matrix.KeyValue,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", YCSB),
				single("THREAD_CNT", 1),
				strAxis("CC_ALG", NoWait),
				strAxis("INDEX_STRUCT", IndexStructs...),
				readAxis,
			}},
		},
		{
			Name:   "hotset",
			Naming: matrix.KeyValue,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", YCSB),
				single("THREAD_CNT", 1),
				strAxis("CC_ALG", NoWait),
				strAxis("INDEX_STRUCT", IndexStructs...),
				floatAxis("ZIPF_THETA", tenths(0, 9)...),
			}},
		},
		{
			Name:   "latch",
			Naming: matrix.KeyValue,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", YCSB, TPCC),
				single("THREAD_CNT", 1),
				strAxis("CC_ALG", NoWait),
				strAxis("INDEX_STRUCT", IndexStructs...),
				// The engine's config takes the literal words.
				strAxis("ENABLE_LATCH", "true", "false"),
			}},
		},
		{
			Name:   "rw-ratio",
			Naming: matrix.Positional,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", TPCC),
				strAxis("CC_ALG", NoWait),
				strAxis("INDEX_STRUCT", IndexStructs...),
				intAxis("CORE_CNT", pow2(0, 8)...),
				floatAxis("PERC_PAYMENT", tenths(0, 10)...),
			}},
		},
		{
			Name:   "zipf",
			Naming: matrix.Positional,
			Products: []matrix.Product{{
				strAxis("WORKLOAD", TPCC),
				strAxis("CC_ALG", NoWait),
				strAxis("INDEX_STRUCT", IndexStructs...),
				single("CORE_CNT", 32),
				floatAxis("ZIPF_THETA", 0.6, 0.8, 0.9, 0.99, 0.999),
			}},
		},
	}
}

// LookupExperiment returns the built-in experiment called name.
func LookupExperiment(name string) (*matrix.Matrix, bool) {
	for _, m := range Experiments() {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
