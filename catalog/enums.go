// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package catalog

import "fmt"

// A Workload is a benchmark workload.
type Workload string

const (
	YCSB Workload = "YCSB"
	TPCC Workload = "TPCC"
)

// Workloads lists every Workload.
var Workloads = []Workload{YCSB, TPCC}

// An IndexStruct is an index data structure.
type IndexStruct string

const (
	IdxBtree IndexStruct = "IDX_BTREE"
	IdxHash  IndexStruct = "IDX_HASH"
)

// IndexStructs lists every IndexStruct.
var IndexStructs = []IndexStruct{IdxBtree, IdxHash}

// A CCAlg is a concurrency control algorithm.
type CCAlg string

const (
	DLDetect CCAlg = "DL_DETECT"
	NoWait   CCAlg = "NO_WAIT"
	Hekaton  CCAlg = "HEKATON"
	Silo     CCAlg = "SILO"
	TicToc   CCAlg = "TICTOC"
)

// CCAlgs lists every CCAlg.
var CCAlgs = []CCAlg{DLDetect, NoWait, Hekaton, Silo, TicToc}

// An UnknownValueError reports a categorical value outside its
// enumeration.
type UnknownValueError struct {
	Kind  string
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Value)
}

func parse[T ~string](kind, s string, all []T) (T, int, error) {
	for i, v := range all {
		if string(v) == s {
			return v, i, nil
		}
	}
	return "", -1, &UnknownValueError{kind, s}
}

// ParseWorkload returns the Workload named s.
func ParseWorkload(s string) (Workload, error) {
	w, _, err := parse("workload", s, Workloads)
	return w, err
}

// ParseIndexStruct returns the IndexStruct named s.
func ParseIndexStruct(s string) (IndexStruct, error) {
	x, _, err := parse("index structure", s, IndexStructs)
	return x, err
}

// ParseCCAlg returns the CCAlg named s.
func ParseCCAlg(s string) (CCAlg, error) {
	a, _, err := parse("concurrency control algorithm", s, CCAlgs)
	return a, err
}

func strs[T ~string](xs ...T) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = string(x)
	}
	return out
}
