// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"fmt"

	"golang.org/x/benchsweep/resultfmt"
)

// A Derivation computes the y value of a result.
type Derivation func(r *resultfmt.Result) (float64, error)

// Field returns a Derivation that reads the numeric field name.
func Field(name string) Derivation {
	return func(r *resultfmt.Result) (float64, error) {
		return r.Float(name)
	}
}

// IndexLatency is the average time spent in the index per transaction
// per thread, in microseconds.
var IndexLatency = IndexLatencyBy("THREAD_CNT")

// IndexLatencyBy is like IndexLatency but reads the thread count from
// threadField.
func IndexLatencyBy(threadField string) Derivation {
	return func(r *resultfmt.Result) (float64, error) {
		var v [3]float64
		for i, f := range []string{"time_index", "txn_cnt", threadField} {
			x, err := r.Float(f)
			if err != nil {
				return 0, err
			}
			v[i] = x
		}
		if v[1] == 0 || v[2] == 0 {
			return 0, fmt.Errorf("job %s: txn_cnt=%v %s=%v", r.Job, v[1], threadField, v[2])
		}
		return v[0] / v[1] / v[2] * 1e6, nil
	}
}

// Throughput is the number of transactions per second of index time.
func Throughput(r *resultfmt.Result) (float64, error) {
	txns, err := r.Float("txn_cnt")
	if err != nil {
		return 0, err
	}
	t, err := r.Float("time_index")
	if err != nil {
		return 0, err
	}
	if t == 0 {
		return 0, fmt.Errorf("job %s: time_index is 0", r.Job)
	}
	return txns / t, nil
}
