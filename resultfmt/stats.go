// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"fmt"
	"strconv"
	"strings"
)

// StatsFields lists the leading fields of the benchmark's summary line
// in the order the benchmark prints them. Analyzers that read the line
// positionally depend on this order.
var StatsFields = []string{
	"txn_cnt",
	"abort_cnt",
	"run_time",
	"time_wait",
	"time_ts_alloc",
	"time_man",
	"time_index",
	"time_abort",
	"time_cleanup",
	"latency",
	"deadlock_cnt",
	"cycle_detect",
	"dl_detect_time",
	"dl_wait_time",
	"time_query",
}

// Stats is a typed view of the fixed part of a summary line.
// Times are in seconds, summed over all threads.
type Stats struct {
	TxnCnt       float64
	AbortCnt     float64
	RunTime      float64
	TimeWait     float64
	TimeTsAlloc  float64
	TimeMan      float64
	TimeIndex    float64
	TimeAbort    float64
	TimeCleanup  float64
	Latency      float64
	DeadlockCnt  float64
	CycleDetect  float64
	DlDetectTime float64
	DlWaitTime   float64
	TimeQuery    float64
}

func (s *Stats) fields() []*float64 {
	return []*float64{
		&s.TxnCnt, &s.AbortCnt, &s.RunTime, &s.TimeWait, &s.TimeTsAlloc,
		&s.TimeMan, &s.TimeIndex, &s.TimeAbort, &s.TimeCleanup, &s.Latency,
		&s.DeadlockCnt, &s.CycleDetect, &s.DlDetectTime, &s.DlWaitTime, &s.TimeQuery,
	}
}

// IndexThroughput returns the number of transactions per second of
// index time.
func (s *Stats) IndexThroughput() float64 {
	return s.TxnCnt / s.TimeIndex
}

// StatsOf extracts Stats from the measurements of r by field name.
func StatsOf(r *Result) (Stats, error) {
	var s Stats
	var missing []string
	for i, p := range s.fields() {
		v, ok := r.Metrics.Get(StatsFields[i])
		if !ok {
			missing = append(missing, StatsFields[i])
			continue
		}
		f, ok := v.Float64()
		if !ok {
			return Stats{}, fmt.Errorf("job %s: %s=%s is not numeric", r.Job, StatsFields[i], v)
		}
		*p = f
	}
	if len(missing) > 0 {
		return Stats{}, fmt.Errorf("job %s: summary is missing %s", r.Job, strings.Join(missing, ", "))
	}
	return s, nil
}

// A SchemaError reports a summary line whose fields are not in the
// order given by StatsFields.
type SchemaError struct {
	Pos  int // 0-based index into StatsFields
	Want string
	Got  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("summary field %d is %q, want %q", e.Pos, e.Got, e.Want)
}

// ParseStatsLine parses a summary line positionally: a leading tag
// followed by the StatsFields in order, each written key=value and
// optionally followed by a comma. Any fields after those are ignored.
func ParseStatsLine(line string) (Stats, error) {
	toks := strings.Fields(line)
	if len(toks) < 1+len(StatsFields) {
		return Stats{}, fmt.Errorf("summary has %d fields, want at least %d", len(toks)-1, len(StatsFields))
	}
	var s Stats
	for i, p := range s.fields() {
		tok := strings.TrimSuffix(toks[i+1], ",")
		key, val, ok := strings.Cut(tok, "=")
		if !ok || key != StatsFields[i] {
			return Stats{}, &SchemaError{i, StatsFields[i], key}
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return Stats{}, fmt.Errorf("summary field %s: %w", key, err)
		}
		*p = f
	}
	return s, nil
}
