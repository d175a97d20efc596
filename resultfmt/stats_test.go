// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func statsLine(skip string) string {
	var b strings.Builder
	b.WriteString("[summary]")
	for i, f := range StatsFields {
		if f == skip {
			continue
		}
		fmt.Fprintf(&b, " %s=%d,", f, i+1)
	}
	b.WriteString(" extra=x")
	return b.String()
}

func TestParseStatsLine(t *testing.T) {
	s, err := ParseStatsLine(statsLine(""))
	if err != nil {
		t.Fatal(err)
	}
	if s.TxnCnt != 1 || s.TimeIndex != 7 || s.TimeQuery != 15 {
		t.Errorf("got %+v", s)
	}
	if got := s.IndexThroughput(); got != 1.0/7 {
		t.Errorf("IndexThroughput = %v", got)
	}

	_, err = ParseStatsLine(statsLine("run_time"))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("want *SchemaError, got %v", err)
	}
	if se.Pos != 2 || se.Want != "run_time" || se.Got != "time_wait" {
		t.Errorf("got %+v", se)
	}

	if _, err := ParseStatsLine("[summary] txn_cnt=1"); err == nil {
		t.Errorf("short line parsed")
	}
}

func TestStatsOf(t *testing.T) {
	res, err := NewResult("j", nil, ParseSummary([]byte(statsLine(""))))
	if err != nil {
		t.Fatal(err)
	}
	s, err := StatsOf(res)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := ParseStatsLine(statsLine(""))
	if s != want {
		t.Errorf("StatsOf = %+v, want %+v", s, want)
	}

	res, _ = NewResult("j", nil, ParseSummary([]byte(statsLine("latency"))))
	if _, err := StatsOf(res); err == nil || !strings.Contains(err.Error(), "latency") {
		t.Errorf("missing latency: got %v", err)
	}
}
