// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package matrix

import "testing"

func TestParseValue(t *testing.T) {
	for _, test := range []struct {
		in   string
		kind Kind
		str  string
	}{
		{"100", KindInt, "100"},
		{"-3", KindInt, "-3"},
		{"+5", KindInt, "5"},
		{"0.5", KindFloat, "0.5"},
		{"1.0", KindFloat, "1.0"},
		{"1e-06", KindFloat, "1e-06"},
		{"IDX_BTREE", KindString, "IDX_BTREE"},
		{"true", KindString, "true"},
		{"", KindString, ""},
	} {
		v := ParseValue(test.in)
		if v.Kind() != test.kind || v.String() != test.str {
			t.Errorf("ParseValue(%q) = %v %q, want %v %q", test.in, v.Kind(), v.String(), test.kind, test.str)
		}
	}
}

func TestValueString(t *testing.T) {
	check := func(v Value, want string) {
		t.Helper()
		if got := v.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	check(Float(1), "1.0")
	check(Float(0.3), "0.3")
	check(Float(256), "256.0")
	check(Int(256), "256")
	check(Bool(true), "true")
	check(Bool(false), "false")
	check(String("NO_WAIT"), "NO_WAIT")
}

func TestCompare(t *testing.T) {
	check := func(a, b Value, want int) {
		t.Helper()
		if got := Compare(a, b); got != want {
			t.Errorf("Compare(%v, %v) = %d, want %d", a, b, got, want)
		}
	}
	check(Int(2), Int(10), -1)
	check(Float(2.5), Int(2), 1)
	check(Int(4), Float(4), 0)
	check(Int(4), String("a"), -1)
	check(String("b"), String("a"), 1)

	if !Int(4).Equal(Float(4)) {
		t.Errorf("Int(4) != Float(4)")
	}
	if String("4").Equal(Int(4)) {
		t.Errorf(`String("4") == Int(4)`)
	}
}
