// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"bufio"
	"bytes"
	"os"
	"unicode"
	"unicode/utf8"

	"golang.org/x/benchsweep/matrix"
)

// ParseSummary parses a summary line into Metrics.
//
// Tokens are separated by blanks and commas. Every token of the form
// key=value with a non-empty key becomes a Metric; other tokens, such
// as a leading "[summary]" tag, are ignored. Values are coerced with
// matrix.ParseValue. If a key repeats, the last value wins.
func ParseSummary(line []byte) Metrics {
	var m Metrics
	for len(line) > 0 {
		var tok []byte
		tok, line = splitToken(line)
		eq := bytes.IndexByte(tok, '=')
		if eq <= 0 {
			continue
		}
		m = m.set(string(tok[:eq]), matrix.ParseValue(string(tok[eq+1:])))
	}
	return m
}

func isSep(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// splitToken consumes and returns the next token of x, skipping any
// leading separators, and returns the rest of x.
func splitToken(x []byte) (tok, rest []byte) {
	i := 0
	for i < len(x) {
		r, n := utf8.DecodeRune(x[i:])
		if !isSep(r) {
			break
		}
		i += n
	}
	x = x[i:]
	for i = 0; i < len(x); {
		r, n := utf8.DecodeRune(x[i:])
		if isSep(r) {
			return x[:i], x[i+n:]
		}
		i += n
	}
	return x, nil
}

// ReadSummaryLine returns the first line of the file at path, without
// its line terminator.
func ReadSummaryLine(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	s.Buffer(nil, 1<<20)
	if s.Scan() {
		return append([]byte(nil), s.Bytes()...), nil
	}
	return nil, s.Err()
}

// ReadResultFile parses the summary line of the result file at path.
func ReadResultFile(path string) (Metrics, error) {
	line, err := ReadSummaryLine(path)
	if err != nil {
		return nil, err
	}
	return ParseSummary(line), nil
}
