// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package defines rewrites #define lines in C-style configuration
// headers.
//
// Only whole-line substitution is supported: the line
//
//	#define NAME anything
//
// becomes
//
//	#define NAME value
//
// and every other byte of the input is preserved.
package defines

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/benchsweep/matrix"
)

// An Override replaces the value of one #define.
type Override struct {
	Name  string
	Value string
}

// FromParams returns one Override per parameter of ps, in order.
func FromParams(ps matrix.ParameterSet) []Override {
	ovs := make([]Override, len(ps))
	for i, p := range ps {
		ovs[i] = Override{p.Name, p.Value.String()}
	}
	return ovs
}

func lineRegexp(name string) *regexp.Regexp {
	// The name must be followed by a blank or the end of the line, so
	// FOO does not match FOO_MAX. A trailing \r is kept as is.
	return regexp.MustCompile(`(?m)^([ \t]*#[ \t]*define[ \t]+)` + regexp.QuoteMeta(name) + `(?:[ \t][^\r\n]*)?(\r?)$`)
}

// Apply applies overrides to baseline and returns the new text.
//
// If a name has no #define line in baseline, its override has no
// effect; such names are returned in missing, in override order.
func Apply(baseline []byte, overrides []Override) (out []byte, missing []string) {
	out = append([]byte(nil), baseline...)
	for _, ov := range overrides {
		re := lineRegexp(ov.Name)
		found := false
		out = re.ReplaceAllFunc(out, func(line []byte) []byte {
			found = true
			sub := re.FindSubmatch(line)
			var buf bytes.Buffer
			buf.Write(sub[1])
			buf.WriteString(ov.Name)
			buf.WriteByte(' ')
			buf.WriteString(ov.Value)
			buf.Write(sub[2])
			return buf.Bytes()
		})
		if !found {
			missing = append(missing, ov.Name)
		}
	}
	return out, missing
}

// WriteFile applies overrides to baseline and writes the result to
// path. The file is replaced atomically, so a concurrent reader sees
// either the old or the new configuration, never a partial one.
func WriteFile(path string, baseline []byte, overrides []Override) (missing []string, err error) {
	out, missing := Apply(baseline, overrides)

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}
	tmp := f.Name()
	if _, err := f.Write(out); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, err
	}
	return missing, nil
}
