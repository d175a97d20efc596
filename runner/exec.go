// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// An Executor runs shell commands on behalf of a Runner.
//
// Execute runs command in directory dir, streaming its standard output
// and standard error to stdout and stderr, and returns its exit code.
// A command that runs and exits non-zero is not an error. Execute
// returns an error only if the command could not be started or was
// stopped by ctx.
type Executor interface {
	Execute(ctx context.Context, dir, command string, stdout, stderr io.Writer) (exit int, err error)
}

// Shell is an Executor that runs commands with "sh -c".
type Shell struct {
	// Env is added to the environment of every command.
	Env []string
}

func (s Shell) Execute(ctx context.Context, dir, command string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	err := cmd.Run()
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode(), nil
	}
	if err != nil {
		return -1, errors.Wrapf(err, "starting %q", command)
	}
	return 0, nil
}

// shellQuote quotes s as a single sh word.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./,=+:@%", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// markerWriter reports whether marker appears anywhere in the bytes
// written to it, including across writes.
type markerWriter struct {
	marker []byte
	tail   []byte
	found  bool
}

func newMarkerWriter(marker string) *markerWriter {
	return &markerWriter{marker: []byte(marker)}
}

func (w *markerWriter) Write(p []byte) (int, error) {
	if w.found || len(w.marker) == 0 {
		w.found = true
		return len(p), nil
	}
	buf := append(w.tail, p...)
	if bytes.Contains(buf, w.marker) {
		w.found = true
		w.tail = nil
		return len(p), nil
	}
	keep := len(w.marker) - 1
	if len(buf) > keep {
		buf = buf[len(buf)-keep:]
	}
	w.tail = append(w.tail[:0], buf...)
	return len(p), nil
}
