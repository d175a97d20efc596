// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Sweep runs compile-time parameter sweeps of a benchmark and plots
// the results.
//
// Usage:
//
//	sweep list
//	sweep run [-dry-run] [experiment ...]
//	sweep plot [-out dir] [-format png|svg|pdf] [figure ...]
//	sweep export [-driver name] [-dsn dsn] [experiment ...]
//	sweep archive -bucket name [-prefix prefix] [-credentials file]
//
// An experiment is a set of jobs, one per combination of parameter
// values. For each job, run writes the parameters as #define lines
// into the benchmark's active configuration file, builds the
// benchmark, runs it, and keeps the build and run transcripts and the
// benchmark's result file in
//
//	<results>/<experiment>/<job>/
//
// A job whose build and run both succeed gets a "done" marker and is
// skipped by later runs, so an interrupted sweep can be restarted.
//
// Plot reads the result files of an experiment and renders the
// figures drawn from it to <out>/<figure>.<format>. Export writes the
// parsed results to a SQL database, and archive uploads the results
// tree to a Google Cloud Storage bucket.
//
// Settings are read from sweep.yaml in the current directory, or from
// the file given by -config, and can be overridden by SWEEP_*
// environment variables. The file may also define experiments.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/benchsweep/cmd/sweep/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.RootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
