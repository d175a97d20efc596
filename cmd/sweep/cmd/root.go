// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"golang.org/x/benchsweep/internal/harness"
	"golang.org/x/benchsweep/matrix"
)

// app is the state shared by the commands.
type app struct {
	v      *viper.Viper
	config *harness.Config
}

// bind makes flag override the configuration key.
func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// experiments returns the experiments named in args, or all of them.
func (a *app) experiments(args []string) ([]*matrix.Matrix, error) {
	if len(args) == 0 {
		return a.config.AllExperiments()
	}
	var exps []*matrix.Matrix
	for _, name := range args {
		m, err := a.config.Experiment(name)
		if err != nil {
			return nil, err
		}
		exps = append(exps, m)
	}
	return exps, nil
}

func (a *app) experimentDir(name string) string {
	return filepath.Join(a.config.ResultsRoot, name)
}

// hasResults reports whether experiment name has a results directory.
func (a *app) hasResults(name string) (bool, error) {
	fi, err := os.Stat(a.experimentDir(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	a := &app{v: harness.NewViper()}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep runs compile-time parameter sweeps of a benchmark and plots the results.",
		Long: `sweep runs compile-time parameter sweeps of a benchmark and plots the results.

Settings are read from sweep.yaml in the current directory, or from the file
given by --config. Every setting can be overridden by an environment variable
named SWEEP_<SETTING>, e.g. SWEEP_RESULTSROOT.

Example sweep.yaml:
resultsRoot: results
sourceDir: ../deneva
build: make -j
run: ./rundb
onBuildFailure: continue
resume: exists`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			harness.ConfigureLogging(cmd.ErrOrStderr(), verbose)
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			c, err := harness.LoadConfig(a.v, path)
			if err != nil {
				return err
			}
			a.config = c
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "configuration `file` (default ./sweep.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")
	cmd.PersistentFlags().String("results", "", "results root `directory`")
	a.bind("resultsRoot", cmd.PersistentFlags().Lookup("results"))

	cmd.AddCommand(
		listCmd(a),
		runCmd(a),
		plotCmd(a),
		exportCmd(a),
		archiveCmd(a),
	)
	return cmd
}
