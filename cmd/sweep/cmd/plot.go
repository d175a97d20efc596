// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"golang.org/x/benchsweep/catalog"
	"golang.org/x/benchsweep/resultfmt"
)

// Render figures from the results of their experiments.
func plotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [figure...]",
		Short: "Render figures from experiment results.",
		Long: `Render figures from experiment results.

With no arguments, every figure whose experiment has results is rendered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outDir, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = a.config.ResultsRoot
			}
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}

			var figs []*catalog.Figure
			if len(args) == 0 {
				for _, f := range catalog.Figures() {
					ok, err := a.hasResults(f.Experiment)
					if err != nil {
						return err
					}
					if !ok {
						logrus.WithField("figure", f.Name).Infof("no results for experiment %s", f.Experiment)
						continue
					}
					figs = append(figs, f)
				}
			} else {
				for _, name := range args {
					f, ok := catalog.LookupFigure(name)
					if !ok {
						return fmt.Errorf("unknown figure %q", name)
					}
					figs = append(figs, f)
				}
			}
			if err := os.MkdirAll(outDir, 0777); err != nil {
				return err
			}

			var result *multierror.Error
			for _, f := range figs {
				path := filepath.Join(outDir, f.Name+"."+format)
				if err := a.plot(f, path); err != nil {
					result = multierror.Append(result, err)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return result.ErrorOrNil()
		},
	}

	cmd.Flags().String("out", "", "write figures to `directory` (default the results root)")
	cmd.Flags().String("format", "png", "image `format`: png, svg or pdf")

	return cmd
}

func (a *app) plot(f *catalog.Figure, path string) error {
	log := logrus.WithField("figure", f.Name)
	results, warnings, err := resultfmt.ReadAll(a.experimentDir(f.Experiment), nil)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.WithField("job", w.Job).Warn(w.Err)
	}
	series, err := f.Render(results, path)
	if err != nil {
		return err
	}
	for _, s := range series {
		log.Info(s)
	}
	return nil
}
