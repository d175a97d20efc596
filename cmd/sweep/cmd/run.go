// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Build and run the jobs of experiments.
// Prints a summary line per experiment on exit.
func runCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [experiment...]",
		Short: "Build and run the jobs of experiments that are not done yet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			exps, err := a.experiments(args)
			if err != nil {
				return err
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return err
			}
			r := a.config.Runner(logrus.StandardLogger())
			out := cmd.OutOrStdout()

			if dryRun {
				w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
				for _, m := range exps {
					plan, err := r.Plan(m)
					if err != nil {
						return err
					}
					for _, p := range plan {
						fmt.Fprintf(w, "%s\t%s\t%s\n", p.Action, m.Name, p.Name)
					}
				}
				return w.Flush()
			}

			var result *multierror.Error
			for _, m := range exps {
				report, err := r.RunExperiment(cmd.Context(), m)
				if report != nil {
					c := report.Counts()
					fmt.Fprintf(out, "%s: %d jobs, %d skipped, %d passed, %d build failures, %d run failures\n",
						m.Name, c.Jobs, c.Skipped, c.Passed, c.BuildFailed, c.RunFailed)
				}
				if err != nil {
					result = multierror.Append(result, err)
				}
				if cmd.Context().Err() != nil {
					break
				}
			}
			return result.ErrorOrNil()
		},
	}

	cmd.Flags().Bool("dry-run", false, "print what each job would do without running anything")
	cmd.Flags().Bool("isolate", false, "build each job in a private copy of the source tree")
	cmd.Flags().Duration("timeout", 0, "limit each build and each run to `duration`")
	a.bind("isolate", cmd.Flags().Lookup("isolate"))
	a.bind("timeout", cmd.Flags().Lookup("timeout"))

	return cmd
}
