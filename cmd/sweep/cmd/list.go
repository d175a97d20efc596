// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"golang.org/x/benchsweep/catalog"
)

// List the experiments and figures.
func listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List experiments and figures.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exps, err := a.config.AllExperiments()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintf(w, "EXPERIMENT\tNAMING\tJOBS\n")
			for _, m := range exps {
				fmt.Fprintf(w, "%s\t%s\t%d\n", m.Name, m.Naming, m.Len())
			}
			fmt.Fprintf(w, "\nFIGURE\tEXPERIMENT\tPANELS\n")
			for _, f := range catalog.Figures() {
				fmt.Fprintf(w, "%s\t%s\t%dx%d\n", f.Name, f.Experiment, f.Rows, f.Cols)
			}
			return w.Flush()
		},
	}
	return cmd
}
