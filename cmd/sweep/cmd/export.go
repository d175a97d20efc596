// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/hashicorp/go-multierror"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"golang.org/x/benchsweep/resultfmt"
	"golang.org/x/benchsweep/store"
)

// Export parsed results to a SQL database.
func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [experiment...]",
		Short: "Write parsed experiment results to a SQL database.",
		Long: `Write parsed experiment results to a SQL database.

The sqlite3 and mysql drivers are supported. Each invocation creates a new
export per experiment; earlier exports are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exps, err := a.experiments(args)
			if err != nil {
				return err
			}
			db, err := store.OpenSQL(a.config.Export.Driver, a.config.Export.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			var result *multierror.Error
			for _, m := range exps {
				ok, err := a.hasResults(m.Name)
				if err != nil {
					return err
				}
				if !ok {
					if len(args) > 0 {
						result = multierror.Append(result, fmt.Errorf("no results for experiment %s", m.Name))
					}
					continue
				}
				results, warnings, err := resultfmt.ReadAll(a.experimentDir(m.Name), nil)
				if err != nil {
					result = multierror.Append(result, err)
					continue
				}
				for _, w := range warnings {
					logrus.WithFields(logrus.Fields{"experiment": m.Name, "job": w.Job}).Warn(w.Err)
				}
				e, err := db.ExportResults(cmd.Context(), m.Name, results)
				if err != nil {
					result = multierror.Append(result, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: exported %d results as export %d\n", m.Name, len(results), e.ID)
			}
			return result.ErrorOrNil()
		},
	}

	cmd.Flags().String("driver", "", "database `driver`: sqlite3 or mysql")
	cmd.Flags().String("dsn", "", "database data source `name`")
	a.bind("export.driver", cmd.Flags().Lookup("driver"))
	a.bind("export.dsn", cmd.Flags().Lookup("dsn"))

	return cmd
}
