// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"golang.org/x/benchsweep/archive"
)

// Upload the results tree to Google Cloud Storage.
func archiveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Upload the results tree to a Google Cloud Storage bucket.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.config.Archive
			if c.Bucket == "" {
				return fmt.Errorf("no bucket: set --bucket or archive.bucket")
			}
			g, err := archive.NewGCS(cmd.Context(), c.Bucket, c.Credentials)
			if err != nil {
				return err
			}
			defer g.Close()
			ar := &archive.Archiver{Bucket: g, Prefix: c.Prefix, Log: logrus.StandardLogger()}
			n, err := ar.Archive(cmd.Context(), a.config.ResultsRoot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d files to gs://%s/%s\n", n, c.Bucket, c.Prefix)
			return nil
		},
	}

	cmd.Flags().String("bucket", "", "Google Cloud Storage `bucket`")
	cmd.Flags().String("prefix", "", "object name `prefix`")
	cmd.Flags().String("credentials", "", "service account key `file` (default application default credentials)")
	a.bind("archive.bucket", cmd.Flags().Lookup("bucket"))
	a.bind("archive.prefix", cmd.Flags().Lookup("prefix"))
	a.bind("archive.credentials", cmd.Flags().Lookup("credentials"))

	return cmd
}
