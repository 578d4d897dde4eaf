package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victorcezeh/understanding-psycopg2/internal/config"
	"github.com/victorcezeh/understanding-psycopg2/internal/probe"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		file  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Probe the CSV source and print per-column statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				var err error
				if path, err = config.LoadCSVPath(); err != nil {
					return err
				}
			}

			res, err := probe.AnalyzeFile(path, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Format())
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV path (overrides PATH_TO_CSV)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max data rows to sample (0 = all)")
	return cmd
}
