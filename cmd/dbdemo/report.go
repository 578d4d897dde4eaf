package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victorcezeh/understanding-psycopg2/internal/config"
)

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the average sale price per property type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := config.LoadRealEstateDB()
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(ctx, db)
			if err != nil {
				return err
			}
			defer closeStore()

			rows, err := store.AveragePriceByType(ctx)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "properties table is empty")
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", row.PropertyType, row.AvgSalePrice)
			}
			return nil
		},
	}
}
