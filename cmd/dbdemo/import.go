package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victorcezeh/understanding-psycopg2/internal/config"
	"github.com/victorcezeh/understanding-psycopg2/internal/importer"
)

func newImportCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Recreate the properties table and load it from the CSV source",
		Long: `Recreates the properties table, then streams the source CSV through the
cleaner and inserts every row in a single transaction. A malformed row aborts
the whole import; nothing is committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := config.LoadRealEstateDB()
			if err != nil {
				return err
			}
			path := file
			if path == "" {
				if path, err = config.LoadCSVPath(); err != nil {
					return err
				}
			}

			store, closeStore, err := a.openStore(ctx, db)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.EnsurePropertiesTable(ctx); err != nil {
				return err
			}

			a.log.Infow("importing", "file", path, "driver", a.driver)
			n, err := importer.ImportFile(ctx, a.log, path, store)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Table created and data inserted successfully! (%d rows)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV path (overrides PATH_TO_CSV)")
	return cmd
}
