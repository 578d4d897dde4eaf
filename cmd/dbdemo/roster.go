package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/victorcezeh/understanding-psycopg2/internal/config"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage"
)

// rosterSeed is the sample class roster.
var rosterSeed = []storage.Student{
	{Name: "Victor", FavoriteFood: "Chicken"},
	{Name: "Esan", FavoriteFood: "Rice"},
	{Name: "Pelumi", FavoriteFood: "Beans"},
}

func newRosterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Recreate the students table and seed the sample roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := config.LoadRosterDB()
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(ctx, db)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.EnsureStudentsTable(ctx); err != nil {
				return err
			}
			if err := store.SeedStudents(ctx, rosterSeed); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Table created and data inserted successfully! (%d students)\n", len(rosterSeed))
			return nil
		},
	}
}
