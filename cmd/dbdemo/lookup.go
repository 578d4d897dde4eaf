package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/victorcezeh/understanding-psycopg2/internal/config"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage"
)

func newLookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [name]",
		Short: "Look up a student's favorite food by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name, err := studentName(cmd, args)
			if err != nil {
				return err
			}

			db, err := config.LoadRosterDB()
			if err != nil {
				return err
			}
			store, closeStore, err := a.openStore(ctx, db)
			if err != nil {
				return err
			}
			defer closeStore()

			s, err := store.LookupStudent(ctx, name)
			if errors.Is(err, storage.ErrStudentNotFound) {
				return fmt.Errorf("no student named %q: %w", name, err)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s likes to eat %s.\n", s.Name, s.FavoriteFood)
			return nil
		},
	}
}

// studentName takes the name from the argument list, or prompts for it the
// way the original interactive terminal did.
func studentName(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Who do you want to know about? ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read name: %w", err)
	}
	name := strings.TrimSpace(line)
	if name == "" {
		return "", fmt.Errorf("no name given")
	}
	return name, nil
}
