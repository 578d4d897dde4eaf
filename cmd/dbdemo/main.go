// Command dbdemo exercises the two demo databases: it imports the real
// estate CSV into the properties table, prints the grouped price report, and
// seeds and queries the class roster. Connection settings come from the
// environment (see internal/config); --driver selects postgres or sqlite.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/victorcezeh/understanding-psycopg2/internal/config"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage/postgres"
	"github.com/victorcezeh/understanding-psycopg2/internal/storage/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries the flags and logger shared by every subcommand.
type app struct {
	driver  string
	verbose bool
	log     *zap.SugaredLogger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dbdemo",
		Short:         "Demo database operations: CSV import, reports, class roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.log = logger.Sugar()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.driver, "driver", "postgres", `database backend: "postgres" or "sqlite"`)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newImportCmd(a),
		newReportCmd(a),
		newRosterCmd(a),
		newLookupCmd(a),
		newInspectCmd(a),
	)
	return root
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// openStore connects the selected backend. The returned close function must
// run on every exit path.
func (a *app) openStore(ctx context.Context, db config.DB) (storage.Store, func(), error) {
	switch a.driver {
	case "postgres":
		return postgres.NewRepository(ctx, db.DSN())
	case "sqlite":
		return sqlite.NewRepository(ctx, db.SQLiteDSN())
	default:
		return nil, nil, fmt.Errorf("unknown driver %q (use postgres or sqlite)", a.driver)
	}
}
