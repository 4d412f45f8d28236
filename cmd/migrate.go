package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jjenkins/nichefinder/internal/config"
	"github.com/jjenkins/nichefinder/internal/store"
)

var migrateDown int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations for the postgres snapshot store",
	Long: `Apply the embedded schema migrations to DATABASE_URL. Only needed when
store_backend is postgres; the CSV store needs no setup.

Examples:
  STORE_BACKEND=postgres DATABASE_URL=postgres://localhost/nichefinder nichefinder migrate
  nichefinder migrate --down 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StoreBackend != config.BackendPostgres {
			return fmt.Errorf("migrate requires store_backend=%s (current: %s)", config.BackendPostgres, cfg.StoreBackend)
		}

		if migrateDown > 0 {
			logger.Info().Int("steps", migrateDown).Msg("rolling back migrations")
			if err := store.RollbackMigrations(cfg.DatabaseURL, migrateDown); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Rollback complete.")
			return nil
		}

		logger.Info().Msg("applying migrations")
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().IntVar(&migrateDown, "down", 0, "Roll back this many migrations instead of applying")
}
