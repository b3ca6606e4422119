package main

import (
	"example.com/mafia/internal/migrate"
	"github.com/spf13/cobra"
)

func newMigrateCmd(flags *globalFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*flags)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if dir == "" {
				dir = cfg.Postgres.MigrationsDir
			}
			return migrate.Up(cfg.Postgres.URL, dir, log)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (defaults to MIGRATIONS_DIR)")
	return cmd
}
