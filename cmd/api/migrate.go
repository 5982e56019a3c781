package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-feedback-api/pkg/database"
)

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded schema migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *database.Migrator) error { return m.Up() })
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *database.Migrator) error { return m.Down() })
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Mark the schema as being at version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return withMigrator(cmd, func(m *database.Migrator) error { return m.Force(version) })
			},
		},
	)
	return migrateCmd
}

func withMigrator(cmd *cobra.Command, fn func(*database.Migrator) error) error {
	cfg, logr, err := bootstrap()
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cmd.Context(), cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	migrator, err := database.NewMigrator(db)
	if err != nil {
		return err
	}
	if err := fn(migrator); err != nil {
		return err
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		logr.Sugar().Infow("migration finished", "command", cmd.Name())
		return nil
	}
	logr.Sugar().Infow("migration finished", "command", cmd.Name(), "version", version, "dirty", dirty)
	return nil
}
