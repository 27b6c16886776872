package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentcore/internal/config"
	"rentcore/internal/migration"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(migrateUpCmd(), migrateDownCmd(), migrateStatusCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			db, err := getDB(config.Load())
			if err != nil {
				return err
			}

			migrator := migration.NewMigrator(db)
			pending, err := migrator.Pending()
			if err != nil {
				return fmt.Errorf("failed to get pending migrations: %v", err)
			}

			if len(pending) == 0 {
				fmt.Println("No pending migrations.")
				return nil
			}

			if dryRun {
				fmt.Println("Pending migrations:")
				for _, m := range pending {
					fmt.Printf("- %s (%s)\n", m.Name, m.Version)
				}
				return nil
			}

			for _, m := range pending {
				fmt.Printf("Applying migration: %s (%s)\n", m.Name, m.Version)
			}
			if err := migrator.Up(); err != nil {
				return err
			}
			fmt.Printf("Successfully applied %d migration(s)\n", len(pending))
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show pending migrations without executing them")
	return cmd
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB(config.Load())
			if err != nil {
				return err
			}

			if err := migration.NewMigrator(db).Down(); err != nil {
				return err
			}
			fmt.Println("Successfully reverted last migration")
			return nil
		},
	}
}

func migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getDB(config.Load())
			if err != nil {
				return err
			}

			migrator := migration.NewMigrator(db)
			applied, err := migrator.AppliedVersions()
			if err != nil {
				return fmt.Errorf("failed to get applied migrations: %v", err)
			}

			fmt.Printf("%-16s  %-30s  %-8s\n", "Version", "Name", "Status")
			for _, m := range migration.Registered() {
				status := "Pending"
				if applied[m.Version] {
					status = "Applied"
				}
				fmt.Printf("%-16s  %-30s  %-8s\n", m.Version, m.Name, status)
			}
			return nil
		},
	}
}
