package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentcore/internal/config"
	"rentcore/internal/worker"
)

func SweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Notify tenants of leases ending soon",
		Long:  `Scans for running leases ending within the configured window and writes a LEASE_ENDING notification per lease. With --schedule, keeps running on the SWEEP_CRON expression until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, _ := cmd.Flags().GetBool("schedule")
			console, _ := cmd.Flags().GetBool("console-log")

			cfg := config.Load()
			logger, err := getLogger(cfg, console)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc, err := buildStack(cfg, logger)
			if err != nil {
				return err
			}

			sweeper := worker.NewSweeper(svc.db, svc.coordinator, svc.notifier, logger, cfg.SweepWindow)

			if schedule {
				fmt.Printf("Sweeping on schedule %q (window %d days)\n", cfg.SweepCron, cfg.SweepWindow)
				return sweeper.Start(cmd.Context(), cfg.SweepCron)
			}

			sent, err := sweeper.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Sweep complete: %d notification(s) sent\n", sent)
			return nil
		},
	}

	cmd.Flags().Bool("schedule", false, "Run continuously on the SWEEP_CRON schedule")
	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	return cmd
}
