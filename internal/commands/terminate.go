package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rentcore/internal/config"
	"rentcore/internal/gateway"
	"rentcore/internal/lifecycle"
)

func TerminateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terminate [leaseID]",
		Short: "Refund and terminate a lease with an approved move-in issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			console, _ := cmd.Flags().GetBool("console-log")

			leaseID, err := parseID(args[0], "lease")
			if err != nil {
				return err
			}

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

			results, err := svc.coordinator.TerminateLease(cmd.Context(), leaseID)
			printResults(results)
			if err != nil {
				if errors.Is(err, lifecycle.ErrNoResolvedIssue) {
					fmt.Printf("Nothing to do: %v\n", err)
					return nil
				}
				return err
			}

			fmt.Printf("Successfully terminated lease %d\n", leaseID)
			return nil
		},
	}

	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	return cmd
}

func printResults(results []gateway.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("%-10s  %-8s  %-8s  %-24s  %s\n", "Payment", "Gateway", "Outcome", "Reference", "Detail")
	for _, r := range results {
		detail := r.ErrorDetail
		if r.Outcome == gateway.OutcomeOK && r.ProviderCall == "none" {
			detail = "no external provider call"
		}
		fmt.Printf("%-10d  %-8s  %-8s  %-24s  %s\n", r.PaymentID, r.Gateway, r.Outcome, r.ProviderReference, detail)
	}
}
