package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentcore/internal/config"
	"rentcore/internal/gateway"
)

func RefundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refund [offerID]",
		Short: "Refund all open payments of an offer",
		Long:  `Dispatches a refund for every non-terminal payment attached to the offer. Payments are processed independently; a failing gateway is reported per payment and does not abort the batch.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			console, _ := cmd.Flags().GetBool("console-log")

			offerID, err := parseID(args[0], "offer")
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

			results, err := svc.coordinator.RefundOfferPayments(cmd.Context(), offerID)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No open payments to refund.")
				return nil
			}

			printResults(results)
			failed := 0
			for _, r := range results {
				if r.Outcome == gateway.OutcomeError {
					failed++
				}
			}
			if failed > 0 {
				fmt.Printf("%d of %d refund(s) need manual retry\n", failed, len(results))
			} else {
				fmt.Printf("All %d refund(s) processed\n", len(results))
			}
			return nil
		},
	}

	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	return cmd
}
