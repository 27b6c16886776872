package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentcore/internal/config"
	"rentcore/internal/models"
)

func IssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage move-in issues",
	}
	cmd.AddCommand(issueDecideCmd())
	return cmd
}

func issueDecideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide [issueID] [APPROVE|ACCEPTED|REJECT]",
		Short: "Record the admin decision on a move-in issue",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			console, _ := cmd.Flags().GetBool("console-log")

			issueID, err := parseID(args[0], "move-in issue")
			if err != nil {
				return err
			}
			decision := models.AdminDecision(args[1])

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

			if err := svc.coordinator.ResolveMoveInIssue(cmd.Context(), issueID, decision); err != nil {
				return err
			}

			fmt.Printf("Move-in issue %d decided: %s\n", issueID, decision)
			for _, approved := range models.ApproveEquivalentDecisions {
				if decision == approved {
					fmt.Println("Run 'rentcore terminate <leaseID>' to apply the termination cascade.")
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	return cmd
}
