package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentcore/internal/config"
	"rentcore/internal/lifecycle"
)

func OfferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Manage offers against rental requests",
	}
	cmd.AddCommand(offerCreateCmd(), offerAcceptCmd(), offerPayCmd(), offerCancelCmd())
	return cmd
}

func offerCoordinator(cmd *cobra.Command) (*lifecycle.Coordinator, error) {
	console, _ := cmd.Flags().GetBool("console-log")

	cfg := config.Load()
	logger, err := getLogger(cfg, console)
	if err != nil {
		return nil, err
	}

	svc, err := buildStack(cfg, logger)
	if err != nil {
		return nil, err
	}
	return svc.coordinator, nil
}

func offerCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pending offer and lock the rental request",
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, _ := cmd.Flags().GetUint("request")
			propertyID, _ := cmd.Flags().GetUint("property")
			landlordID, _ := cmd.Flags().GetUint("landlord")
			months, _ := cmd.Flags().GetInt("months")
			rent, _ := cmd.Flags().GetFloat64("rent")
			deposit, _ := cmd.Flags().GetFloat64("deposit")

			coordinator, err := offerCoordinator(cmd)
			if err != nil {
				return err
			}

			offer, err := coordinator.CreateOffer(cmd.Context(), lifecycle.CreateOfferParams{
				RentalRequestID:     requestID,
				PropertyID:          propertyID,
				LandlordID:          landlordID,
				LeaseDurationMonths: months,
				MonthlyRent:         rent,
				Deposit:             deposit,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created offer %d against rental request %d\n", offer.ID, requestID)
			return nil
		},
	}

	cmd.Flags().Uint("request", 0, "Rental request id")
	cmd.Flags().Uint("property", 0, "Property id")
	cmd.Flags().Uint("landlord", 0, "Landlord user id")
	cmd.Flags().Int("months", 12, "Lease duration in months")
	cmd.Flags().Float64("rent", 0, "Monthly rent")
	cmd.Flags().Float64("deposit", 0, "Deposit amount")
	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	_ = cmd.MarkFlagRequired("request")
	_ = cmd.MarkFlagRequired("property")
	_ = cmd.MarkFlagRequired("landlord")
	return cmd
}

func offerAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept [offerID]",
		Short: "Accept a pending offer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offerID, err := parseID(args[0], "offer")
			if err != nil {
				return err
			}

			coordinator, err := offerCoordinator(cmd)
			if err != nil {
				return err
			}

			if err := coordinator.AcceptOffer(cmd.Context(), offerID); err != nil {
				return err
			}
			fmt.Printf("Offer %d accepted\n", offerID)
			return nil
		},
	}
	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	return cmd
}

func offerPayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay [offerID]",
		Short: "Mark an accepted offer as paid and create the lease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offerID, err := parseID(args[0], "offer")
			if err != nil {
				return err
			}

			coordinator, err := offerCoordinator(cmd)
			if err != nil {
				return err
			}

			lease, err := coordinator.MarkOfferPaid(cmd.Context(), offerID)
			if err != nil {
				return err
			}
			fmt.Printf("Offer %d paid, lease %d runs %s to %s\n",
				offerID, lease.ID,
				lease.StartDate.Format("2006-01-02"),
				lease.EndDate.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	return cmd
}

func offerCancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel [offerID]",
		Short: "Cancel an unpaid offer and unlock its rental request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offerID, err := parseID(args[0], "offer")
			if err != nil {
				return err
			}

			coordinator, err := offerCoordinator(cmd)
			if err != nil {
				return err
			}

			if err := coordinator.CancelOffer(cmd.Context(), offerID); err != nil {
				return err
			}
			fmt.Printf("Offer %d cancelled\n", offerID)
			return nil
		},
	}
	cmd.Flags().Bool("console-log", false, "Log in console format instead of JSON")
	return cmd
}
