package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"rentcore/internal/config"
	"rentcore/internal/models"
)

func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [leaseID]",
		Short: "Show the lifecycle snapshot of a lease",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			leaseID, err := parseID(args[0], "lease")
			if err != nil {
				return err
			}

			cfg := config.Load()
			logger, err := getLogger(cfg, false)
			if err != nil {
				return err
			}
			defer logger.Sync()

			svc, err := buildStack(cfg, logger)
			if err != nil {
				return err
			}
			db := svc.db

			var lease models.Lease
			if err := db.First(&lease, leaseID).Error; err != nil {
				return fmt.Errorf("lease %d not found", leaseID)
			}

			var offer models.Offer
			if err := db.First(&offer, lease.OfferID).Error; err != nil {
				return fmt.Errorf("lease %d has no linked offer", leaseID)
			}

			var property models.Property
			if err := db.First(&property, lease.PropertyID).Error; err != nil {
				return fmt.Errorf("lease %d references missing property %d", leaseID, lease.PropertyID)
			}

			var payments []models.Payment
			if err := db.Where("offer_id = ?", offer.ID).Order("id").Find(&payments).Error; err != nil {
				return err
			}

			var conversations []models.Conversation
			if err := db.Where("offer_id = ?", offer.ID).Order("id").Find(&conversations).Error; err != nil {
				return err
			}

			fmt.Printf("Lease %d: %s (%s to %s, %d days remaining)\n",
				lease.ID, lease.Status,
				lease.StartDate.Format("2006-01-02"),
				lease.EndDate.Format("2006-01-02"),
				svc.coordinator.DaysUntilLeaseEnd(&lease))
			fmt.Printf("Offer %d: %s, paid=%v\n", offer.ID, offer.Status, offer.IsPaid)
			fmt.Printf("Property %d: %s, available=%v\n", property.ID, property.Status, property.Availability)

			for _, p := range payments {
				ref := p.GatewayTransactionID
				if p.RefundReference != "" {
					ref = fmt.Sprintf("%s (refund %s)", ref, p.RefundReference)
				}
				fmt.Printf("Payment %d: %s %s %.2f %s via %s %s\n",
					p.ID, p.Purpose, p.Status, p.Amount, p.Currency, p.Gateway, ref)
			}
			for _, conv := range conversations {
				fmt.Printf("Conversation %d: %s\n", conv.ID, conv.Status)
			}

			return nil
		},
	}
	return cmd
}
