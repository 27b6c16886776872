// Package lifecycle implements the lease lifecycle coordinator: the atomic
// multi-entity cascades that move RentalRequest, Offer, Lease, Property,
// Payment and Conversation records together, and the refund dispatch that
// precedes a termination.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rentcore/internal/gateway"
	"rentcore/internal/models"
	"rentcore/internal/notify"
)

// Coordinator applies lifecycle transitions. Every mutating operation runs
// inside a single database transaction; readers see either the pre-cascade
// or the fully post-cascade state, never an intermediate one.
type Coordinator struct {
	db       *gorm.DB
	logger   *zap.Logger
	clock    Clock
	gateways *gateway.Registry
	notifier notify.Notifier
}

func NewCoordinator(db *gorm.DB, logger *zap.Logger, clock Clock, gateways *gateway.Registry, notifier notify.Notifier) *Coordinator {
	return &Coordinator{
		db:       db,
		logger:   logger,
		clock:    clock,
		gateways: gateways,
		notifier: notifier,
	}
}

// updateOne applies fields to exactly one row and fails when the row is
// missing, so a bad reference inside a cascade forces a rollback instead of
// silently skipping an entity.
func updateOne(tx *gorm.DB, model interface{}, id uint, fields map[string]interface{}) error {
	result := tx.Model(model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: %T %d not found during cascade", ErrInvariant, model, id)
	}
	return nil
}

// CreateOfferParams carries the lease terms of a new landlord proposal.
type CreateOfferParams struct {
	RentalRequestID     uint
	PropertyID          uint
	LandlordID          uint
	LeaseDurationMonths int
	MonthlyRent         float64
	Deposit             float64
}

// CreateOffer creates a PENDING offer against a rental request and locks the
// request in the same transaction. A locked request refuses a second offer.
func (c *Coordinator) CreateOffer(ctx context.Context, params CreateOfferParams) (*models.Offer, error) {
	var offer models.Offer

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.RentalRequest
		if err := tx.First(&request, params.RentalRequestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("rental request %d: %w", params.RentalRequestID, ErrNotFound)
			}
			return err
		}
		if request.IsLocked {
			return fmt.Errorf("rental request %d: %w", request.ID, ErrRequestLocked)
		}
		if request.PoolStatus != models.PoolActive {
			return fmt.Errorf("%w: rental request %d is %s", ErrBadTransition, request.ID, request.PoolStatus)
		}

		var property models.Property
		if err := tx.First(&property, params.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("property %d: %w", params.PropertyID, ErrNotFound)
			}
			return err
		}
		if property.Status != models.PropertyAvailable {
			return fmt.Errorf("property %d is %s: %w", property.ID, property.Status, ErrPropertyUnavailable)
		}

		offer = models.Offer{
			RentalRequestID:     request.ID,
			PropertyID:          property.ID,
			TenantID:            request.TenantID,
			LandlordID:          params.LandlordID,
			Status:              models.OfferPending,
			LeaseStart:          request.MoveInFrom,
			LeaseDurationMonths: params.LeaseDurationMonths,
			MonthlyRent:         params.MonthlyRent,
			Deposit:             params.Deposit,
		}
		if err := tx.Create(&offer).Error; err != nil {
			return err
		}

		return updateOne(tx, &models.RentalRequest{}, request.ID, map[string]interface{}{
			"is_locked": true,
			"status":    models.OfferPending,
		})
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("offer created",
		zap.Uint("offer_id", offer.ID),
		zap.Uint("rental_request_id", offer.RentalRequestID),
	)
	return &offer, nil
}

// AcceptOffer moves a PENDING offer to ACCEPTED.
func (c *Coordinator) AcceptOffer(ctx context.Context, offerID uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offer, err := loadOffer(tx, offerID)
		if err != nil {
			return err
		}
		if offer.Status != models.OfferPending {
			return fmt.Errorf("%w: offer %d is %s, want PENDING", ErrBadTransition, offer.ID, offer.Status)
		}

		if err := updateOne(tx, &models.Offer{}, offer.ID, map[string]interface{}{
			"status": models.OfferAccepted,
		}); err != nil {
			return err
		}
		return updateOne(tx, &models.RentalRequest{}, offer.RentalRequestID, map[string]interface{}{
			"status": models.OfferAccepted,
		})
	})
}

// MarkOfferPaid moves an ACCEPTED offer to PAID, completes its pending
// payments, materializes the lease and takes the property off the market.
// PAID is the only state a lease is ever created from, and only from an
// AVAILABLE property.
func (c *Coordinator) MarkOfferPaid(ctx context.Context, offerID uint) (*models.Lease, error) {
	var lease models.Lease
	now := c.clock.Now()

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		offer, err := loadOffer(tx, offerID)
		if err != nil {
			return err
		}
		if offer.Status != models.OfferAccepted {
			return fmt.Errorf("%w: offer %d is %s, want ACCEPTED", ErrBadTransition, offer.ID, offer.Status)
		}

		// Re-checked here, not only at offer creation: another offer on the
		// same unit may have been paid in the meantime, and a second active
		// lease must never exist.
		var property models.Property
		if err := tx.First(&property, offer.PropertyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: offer %d references missing property %d", ErrInvariant, offer.ID, offer.PropertyID)
			}
			return err
		}
		if property.Status != models.PropertyAvailable {
			return fmt.Errorf("property %d is %s: %w", property.ID, property.Status, ErrPropertyUnavailable)
		}

		if err := updateOne(tx, &models.Offer{}, offer.ID, map[string]interface{}{
			"status":       models.OfferPaid,
			"is_paid":      true,
			"payment_date": now,
		}); err != nil {
			return err
		}

		if err := tx.Model(&models.Payment{}).
			Where("offer_id = ? AND status = ?", offer.ID, models.PaymentPending).
			Update("status", models.PaymentCompleted).Error; err != nil {
			return err
		}

		lease = models.Lease{
			OfferID:    offer.ID,
			PropertyID: offer.PropertyID,
			TenantID:   offer.TenantID,
			Status:     models.LeaseActive,
			StartDate:  offer.LeaseStart,
			EndDate:    offer.LeaseStart.AddDate(0, offer.LeaseDurationMonths, 0),
		}
		if err := tx.Create(&lease).Error; err != nil {
			return err
		}

		if err := updateOne(tx, &models.Property{}, offer.PropertyID, map[string]interface{}{
			"status":       models.PropertyRented,
			"availability": false,
		}); err != nil {
			return err
		}

		return updateOne(tx, &models.RentalRequest{}, offer.RentalRequestID, map[string]interface{}{
			"pool_status": models.PoolMatched,
			"status":      models.OfferPaid,
		})
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("offer paid, lease created",
		zap.Uint("offer_id", offerID),
		zap.Uint("lease_id", lease.ID),
	)
	return &lease, nil
}

// CancelOffer applies the pre-lease rejection cascade: the offer becomes
// CANCELLED, the rental request returns to the pool unlocked and the offer's
// conversations are archived. Paid offers are refused; terminating a paid
// offer means terminating its lease.
func (c *Coordinator) CancelOffer(ctx context.Context, offerID uint) error {
	var offer *models.Offer

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		offer, err = loadOffer(tx, offerID)
		if err != nil {
			return err
		}
		if offer.Status.Terminal() {
			return fmt.Errorf("%w: offer %d already %s", ErrBadTransition, offer.ID, offer.Status)
		}
		if offer.IsPaid || offer.Status == models.OfferPaid {
			return fmt.Errorf("offer %d: %w", offer.ID, ErrOfferPaid)
		}

		if err := updateOne(tx, &models.Offer{}, offer.ID, map[string]interface{}{
			"status": models.OfferCancelled,
		}); err != nil {
			return err
		}
		if err := updateOne(tx, &models.RentalRequest{}, offer.RentalRequestID, map[string]interface{}{
			"is_locked":   false,
			"pool_status": models.PoolActive,
			"status":      models.OfferCancelled,
		}); err != nil {
			return err
		}
		return archiveConversations(tx, offer.ID)
	})
	if err != nil {
		return err
	}

	c.logger.Info("offer cancelled", zap.Uint("offer_id", offerID))
	c.send(ctx, &models.Notification{
		UserID:  offer.TenantID,
		Kind:    notify.KindOfferCancelled,
		Payload: fmt.Sprintf("offer %d was cancelled", offerID),
	})
	return nil
}

// ResolveMoveInIssue records the admin decision on a move-in issue. It does
// not run the termination cascade itself; that is a separate, explicitly
// invoked step so refunds can be dispatched first.
func (c *Coordinator) ResolveMoveInIssue(ctx context.Context, issueID uint, decision models.AdminDecision) error {
	if !models.ValidDecision(decision) {
		return fmt.Errorf("%w: unknown admin decision %q", ErrBadTransition, decision)
	}
	now := c.clock.Now()

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issue models.MoveInIssue
		if err := tx.First(&issue, issueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("move-in issue %d: %w", issueID, ErrNotFound)
			}
			return err
		}
		if issue.DecidedAt != nil {
			return fmt.Errorf("move-in issue %d: %w", issue.ID, ErrAlreadyDecided)
		}
		if issue.LeaseID == 0 {
			return fmt.Errorf("%w: move-in issue %d has no linked lease", ErrInvariant, issue.ID)
		}

		return updateOne(tx, &models.MoveInIssue{}, issue.ID, map[string]interface{}{
			"admin_decision": decision,
			"decided_at":     now,
		})
	})
}

// terminationTarget validates the cascade preconditions without writing
// anything. It returns the lease and its offer, or ErrNoResolvedIssue /
// ErrInvariant per the error taxonomy.
func (c *Coordinator) terminationTarget(ctx context.Context, leaseID uint) (*models.Lease, *models.Offer, error) {
	db := c.db.WithContext(ctx)

	var issue models.MoveInIssue
	err := db.Where("lease_id = ? AND admin_decision IN ?", leaseID, models.ApproveEquivalentDecisions).
		First(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("lease %d: %w", leaseID, ErrNoResolvedIssue)
	}
	if err != nil {
		return nil, nil, err
	}

	var lease models.Lease
	if err := db.First(&lease, issue.LeaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: move-in issue %d references missing lease %d", ErrInvariant, issue.ID, issue.LeaseID)
		}
		return nil, nil, err
	}
	if lease.Status == models.LeaseTerminated {
		return nil, nil, fmt.Errorf("lease %d: %w", leaseID, ErrNoResolvedIssue)
	}

	var offer models.Offer
	if err := db.First(&offer, lease.OfferID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: lease %d has no linked offer", ErrInvariant, lease.ID)
		}
		return nil, nil, err
	}

	return &lease, &offer, nil
}

// ApplyTerminationCascade terminates a lease whose move-in issue carries an
// approve-equivalent admin decision. All entity updates land in one
// transaction: lease TERMINATED, offer REJECTED and unpaid, rental request
// unlocked and cancelled, property back on the market, conversations
// archived. A second invocation after success is a reported no-op.
func (c *Coordinator) ApplyTerminationCascade(ctx context.Context, leaseID uint) error {
	lease, offer, err := c.terminationTarget(ctx, leaseID)
	if err != nil {
		return err
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateOne(tx, &models.Lease{}, lease.ID, map[string]interface{}{
			"status": models.LeaseTerminated,
		}); err != nil {
			return err
		}
		if err := updateOne(tx, &models.Offer{}, offer.ID, map[string]interface{}{
			"status":       models.OfferRejected,
			"is_paid":      false,
			"payment_date": nil,
		}); err != nil {
			return err
		}
		if err := updateOne(tx, &models.RentalRequest{}, offer.RentalRequestID, map[string]interface{}{
			"is_locked":   false,
			"pool_status": models.PoolCancelled,
			"status":      models.OfferCancelled,
		}); err != nil {
			return err
		}
		if err := updateOne(tx, &models.Property{}, lease.PropertyID, map[string]interface{}{
			"status":       models.PropertyAvailable,
			"availability": true,
		}); err != nil {
			return err
		}
		return archiveConversations(tx, offer.ID)
	})
	if err != nil {
		c.logger.Error("termination cascade failed",
			zap.Uint("lease_id", leaseID),
			zap.Error(err),
		)
		return fmt.Errorf("termination cascade for lease %d: %w", leaseID, err)
	}

	c.logger.Info("lease terminated",
		zap.Uint("lease_id", lease.ID),
		zap.Uint("offer_id", offer.ID),
		zap.Uint("property_id", lease.PropertyID),
	)
	c.send(ctx, &models.Notification{
		UserID:  offer.TenantID,
		Kind:    notify.KindLeaseTerminated,
		Payload: fmt.Sprintf("lease %d was terminated", lease.ID),
		LeaseID: &lease.ID,
	})
	c.send(ctx, &models.Notification{
		UserID:  offer.LandlordID,
		Kind:    notify.KindLeaseTerminated,
		Payload: fmt.Sprintf("lease %d was terminated", lease.ID),
		LeaseID: &lease.ID,
	})
	return nil
}

// RefundOfferPayments dispatches refunds for every non-terminal payment of
// an offer. Payments are processed independently: one gateway failing leaves
// the others refunded, and the caller inspects the result slice for entries
// needing manual retry. This is deliberately not a single transaction.
func (c *Coordinator) RefundOfferPayments(ctx context.Context, offerID uint) ([]gateway.Result, error) {
	db := c.db.WithContext(ctx)

	var offer models.Offer
	if err := db.First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("offer %d: %w", offerID, ErrNotFound)
		}
		return nil, err
	}

	var payments []models.Payment
	if err := db.Where("offer_id = ? AND status <> ?", offerID, models.PaymentCancelled).
		Order("id").Find(&payments).Error; err != nil {
		return nil, err
	}

	results := make([]gateway.Result, 0, len(payments))
	for i := range payments {
		payment := &payments[i]
		result, err := c.gateways.For(payment.Gateway).Refund(ctx, payment)
		if err != nil {
			c.logger.Warn("refund failed",
				zap.Uint("payment_id", payment.ID),
				zap.String("gateway", payment.Gateway),
				zap.Error(err),
			)
			results = append(results, gateway.Result{
				PaymentID:   payment.ID,
				Gateway:     payment.Gateway,
				Outcome:     gateway.OutcomeError,
				ErrorDetail: err.Error(),
			})
			continue
		}

		// Refund landed: record the terminal status and the provider's
		// reference before anything downstream is finalized.
		if err := db.Model(&models.Payment{}).Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"status":           models.PaymentCancelled,
				"refund_reference": result.ProviderReference,
			}).Error; err != nil {
			results = append(results, gateway.Result{
				PaymentID:   payment.ID,
				Gateway:     payment.Gateway,
				Outcome:     gateway.OutcomeError,
				ErrorDetail: fmt.Sprintf("refunded but status update failed: %v", err),
			})
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// TerminateLease runs the full terminating event for a lease with a resolved
// move-in issue: refunds first, cascade second. The ordering avoids a
// double-refund race; a refund failure does not block the cascade, it shows
// up in the returned results for manual follow-up.
func (c *Coordinator) TerminateLease(ctx context.Context, leaseID uint) ([]gateway.Result, error) {
	_, offer, err := c.terminationTarget(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	results, err := c.RefundOfferPayments(ctx, offer.ID)
	if err != nil {
		return results, err
	}

	return results, c.ApplyTerminationCascade(ctx, leaseID)
}

// RenewLease extends an ACTIVE lease by the given number of months and marks
// it RENEWED. The property stays rented throughout.
func (c *Coordinator) RenewLease(ctx context.Context, leaseID uint, months int) (*models.Lease, error) {
	if months <= 0 {
		return nil, fmt.Errorf("%w: renewal requires a positive month count", ErrBadTransition)
	}

	var lease models.Lease
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&lease, leaseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("lease %d: %w", leaseID, ErrNotFound)
			}
			return err
		}
		if lease.Status != models.LeaseActive && lease.Status != models.LeaseRenewed {
			return fmt.Errorf("%w: lease %d is %s", ErrBadTransition, lease.ID, lease.Status)
		}

		lease.Status = models.LeaseRenewed
		lease.EndDate = lease.EndDate.AddDate(0, months, 0)
		return updateOne(tx, &models.Lease{}, lease.ID, map[string]interface{}{
			"status":   lease.Status,
			"end_date": lease.EndDate,
		})
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("lease renewed",
		zap.Uint("lease_id", lease.ID),
		zap.Int("months", months),
		zap.Time("new_end_date", lease.EndDate),
	)
	c.send(ctx, &models.Notification{
		UserID:  lease.TenantID,
		Kind:    notify.KindLeaseRenewed,
		Payload: fmt.Sprintf("lease %d renewed until %s", lease.ID, lease.EndDate.Format("2006-01-02")),
		LeaseID: &lease.ID,
	})
	return &lease, nil
}

func (c *Coordinator) send(ctx context.Context, notification *models.Notification) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(ctx, notification); err != nil {
		c.logger.Error("failed to deliver notification",
			zap.Uint("user_id", notification.UserID),
			zap.String("kind", notification.Kind),
			zap.Error(err),
		)
	}
}

func loadOffer(tx *gorm.DB, offerID uint) (*models.Offer, error) {
	var offer models.Offer
	if err := tx.First(&offer, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("offer %d: %w", offerID, ErrNotFound)
		}
		return nil, err
	}
	return &offer, nil
}

func archiveConversations(tx *gorm.DB, offerID uint) error {
	// Zero archived conversations is fine; an offer may have none.
	return tx.Model(&models.Conversation{}).
		Where("offer_id = ?", offerID).
		Update("status", models.ConversationArchived).Error
}
