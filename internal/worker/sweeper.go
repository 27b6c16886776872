// Package worker hosts background jobs around the lifecycle core. The core
// itself stays request-driven; the sweeper only produces notifications.
package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rentcore/internal/lifecycle"
	"rentcore/internal/models"
	"rentcore/internal/notify"
)

// Sweeper scans for leases ending within a window and notifies the tenant
// once per lease.
type Sweeper struct {
	db          *gorm.DB
	coordinator *lifecycle.Coordinator
	notifier    notify.Notifier
	logger      *zap.Logger
	windowDays  int
	cron        *cron.Cron
}

func NewSweeper(db *gorm.DB, coordinator *lifecycle.Coordinator, notifier notify.Notifier, logger *zap.Logger, windowDays int) *Sweeper {
	return &Sweeper{
		db:          db,
		coordinator: coordinator,
		notifier:    notifier,
		logger:      logger,
		windowDays:  windowDays,
		cron:        cron.New(),
	}
}

// RunOnce performs a single sweep and returns the number of notifications
// produced. Leases already notified for the current window are skipped.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	leases, err := s.coordinator.LeasesEndingWithin(ctx, s.windowDays)
	if err != nil {
		return 0, fmt.Errorf("failed to list ending leases: %w", err)
	}

	sent := 0
	for i := range leases {
		lease := leases[i]

		var existing int64
		if err := s.db.WithContext(ctx).Model(&models.Notification{}).
			Where("lease_id = ? AND kind = ?", lease.ID, notify.KindLeaseEnding).
			Count(&existing).Error; err != nil {
			return sent, err
		}
		if existing > 0 {
			continue
		}

		days := s.coordinator.DaysUntilLeaseEnd(&lease)
		notification := &models.Notification{
			UserID:  lease.TenantID,
			Kind:    notify.KindLeaseEnding,
			Payload: fmt.Sprintf("lease %d ends in %d days", lease.ID, days),
			LeaseID: &lease.ID,
		}
		if err := s.notifier.Notify(ctx, notification); err != nil {
			s.logger.Error("failed to notify lease ending",
				zap.Uint("lease_id", lease.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("lease-end sweep finished",
		zap.Int("window_days", s.windowDays),
		zap.Int("candidates", len(leases)),
		zap.Int("notified", sent),
	)
	return sent, nil
}

// Start schedules the sweep on the given cron expression and blocks until
// the context is cancelled.
func (s *Sweeper) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduled sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.cron.Start()
	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	return nil
}
