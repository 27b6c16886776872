package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rentcore/internal/gateway"
	"rentcore/internal/lifecycle"
	"rentcore/internal/migration"
	"rentcore/internal/models"
	"rentcore/internal/notify"
	"rentcore/internal/worker"
)

var sweepNow = time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

func setupSweeper(t *testing.T) (*worker.Sweeper, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.NewMigrator(db).Up())

	logger := zap.NewNop()
	clock := lifecycle.ClockFunc(func() time.Time { return sweepNow })
	registry := gateway.NewRegistry(logger, gateway.NewStripeRefunder("", "", logger))
	notifier := notify.NewStreamNotifier(db, nil, "test", logger)
	coordinator := lifecycle.NewCoordinator(db, logger, clock, registry, notifier)

	return worker.NewSweeper(db, coordinator, notifier, logger, 30), db
}

func TestSweepNotifiesEndingLeases(t *testing.T) {
	sweeper, db := setupSweeper(t)

	ending := models.Lease{
		OfferID: 1, PropertyID: 1, TenantID: 11,
		Status:  models.LeaseActive,
		EndDate: sweepNow.Add(10 * 24 * time.Hour),
	}
	farOff := models.Lease{
		OfferID: 2, PropertyID: 2, TenantID: 22,
		Status:  models.LeaseActive,
		EndDate: sweepNow.Add(120 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&ending).Error)
	require.NoError(t, db.Create(&farOff).Error)

	sent, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, uint(11), notifications[0].UserID)
	assert.Equal(t, notify.KindLeaseEnding, notifications[0].Kind)
	require.NotNil(t, notifications[0].LeaseID)
	assert.Equal(t, ending.ID, *notifications[0].LeaseID)
}

func TestSweepDoesNotNotifyTwice(t *testing.T) {
	sweeper, db := setupSweeper(t)

	lease := models.Lease{
		OfferID: 1, PropertyID: 1, TenantID: 11,
		Status:  models.LeaseActive,
		EndDate: sweepNow.Add(10 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&lease).Error)

	sent, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	sent, err = sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSweepIgnoresTerminatedLeases(t *testing.T) {
	sweeper, db := setupSweeper(t)

	lease := models.Lease{
		OfferID: 1, PropertyID: 1, TenantID: 11,
		Status:  models.LeaseTerminated,
		EndDate: sweepNow.Add(10 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&lease).Error)

	sent, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
}
