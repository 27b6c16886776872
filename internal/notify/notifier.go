// Package notify persists marketplace notifications and optionally fans them
// out to a Redis Stream consumed by the delivery services.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rentcore/internal/models"
)

// Notification kinds emitted by the lifecycle coordinator and the sweeper.
const (
	KindLeaseTerminated = "LEASE_TERMINATED"
	KindOfferCancelled  = "OFFER_CANCELLED"
	KindLeaseRenewed    = "LEASE_RENEWED"
	KindLeaseEnding     = "LEASE_ENDING"
)

type Notifier interface {
	Notify(ctx context.Context, notification *models.Notification) error
}

// StreamNotifier writes the notification row and, when a Redis client is
// configured, publishes it to a stream. Publish failures are logged and
// swallowed: delivery is best-effort, the row is the source of truth.
type StreamNotifier struct {
	db     *gorm.DB
	rdb    *redis.Client
	stream string
	logger *zap.Logger
}

func NewStreamNotifier(db *gorm.DB, rdb *redis.Client, stream string, logger *zap.Logger) *StreamNotifier {
	return &StreamNotifier{db: db, rdb: rdb, stream: stream, logger: logger}
}

func (n *StreamNotifier) Notify(ctx context.Context, notification *models.Notification) error {
	if err := n.db.WithContext(ctx).Create(notification).Error; err != nil {
		return err
	}

	if n.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		n.logger.Error("failed to encode notification for stream", zap.Error(err))
		return nil
	}

	if err := n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			"data":      string(payload),
			"timestamp": time.Now().Unix(),
		},
	}).Err(); err != nil {
		n.logger.Error("failed to publish notification to stream",
			zap.String("stream", n.stream),
			zap.Uint("user_id", notification.UserID),
			zap.Error(err),
		)
	}
	return nil
}
