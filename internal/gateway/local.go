package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rentcore/internal/models"
)

// LocalRefunder marks a payment refunded without contacting any provider.
// PAYU, P24 and TPAY are wired this way pending real integrations; the result
// carries ProviderCall "none" so reports surface the gap instead of passing
// the payment off as externally refunded.
type LocalRefunder struct {
	gateway string
	logger  *zap.Logger
}

func NewLocalRefunder(gateway string, logger *zap.Logger) *LocalRefunder {
	return &LocalRefunder{gateway: gateway, logger: logger}
}

func (l *LocalRefunder) Refund(ctx context.Context, payment *models.Payment) (Result, error) {
	l.logger.Warn("refund handled locally, no external provider call issued",
		zap.Uint("payment_id", payment.ID),
		zap.String("gateway", payment.Gateway),
	)

	return Result{
		PaymentID:         payment.ID,
		Gateway:           payment.Gateway,
		Outcome:           OutcomeOK,
		ProviderReference: fmt.Sprintf("local-%s", uuid.NewString()),
		ProviderCall:      "none",
	}, nil
}
