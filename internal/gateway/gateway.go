// Package gateway holds the refund side of the payment integrations. Each
// provider implements Refunder; the Registry picks an implementation by the
// gateway name stored on the payment record.
package gateway

import (
	"context"

	"go.uber.org/zap"

	"rentcore/internal/models"
)

type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Result is the per-payment outcome of a refund attempt.
type Result struct {
	PaymentID         uint    `json:"payment_id"`
	Gateway           string  `json:"gateway"`
	Outcome           Outcome `json:"outcome"`
	ProviderReference string  `json:"provider_reference,omitempty"`
	// ProviderCall names the external system that was actually contacted,
	// or "none" for gateways that only flip local state. Callers use this
	// to tell a real refund apart from a bookkeeping-only one.
	ProviderCall string `json:"provider_call"`
	ErrorDetail  string `json:"error_detail,omitempty"`
}

// Refunder issues a refund for a single payment. A returned error means this
// payment could not be refunded; it never aborts sibling payments.
type Refunder interface {
	Refund(ctx context.Context, payment *models.Payment) (Result, error)
}

// Registry maps gateway names to refund strategies. Unknown or unconfigured
// gateways fall back to a local-only strategy so a batch refund degrades
// instead of failing outright.
type Registry struct {
	refunders map[string]Refunder
	fallback  Refunder
	logger    *zap.Logger
}

func NewRegistry(logger *zap.Logger, stripe Refunder) *Registry {
	return &Registry{
		refunders: map[string]Refunder{
			models.GatewayStripe: stripe,
			models.GatewayPayU:   NewLocalRefunder(models.GatewayPayU, logger),
			models.GatewayP24:    NewLocalRefunder(models.GatewayP24, logger),
			models.GatewayTpay:   NewLocalRefunder(models.GatewayTpay, logger),
		},
		fallback: NewLocalRefunder("UNKNOWN", logger),
		logger:   logger,
	}
}

// Set overrides the strategy for a gateway name (used by tests and staged
// rollouts of real provider integrations).
func (r *Registry) Set(gateway string, refunder Refunder) {
	r.refunders[gateway] = refunder
}

// For returns the refund strategy for the given gateway name.
func (r *Registry) For(gateway string) Refunder {
	if refunder, ok := r.refunders[gateway]; ok {
		return refunder
	}
	r.logger.Warn("no refund strategy configured for gateway, using local fallback",
		zap.String("gateway", gateway))
	return r.fallback
}
