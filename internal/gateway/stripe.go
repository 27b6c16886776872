package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"rentcore/internal/models"
)

const defaultStripeBaseURL = "https://api.stripe.com"

type stripeRefundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeRefunder issues real refunds against the Stripe API. It is the only
// gateway with a live external integration; see LocalRefunder for the rest.
type StripeRefunder struct {
	httpClient *resty.Client
	apiKey     string
	logger     *zap.Logger
}

func NewStripeRefunder(baseURL, apiKey string, logger *zap.Logger) *StripeRefunder {
	if baseURL == "" {
		baseURL = defaultStripeBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json")

	return &StripeRefunder{
		httpClient: client,
		apiKey:     apiKey,
		logger:     logger,
	}
}

func (s *StripeRefunder) Refund(ctx context.Context, payment *models.Payment) (Result, error) {
	if s.apiKey == "" {
		return Result{}, fmt.Errorf("stripe API key not configured")
	}
	if payment.GatewayTransactionID == "" {
		return Result{}, fmt.Errorf("payment %d has no stripe transaction reference", payment.ID)
	}

	s.logger.Info("requesting stripe refund",
		zap.Uint("payment_id", payment.ID),
		zap.String("transaction_id", payment.GatewayTransactionID),
	)

	var response stripeRefundResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetFormData(map[string]string{
			"payment_intent": payment.GatewayTransactionID,
		}).
		SetResult(&response).
		SetError(&response).
		Post("/v1/refunds")
	if err != nil {
		return Result{}, fmt.Errorf("stripe refund call failed: %w", err)
	}
	if resp.IsError() {
		detail := resp.Status()
		if response.Error != nil {
			detail = response.Error.Message
		}
		return Result{}, fmt.Errorf("stripe refund rejected: %s", detail)
	}

	return Result{
		PaymentID:         payment.ID,
		Gateway:           payment.Gateway,
		Outcome:           OutcomeOK,
		ProviderReference: response.ID,
		ProviderCall:      "stripe",
	}, nil
}
