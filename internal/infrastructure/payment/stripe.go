package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

var _ application.PaymentGateway = (*StripeGateway)(nil)

// StripeConfig holds the Stripe credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

func (c StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return errors.New("stripe: secret key is required")
	}
	if c.WebhookSecret == "" {
		return errors.New("stripe: webhook secret is required")
	}
	return nil
}

// StripeGateway creates PaymentIntents and verifies Stripe webhooks.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeGateway builds a gateway. backends may be nil to use the default HTTP backends.
func NewStripeGateway(cfg StripeConfig, backends *stripe.Backends, logger *zap.Logger) (*StripeGateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeGateway{
		api:           client.New(cfg.SecretKey, backends),
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}, nil
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreateIntent(ctx context.Context, req application.IntentRequest) (*application.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.Amount.MinorUnits()),
		Currency:    stripe.String(req.Amount.Currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("payment-" + req.PaymentID)
	params.AddMetadata("payment_id", req.PaymentID)
	params.AddMetadata("service_id", req.ServiceID)
	params.AddMetadata("buyer_id", req.BuyerID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error("stripe payment intent failed", zap.String("payment_id", req.PaymentID), zap.Error(err))
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return &application.Intent{ProviderRef: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseEvent verifies the Stripe-Signature header and extracts the PaymentIntent ID.
func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		g.logger.Warn("stripe webhook signature rejected", zap.Error(err))
		return nil, domain.Invalid("signature", "verification failed")
	}

	result := &domain.PaymentEvent{ID: event.ID, Type: domain.PaymentEventType(event.Type)}
	if event.Data == nil {
		return result, nil
	}
	switch domain.PaymentEventType(event.Type) {
	case domain.PaymentEventSucceeded, domain.PaymentEventFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, domain.Invalid("payload", "payment intent is malformed")
		}
		result.ProviderRef = pi.ID
	case domain.PaymentEventRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, domain.Invalid("payload", "charge is malformed")
		}
		if charge.PaymentIntent != nil {
			result.ProviderRef = charge.PaymentIntent.ID
		}
	}
	return result, nil
}
