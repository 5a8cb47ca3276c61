package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// SessionRequest describes a hosted checkout page for one item.
type SessionRequest struct {
	Amount        decimal.Decimal
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Description   string
	Reference     string
}

// CheckoutSession is the provider's answer to a SessionRequest.
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is the verified subset of a provider event we act on.
type WebhookEvent struct {
	ID            string
	Type          string
	SessionID     string
	PaymentStatus string
}

// CheckoutGateway is the narrow interface to the hosted checkout provider.
type CheckoutGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*CheckoutSession, error)
	ParseEvent(payload []byte, signature string) (*WebhookEvent, error)
}

// StripeService talks to Stripe Checkout.
type StripeService struct {
	sessions   *session.Client
	webhookKey string
}

func NewStripeService(secretKey, webhookKey string, timeout time.Duration) *StripeService {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	})
	return &StripeService{
		sessions:   &session.Client{B: backend, Key: secretKey},
		webhookKey: webhookKey,
	}
}

// ToMinorUnits converts a currency amount to the provider's smallest unit.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	minor := amount.Mul(decimal.NewFromInt(100)).Round(0)
	if !minor.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

func (s *StripeService) CreateSession(ctx context.Context, req SessionRequest) (*CheckoutSession, error) {
	unitAmount, err := ToMinorUnits(req.Amount)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(req.CustomerEmail),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Reference != "" {
		params.ClientReferenceID = stripe.String(req.Reference)
		params.AddMetadata("payment_id", req.Reference)
	}
	params.Context = ctx

	sess, err := s.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseEvent verifies the Stripe-Signature header against the signing secret
// before the payload is decoded.
func (s *StripeService) ParseEvent(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookKey, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	parsed := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return parsed, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	parsed.SessionID = sess.ID
	parsed.PaymentStatus = string(sess.PaymentStatus)

	return parsed, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrTooOld)
}
