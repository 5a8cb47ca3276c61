package services

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
)

// EventDeduper remembers provider event ids that were fully processed.
type EventDeduper interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	// MarkProcessed records eventID once its effects are durable.
	MarkProcessed(ctx context.Context, eventID string) error
}

// PaymentEventPublisher broadcasts applied status changes.
type PaymentEventPublisher interface {
	Publish(ctx context.Context, event models.PaymentEvent) error
}

// StatusChangeHandler reacts to a committed status change.
type StatusChangeHandler interface {
	OnStatusChange(ctx context.Context, payment *models.Payment, previous, current models.PaymentStatus) error
}

// WebhookAction describes what a delivery did.
type WebhookAction string

const (
	WebhookApplied   WebhookAction = "applied"
	WebhookNoop      WebhookAction = "noop"
	WebhookIgnored   WebhookAction = "ignored"
	WebhookDuplicate WebhookAction = "duplicate"
)

// WebhookResult is returned for every acknowledged delivery.
type WebhookResult struct {
	EventID   string
	EventType string
	SessionID string
	Action    WebhookAction
	Status    models.PaymentStatus
}

// WebhookService reconciles payment status with provider events.
type WebhookService struct {
	payments   repository.PaymentRepository
	gateway    CheckoutGateway
	dispatcher StatusChangeHandler
	deduper    EventDeduper
	publisher  PaymentEventPublisher
	logger     *zap.Logger
}

func NewWebhookService(payments repository.PaymentRepository, gateway CheckoutGateway, dispatcher StatusChangeHandler, deduper EventDeduper, publisher PaymentEventPublisher, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		payments:   payments,
		gateway:    gateway,
		dispatcher: dispatcher,
		deduper:    deduper,
		publisher:  publisher,
		logger:     logger,
	}
}

// targetStatus maps an event to the status it moves a pending payment to.
func targetStatus(event *WebhookEvent) (models.PaymentStatus, bool) {
	switch stripe.EventType(event.Type) {
	case stripe.EventTypeCheckoutSessionCompleted:
		if event.PaymentStatus == string(stripe.CheckoutSessionPaymentStatusUnpaid) {
			return "", false
		}
		return models.PaymentStatusSuccess, true
	case stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		return models.PaymentStatusSuccess, true
	case stripe.EventTypeCheckoutSessionExpired:
		return models.PaymentStatusExpired, true
	case stripe.EventTypeCheckoutSessionAsyncPaymentFailed:
		return models.PaymentStatusFailed, true
	}
	return "", false
}

// HandleWebhook verifies a delivery and applies it. Every verified event is
// acknowledged, including ones that match no payment. An error is returned
// only when the effects of the event may not be durable, so the provider
// redelivers it.
func (s *WebhookService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		s.logger.Warn("rejected webhook", zap.Error(err))
		return nil, err
	}

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: event.Type,
		SessionID: event.SessionID,
		Action:    WebhookIgnored,
	}

	log := s.logger.With(
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("session_id", event.SessionID),
	)

	target, ok := targetStatus(event)
	if !ok || event.SessionID == "" {
		log.Debug("webhook ignored")
		return result, nil
	}

	if s.seen(ctx, event.ID, log) {
		log.Info("duplicate webhook delivery")
		result.Action = WebhookDuplicate
		return result, nil
	}

	applied, err := s.payments.TransitionStatus(ctx, event.SessionID, models.PaymentStatusPending, target)
	if err != nil {
		log.Error("failed to apply status transition", zap.Error(err))
		return nil, err
	}

	if applied {
		result.Action = WebhookApplied
		result.Status = target
		err = s.afterTransition(ctx, event.SessionID, target, log)
	} else {
		result.Action = WebhookNoop
		if target == models.PaymentStatusSuccess {
			err = s.resumeFulfillment(ctx, event.SessionID, log)
		}
	}
	if err != nil {
		return nil, err
	}

	s.markProcessed(ctx, event.ID, log)
	return result, nil
}

func (s *WebhookService) afterTransition(ctx context.Context, sessionID string, target models.PaymentStatus, log *zap.Logger) error {
	payment, err := s.payments.FindBySessionID(ctx, sessionID)
	if err != nil {
		log.Error("failed to reload payment after transition", zap.Error(err))
		return err
	}

	log.Info("payment status updated",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(target)),
	)

	s.publish(ctx, payment, log)

	if target != models.PaymentStatusSuccess || s.dispatcher == nil {
		return nil
	}
	return s.dispatcher.OnStatusChange(ctx, payment, models.PaymentStatusPending, target)
}

// resumeFulfillment finishes a payment that reached success on an earlier
// delivery but was never fulfilled. The fulfillment claim keeps it to one email.
func (s *WebhookService) resumeFulfillment(ctx context.Context, sessionID string, log *zap.Logger) error {
	payment, err := s.payments.FindBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("no pending payment for session")
		return nil
	}
	if err != nil {
		log.Error("failed to load payment", zap.Error(err))
		return err
	}
	if payment.Status != models.PaymentStatusSuccess || payment.Fulfilled || s.dispatcher == nil {
		log.Info("no pending payment for session", zap.String("status", string(payment.Status)))
		return nil
	}

	log.Warn("resuming fulfillment of successful payment", zap.String("payment_id", payment.ID.String()))
	return s.dispatcher.OnStatusChange(ctx, payment, models.PaymentStatusPending, models.PaymentStatusSuccess)
}

func (s *WebhookService) publish(ctx context.Context, payment *models.Payment, log *zap.Logger) {
	if s.publisher == nil {
		return
	}
	event := models.PaymentEvent{
		Type:        "payment." + string(payment.Status),
		PaymentID:   payment.ID,
		PaymentType: payment.PaymentType,
		ItemID:      payment.ItemID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Email:       payment.Email,
		Status:      payment.Status,
		Timestamp:   time.Now().Unix(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish payment event", zap.Error(err))
	}
}

func (s *WebhookService) seen(ctx context.Context, eventID string, log *zap.Logger) bool {
	if eventID == "" || s.deduper == nil {
		return false
	}
	seen, err := s.deduper.Seen(ctx, eventID)
	if err != nil {
		log.Warn("event de-duplication unavailable", zap.Error(err))
		return false
	}
	return seen
}

func (s *WebhookService) markProcessed(ctx context.Context, eventID string, log *zap.Logger) {
	if eventID == "" || s.deduper == nil {
		return
	}
	if err := s.deduper.MarkProcessed(ctx, eventID); err != nil {
		log.Warn("failed to record processed event", zap.Error(err))
	}
}
