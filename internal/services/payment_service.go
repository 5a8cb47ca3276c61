package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/utils"
)

// PaymentConfig holds the intake settings that come from configuration.
type PaymentConfig struct {
	SiteURL  string
	Currency string
	Timeout  time.Duration
}

// CreatePaymentInput is a purchase request as submitted by the client.
type CreatePaymentInput struct {
	PaymentType string
	FullName    string
	Email       string
	Phone       string
	ItemID      *uint
	ItemName    string
	Amount      *decimal.Decimal
}

// CreatePaymentResult is returned once the checkout session exists.
type CreatePaymentResult struct {
	PaymentID   uuid.UUID
	CheckoutURL string
}

// PaymentService creates payments and their checkout sessions.
type PaymentService struct {
	payments repository.PaymentRepository
	catalog  repository.CatalogRepository
	gateway  CheckoutGateway
	cfg      PaymentConfig
	logger   *zap.Logger
}

func NewPaymentService(payments repository.PaymentRepository, catalog repository.CatalogRepository, gateway CheckoutGateway, cfg PaymentConfig, logger *zap.Logger) *PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &PaymentService{
		payments: payments,
		catalog:  catalog,
		gateway:  gateway,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreatePayment validates the request, records a pending payment and opens a
// checkout session for it. For books and courses the name and price always
// come from the catalog.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*CreatePaymentResult, error) {
	paymentType := models.PaymentType(strings.ToLower(strings.TrimSpace(in.PaymentType)))
	if !paymentType.Valid() {
		return nil, fieldError(ErrInvalidPaymentType, "payment_type", "must be one of: service, book, course")
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, fieldError(ErrMissingField, "full_name", "this field is required")
	}
	email := strings.TrimSpace(in.Email)
	if !utils.IsEmail(email) {
		return nil, fieldError(ErrMissingField, "email", "enter a valid email address")
	}

	payment := &models.Payment{
		PaymentType: paymentType,
		Quantity:    1,
		Currency:    s.cfg.Currency,
		FullName:    fullName,
		Email:       email,
		Status:      models.PaymentStatusPending,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		payment.Phone = &phone
	}

	if err := s.snapshotItem(ctx, payment, in); err != nil {
		return nil, err
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_type", string(payment.PaymentType)),
	)

	gatewayCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	sess, err := s.gateway.CreateSession(gatewayCtx, SessionRequest{
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		CustomerEmail: payment.Email,
		SuccessURL:    s.cfg.SiteURL + "/payment-success",
		CancelURL:     s.cfg.SiteURL + "/payment-cancel",
		Description:   payment.ItemName,
		Reference:     payment.ID.String(),
	})
	if err != nil {
		log.Error("checkout session creation failed", zap.Error(err))
		if errors.Is(err, ErrInvalidAmount) {
			return nil, fieldError(ErrInvalidAmount, "amount", "must be greater than zero")
		}
		if !errors.Is(err, ErrGatewayUnavailable) {
			err = errors.Join(ErrGatewayUnavailable, err)
		}
		return nil, err
	}

	if err := s.payments.AttachSession(ctx, payment.ID, sess.ID); err != nil {
		log.Error("failed to attach checkout session", zap.String("session_id", sess.ID), zap.Error(err))
		return nil, err
	}

	log.Info("checkout session created", zap.String("session_id", sess.ID))

	return &CreatePaymentResult{PaymentID: payment.ID, CheckoutURL: sess.URL}, nil
}

func (s *PaymentService) snapshotItem(ctx context.Context, payment *models.Payment, in CreatePaymentInput) error {
	switch payment.PaymentType {
	case models.PaymentTypeBook:
		if in.ItemID == nil {
			return fieldError(ErrItemNotFound, "item_id", "book not found")
		}
		book, err := s.catalog.FindBook(ctx, *in.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fieldError(ErrItemNotFound, "item_id", "book not found")
			}
			return err
		}
		id := book.ID
		payment.ItemID = &id
		payment.ItemName = book.Title
		payment.Amount = book.Price

	case models.PaymentTypeCourse:
		if in.ItemID == nil {
			return fieldError(ErrItemNotFound, "item_id", "course not found")
		}
		course, err := s.catalog.FindCourse(ctx, *in.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fieldError(ErrItemNotFound, "item_id", "course not found")
			}
			return err
		}
		id := course.ID
		payment.ItemID = &id
		payment.ItemName = course.Title
		payment.Amount = course.Price

	case models.PaymentTypeService:
		name := strings.TrimSpace(in.ItemName)
		if name == "" {
			return fieldError(ErrMissingField, "item_name", "item_name and amount are required for services")
		}
		if in.Amount == nil || !in.Amount.IsPositive() {
			return fieldError(ErrMissingField, "amount", "item_name and amount are required for services")
		}
		payment.ItemName = name
		payment.Amount = in.Amount.Round(2)
	}

	// Reject amounts the gateway would refuse before anything is stored.
	if _, err := ToMinorUnits(payment.Amount); err != nil {
		return fieldError(ErrInvalidAmount, "amount", "must be greater than zero")
	}

	return nil
}
