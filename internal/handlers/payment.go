package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/example/mrzion/internal/services"
)

// PaymentCreator starts a checkout for a purchase.
type PaymentCreator interface {
	CreatePayment(ctx context.Context, in services.CreatePaymentInput) (*services.CreatePaymentResult, error)
}

// WebhookProcessor applies verified provider events.
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*services.WebhookResult, error)
}

// PaymentHandler exposes checkout creation and the provider webhook.
type PaymentHandler struct {
	payments PaymentCreator
	webhooks WebhookProcessor
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments PaymentCreator, webhooks WebhookProcessor) *PaymentHandler {
	return &PaymentHandler{payments: payments, webhooks: webhooks}
}

type createPaymentRequest struct {
	PaymentType string           `json:"payment_type"`
	FullName    string           `json:"full_name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	ItemID      *uint            `json:"item_id"`
	ItemName    string           `json:"item_name"`
	Amount      *decimal.Decimal `json:"amount"`
}

// CreatePayment records a pending payment and returns the hosted checkout URL.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	res, err := h.payments.CreatePayment(c.UserContext(), services.CreatePaymentInput{
		PaymentType: req.PaymentType,
		FullName:    req.FullName,
		Email:       strings.TrimSpace(req.Email),
		Phone:       req.Phone,
		ItemID:      req.ItemID,
		ItemName:    req.ItemName,
		Amount:      req.Amount,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"payment_id":   res.PaymentID,
		"checkout_url": res.CheckoutURL,
	})
}

// Webhook receives provider events. The raw body is passed through untouched
// because the signature covers the exact bytes.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)

	if _, err := h.webhooks.HandleWebhook(c.UserContext(), payload, c.Get("Stripe-Signature")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"received": true})
}
