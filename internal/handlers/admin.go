package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/utils"
)

// AdminHandler manages admin-only endpoints.
type AdminHandler struct {
	payments repository.PaymentRepository
	leads    repository.LeadRepository
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(payments repository.PaymentRepository, leads repository.LeadRepository) *AdminHandler {
	return &AdminHandler{payments: payments, leads: leads}
}

// DashboardStats returns payment counts by status and revenue by type.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.payments.Stats(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// ListPayments returns payments newest first. The service, book and course
// views are the payment_type filter.
func (h *AdminHandler) ListPayments(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	filter := repository.PaymentFilter{
		Email: strings.TrimSpace(c.Query("email")),
	}
	if pt := c.Query("payment_type"); pt != "" {
		filter.PaymentType = models.PaymentType(strings.ToLower(pt))
		if !filter.PaymentType.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payment_type")
		}
	}
	if st := c.Query("status"); st != "" {
		filter.Status = models.PaymentStatus(strings.ToLower(st))
		if !filter.Status.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
	}

	payments, total, err := h.payments.List(c.UserContext(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if payments == nil {
		payments = []models.Payment{}
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       payments,
		"pagination": pg.Meta(total),
	})
}

// ListContacts returns contact form messages.
func (h *AdminHandler) ListContacts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	items, total, err := h.leads.ListContacts(c.UserContext(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.ContactMessage{}
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": pg.Meta(total)})
}

// ListStrategyCalls returns strategy call requests.
func (h *AdminHandler) ListStrategyCalls(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	items, total, err := h.leads.ListStrategyCalls(c.UserContext(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.StrategyCall{}
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": pg.Meta(total)})
}

// ListSpeakerInvitations returns speaking invitations.
func (h *AdminHandler) ListSpeakerInvitations(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	items, total, err := h.leads.ListSpeakerInvitations(c.UserContext(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	if items == nil {
		items = []models.SpeakerInvitation{}
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": pg.Meta(total)})
}
