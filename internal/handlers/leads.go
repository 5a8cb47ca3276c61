package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/services"
	"github.com/example/mrzion/internal/utils"
)

const notifyTimeout = 10 * time.Second

// LeadHandler accepts the contact, strategy call and speaker forms.
type LeadHandler struct {
	leads    repository.LeadRepository
	notifier services.AdminNotifier
	logger   *zap.Logger
	// notify runs the admin notification. Tests replace it to run inline.
	notify func(func(ctx context.Context))
}

// NewLeadHandler constructs LeadHandler. notifier may be nil.
func NewLeadHandler(leads repository.LeadRepository, notifier services.AdminNotifier, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leads:    leads,
		notifier: notifier,
		logger:   logger,
		notify: func(fn func(ctx context.Context)) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
				defer cancel()
				fn(ctx)
			}()
		},
	}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"required,max=150"`
	Message string `json:"message" validate:"required"`
}

// Contact stores a contact form message.
func (h *LeadHandler) Contact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	trimAll(&req.Name, &req.Email, &req.Subject, &req.Message)
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	msg := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.leads.CreateContact(c.UserContext(), &msg); err != nil {
		return err
	}

	h.announce(services.LeadNotification{
		Kind:  "contact message",
		Name:  msg.Name,
		Email: msg.Email,
		Fields: [][2]string{
			{"Subject", msg.Subject},
			{"Message", msg.Message},
		},
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message sent successfully!",
		"data":    msg,
	})
}

type strategyCallRequest struct {
	CallType         string `json:"call_type" validate:"required,oneof=ngo cic"`
	FullName         string `json:"full_name" validate:"required,max=150"`
	Email            string `json:"email" validate:"required,email,max=254"`
	PhoneNumber      string `json:"phone_number" validate:"max=20"`
	Country          string `json:"country" validate:"required,max=100"`
	OrganizationName string `json:"organization_name" validate:"max=200"`
	Stage            string `json:"stage" validate:"required,oneof=idea registering registered growing"`
	Goal             string `json:"goal" validate:"required"`
	PreferredDate    string `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime    string `json:"preferred_time" validate:"required,datetime=15:04"`
}

// StrategyCall books a strategy call request.
func (h *LeadHandler) StrategyCall(c *fiber.Ctx) error {
	var req strategyCallRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	trimAll(&req.CallType, &req.FullName, &req.Email, &req.PhoneNumber, &req.Country,
		&req.OrganizationName, &req.Stage, &req.Goal, &req.PreferredDate, &req.PreferredTime)
	req.CallType = strings.ToLower(req.CallType)
	req.Stage = strings.ToLower(req.Stage)
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	date, _ := time.Parse("2006-01-02", req.PreferredDate)

	call := models.StrategyCall{
		CallType:         req.CallType,
		FullName:         req.FullName,
		Email:            req.Email,
		PhoneNumber:      optional(req.PhoneNumber),
		Country:          req.Country,
		OrganizationName: optional(req.OrganizationName),
		Stage:            req.Stage,
		Goal:             req.Goal,
		PreferredDate:    date,
		PreferredTime:    req.PreferredTime,
	}
	if err := h.leads.CreateStrategyCall(c.UserContext(), &call); err != nil {
		return err
	}

	h.announce(services.LeadNotification{
		Kind:  "strategy call",
		Name:  call.FullName,
		Email: call.Email,
		Fields: [][2]string{
			{"Type", strings.ToUpper(call.CallType)},
			{"Phone", req.PhoneNumber},
			{"Country", call.Country},
			{"Organization", req.OrganizationName},
			{"Stage", call.Stage},
			{"Goal", call.Goal},
			{"When", req.PreferredDate + " " + req.PreferredTime},
		},
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Strategy call booked successfully!",
		"data":    call,
	})
}

type speakerInvitationRequest struct {
	FullName         string `json:"full_name" validate:"required,max=150"`
	Email            string `json:"email" validate:"required,email,max=254"`
	PhoneNumber      string `json:"phone_number" validate:"max=30"`
	Country          string `json:"country" validate:"required,max=100"`
	OrganizationName string `json:"organization_name" validate:"required,max=200"`
	EventStructure   string `json:"event_structure" validate:"required,oneof=keynote panel podcast masterclass workshop other"`
	Message          string `json:"message" validate:"required"`
}

// InviteSpeaker stores a speaking invitation.
func (h *LeadHandler) InviteSpeaker(c *fiber.Ctx) error {
	var req speakerInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	trimAll(&req.FullName, &req.Email, &req.PhoneNumber, &req.Country,
		&req.OrganizationName, &req.EventStructure, &req.Message)
	req.EventStructure = strings.ToLower(req.EventStructure)
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	inv := models.SpeakerInvitation{
		FullName:         req.FullName,
		Email:            req.Email,
		PhoneNumber:      optional(req.PhoneNumber),
		Country:          req.Country,
		OrganizationName: req.OrganizationName,
		EventStructure:   req.EventStructure,
		Message:          req.Message,
	}
	if err := h.leads.CreateSpeakerInvitation(c.UserContext(), &inv); err != nil {
		return err
	}

	h.announce(services.LeadNotification{
		Kind:  "speaker invitation",
		Name:  inv.FullName,
		Email: inv.Email,
		Fields: [][2]string{
			{"Organization", inv.OrganizationName},
			{"Country", inv.Country},
			{"Event", inv.EventStructure},
			{"Message", inv.Message},
		},
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Invitation sent successfully!",
		"data":    inv,
	})
}

func (h *LeadHandler) announce(lead services.LeadNotification) {
	if h.notifier == nil {
		return
	}
	h.notify(func(ctx context.Context) {
		if err := h.notifier.NotifyNewLead(ctx, lead); err != nil {
			h.logger.Warn("failed to notify admin about lead", zap.String("kind", lead.Kind), zap.Error(err))
		}
	})
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
