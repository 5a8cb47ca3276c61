package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/config"
	"github.com/example/mrzion/internal/handlers"
	"github.com/example/mrzion/internal/middleware"
	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/services"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Config   *config.Config
	Catalog  repository.CatalogRepository
	Leads    repository.LeadRepository
	Payments repository.PaymentRepository
	Admins   repository.AdminRepository
	Intake   handlers.PaymentCreator
	Webhooks handlers.WebhookProcessor
	Notifier services.AdminNotifier
	Logger   *zap.Logger
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	leadHandler := handlers.NewLeadHandler(deps.Leads, deps.Notifier, deps.Logger)
	paymentHandler := handlers.NewPaymentHandler(deps.Intake, deps.Webhooks)
	authHandler := handlers.NewAuthHandler(deps.Admins, cfg.JWTSecret, cfg.TokenExpires)
	adminHandler := handlers.NewAdminHandler(deps.Payments, deps.Leads)

	api := app.Group("/api")

	// Catalog
	api.Get("/books", catalogHandler.ListBooks)
	api.Get("/courses", catalogHandler.ListCourses)
	api.Get("/courses/:id", catalogHandler.GetCourse)
	api.Post("/access-course", catalogHandler.AccessCourse)

	// Public forms
	forms := middleware.FormRateLimit(cfg.FormRatePerMinute)
	api.Post("/contact", forms, leadHandler.Contact)
	api.Post("/strategy-call", forms, leadHandler.StrategyCall)
	api.Post("/invite-speaker", forms, leadHandler.InviteSpeaker)

	// Payments
	api.Post("/create-payment", forms, paymentHandler.CreatePayment)
	api.Post("/webhook", paymentHandler.Webhook)

	// Back office
	admin := api.Group("/admin")
	admin.Post("/login", forms, authHandler.Login)

	protected := admin.Group("", middleware.AdminAuthMiddleware(cfg.JWTSecret))
	protected.Get("/payments", adminHandler.ListPayments)
	protected.Get("/stats", adminHandler.DashboardStats)
	protected.Get("/leads/contacts", adminHandler.ListContacts)
	protected.Get("/leads/strategy-calls", adminHandler.ListStrategyCalls)
	protected.Get("/leads/speaker-invitations", adminHandler.ListSpeakerInvitations)
}
