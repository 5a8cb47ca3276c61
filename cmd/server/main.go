package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/cache"
	"github.com/example/mrzion/internal/config"
	"github.com/example/mrzion/internal/database"
	"github.com/example/mrzion/internal/handlers"
	"github.com/example/mrzion/internal/kafka"
	applog "github.com/example/mrzion/internal/logger"
	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/routes"
	"github.com/example/mrzion/internal/services"
)

func main() {
	cfg := config.Load()
	log := applog.New(cfg.AppEnv)
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("failed to seed admin user", zap.Error(err))
	}

	payments := repository.NewGormPaymentRepo(db)
	catalog := repository.NewGormCatalogRepo(db)
	leads := repository.NewGormLeadRepo(db)
	admins := repository.NewGormAdminRepo(db)

	var deduper services.EventDeduper = cache.NoopDeduper{}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, webhook de-duplication disabled", zap.Error(err))
		} else {
			defer client.Close()
			deduper = cache.NewEventDeduper(client, cache.DefaultEventTTL)
		}
	}

	var publisher services.PaymentEventPublisher = kafka.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaPaymentsTopic, log)
		if err != nil {
			log.Warn("kafka unavailable, payment events will not be published", zap.Error(err))
		} else {
			defer producer.Close()
			publisher = producer
		}
	}

	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, log)
	email := services.NewEmailSender(cfg, log)
	gateway := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.StripeTimeout)

	intake := services.NewPaymentService(payments, catalog, gateway, services.PaymentConfig{
		SiteURL:  cfg.SiteURL,
		Currency: cfg.StripeCurrency,
		Timeout:  cfg.StripeTimeout,
	}, log)
	fulfillment := services.NewFulfillmentService(payments, catalog, email, telegram, cfg.SiteURL, cfg.DefaultFromEmail, log)
	webhooks := services.NewWebhookService(payments, gateway, fulfillment, deduper, publisher, log)

	app := fiber.New(fiber.Config{
		AppName:      "MrZion Backend",
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, routes.Dependencies{
		Config:   cfg,
		Catalog:  catalog,
		Leads:    leads,
		Payments: payments,
		Admins:   admins,
		Intake:   intake,
		Webhooks: webhooks,
		Notifier: telegram,
		Logger:   log,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("starting server", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	// Deferred closes must run, so no Fatal here.
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Error("fiber.Listen error", zap.Error(err))
		return
	}
}
