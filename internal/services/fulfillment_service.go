package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
)

// FulfillmentService sends the confirmation email the first time a payment
// becomes successful.
type FulfillmentService struct {
	payments    repository.PaymentRepository
	catalog     repository.CatalogRepository
	email       EmailSender
	notifier    AdminNotifier
	siteURL     string
	supportMail string
	logger      *zap.Logger
}

// NewFulfillmentService wires the dispatcher. notifier may be nil.
func NewFulfillmentService(payments repository.PaymentRepository, catalog repository.CatalogRepository, email EmailSender, notifier AdminNotifier, siteURL, supportMail string, logger *zap.Logger) *FulfillmentService {
	return &FulfillmentService{
		payments:    payments,
		catalog:     catalog,
		email:       email,
		notifier:    notifier,
		siteURL:     siteURL,
		supportMail: supportMail,
		logger:      logger,
	}
}

// OnStatusChange reacts to a committed status change. Only a failed
// fulfillment claim is returned, so the delivery can be retried. Email and
// admin notification errors are logged.
func (s *FulfillmentService) OnStatusChange(ctx context.Context, payment *models.Payment, previous, current models.PaymentStatus) error {
	if current != models.PaymentStatusSuccess || previous == models.PaymentStatusSuccess {
		return nil
	}

	log := s.logger.With(
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_type", string(payment.PaymentType)),
		zap.String("email", payment.Email),
	)

	claimed, err := s.payments.ClaimFulfillment(ctx, payment.ID)
	if err != nil {
		log.Error("failed to claim fulfillment", zap.Error(err))
		return err
	}
	if !claimed {
		log.Debug("payment already fulfilled")
		return nil
	}

	data, err := s.confirmationData(ctx, payment)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("purchased item no longer exists, skipping confirmation email")
		} else {
			log.Error("failed to resolve confirmation details", zap.Error(err))
		}
		s.notifyAdmin(ctx, payment, log)
		return nil
	}

	email, err := RenderConfirmation(payment.PaymentType, payment.Email, data)
	if err != nil {
		log.Error("failed to render confirmation email", zap.Error(err))
		s.notifyAdmin(ctx, payment, log)
		return nil
	}

	if err := s.email.Send(ctx, email); err != nil {
		log.Error("failed to send confirmation email", zap.Error(err))
	} else {
		log.Info("confirmation email sent")
	}

	s.notifyAdmin(ctx, payment, log)
	return nil
}

// confirmationData keeps the item name captured at purchase. The catalog is
// only consulted for the access code and download links.
func (s *FulfillmentService) confirmationData(ctx context.Context, payment *models.Payment) (ConfirmationData, error) {
	data := ConfirmationData{
		FullName:    payment.FullName,
		ItemName:    payment.ItemName,
		SupportMail: s.supportMail,
		Year:        time.Now().Year(),
	}

	switch payment.PaymentType {
	case models.PaymentTypeCourse:
		if payment.ItemID == nil {
			return data, repository.ErrNotFound
		}
		course, err := s.catalog.FindCourse(ctx, *payment.ItemID)
		if err != nil {
			return data, err
		}
		data.AccessCode = course.AccessCode
		data.CourseLink = fmt.Sprintf("%s/courses/%d", s.siteURL, course.ID)

	case models.PaymentTypeBook:
		if payment.ItemID == nil {
			return data, repository.ErrNotFound
		}
		book, err := s.catalog.FindBook(ctx, *payment.ItemID)
		if err != nil {
			return data, err
		}
		data.BookLinks = bookLinks(book)
	}

	return data, nil
}

func bookLinks(book *models.Book) []BookLink {
	candidates := []struct {
		label string
		url   *string
	}{
		{"Kindle", book.KindleLink},
		{"Paperback", book.PaperbackLink},
		{"PDF", book.PDFLink},
	}

	var links []BookLink
	for _, c := range candidates {
		if c.url != nil && *c.url != "" {
			links = append(links, BookLink{Label: c.label, URL: *c.url})
		}
	}
	return links
}

func (s *FulfillmentService) notifyAdmin(ctx context.Context, payment *models.Payment, log *zap.Logger) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyPaymentSuccess(ctx, *payment); err != nil {
		log.Warn("failed to notify admin", zap.Error(err))
	}
}
