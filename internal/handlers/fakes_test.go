package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/services"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers ...string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

type stubCatalog struct {
	books   []models.Book
	courses map[uint]*models.Course
}

func (s *stubCatalog) ListBooks(context.Context) ([]models.Book, error) { return s.books, nil }

func (s *stubCatalog) FindBook(context.Context, uint) (*models.Book, error) {
	return nil, repository.ErrNotFound
}

func (s *stubCatalog) ListCourses(context.Context) ([]models.CourseSummary, error) {
	var out []models.CourseSummary
	for _, c := range s.courses {
		out = append(out, models.CourseSummary{ID: c.ID, Title: c.Title, ModulesCount: int64(len(c.Lessons))})
	}
	return out, nil
}

func (s *stubCatalog) FindCourse(ctx context.Context, id uint) (*models.Course, error) {
	return s.FindCourseWithLessons(ctx, id)
}

func (s *stubCatalog) FindCourseWithLessons(_ context.Context, id uint) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *stubCatalog) FindCourseByAccessCode(_ context.Context, code string) (*models.Course, error) {
	for _, c := range s.courses {
		if c.AccessCode == code {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

type stubLeads struct {
	mu       sync.Mutex
	contacts []models.ContactMessage
	calls    []models.StrategyCall
	invites  []models.SpeakerInvitation
}

func (s *stubLeads) CreateContact(_ context.Context, msg *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = uuid.New()
	s.contacts = append(s.contacts, *msg)
	return nil
}

func (s *stubLeads) CreateStrategyCall(_ context.Context, call *models.StrategyCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	call.ID = uuid.New()
	s.calls = append(s.calls, *call)
	return nil
}

func (s *stubLeads) CreateSpeakerInvitation(_ context.Context, inv *models.SpeakerInvitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = uuid.New()
	s.invites = append(s.invites, *inv)
	return nil
}

func (s *stubLeads) ListContacts(context.Context, int, int) ([]models.ContactMessage, int64, error) {
	return s.contacts, int64(len(s.contacts)), nil
}

func (s *stubLeads) ListStrategyCalls(context.Context, int, int) ([]models.StrategyCall, int64, error) {
	return s.calls, int64(len(s.calls)), nil
}

func (s *stubLeads) ListSpeakerInvitations(context.Context, int, int) ([]models.SpeakerInvitation, int64, error) {
	return s.invites, int64(len(s.invites)), nil
}

type stubNotifier struct {
	mu    sync.Mutex
	leads []services.LeadNotification
}

func (n *stubNotifier) NotifyPaymentSuccess(context.Context, models.Payment) error { return nil }

func (n *stubNotifier) NotifyNewLead(_ context.Context, lead services.LeadNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return nil
}

type stubIntake struct {
	got services.CreatePaymentInput
	res *services.CreatePaymentResult
	err error
}

func (s *stubIntake) CreatePayment(_ context.Context, in services.CreatePaymentInput) (*services.CreatePaymentResult, error) {
	s.got = in
	return s.res, s.err
}

type stubWebhooks struct {
	payload   []byte
	signature string
	err       error
}

func (s *stubWebhooks) HandleWebhook(_ context.Context, payload []byte, signature string) (*services.WebhookResult, error) {
	s.payload = payload
	s.signature = signature
	if s.err != nil {
		return nil, s.err
	}
	return &services.WebhookResult{Action: services.WebhookApplied}, nil
}

type stubPayments struct {
	repository.PaymentRepository
	filter repository.PaymentFilter
	limit  int
	offset int
	items  []models.Payment
}

func (s *stubPayments) List(_ context.Context, filter repository.PaymentFilter, limit, offset int) ([]models.Payment, int64, error) {
	s.filter, s.limit, s.offset = filter, limit, offset
	return s.items, int64(len(s.items)), nil
}

func (s *stubPayments) Stats(context.Context) (*repository.PaymentStats, error) {
	return &repository.PaymentStats{
		ByStatus: map[models.PaymentStatus]int64{models.PaymentStatusSuccess: 2},
	}, nil
}

type stubAdmins struct {
	admin *models.AdminUser
}

func (s *stubAdmins) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	if s.admin == nil || !strings.EqualFold(s.admin.Email, strings.TrimSpace(email)) {
		return nil, repository.ErrNotFound
	}
	return s.admin, nil
}
