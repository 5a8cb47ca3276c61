package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/services"
)

// fakePaymentRepo keeps payments in memory and applies the same guarded
// updates as the SQL implementation.
// The fail fields make the next matching call return that error once.
type fakePaymentRepo struct {
	mu        sync.Mutex
	payments  map[uuid.UUID]*models.Payment
	failNext  error
	failFind  error
	failClaim error
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*models.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.CreatedAt = time.Now()
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) AttachSession(_ context.Context, id uuid.UUID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok || p.SessionID != nil {
		return repository.ErrNotFound
	}
	p.SessionID = &sessionID
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentRepo) FindBySessionID(_ context.Context, sessionID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind != nil {
		err := r.failFind
		r.failFind = nil
		return nil, err
	}
	for _, p := range r.payments {
		if p.SessionID != nil && *p.SessionID == sessionID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePaymentRepo) TransitionStatus(_ context.Context, sessionID string, from, to models.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return false, err
	}
	for _, p := range r.payments {
		if p.SessionID != nil && *p.SessionID == sessionID && p.Status == from {
			p.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) ClaimFulfillment(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failClaim != nil {
		err := r.failClaim
		r.failClaim = nil
		return false, err
	}
	p, ok := r.payments[id]
	if !ok || p.Status != models.PaymentStatusSuccess || p.Fulfilled {
		return false, nil
	}
	p.Fulfilled = true
	return true, nil
}

func (r *fakePaymentRepo) List(_ context.Context, filter repository.PaymentFilter, limit, offset int) ([]models.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Payment
	for _, p := range r.payments {
		if filter.PaymentType != "" && p.PaymentType != filter.PaymentType {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *fakePaymentRepo) Stats(context.Context) (*repository.PaymentStats, error) {
	return &repository.PaymentStats{}, nil
}

func (r *fakePaymentRepo) all() []models.Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out
}

// seed stores a pending payment already attached to sessionID.
func (r *fakePaymentRepo) seed(paymentType models.PaymentType, itemID *uint, itemName, amount, email, sessionID string) *models.Payment {
	p := &models.Payment{
		PaymentType: paymentType,
		ItemID:      itemID,
		ItemName:    itemName,
		Quantity:    1,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "usd",
		FullName:    "Ada Lovelace",
		Email:       email,
		SessionID:   &sessionID,
		Status:      models.PaymentStatusPending,
	}
	_ = r.Create(context.Background(), p)
	return p
}

type fakeCatalog struct {
	books   map[uint]*models.Book
	courses map[uint]*models.Course
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{books: map[uint]*models.Book{}, courses: map[uint]*models.Course{}}
}

func (c *fakeCatalog) ListBooks(context.Context) ([]models.Book, error) {
	var out []models.Book
	for _, b := range c.books {
		out = append(out, *b)
	}
	return out, nil
}

func (c *fakeCatalog) FindBook(_ context.Context, id uint) (*models.Book, error) {
	b, ok := c.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (c *fakeCatalog) ListCourses(context.Context) ([]models.CourseSummary, error) {
	return nil, nil
}

func (c *fakeCatalog) FindCourse(_ context.Context, id uint) (*models.Course, error) {
	course, ok := c.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *course
	return &copied, nil
}

func (c *fakeCatalog) FindCourseWithLessons(ctx context.Context, id uint) (*models.Course, error) {
	return c.FindCourse(ctx, id)
}

func (c *fakeCatalog) FindCourseByAccessCode(_ context.Context, code string) (*models.Course, error) {
	for _, course := range c.courses {
		if course.AccessCode == code {
			copied := *course
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeGateway creates sessions locally and verifies events with the real
// Stripe signature check.
type fakeGateway struct {
	*services.StripeService

	mu       sync.Mutex
	requests []services.SessionRequest
	err      error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		StripeService: services.NewStripeService("sk_test_unused", testWebhookSecret, time.Second),
	}
}

func (g *fakeGateway) CreateSession(ctx context.Context, req services.SessionRequest) (*services.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	if _, err := services.ToMinorUnits(req.Amount); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("gateway called without a deadline")
	}
	g.requests = append(g.requests, req)
	id := fmt.Sprintf("cs_test_%d", len(g.requests))
	return &services.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []services.Email
	err  error
}

func (s *fakeEmailSender) Send(_ context.Context, email services.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, email)
	return s.err
}

func (s *fakeEmailSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeNotifier struct {
	mu       sync.Mutex
	payments []models.Payment
	leads    []services.LeadNotification
	err      error
}

func (n *fakeNotifier) NotifyPaymentSuccess(_ context.Context, payment models.Payment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payments = append(n.payments, payment)
	return n.err
}

func (n *fakeNotifier) NotifyNewLead(_ context.Context, lead services.LeadNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return n.err
}

type fakeDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{seen: map[string]bool{}}
}

func (d *fakeDeduper) Seen(_ context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	return d.seen[eventID], nil
}

func (d *fakeDeduper) MarkProcessed(_ context.Context, eventID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.seen[eventID] = true
	return nil
}

func (d *fakeDeduper) marked() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.PaymentEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event models.PaymentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func strPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }
