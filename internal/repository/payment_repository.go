package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/mrzion/internal/models"
)

// PaymentFilter narrows payment listings. Zero values match everything.
type PaymentFilter struct {
	PaymentType models.PaymentType
	Status      models.PaymentStatus
	Email       string
}

// PaymentStats aggregates payments for the back office.
type PaymentStats struct {
	ByStatus      map[models.PaymentStatus]int64         `json:"by_status"`
	RevenueByType map[models.PaymentType]decimal.Decimal `json:"revenue_by_type"`
}

// PaymentRepository persists payments. Status and fulfillment changes are
// conditional updates so concurrent webhook deliveries cannot both win.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	AttachSession(ctx context.Context, id uuid.UUID, sessionID string) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	// TransitionStatus moves the payment with sessionID from `from` to `to`
	// and reports whether a row changed.
	TransitionStatus(ctx context.Context, sessionID string, from, to models.PaymentStatus) (bool, error)
	// ClaimFulfillment flips fulfilled on a successful payment and reports
	// whether this caller was the one to flip it.
	ClaimFulfillment(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, filter PaymentFilter, limit, offset int) ([]models.Payment, int64, error)
	Stats(ctx context.Context) (*PaymentStats, error)
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepo) AttachSession(ctx context.Context, id uuid.UUID, sessionID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND session_id IS NULL", id).
		Update("session_id", sessionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&payment).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPaymentRepo) TransitionStatus(ctx context.Context, sessionID string, from, to models.PaymentStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("session_id = ? AND status = ?", sessionID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormPaymentRepo) ClaimFulfillment(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ? AND fulfilled = ?", id, models.PaymentStatusSuccess, false).
		Update("fulfilled", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *gormPaymentRepo) List(ctx context.Context, filter PaymentFilter, limit, offset int) ([]models.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{})

	if filter.PaymentType != "" {
		query = query.Where("payment_type = ?", filter.PaymentType)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	if err := query.
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *gormPaymentRepo) Stats(ctx context.Context) (*PaymentStats, error) {
	type statusCount struct {
		Status models.PaymentStatus
		Count  int64
	}
	var counts []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	type typeRevenue struct {
		PaymentType models.PaymentType
		Revenue     decimal.Decimal
	}
	var revenue []typeRevenue
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSuccess).
		Select("payment_type, COALESCE(SUM(amount), 0) as revenue").
		Group("payment_type").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}

	stats := &PaymentStats{
		ByStatus:      make(map[models.PaymentStatus]int64, len(counts)),
		RevenueByType: make(map[models.PaymentType]decimal.Decimal, len(revenue)),
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
	}
	for _, r := range revenue {
		stats.RevenueByType[r.PaymentType] = r.Revenue
	}
	return stats, nil
}
