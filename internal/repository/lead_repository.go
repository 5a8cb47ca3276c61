package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/mrzion/internal/models"
)

// LeadRepository stores submissions from the public forms.
type LeadRepository interface {
	CreateContact(ctx context.Context, msg *models.ContactMessage) error
	CreateStrategyCall(ctx context.Context, call *models.StrategyCall) error
	CreateSpeakerInvitation(ctx context.Context, inv *models.SpeakerInvitation) error
	ListContacts(ctx context.Context, limit, offset int) ([]models.ContactMessage, int64, error)
	ListStrategyCalls(ctx context.Context, limit, offset int) ([]models.StrategyCall, int64, error)
	ListSpeakerInvitations(ctx context.Context, limit, offset int) ([]models.SpeakerInvitation, int64, error)
}

type gormLeadRepo struct {
	db *gorm.DB
}

func NewGormLeadRepo(db *gorm.DB) LeadRepository {
	return &gormLeadRepo{db: db}
}

func (r *gormLeadRepo) CreateContact(ctx context.Context, msg *models.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *gormLeadRepo) CreateStrategyCall(ctx context.Context, call *models.StrategyCall) error {
	return r.db.WithContext(ctx).Create(call).Error
}

func (r *gormLeadRepo) CreateSpeakerInvitation(ctx context.Context, inv *models.SpeakerInvitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *gormLeadRepo) ListContacts(ctx context.Context, limit, offset int) ([]models.ContactMessage, int64, error) {
	var items []models.ContactMessage
	total, err := r.page(ctx, &models.ContactMessage{}, &items, limit, offset)
	return items, total, err
}

func (r *gormLeadRepo) ListStrategyCalls(ctx context.Context, limit, offset int) ([]models.StrategyCall, int64, error) {
	var items []models.StrategyCall
	total, err := r.page(ctx, &models.StrategyCall{}, &items, limit, offset)
	return items, total, err
}

func (r *gormLeadRepo) ListSpeakerInvitations(ctx context.Context, limit, offset int) ([]models.SpeakerInvitation, int64, error) {
	var items []models.SpeakerInvitation
	total, err := r.page(ctx, &models.SpeakerInvitation{}, &items, limit, offset)
	return items, total, err
}

func (r *gormLeadRepo) page(ctx context.Context, model, dest interface{}, limit, offset int) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(model).Count(&total).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
