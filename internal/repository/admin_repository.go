package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/example/mrzion/internal/models"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

type gormAdminRepo struct {
	db *gorm.DB
}

func NewGormAdminRepo(db *gorm.DB) AdminRepository {
	return &gormAdminRepo{db: db}
}

func (r *gormAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&admin).Error
	if err != nil {
		return nil, translate(err)
	}
	return &admin, nil
}
