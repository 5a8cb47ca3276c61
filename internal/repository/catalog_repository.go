package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/mrzion/internal/models"
)

// CatalogRepository is the read-only view of books and courses.
type CatalogRepository interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	FindBook(ctx context.Context, id uint) (*models.Book, error)
	ListCourses(ctx context.Context) ([]models.CourseSummary, error)
	FindCourse(ctx context.Context, id uint) (*models.Course, error)
	FindCourseWithLessons(ctx context.Context, id uint) (*models.Course, error)
	FindCourseByAccessCode(ctx context.Context, code string) (*models.Course, error)
}

type gormCatalogRepo struct {
	db *gorm.DB
}

func NewGormCatalogRepo(db *gorm.DB) CatalogRepository {
	return &gormCatalogRepo{db: db}
}

func (r *gormCatalogRepo) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *gormCatalogRepo) FindBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (r *gormCatalogRepo) ListCourses(ctx context.Context) ([]models.CourseSummary, error) {
	var courses []models.CourseSummary
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Select(`courses.id, courses.title, courses.description, courses.duration, courses.price,
			courses.thumbnail, courses.created_at,
			(SELECT COUNT(*) FROM course_lessons WHERE course_lessons.course_id = courses.id) AS modules_count`).
		Order("courses.created_at desc").
		Scan(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *gormCatalogRepo) FindCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *gormCatalogRepo) FindCourseWithLessons(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.withLessons(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *gormCatalogRepo) FindCourseByAccessCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := r.withLessons(ctx).First(&course, "access_code = ?", code).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (r *gormCatalogRepo) withLessons(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lesson_order asc")
	})
}
