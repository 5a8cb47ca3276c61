package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/mrzion/internal/models"
	"github.com/example/mrzion/internal/repository"
)

// CatalogHandler serves books and courses.
type CatalogHandler struct {
	catalog repository.CatalogRepository
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// lessonOutline is a lesson as shown before the course is unlocked.
type lessonOutline struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

type coursePreview struct {
	models.Course
	ModulesCount int             `json:"modules_count"`
	Lessons      []lessonOutline `json:"lessons"`
}

type courseDetail struct {
	models.Course
	ModulesCount int `json:"modules_count"`
}

// ListBooks returns every book, newest first.
func (h *CatalogHandler) ListBooks(c *fiber.Ctx) error {
	books, err := h.catalog.ListBooks(c.UserContext())
	if err != nil {
		return err
	}
	if books == nil {
		books = []models.Book{}
	}
	return c.JSON(fiber.Map{"success": true, "data": books})
}

// ListCourses returns course summaries with their lesson count.
func (h *CatalogHandler) ListCourses(c *fiber.Ctx) error {
	courses, err := h.catalog.ListCourses(c.UserContext())
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []models.CourseSummary{}
	}
	return c.JSON(fiber.Map{"success": true, "data": courses})
}

// GetCourse returns a course with its lesson outline. Video links stay hidden
// until the access code is redeemed.
func (h *CatalogHandler) GetCourse(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	course, err := h.catalog.FindCourseWithLessons(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "course not found")
		}
		return err
	}

	outline := make([]lessonOutline, 0, len(course.Lessons))
	for _, l := range course.Lessons {
		outline = append(outline, lessonOutline{ID: l.ID, Title: l.Title, Order: l.Order})
	}

	return c.JSON(fiber.Map{"success": true, "data": coursePreview{
		Course:       *course,
		ModulesCount: len(course.Lessons),
		Lessons:      outline,
	}})
}

type accessCourseRequest struct {
	AccessCode string `json:"access_code"`
}

// AccessCourse unlocks a course's lessons for a valid access code.
func (h *CatalogHandler) AccessCourse(c *fiber.Ctx) error {
	var req accessCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	code := strings.TrimSpace(req.AccessCode)
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "access_code is required")
	}

	course, err := h.catalog.FindCourseByAccessCode(c.UserContext(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "invalid access code")
		}
		return err
	}
	if course.Lessons == nil {
		course.Lessons = []models.CourseLesson{}
	}

	return c.JSON(fiber.Map{"success": true, "data": courseDetail{
		Course:       *course,
		ModulesCount: len(course.Lessons),
	}})
}
