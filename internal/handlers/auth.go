package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/mrzion/internal/repository"
	"github.com/example/mrzion/internal/utils"
)

// AuthHandler issues tokens for back-office accounts.
type AuthHandler struct {
	admins    repository.AdminRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(admins repository.AdminRepository, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{admins: admins, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an admin account.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	admin, err := h.admins.FindByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
		return err
	}

	if !utils.CheckPassword(admin.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.jwtSecret, admin.ID, h.tokenTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"token":      token,
		"expires_in": int64(h.tokenTTL.Seconds()),
		"admin": fiber.Map{
			"id":    admin.ID,
			"email": admin.Email,
		},
	})
}
