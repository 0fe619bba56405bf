package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/service"
	"github.com/eventcert/api/pkg/response"
)

type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Login(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, result)
}
