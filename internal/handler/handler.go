package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eventcert/api/internal/client"
	"github.com/eventcert/api/internal/service"
	"github.com/eventcert/api/internal/store"
	"github.com/eventcert/api/pkg/response"
)

// formatValidationErrors converts validator errors into a field → message map.
func formatValidationErrors(err error) map[string]string {
	details := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fmt.Sprintf("failed on '%s' validation", fe.Tag())
		}
	}
	return details
}

// parseID reads a UUID path parameter, or writes a 400 and returns false.
func parseID(c *fiber.Ctx, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = response.ValidationError(c, fmt.Sprintf("%s must be a valid UUID", param), nil)
		return uuid.Nil, false
	}
	return id, true
}

// serviceError maps known service errors onto response envelopes.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	case errors.Is(err, client.ErrInvalidSheetURL),
		errors.Is(err, service.ErrInvalidSVG),
		errors.Is(err, service.ErrConvertPDF),
		errors.Is(err, service.ErrResendNotAllowed):
		return response.ValidationError(c, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return response.Unauthorized(c, err.Error())
	default:
		return response.ServiceError(c, err.Error())
	}
}
