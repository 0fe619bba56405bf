package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/service"
	"github.com/eventcert/api/pkg/response"
)

type TemplateHandler struct {
	service   *service.TemplateService
	validator *validator.Validate
}

func NewTemplateHandler(svc *service.TemplateService, v *validator.Validate) *TemplateHandler {
	return &TemplateHandler{service: svc, validator: v}
}

// Create handles POST /api/templates
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req model.TemplateCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	tmpl, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, tmpl)
}

// List handles GET /api/templates
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.service.GetAll(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, templates)
}

// Get handles GET /api/templates/:id
func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	tmpl, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, tmpl)
}

// Update handles PUT /api/templates/:id
func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req model.TemplateUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	tmpl, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, tmpl)
}

// Delete handles DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return response.NoContent(c)
}
