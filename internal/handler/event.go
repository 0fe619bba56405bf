package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/service"
	"github.com/eventcert/api/pkg/response"
)

type EventHandler struct {
	service   *service.EventService
	validator *validator.Validate
}

func NewEventHandler(svc *service.EventService, v *validator.Validate) *EventHandler {
	return &EventHandler{service: svc, validator: v}
}

// Create handles POST /api/events
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req model.EventCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	event, err := h.service.Create(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, event)
}

// List handles GET /api/events
func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.service.GetAll(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, events)
}

// Get handles GET /api/events/:id
func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	event, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, event)
}

// Update handles PUT /api/events/:id
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req model.EventUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	event, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, event)
}

// Delete handles DELETE /api/events/:id
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return serviceError(c, err)
	}
	return response.NoContent(c)
}
