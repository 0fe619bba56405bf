package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/service"
	"github.com/eventcert/api/pkg/response"
)

type GenerationHandler struct {
	service   *service.GenerationService
	validator *validator.Validate
}

func NewGenerationHandler(svc *service.GenerationService, v *validator.Validate) *GenerationHandler {
	return &GenerationHandler{
		service:   svc,
		validator: v,
	}
}

// Trigger handles POST /api/generation-log. It persists a PENDING run and
// schedules the batch pipeline; the response never waits on the pipeline.
func (h *GenerationHandler) Trigger(c *fiber.Ctx) error {
	var req model.GenerationLogCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	logRec, err := h.service.Trigger(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return response.Created(c, logRec)
}

// List handles GET /api/generation-log
func (h *GenerationHandler) List(c *fiber.Ctx) error {
	logs, err := h.service.GetAll(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, logs)
}

// Get handles GET /api/generation-log/:id
func (h *GenerationHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	logRec, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, logRec)
}

// Status handles GET /api/generation-log/:id/status
func (h *GenerationHandler) Status(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	status, err := h.service.GetStatus(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, status)
}

// Assets handles GET /api/generation-log/:id/assets
func (h *GenerationHandler) Assets(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	assets, err := h.service.GetAssetsByLogID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	if assets == nil {
		assets = []*model.GeneratedAsset{}
	}
	return response.OK(c, assets)
}
