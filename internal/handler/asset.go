package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/service"
	"github.com/eventcert/api/pkg/response"
)

type AssetHandler struct {
	service *service.AssetService
}

func NewAssetHandler(svc *service.AssetService) *AssetHandler {
	return &AssetHandler{service: svc}
}

// List handles GET /api/generated-assets
func (h *AssetHandler) List(c *fiber.Ctx) error {
	assets, err := h.service.GetAll(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	if assets == nil {
		assets = []*model.GeneratedAsset{}
	}
	return response.OK(c, assets)
}

// Get handles GET /api/generated-assets/:id
func (h *AssetHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	asset, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, asset)
}

// ResendEmail handles POST /api/generated-assets/:id/resend-email. Only a
// FAILED asset may be resent; anything else is a 400.
func (h *AssetHandler) ResendEmail(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	asset, err := h.service.ResendEmail(c.Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return response.OK(c, asset)
}
