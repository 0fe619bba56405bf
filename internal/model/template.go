package model

import (
	"time"

	"github.com/google/uuid"
)

// Template is an SVG certificate layout with {{variable}} placeholders.
type Template struct {
	ID         uuid.UUID `json:"id"`
	EventID    uuid.UUID `json:"event_id"`
	Name       string    `json:"name"`
	SVGContent string    `json:"svg_content"`
	Variables  string    `json:"variables"`
	CreatedAt  time.Time `json:"created_at"`
}

type TemplateCreateRequest struct {
	EventID    uuid.UUID `json:"event_id" validate:"required"`
	Name       string    `json:"name" validate:"required,max=255"`
	SVGContent string    `json:"svg_content" validate:"required"`
	Variables  string    `json:"variables"`
}

type TemplateUpdateRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=255"`
	SVGContent *string `json:"svg_content,omitempty"`
	Variables  *string `json:"variables,omitempty"`
}
