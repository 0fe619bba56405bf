package model

import (
	"time"

	"github.com/google/uuid"
)

// Event groups certificate templates for one real-world occasion.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type EventCreateRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
}

type EventUpdateRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	EventDate   *time.Time `json:"event_date,omitempty"`
}
