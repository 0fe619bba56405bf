package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/store"
)

// EventService manages events that own certificate templates.
type EventService struct {
	store store.Store
}

func NewEventService(st store.Store) *EventService {
	return &EventService{store: st}
}

func (s *EventService) Create(ctx context.Context, req *model.EventCreateRequest) (*model.Event, error) {
	event := &model.Event{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return s.store.GetEvent(ctx, id)
}

func (s *EventService) GetAll(ctx context.Context) ([]*model.Event, error) {
	return s.store.ListEvents(ctx)
}

func (s *EventService) Update(ctx context.Context, id uuid.UUID, req *model.EventUpdateRequest) (*model.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.EventDate != nil {
		event.EventDate = req.EventDate
	}

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteEvent(ctx, id)
}
