package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/store"
)

// TemplateService manages certificate templates. Saved SVG must parse.
type TemplateService struct {
	store store.Store
	svg   *SVGService
}

func NewTemplateService(st store.Store, svg *SVGService) *TemplateService {
	return &TemplateService{store: st, svg: svg}
}

func (s *TemplateService) Create(ctx context.Context, req *model.TemplateCreateRequest) (*model.Template, error) {
	if _, err := s.store.GetEvent(ctx, req.EventID); err != nil {
		return nil, err
	}
	if err := s.svg.Validate(req.SVGContent); err != nil {
		return nil, err
	}

	tmpl := &model.Template{
		ID:         uuid.New(),
		EventID:    req.EventID,
		Name:       req.Name,
		SVGContent: req.SVGContent,
		Variables:  req.Variables,
	}
	if err := s.store.CreateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *TemplateService) GetByID(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	return s.store.GetTemplate(ctx, id)
}

func (s *TemplateService) GetAll(ctx context.Context) ([]*model.Template, error) {
	return s.store.ListTemplates(ctx)
}

func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, req *model.TemplateUpdateRequest) (*model.Template, error) {
	tmpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		tmpl.Name = *req.Name
	}
	if req.SVGContent != nil {
		if err := s.svg.Validate(*req.SVGContent); err != nil {
			return nil, err
		}
		tmpl.SVGContent = *req.SVGContent
	}
	if req.Variables != nil {
		tmpl.Variables = *req.Variables
	}

	if err := s.store.UpdateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTemplate(ctx, id)
}
