package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/eventcert/api/internal/client"
	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/store"
)

// ErrResendNotAllowed guards the resend transition: only FAILED assets may be
// resent.
var ErrResendNotAllowed = errors.New("only failed records can be resent")

// AssetService serves generated assets and retries failed deliveries.
type AssetService struct {
	store store.Store
	svg   *SVGService
	pdf   *PDFService
	mail  client.MailClient
}

func NewAssetService(st store.Store, svg *SVGService, pdf *PDFService, mail client.MailClient) *AssetService {
	return &AssetService{store: st, svg: svg, pdf: pdf, mail: mail}
}

func (s *AssetService) GetByID(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error) {
	return s.store.GetAsset(ctx, id)
}

func (s *AssetService) GetAll(ctx context.Context) ([]*model.GeneratedAsset, error) {
	return s.store.ListAssets(ctx)
}

// ResendEmail re-renders the certificate from the asset's stored participant
// snapshot and retries the email. The asset moves FAILED → SENT on success
// and stays FAILED otherwise; the owning run's counters and the stored drive
// file id are never touched.
func (s *AssetService) ResendEmail(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error) {
	asset, err := s.store.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.EmailStatus != model.EmailStatusFailed {
		return nil, ErrResendNotAllowed
	}

	logRec, err := s.store.GetGenerationLog(ctx, asset.GenerationLogID)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.store.GetTemplate(ctx, logRec.TemplateID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"participant_name":  asset.ParticipantName,
		"participant_email": asset.ParticipantEmail,
		"name":              asset.ParticipantName,
		"email":             asset.ParticipantEmail,
	}
	rendered, err := s.svg.Render(tmpl.SVGContent, fields)
	if err != nil {
		return nil, err
	}
	pdfBytes, err := s.pdf.Convert(rendered)
	if err != nil {
		return nil, err
	}

	name := asset.ParticipantName
	if name == "" {
		name = asset.ID.String()
	}
	filename := name + ".pdf"

	status := model.EmailStatusSent
	if err := s.mail.SendCertificate(ctx, asset.ParticipantEmail, asset.ParticipantName, tmpl.Name, pdfBytes, filename); err != nil {
		log.Printf("resend for asset %s failed: %v", asset.ID, err)
		status = model.EmailStatusFailed
	}
	if err := s.store.UpdateAssetStatus(ctx, asset.ID, status, nil); err != nil {
		return nil, fmt.Errorf("update asset status: %w", err)
	}

	asset.EmailStatus = status
	return asset, nil
}
