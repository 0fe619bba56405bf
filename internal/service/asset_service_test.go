package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/store"
)

type stubMail struct {
	err  error
	sent []string
}

func (s *stubMail) SendCertificate(_ context.Context, to, _, _ string, _ []byte, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

func newResendFixture(status model.EmailStatus, mail *stubMail) (*AssetService, *model.GeneratedAsset, *[]model.EmailStatus) {
	logID := uuid.New()
	tmplID := uuid.New()
	asset := &model.GeneratedAsset{
		ID:               uuid.New(),
		GenerationLogID:  logID,
		ParticipantName:  "Alice",
		ParticipantEmail: "alice@example.com",
		EmailStatus:      status,
	}

	var updates []model.EmailStatus
	st := &fakeStore{
		getAsset: func(context.Context, uuid.UUID) (*model.GeneratedAsset, error) {
			cp := *asset
			return &cp, nil
		},
		getGenerationLog: func(context.Context, uuid.UUID) (*model.GenerationLog, error) {
			return &model.GenerationLog{ID: logID, TemplateID: tmplID}, nil
		},
		getTemplate: func(context.Context, uuid.UUID) (*model.Template, error) {
			return &model.Template{
				ID:         tmplID,
				Name:       "Go Conference 2026",
				SVGContent: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><text>{{participant_name}}</text></svg>`,
			}, nil
		},
		updateAssetStatus: func(_ context.Context, _ uuid.UUID, s model.EmailStatus, driveFileID *string) error {
			if driveFileID != nil {
				return errors.New("resend must not touch the drive file id")
			}
			updates = append(updates, s)
			return nil
		},
	}

	svc := NewAssetService(st, NewSVGService(), NewPDFService(), mail)
	return svc, asset, &updates
}

func TestResendEmailOnlyFromFailed(t *testing.T) {
	for _, status := range []model.EmailStatus{model.EmailStatusPending, model.EmailStatusSent} {
		mail := &stubMail{}
		svc, asset, updates := newResendFixture(status, mail)

		_, err := svc.ResendEmail(context.Background(), asset.ID)
		assert.ErrorIs(t, err, ErrResendNotAllowed, "status %s", status)
		assert.Empty(t, mail.sent)
		assert.Empty(t, *updates)
	}
}

func TestResendEmailSuccessMarksSent(t *testing.T) {
	mail := &stubMail{}
	svc, asset, updates := newResendFixture(model.EmailStatusFailed, mail)

	result, err := svc.ResendEmail(context.Background(), asset.ID)
	require.NoError(t, err)

	assert.Equal(t, model.EmailStatusSent, result.EmailStatus)
	assert.Equal(t, []model.EmailStatus{model.EmailStatusSent}, *updates)
	assert.Equal(t, []string{"alice@example.com"}, mail.sent)
}

func TestResendEmailFailureStaysFailed(t *testing.T) {
	mail := &stubMail{err: errors.New("smtp refused")}
	svc, asset, updates := newResendFixture(model.EmailStatusFailed, mail)

	result, err := svc.ResendEmail(context.Background(), asset.ID)
	require.NoError(t, err)

	assert.Equal(t, model.EmailStatusFailed, result.EmailStatus)
	assert.Equal(t, []model.EmailStatus{model.EmailStatusFailed}, *updates)
}

func TestResendEmailUnknownAsset(t *testing.T) {
	st := &fakeStore{
		getAsset: func(context.Context, uuid.UUID) (*model.GeneratedAsset, error) {
			return nil, store.ErrNotFound
		},
	}
	svc := NewAssetService(st, NewSVGService(), NewPDFService(), &stubMail{})

	_, err := svc.ResendEmail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
