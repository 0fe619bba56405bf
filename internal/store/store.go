package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/eventcert/api/internal/model"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error

	CreateEvent(ctx context.Context, event *model.Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error

	CreateTemplate(ctx context.Context, tmpl *model.Template) error
	GetTemplate(ctx context.Context, id uuid.UUID) (*model.Template, error)
	ListTemplates(ctx context.Context) ([]*model.Template, error)
	UpdateTemplate(ctx context.Context, tmpl *model.Template) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	CreateGenerationLog(ctx context.Context, logRec *model.GenerationLog) error
	GetGenerationLog(ctx context.Context, id uuid.UUID) (*model.GenerationLog, error)
	ListGenerationLogs(ctx context.Context) ([]*model.GenerationLog, error)
	UpdateGenerationLogStatus(ctx context.Context, id uuid.UUID, status model.JobStatus) error
	SetGenerationLogTotals(ctx context.Context, id uuid.UUID, total, processed int) error
	IncrementProcessed(ctx context.Context, id uuid.UUID) error

	CreateAsset(ctx context.Context, asset *model.GeneratedAsset) error
	GetAsset(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error)
	ListAssets(ctx context.Context) ([]*model.GeneratedAsset, error)
	ListAssetsByLog(ctx context.Context, logID uuid.UUID) ([]*model.GeneratedAsset, error)
	UpdateAssetStatus(ctx context.Context, id uuid.UUID, status model.EmailStatus, driveFileID *string) error
}
