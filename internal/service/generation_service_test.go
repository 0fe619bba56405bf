package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventcert/api/internal/client"
	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/store"
)

// fakeStore stubs the store methods a test cares about; calling an unstubbed
// method panics through the embedded nil interface.
type fakeStore struct {
	store.Store

	getTemplate               func(ctx context.Context, id uuid.UUID) (*model.Template, error)
	createGenerationLog       func(ctx context.Context, logRec *model.GenerationLog) error
	getGenerationLog          func(ctx context.Context, id uuid.UUID) (*model.GenerationLog, error)
	updateGenerationLogStatus func(ctx context.Context, id uuid.UUID, status model.JobStatus) error
	getAsset                  func(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error)
	updateAssetStatus         func(ctx context.Context, id uuid.UUID, status model.EmailStatus, driveFileID *string) error
}

func (f *fakeStore) GetTemplate(ctx context.Context, id uuid.UUID) (*model.Template, error) {
	return f.getTemplate(ctx, id)
}

func (f *fakeStore) CreateGenerationLog(ctx context.Context, logRec *model.GenerationLog) error {
	return f.createGenerationLog(ctx, logRec)
}

func (f *fakeStore) GetGenerationLog(ctx context.Context, id uuid.UUID) (*model.GenerationLog, error) {
	return f.getGenerationLog(ctx, id)
}

func (f *fakeStore) UpdateGenerationLogStatus(ctx context.Context, id uuid.UUID, status model.JobStatus) error {
	return f.updateGenerationLogStatus(ctx, id, status)
}

func (f *fakeStore) GetAsset(ctx context.Context, id uuid.UUID) (*model.GeneratedAsset, error) {
	return f.getAsset(ctx, id)
}

func (f *fakeStore) UpdateAssetStatus(ctx context.Context, id uuid.UUID, status model.EmailStatus, driveFileID *string) error {
	return f.updateAssetStatus(ctx, id, status, driveFileID)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: uuid.NewString(), Type: task.Type()}, nil
}

func TestTriggerPersistsPendingRunAndEnqueues(t *testing.T) {
	tmplID := uuid.New()
	var persisted *model.GenerationLog
	st := &fakeStore{
		getTemplate: func(_ context.Context, id uuid.UUID) (*model.Template, error) {
			assert.Equal(t, tmplID, id)
			return &model.Template{ID: tmplID}, nil
		},
		createGenerationLog: func(_ context.Context, logRec *model.GenerationLog) error {
			persisted = logRec
			return nil
		},
	}
	queue := &fakeEnqueuer{}
	svc := NewGenerationService(st, queue)

	logRec, err := svc.Trigger(context.Background(), &model.GenerationLogCreateRequest{
		TemplateID: tmplID,
		SheetURL:   "https://docs.google.com/spreadsheets/d/1AbC-def_123/edit#gid=0",
	})
	require.NoError(t, err)

	require.NotNil(t, persisted)
	assert.Equal(t, model.JobStatusPending, persisted.Status)
	assert.Equal(t, tmplID, persisted.TemplateID)
	assert.Same(t, persisted, logRec)

	require.Len(t, queue.tasks, 1)
	task := queue.tasks[0]
	assert.Equal(t, TaskTypeGeneration, task.Type())

	var payload model.GenerationTaskPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, logRec.ID, payload.LogID)
}

func TestTriggerRejectsInvalidSheetURL(t *testing.T) {
	st := &fakeStore{
		createGenerationLog: func(context.Context, *model.GenerationLog) error {
			t.Fatal("nothing should be persisted for an invalid URL")
			return nil
		},
	}
	queue := &fakeEnqueuer{}
	svc := NewGenerationService(st, queue)

	_, err := svc.Trigger(context.Background(), &model.GenerationLogCreateRequest{
		TemplateID: uuid.New(),
		SheetURL:   "https://example.com/not-a-sheet",
	})
	assert.ErrorIs(t, err, client.ErrInvalidSheetURL)
	assert.Empty(t, queue.tasks)
}

func TestTriggerUnknownTemplate(t *testing.T) {
	st := &fakeStore{
		getTemplate: func(context.Context, uuid.UUID) (*model.Template, error) {
			return nil, store.ErrNotFound
		},
	}
	queue := &fakeEnqueuer{}
	svc := NewGenerationService(st, queue)

	_, err := svc.Trigger(context.Background(), &model.GenerationLogCreateRequest{
		TemplateID: uuid.New(),
		SheetURL:   "https://docs.google.com/spreadsheets/d/abc/edit",
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, queue.tasks)
}

func TestTriggerEnqueueFailureMarksRunFailed(t *testing.T) {
	tmplID := uuid.New()
	var persistedID uuid.UUID
	statuses := make(map[uuid.UUID]model.JobStatus)
	st := &fakeStore{
		getTemplate: func(context.Context, uuid.UUID) (*model.Template, error) {
			return &model.Template{ID: tmplID}, nil
		},
		createGenerationLog: func(_ context.Context, logRec *model.GenerationLog) error {
			persistedID = logRec.ID
			return nil
		},
		updateGenerationLogStatus: func(_ context.Context, id uuid.UUID, status model.JobStatus) error {
			statuses[id] = status
			return nil
		},
	}
	queue := &fakeEnqueuer{err: errors.New("redis down")}
	svc := NewGenerationService(st, queue)

	_, err := svc.Trigger(context.Background(), &model.GenerationLogCreateRequest{
		TemplateID: tmplID,
		SheetURL:   "https://docs.google.com/spreadsheets/d/abc/edit",
	})
	require.Error(t, err)

	// The committed row must not be left PENDING with nothing queued for it.
	assert.Equal(t, model.JobStatusFailed, statuses[persistedID])
}

func TestGetStatusComputesProgress(t *testing.T) {
	logID := uuid.New()
	st := &fakeStore{
		getGenerationLog: func(_ context.Context, id uuid.UUID) (*model.GenerationLog, error) {
			return &model.GenerationLog{
				ID:           id,
				Status:       model.JobStatusProcessing,
				TotalRecords: 7,
				Processed:    3,
			}, nil
		},
	}
	svc := NewGenerationService(st, &fakeEnqueuer{})

	status, err := svc.GetStatus(context.Background(), logID)
	require.NoError(t, err)
	assert.Equal(t, logID, status.ID)
	assert.Equal(t, model.JobStatusProcessing, status.Status)
	assert.Equal(t, 42.86, status.ProgressPercent)
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, ProgressPercent(0, 0))
	assert.Equal(t, 0.0, ProgressPercent(5, 0))
	assert.Equal(t, 42.86, ProgressPercent(3, 7))
	assert.Equal(t, 100.0, ProgressPercent(3, 3))
	assert.Equal(t, 33.33, ProgressPercent(1, 3))
	assert.Equal(t, 66.67, ProgressPercent(2, 3))
}
