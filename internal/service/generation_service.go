package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/eventcert/api/internal/client"
	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/store"
)

// TaskTypeGeneration is the asynq task type for batch generation runs.
const TaskTypeGeneration = "generation:process"

// TaskEnqueuer is the slice of asynq.Client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// GenerationService creates generation runs and serves their progress.
type GenerationService struct {
	store store.Store
	queue TaskEnqueuer
}

func NewGenerationService(st store.Store, queue TaskEnqueuer) *GenerationService {
	return &GenerationService{store: st, queue: queue}
}

// Trigger validates the request, persists a PENDING run, and enqueues the
// background task. No roster, rendering, storage, or mail side effects happen
// before this returns.
func (s *GenerationService) Trigger(ctx context.Context, req *model.GenerationLogCreateRequest) (*model.GenerationLog, error) {
	if _, err := client.SpreadsheetID(req.SheetURL); err != nil {
		return nil, err
	}
	if _, err := s.store.GetTemplate(ctx, req.TemplateID); err != nil {
		return nil, err
	}

	logRec := &model.GenerationLog{
		ID:            uuid.New(),
		TemplateID:    req.TemplateID,
		SheetURL:      req.SheetURL,
		DriveFolderID: req.DriveFolderID,
		ColumnMapping: req.ColumnMapping,
		Status:        model.JobStatusPending,
	}
	if err := s.store.CreateGenerationLog(ctx, logRec); err != nil {
		return nil, fmt.Errorf("persist generation log: %w", err)
	}

	task, err := NewGenerationTask(logRec.ID)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	// One attempt per trigger; a failed run is retried only by re-triggering.
	_, err = s.queue.Enqueue(task,
		asynq.Queue("generation"),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		// No worker will ever pick this run up, so it must not stay PENDING.
		if ferr := s.store.UpdateGenerationLogStatus(ctx, logRec.ID, model.JobStatusFailed); ferr != nil {
			log.Printf("failed to mark unqueued run %s: %v", logRec.ID, ferr)
		}
		return nil, fmt.Errorf("enqueue task: %w", err)
	}

	return logRec, nil
}

func (s *GenerationService) GetByID(ctx context.Context, id uuid.UUID) (*model.GenerationLog, error) {
	return s.store.GetGenerationLog(ctx, id)
}

func (s *GenerationService) GetAll(ctx context.Context) ([]*model.GenerationLog, error) {
	return s.store.ListGenerationLogs(ctx)
}

func (s *GenerationService) GetAssetsByLogID(ctx context.Context, id uuid.UUID) ([]*model.GeneratedAsset, error) {
	if _, err := s.store.GetGenerationLog(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListAssetsByLog(ctx, id)
}

// GetStatus returns the polling view of a run's progress.
func (s *GenerationService) GetStatus(ctx context.Context, id uuid.UUID) (*model.GenerationLogStatusResponse, error) {
	logRec, err := s.store.GetGenerationLog(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.GenerationLogStatusResponse{
		ID:              logRec.ID,
		Status:          logRec.Status,
		TotalRecords:    logRec.TotalRecords,
		Processed:       logRec.Processed,
		ProgressPercent: ProgressPercent(logRec.Processed, logRec.TotalRecords),
	}, nil
}

// ProgressPercent is processed/total as a percentage rounded to two decimals,
// 0.0 while the total is unknown.
func ProgressPercent(processed, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(processed)/float64(total)*100*100) / 100
}

// NewGenerationTask builds the asynq task carrying a run id.
func NewGenerationTask(logID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(model.GenerationTaskPayload{LogID: logID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGeneration, payload), nil
}
