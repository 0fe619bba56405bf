package model

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a generation run.
type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusFailed     JobStatus = "FAILED"
)

// GenerationLog is one batch-generation run: a template applied to every row
// of a Google Sheet roster.
type GenerationLog struct {
	ID            uuid.UUID         `json:"id"`
	TemplateID    uuid.UUID         `json:"template_id"`
	SheetURL      string            `json:"google_sheet_url"`
	DriveFolderID *string           `json:"drive_folder_id,omitempty"`
	ColumnMapping map[string]string `json:"column_mapping,omitempty"`
	Status        JobStatus         `json:"status"`
	TotalRecords  int               `json:"total_records"`
	Processed     int               `json:"processed"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// GenerationLogCreateRequest is the body of POST /api/generation-log.
type GenerationLogCreateRequest struct {
	TemplateID    uuid.UUID         `json:"template_id" validate:"required"`
	SheetURL      string            `json:"google_sheet_url" validate:"required"`
	DriveFolderID *string           `json:"drive_folder_id,omitempty"`
	ColumnMapping map[string]string `json:"column_mapping,omitempty"`
}

// GenerationLogStatusResponse is the polling view of a run's progress.
type GenerationLogStatusResponse struct {
	ID              uuid.UUID `json:"id"`
	Status          JobStatus `json:"status"`
	TotalRecords    int       `json:"total_records"`
	Processed       int       `json:"processed"`
	ProgressPercent float64   `json:"progress_percent"`
}

// GenerationTaskPayload is the asynq task body for a generation run.
type GenerationTaskPayload struct {
	LogID uuid.UUID `json:"logId"`
}
