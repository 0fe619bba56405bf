package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of one participant's certificate.
// SENT and FAILED are terminal; a FAILED asset may only move to SENT via the
// explicit resend operation.
type EmailStatus string

const (
	EmailStatusPending EmailStatus = "PENDING"
	EmailStatusSent    EmailStatus = "SENT"
	EmailStatusFailed  EmailStatus = "FAILED"
)

// GeneratedAsset is one participant's certificate and its delivery outcome.
// Name and email are snapshots of the roster row at creation time.
type GeneratedAsset struct {
	ID               uuid.UUID   `json:"id"`
	GenerationLogID  uuid.UUID   `json:"generation_log_id"`
	ParticipantName  string      `json:"participant_name"`
	ParticipantEmail string      `json:"participant_email"`
	EmailStatus      EmailStatus `json:"email_status"`
	DriveFileID      *string     `json:"drive_file_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}
