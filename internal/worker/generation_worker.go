package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/eventcert/api/internal/client"
	"github.com/eventcert/api/internal/model"
	"github.com/eventcert/api/internal/roster"
	"github.com/eventcert/api/internal/store"
)

// Renderer substitutes participant fields into SVG markup.
type Renderer interface {
	Render(svgContent string, fields map[string]string) (string, error)
}

// Converter turns rendered markup into a PDF document.
type Converter interface {
	Convert(svgContent string) ([]byte, error)
}

// GenerationWorker drives one batch-generation run to completion: roster read,
// then per participant render → convert → upload → send → record. A failing
// participant never aborts the run; a failure outside the participant loop
// marks the whole run FAILED.
type GenerationWorker struct {
	store  store.Store
	roster client.RosterClient
	files  client.FileClient
	mail   client.MailClient
	svg    Renderer
	pdf    Converter
}

func NewGenerationWorker(
	st store.Store,
	rosterClient client.RosterClient,
	fileClient client.FileClient,
	mailClient client.MailClient,
	svg Renderer,
	pdf Converter,
) *GenerationWorker {
	return &GenerationWorker{
		store:  st,
		roster: rosterClient,
		files:  fileClient,
		mail:   mailClient,
		svg:    svg,
		pdf:    pdf,
	}
}

// ProcessTask handles a generation task. The returned error is surfaced to
// asynq for bookkeeping only; the task is enqueued with zero retries, so a
// failed run stays FAILED until a client triggers a new one.
func (w *GenerationWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.GenerationTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal task payload: %w", err)
	}

	log.Printf("Starting generation run %s", payload.LogID)
	if err := w.run(ctx, payload.LogID); err != nil {
		log.Printf("Generation run %s failed: %v", payload.LogID, err)
		if ferr := w.store.UpdateGenerationLogStatus(ctx, payload.LogID, model.JobStatusFailed); ferr != nil {
			log.Printf("Failed to mark run %s as failed: %v", payload.LogID, ferr)
		}
		return err
	}
	log.Printf("Generation run %s completed", payload.LogID)
	return nil
}

func (w *GenerationWorker) run(ctx context.Context, logID uuid.UUID) error {
	if err := w.store.UpdateGenerationLogStatus(ctx, logID, model.JobStatusProcessing); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	// Re-read the full record: the trigger request committed it, and the
	// column mapping and folder id must come from the durable row rather
	// than anything carried across the queue.
	logRec, err := w.store.GetGenerationLog(ctx, logID)
	if err != nil {
		return fmt.Errorf("load generation log: %w", err)
	}

	tmpl, err := w.store.GetTemplate(ctx, logRec.TemplateID)
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	rows, err := w.roster.ReadRows(ctx, logRec.SheetURL)
	if err != nil {
		return fmt.Errorf("read roster: %w", err)
	}
	participants := roster.MapRows(rows, logRec.ColumnMapping)

	if err := w.store.SetGenerationLogTotals(ctx, logID, len(participants), 0); err != nil {
		return fmt.Errorf("record totals: %w", err)
	}

	for _, participant := range participants {
		asset := &model.GeneratedAsset{
			ID:               uuid.New(),
			GenerationLogID:  logID,
			ParticipantName:  fieldOr(participant, "participant_name", "name"),
			ParticipantEmail: fieldOr(participant, "participant_email", "email"),
			EmailStatus:      model.EmailStatusPending,
		}
		if err := w.store.CreateAsset(ctx, asset); err != nil {
			return fmt.Errorf("create asset: %w", err)
		}

		if fileID, err := w.deliver(ctx, tmpl, logRec, asset, participant); err != nil {
			log.Printf("Run %s: participant %s (%s) failed: %v",
				logID, asset.ID, asset.ParticipantEmail, err)
			if uerr := w.store.UpdateAssetStatus(ctx, asset.ID, model.EmailStatusFailed, nil); uerr != nil {
				log.Printf("Run %s: failed to mark asset %s: %v", logID, asset.ID, uerr)
			}
		} else {
			if uerr := w.store.UpdateAssetStatus(ctx, asset.ID, model.EmailStatusSent, &fileID); uerr != nil {
				log.Printf("Run %s: failed to mark asset %s: %v", logID, asset.ID, uerr)
			}
		}

		// The counter advances once per participant no matter the outcome;
		// a failed increment must not stop the remaining roster.
		if err := w.store.IncrementProcessed(ctx, logID); err != nil {
			log.Printf("Run %s: failed to increment processed: %v", logID, err)
		}
	}

	if err := w.store.UpdateGenerationLogStatus(ctx, logID, model.JobStatusCompleted); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// deliver runs one participant's pipeline and returns the uploaded file id.
// Any step error leaves the asset with no file handle.
func (w *GenerationWorker) deliver(
	ctx context.Context,
	tmpl *model.Template,
	logRec *model.GenerationLog,
	asset *model.GeneratedAsset,
	fields roster.Row,
) (string, error) {
	rendered, err := w.svg.Render(tmpl.SVGContent, fields)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	pdfBytes, err := w.pdf.Convert(rendered)
	if err != nil {
		return "", fmt.Errorf("convert: %w", err)
	}

	name := asset.ParticipantName
	if name == "" {
		name = asset.ID.String()
	}
	filename := name + ".pdf"

	folderID := ""
	if logRec.DriveFolderID != nil {
		folderID = *logRec.DriveFolderID
	}
	fileID, err := w.files.UploadPDF(ctx, pdfBytes, filename, folderID)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	if err := w.mail.SendCertificate(ctx, asset.ParticipantEmail, asset.ParticipantName, tmpl.Name, pdfBytes, filename); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}
	return fileID, nil
}

func fieldOr(row roster.Row, key, fallback string) string {
	if v := row[key]; v != "" {
		return v
	}
	return row[fallback]
}
