package client

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/eventcert/api/internal/config"
)

// FileClient uploads generated documents and returns an opaque file id.
type FileClient interface {
	UploadPDF(ctx context.Context, pdf []byte, filename, folderID string) (string, error)
}

// DriveClient implements FileClient against the Google Drive API.
type DriveClient struct {
	svc *drive.Service
}

func NewDriveClient(ctx context.Context, cfg *config.GoogleConfig) (*DriveClient, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveClient{svc: svc}, nil
}

// UploadPDF uploads PDF bytes to Drive, optionally into a folder, and returns
// the created file id.
func (c *DriveClient) UploadPDF(ctx context.Context, pdf []byte, filename, folderID string) (string, error) {
	meta := &drive.File{Name: filename}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	f, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(pdf), googleapi.ContentType("application/pdf")).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("upload to drive: %w", err)
	}
	return f.Id, nil
}
