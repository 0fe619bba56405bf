package client

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/eventcert/api/internal/config"
)

// ErrInvalidSheetURL indicates the roster reference is not a Google Sheets URL.
var ErrInvalidSheetURL = errors.New("not a valid Google Sheets URL")

var sheetURLRe = regexp.MustCompile(`https://docs\.google\.com/spreadsheets/d/([\w-]+)`)

// SpreadsheetID extracts the spreadsheet id from a Google Sheets URL.
func SpreadsheetID(sheetURL string) (string, error) {
	m := sheetURLRe.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", ErrInvalidSheetURL
	}
	return m[1], nil
}

// RosterClient fetches raw roster rows for a sheet URL.
type RosterClient interface {
	ReadRows(ctx context.Context, sheetURL string) ([][]string, error)
}

// SheetsClient implements RosterClient against the Google Sheets API.
type SheetsClient struct {
	svc       *sheets.Service
	readRange string
}

// NewSheetsClient creates a read-only Google Sheets client from a service
// account credentials file.
func NewSheetsClient(ctx context.Context, cfg *config.GoogleConfig) (*SheetsClient, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsClient{svc: svc, readRange: cfg.SheetRange}, nil
}

// ReadRows fetches all cell values in the configured range as strings.
func (c *SheetsClient) ReadRows(ctx context.Context, sheetURL string) ([][]string, error) {
	id, err := SpreadsheetID(sheetURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.Get(id, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch sheet values: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
