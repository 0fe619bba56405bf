package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadsheetID(t *testing.T) {
	id, err := SpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC-def_123/edit#gid=0")
	require.NoError(t, err)
	assert.Equal(t, "1AbC-def_123", id)

	id, err = SpreadsheetID("https://docs.google.com/spreadsheets/d/xyz789")
	require.NoError(t, err)
	assert.Equal(t, "xyz789", id)
}

func TestSpreadsheetIDInvalid(t *testing.T) {
	for _, url := range []string{
		"",
		"https://example.com/spreadsheets/d/abc",
		"https://docs.google.com/document/d/abc/edit",
		"docs.google.com/spreadsheets/d/abc",
	} {
		_, err := SpreadsheetID(url)
		assert.ErrorIs(t, err, ErrInvalidSheetURL, "url %q", url)
	}
}
