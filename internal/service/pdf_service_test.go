package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFConvertProducesDocument(t *testing.T) {
	svc := NewPDFService()

	out, err := svc.Convert(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50">` +
		`<rect x="0" y="0" width="100" height="50" fill="#ffffff"/>` +
		`</svg>`)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output should be a PDF document")
}

func TestPDFConvertFallsBackToDefaultPageSize(t *testing.T) {
	svc := NewPDFService()

	out, err := svc.Convert(`<svg xmlns="http://www.w3.org/2000/svg">` +
		`<rect x="0" y="0" width="10" height="10" fill="#000000"/>` +
		`</svg>`)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFConvertInvalidMarkup(t *testing.T) {
	svc := NewPDFService()

	_, err := svc.Convert(`<svg viewBox="0 0 100 50"><rect</svg>`)
	assert.ErrorIs(t, err, ErrConvertPDF)
}
