package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVGRenderReplacesPlaceholders(t *testing.T) {
	svc := NewSVGService()

	out, err := svc.Render(
		`<svg xmlns="http://www.w3.org/2000/svg"><text>Awarded to {{participant_name}}</text></svg>`,
		map[string]string{"participant_name": "Alice Smith"},
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Awarded to Alice Smith")
	assert.NotContains(t, out, "{{participant_name}}")
}

func TestSVGRenderLeavesUnmatchedPlaceholders(t *testing.T) {
	svc := NewSVGService()

	out, err := svc.Render(
		`<svg><text>{{participant_name}} at {{event_name}}</text></svg>`,
		map[string]string{"participant_name": "Bob"},
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Bob at {{event_name}}")
}

func TestSVGRenderSetsTextByID(t *testing.T) {
	svc := NewSVGService()

	out, err := svc.Render(
		`<svg><text id="participant_name">PLACEHOLDER</text></svg>`,
		map[string]string{"participant_name": "Carol"},
	)
	require.NoError(t, err)
	assert.Contains(t, out, ">Carol<")
	assert.NotContains(t, out, "PLACEHOLDER")
}

func TestSVGRenderNestedElements(t *testing.T) {
	svc := NewSVGService()

	out, err := svc.Render(
		`<svg><g><g><text>{{name}}</text></g></g></svg>`,
		map[string]string{"name": "Dana"},
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Dana")
}

func TestSVGRenderInvalidMarkup(t *testing.T) {
	svc := NewSVGService()

	_, err := svc.Render(`<svg><text>unclosed`, nil)
	assert.ErrorIs(t, err, ErrInvalidSVG)
}

func TestSVGValidate(t *testing.T) {
	svc := NewSVGService()

	assert.NoError(t, svc.Validate(`<svg><rect/></svg>`))
	assert.ErrorIs(t, svc.Validate(`not xml at all <<`), ErrInvalidSVG)
	assert.ErrorIs(t, svc.Validate(``), ErrInvalidSVG)
}
