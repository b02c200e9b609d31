package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDocumentSummary_FencedBlock(t *testing.T) {
	response := "Here is the summary.\n\n```json\n" +
		`{"summary": "25-year lease", "document_type": "lease", "key_dates": ["1990-01-01"], "actions": ["check ground rent clause"]}` +
		"\n```"

	summary := ExtractDocumentSummary(response)

	require.NotNil(t, summary)
	assert.Equal(t, "25-year lease", summary.Summary)
	assert.Equal(t, "lease", summary.DocumentType)
	assert.Equal(t, []string{"1990-01-01"}, summary.KeyDates)
	assert.Equal(t, []string{"check ground rent clause"}, summary.Actions)
}

func TestExtractDocumentSummary_MalformedReturnsNil(t *testing.T) {
	assert.Nil(t, ExtractDocumentSummary("```json\n{\"summary\": \n```"))
	assert.Nil(t, ExtractDocumentSummary("no json in this reply at all"))
}

func TestExtractDocumentSummary_ToleratesScalarForArray(t *testing.T) {
	// Models sometimes return a bare string where the contract says
	// array.
	response := `{"summary": "EWS1 form", "document_type": "certificate", "key_dates": "2026-03-01", "actions": null}`

	summary := ExtractDocumentSummary(response)

	require.NotNil(t, summary)
	assert.Equal(t, []string{"2026-03-01"}, summary.KeyDates)
	assert.Nil(t, summary.Actions)
}

func TestExtractComplaintInfo_FencedBlock(t *testing.T) {
	response := "Dear Mrs Doe,\n...draft...\n\n```json\n" +
		`{"severity": "high", "topics": ["delays", "communication"], "escalate": true}` +
		"\n```"

	info := ExtractComplaintInfo(response)

	require.NotNil(t, info)
	assert.Equal(t, "high", info.Severity)
	assert.Equal(t, []string{"delays", "communication"}, info.Topics)
	assert.True(t, info.Escalate)
}

func TestExtractComplaintInfo_EscalateAsString(t *testing.T) {
	info := ExtractComplaintInfo(`{"severity": "medium", "topics": [], "escalate": "yes"}`)

	require.NotNil(t, info)
	assert.True(t, info.Escalate)
}

func TestExtractComplaintInfo_MalformedReturnsNil(t *testing.T) {
	assert.Nil(t, ExtractComplaintInfo("I am sorry to hear about your experience."))
}
