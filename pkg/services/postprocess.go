package services

import (
	"encoding/json"
	"strings"

	"github.com/blociq/blociq-engine/pkg/jsonutil"
	"github.com/blociq/blociq-engine/pkg/llm"
)

// DocumentSummary is the structured part of a document-summary reply.
type DocumentSummary struct {
	Summary      string   `json:"summary"`
	DocumentType string   `json:"document_type"`
	KeyDates     []string `json:"key_dates"`
	Actions      []string `json:"actions"`
}

// ComplaintInfo is the structured metadata extracted from a complaint
// acknowledgement reply.
type ComplaintInfo struct {
	Severity string   `json:"severity"`
	Topics   []string `json:"topics"`
	Escalate bool     `json:"escalate"`
}

// Raw intermediates keep the fields as json.RawMessage so values the
// model returns with the wrong JSON type still coerce cleanly.
type rawDocumentSummary struct {
	Summary      json.RawMessage `json:"summary"`
	DocumentType json.RawMessage `json:"document_type"`
	KeyDates     json.RawMessage `json:"key_dates"`
	Actions      json.RawMessage `json:"actions"`
}

type rawComplaintInfo struct {
	Severity json.RawMessage `json:"severity"`
	Topics   json.RawMessage `json:"topics"`
	Escalate json.RawMessage `json:"escalate"`
}

// ExtractDocumentSummary pulls the JSON block out of a free-text reply.
// Returns nil when no parseable JSON is present; malformed model output
// must never fail the request.
func ExtractDocumentSummary(response string) *DocumentSummary {
	raw, err := llm.ParseJSONResponse[rawDocumentSummary](response)
	if err != nil {
		return nil
	}
	return &DocumentSummary{
		Summary:      jsonutil.FlexibleStringValue(raw.Summary),
		DocumentType: jsonutil.FlexibleStringValue(raw.DocumentType),
		KeyDates:     jsonutil.FlexibleStringSlice(raw.KeyDates),
		Actions:      jsonutil.FlexibleStringSlice(raw.Actions),
	}
}

// ExtractComplaintInfo pulls complaint metadata out of a free-text
// reply. Returns nil on any parse failure.
func ExtractComplaintInfo(response string) *ComplaintInfo {
	raw, err := llm.ParseJSONResponse[rawComplaintInfo](response)
	if err != nil {
		return nil
	}
	return &ComplaintInfo{
		Severity: jsonutil.FlexibleStringValue(raw.Severity),
		Topics:   jsonutil.FlexibleStringSlice(raw.Topics),
		Escalate: flexibleBool(raw.Escalate),
	}
}

func flexibleBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	switch strings.ToLower(jsonutil.FlexibleStringValue(raw)) {
	case "true", "yes", "1":
		return true
	}
	return false
}
