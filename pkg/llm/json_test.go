package llm

import (
	"testing"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	input := `{"summary": "test", "actions": []}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_FencedBlock(t *testing.T) {
	input := "Here's my answer\n\n```json\n{\"a\":1}\n```"
	expected := `{"a":1}`

	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_BareFence(t *testing.T) {
	input := "```\n{\"severity\": \"high\"}\n```"
	expected := `{"severity": "high"}`

	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_ObjectSurroundedByProse(t *testing.T) {
	input := `The summary is below.
{"document_type": "lease", "key_dates": ["2026-01-01"]}
Let me know if you need more.`
	expected := `{"document_type": "lease", "key_dates": ["2026-01-01"]}`

	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_NestedBracesInStrings(t *testing.T) {
	input := `{"summary": "clause {4.2} applies", "escalate": false}`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_Array(t *testing.T) {
	input := `["one", "two"]`
	result, err := ExtractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	if _, err := ExtractJSON("Dear Jane, thank you for your email."); err == nil {
		t.Error("expected error for response with no JSON")
	}
}

func TestExtractJSON_MalformedJSON(t *testing.T) {
	if _, err := ExtractJSON("```json\n{\"a\": 1,}\n```"); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestParseJSONResponse(t *testing.T) {
	type payload struct {
		Severity string `json:"severity"`
		Escalate bool   `json:"escalate"`
	}

	result, err := ParseJSONResponse[payload]("Draft reply here.\n```json\n{\"severity\": \"high\", \"escalate\": true}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Severity != "high" || !result.Escalate {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestParseJSONResponse_MalformedReturnsError(t *testing.T) {
	type payload struct {
		Severity string `json:"severity"`
	}

	if _, err := ParseJSONResponse[payload]("no json here at all"); err == nil {
		t.Error("expected error for response without JSON")
	}
}
