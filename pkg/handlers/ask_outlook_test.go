package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/llm"
)

func newOutlookMux(ask *mockAskService, users *mockUserService) *http.ServeMux {
	mux := http.NewServeMux()
	NewOutlookHandler(ask, users, uuid.New(), zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func postOutlook(t *testing.T, mux *http.ServeMux, path string, body map[string]any, email string) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	if email != "" {
		req.Header.Set("X-User-Email", email)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestOutlookAsk_MissingQuestionReturns400BeforeAnyWork(t *testing.T) {
	ask := &mockAskService{result: defaultAskResult()}
	users := &mockUserService{}
	mux := newOutlookMux(ask, users)

	rec := postOutlook(t, mux, "/api/ask-ai-outlook-blociq", map[string]any{"question": "  "}, "manager@agency.co.uk")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// Neither the user lookup nor the pipeline ran.
	assert.Zero(t, users.calls)
	assert.Zero(t, ask.answerCalls)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.NotEmpty(t, body["error"])
}

func TestOutlookAsk_MissingEmailReturns401BeforeAnyWork(t *testing.T) {
	ask := &mockAskService{result: defaultAskResult()}
	users := &mockUserService{}
	mux := newOutlookMux(ask, users)

	rec := postOutlook(t, mux, "/api/ask-ai-outlook-blociq", map[string]any{"question": "leak in flat 5"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, users.calls)
	assert.Zero(t, ask.answerCalls)
}

func TestOutlookAsk_FullResponseShape(t *testing.T) {
	ask := &mockAskService{result: defaultAskResult()}
	users := &mockUserService{}
	mux := newOutlookMux(ask, users)

	rec := postOutlook(t, mux, "/api/ask-ai-outlook-blociq",
		map[string]any{"question": "leak in flat 5", "building": "Ashwood Court", "unit": "Flat 5"},
		"manager@agency.co.uk")

	require.Equal(t, http.StatusOK, rec.Code)

	var body OutlookAskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "Thank you for your email.", body.Answer)
	assert.Equal(t, "leak", body.Phase2Features.Category)
	assert.Equal(t, "high", body.Phase2Features.Urgency)
	assert.NotNil(t, body.Phase3Intelligence.Missing)

	assert.Equal(t, "Ashwood Court", ask.lastRequest.BuildingRef)
	assert.Equal(t, "Flat 5", ask.lastRequest.UnitRef)
	assert.Equal(t, "manager@agency.co.uk", users.lastEmail)
}

func TestOutlookAskLite_SuggestedQueries(t *testing.T) {
	ask := &mockAskService{result: defaultAskResult()}
	mux := newOutlookMux(ask, &mockUserService{})

	rec := postOutlook(t, mux, "/api/ask-ai-outlook", map[string]any{"question": "leak"}, "manager@agency.co.uk")

	require.Equal(t, http.StatusOK, rec.Code)

	var body OutlookLiteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.NotEmpty(t, body.SuggestedQueries)
}

func TestOutlookAsk_LLMFailureReturns503(t *testing.T) {
	ask := &mockAskService{err: llm.NewError(llm.ErrorTypeRateLimit, "rate limited", true, nil)}
	mux := newOutlookMux(ask, &mockUserService{})

	rec := postOutlook(t, mux, "/api/ask-ai-outlook-blociq", map[string]any{"question": "leak"}, "manager@agency.co.uk")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
}

func TestOutlookAsk_InvalidBodyReturns400(t *testing.T) {
	mux := newOutlookMux(&mockAskService{}, &mockUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/ask-ai-outlook-blociq", bytes.NewReader([]byte("{not json")))
	req.Header.Set("X-User-Email", "manager@agency.co.uk")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
