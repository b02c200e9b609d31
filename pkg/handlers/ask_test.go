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

	"github.com/blociq/blociq-engine/pkg/apperrors"
)

func newAskMux(svc *mockAskService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAskHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func postAsk(t *testing.T, mux *http.ServeMux, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestAsk_Success(t *testing.T) {
	svc := &mockAskService{result: defaultAskResult()}
	mux := newAskMux(svc)

	buildingID := uuid.New()
	rec := postAsk(t, mux, map[string]any{
		"question":   "Who insures the building?",
		"buildingId": buildingID.String(),
		"userId":     uuid.NewString(),
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var body AskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Thank you for your email.", body.Answer)
	assert.Equal(t, buildingID, svc.lastBuildingID)
}

func TestAsk_MissingQuestion(t *testing.T) {
	svc := &mockAskService{result: defaultAskResult()}
	mux := newAskMux(svc)

	rec := postAsk(t, mux, map[string]any{
		"buildingId": uuid.NewString(),
		"userId":     uuid.NewString(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.forBuildingCall)
}

func TestAsk_BadBuildingID(t *testing.T) {
	mux := newAskMux(&mockAskService{})

	rec := postAsk(t, mux, map[string]any{
		"question":   "hi",
		"buildingId": "not-a-uuid",
		"userId":     uuid.NewString(),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk_UnknownBuildingReturns404(t *testing.T) {
	svc := &mockAskService{forBuildingErr: apperrors.ErrBuildingMissing}
	mux := newAskMux(svc)

	rec := postAsk(t, mux, map[string]any{
		"question":   "hi",
		"buildingId": uuid.NewString(),
		"userId":     uuid.NewString(),
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "building not found", body["error"])
}
