package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/apperrors"
	"github.com/blociq/blociq-engine/pkg/models"
)

func newEmailMux(inbox *mockInboxService) *http.ServeMux {
	mux := http.NewServeMux()
	NewEmailHandler(inbox, uuid.New(), zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestListEmails(t *testing.T) {
	inbox := &mockInboxService{emails: []*models.IncomingEmail{
		{ID: uuid.New(), Subject: "Leak in flat 5"},
		{ID: uuid.New(), Subject: "Service charge query"},
	}}
	mux := newEmailMux(inbox)

	req := httptest.NewRequest(http.MethodGet, "/api/emails", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body EmailListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Len(t, body.Emails, 2)
}

func TestIngestEmail(t *testing.T) {
	inbox := &mockInboxService{}
	mux := newEmailMux(inbox)

	buildingID := uuid.New()
	payload, err := json.Marshal(IngestEmailRequest{
		BuildingID:  buildingID.String(),
		FromName:    "Jane Doe",
		FromAddress: "jane@example.com",
		Subject:     "Leak in flat 5",
		Body:        "Water is coming through the ceiling.",
		ReceivedAt:  time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC).Format(time.RFC3339),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/emails", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var stored models.IncomingEmail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.NotEqual(t, uuid.Nil, stored.ID)
	assert.Equal(t, "Leak in flat 5", stored.Subject)
	require.NotNil(t, stored.BuildingID)
	assert.Equal(t, buildingID, *stored.BuildingID)
	assert.NotEmpty(t, stored.Tags)
}

func TestIngestEmail_MissingRequiredFields(t *testing.T) {
	mux := newEmailMux(&mockInboxService{})

	req := httptest.NewRequest(http.MethodPost, "/api/emails",
		strings.NewReader(`{"from_name": "Jane Doe"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestEmail_BadReceivedAt(t *testing.T) {
	mux := newEmailMux(&mockInboxService{})

	req := httptest.NewRequest(http.MethodPost, "/api/emails",
		strings.NewReader(`{"from_address": "jane@example.com", "subject": "hi", "received_at": "yesterday"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEmail_NotFound(t *testing.T) {
	inbox := &mockInboxService{err: apperrors.ErrNotFound}
	mux := newEmailMux(inbox)

	req := httptest.NewRequest(http.MethodGet, "/api/emails/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email not found", body["error"])
}

func TestMarkRead_DefaultsTrue(t *testing.T) {
	inbox := &mockInboxService{}
	mux := newEmailMux(inbox)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/emails/"+id.String()+"/mark-read", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, inbox.read[id])
}

func TestMarkHandled_ExplicitFalse(t *testing.T) {
	inbox := &mockInboxService{}
	mux := newEmailMux(inbox)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/emails/"+id.String()+"/mark-handled",
		strings.NewReader(`{"value": false}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	value, present := inbox.handled[id]
	require.True(t, present)
	assert.False(t, value)
}

func TestDeleteEmail(t *testing.T) {
	inbox := &mockInboxService{}
	mux := newEmailMux(inbox)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/emails/"+id.String(), nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, inbox.deleted, 1)
	assert.Equal(t, id, inbox.deleted[0])
}

func TestEmailRoutes_BadID(t *testing.T) {
	mux := newEmailMux(&mockInboxService{})

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/emails/nope"},
		{http.MethodPost, "/api/emails/nope/mark-read"},
		{http.MethodDelete, "/api/emails/nope"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, route.path)
	}
}
