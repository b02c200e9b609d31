package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/prompts"
	"github.com/blociq/blociq-engine/pkg/services"
	"github.com/blociq/blociq-engine/pkg/triage"
)

// ============================================================================
// Mock Services
// ============================================================================

type mockAskService struct {
	result          *services.AskResult
	err             error
	answerCalls     int
	lastRequest     services.AskRequest
	forBuildingErr  error
	lastBuildingID  uuid.UUID
	forBuildingCall int
}

func (m *mockAskService) Answer(ctx context.Context, req services.AskRequest) (*services.AskResult, error) {
	m.answerCalls++
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAskService) AnswerForBuilding(ctx context.Context, buildingID, userID uuid.UUID, question string) (*services.AskResult, error) {
	m.forBuildingCall++
	m.lastBuildingID = buildingID
	if m.forBuildingErr != nil {
		return nil, m.forBuildingErr
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func defaultAskResult() *services.AskResult {
	return &services.AskResult{
		Answer: "Thank you for your email.",
		Triage: triage.Result{
			Category:  triage.CategoryLeak,
			Urgency:   triage.UrgencyHigh,
			Sentiment: triage.SentimentConcerned,
		},
		Context:     &prompts.EntityContext{},
		ContextText: "PROPERTY RECORDS:\nNo matched records in system.\n",
	}
}

type mockUserService struct {
	user      *models.User
	err       error
	calls     int
	lastEmail string
}

func (m *mockUserService) ResolveByEmail(ctx context.Context, email string, agencyID uuid.UUID) (*models.User, error) {
	m.calls++
	m.lastEmail = email
	if m.err != nil {
		return nil, m.err
	}
	if m.user != nil {
		return m.user, nil
	}
	return &models.User{ID: uuid.New(), Email: email, AgencyID: agencyID}, nil
}

type mockBuildingService struct {
	building *models.Building
	err      error
}

func (m *mockBuildingService) Get(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.building, nil
}

func (m *mockBuildingService) Update(ctx context.Context, id uuid.UUID, update *models.BuildingUpdate) (*models.Building, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.building, nil
}

func (m *mockBuildingService) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.Building, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.building == nil {
		return nil, nil
	}
	return []*models.Building{m.building}, nil
}

type mockInboxService struct {
	email   *models.IncomingEmail
	emails  []*models.IncomingEmail
	draft   *services.DraftResult
	err     error
	deleted []uuid.UUID
	read    map[uuid.UUID]bool
	handled map[uuid.UUID]bool
}

func (m *mockInboxService) Get(ctx context.Context, id uuid.UUID) (*models.IncomingEmail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.email, nil
}

func (m *mockInboxService) List(ctx context.Context, agencyID uuid.UUID, unhandledOnly bool) ([]*models.IncomingEmail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.emails, nil
}

func (m *mockInboxService) Ingest(ctx context.Context, email *models.IncomingEmail) (*models.IncomingEmail, error) {
	if m.err != nil {
		return nil, m.err
	}
	email.ID = uuid.New()
	email.Tags = []string{"general"}
	return email, nil
}

func (m *mockInboxService) MarkRead(ctx context.Context, id uuid.UUID, read bool) error {
	if m.err != nil {
		return m.err
	}
	if m.read == nil {
		m.read = map[uuid.UUID]bool{}
	}
	m.read[id] = read
	return nil
}

func (m *mockInboxService) MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error {
	if m.err != nil {
		return m.err
	}
	if m.handled == nil {
		m.handled = map[uuid.UUID]bool{}
	}
	m.handled[id] = handled
	return nil
}

func (m *mockInboxService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockInboxService) GenerateDraft(ctx context.Context, emailID uuid.UUID, userID uuid.UUID) (*services.DraftResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.draft, nil
}

type mockDocumentService struct {
	summary   *services.SummaryResult
	complaint *services.ComplaintResult
	err       error
}

func (m *mockDocumentService) SummarizeDocument(ctx context.Context, agencyID, userID uuid.UUID, documentText string) (*services.SummaryResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockDocumentService) AnalyzeComplaint(ctx context.Context, agencyID, userID uuid.UUID, complaintText string) (*services.ComplaintResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.complaint, nil
}
