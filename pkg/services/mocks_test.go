package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/blociq/blociq-engine/pkg/apperrors"
	"github.com/blociq/blociq-engine/pkg/models"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockBuildingRepo struct {
	building      *models.Building
	getByIDErr    error
	searchErr     error
	getByIDCalls  int
	searchCalls   int
	lastSearch    string
	updateRow     *models.Building
	updateErr     error
	listBuildings []*models.Building
}

func (m *mockBuildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	m.getByIDCalls++
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	if m.building == nil {
		return nil, apperrors.ErrBuildingMissing
	}
	return m.building, nil
}

func (m *mockBuildingRepo) SearchByName(ctx context.Context, agencyID uuid.UUID, name string) (*models.Building, error) {
	m.searchCalls++
	m.lastSearch = name
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if m.building == nil {
		return nil, apperrors.ErrBuildingMissing
	}
	return m.building, nil
}

func (m *mockBuildingRepo) Update(ctx context.Context, id uuid.UUID, update *models.BuildingUpdate) (*models.Building, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.updateRow, nil
}

func (m *mockBuildingRepo) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.Building, error) {
	return m.listBuildings, nil
}

type mockUnitRepo struct {
	units    []*models.Unit
	matchErr error
	lastText string
}

func (m *mockUnitRepo) MatchInBuilding(ctx context.Context, buildingID uuid.UUID, unitText string) ([]*models.Unit, error) {
	m.lastText = unitText
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	return m.units, nil
}

func (m *mockUnitRepo) ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.Unit, error) {
	return m.units, nil
}

type mockLeaseholderRepo struct {
	leaseholders []*models.Leaseholder
	err          error
}

func (m *mockLeaseholderRepo) ListByUnitIDs(ctx context.Context, unitIDs []uuid.UUID) ([]*models.Leaseholder, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.leaseholders, nil
}

type mockComplianceRepo struct {
	summary      *models.ComplianceSummary
	summaryErr   error
	items        []*models.ComplianceItem
	listErr      error
	summaryCalls int
	listCalls    int
}

func (m *mockComplianceRepo) SummaryByBuilding(ctx context.Context, buildingID uuid.UUID) (*models.ComplianceSummary, error) {
	m.summaryCalls++
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	return m.summary, nil
}

func (m *mockComplianceRepo) ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.ComplianceItem, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

type mockCommunicationRepo struct {
	logs []*models.CommunicationLog
	err  error
}

func (m *mockCommunicationRepo) ListRecentByBuilding(ctx context.Context, buildingID uuid.UUID, limit int) ([]*models.CommunicationLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.logs, nil
}

func (m *mockCommunicationRepo) Insert(ctx context.Context, log *models.CommunicationLog) error {
	return nil
}

type mockAILogRepo struct {
	inserted  []*models.AILog
	insertErr error
}

func (m *mockAILogRepo) Insert(ctx context.Context, log *models.AILog) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, log)
	return nil
}

type mockEmailRepo struct {
	email      *models.IncomingEmail
	getErr     error
	emails     []*models.IncomingEmail
	inserted   []*models.IncomingEmail
	insertErr  error
	readFlags  map[uuid.UUID]bool
	handled    map[uuid.UUID]bool
	deletedIDs []uuid.UUID
}

func (m *mockEmailRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.IncomingEmail, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.email == nil {
		return nil, apperrors.ErrNotFound
	}
	return m.email, nil
}

func (m *mockEmailRepo) ListByAgency(ctx context.Context, agencyID uuid.UUID, unhandledOnly bool) ([]*models.IncomingEmail, error) {
	return m.emails, nil
}

func (m *mockEmailRepo) Insert(ctx context.Context, email *models.IncomingEmail) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if email.ID == uuid.Nil {
		email.ID = uuid.New()
	}
	m.inserted = append(m.inserted, email)
	return nil
}

func (m *mockEmailRepo) MarkRead(ctx context.Context, id uuid.UUID, read bool) error {
	if m.readFlags == nil {
		m.readFlags = map[uuid.UUID]bool{}
	}
	m.readFlags[id] = read
	return nil
}

func (m *mockEmailRepo) MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error {
	if m.handled == nil {
		m.handled = map[uuid.UUID]bool{}
	}
	m.handled[id] = handled
	return nil
}

func (m *mockEmailRepo) SetTags(ctx context.Context, id uuid.UUID, tags []string) error {
	return nil
}

func (m *mockEmailRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockUserRepo struct {
	user *models.User
	err  error
}

func (m *mockUserRepo) FindOrCreateByEmail(ctx context.Context, email string, agencyID uuid.UUID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user != nil {
		return m.user, nil
	}
	return &models.User{ID: uuid.New(), Email: email, AgencyID: agencyID}, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}
