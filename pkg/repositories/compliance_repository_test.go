//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/testhelpers"
)

func TestComplianceRepository_SummaryByBuilding(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewComplianceRepository(tdb.DB)

	buildingID := seedBuilding(t, tdb, uuid.New(), "Ashwood Court", "", true)
	overdue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedComplianceItem(t, tdb, buildingID, "Fire Risk Assessment", models.ComplianceStatusOverdue, &overdue)
	seedComplianceItem(t, tdb, buildingID, "EICR", models.ComplianceStatusCompliant, nil)
	seedComplianceItem(t, tdb, buildingID, "Lift LOLER", models.ComplianceStatusDueSoon, nil)

	summary, err := repo.SummaryByBuilding(context.Background(), buildingID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Overdue)
	assert.Equal(t, 1, summary.DueSoon)
	require.Len(t, summary.Items, 3)

	// Overdue items sort ahead of due-soon, compliant last.
	assert.Equal(t, "Fire Risk Assessment", summary.Items[0].ItemName)
	assert.Equal(t, "Lift LOLER", summary.Items[1].ItemName)
	assert.Equal(t, "EICR", summary.Items[2].ItemName)
}

func TestComplianceRepository_SummaryByBuilding_Empty(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewComplianceRepository(tdb.DB)

	buildingID := seedBuilding(t, tdb, uuid.New(), "Ashwood Court", "", false)

	summary, err := repo.SummaryByBuilding(context.Background(), buildingID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.Items)
}

func TestComplianceRepository_ListByBuilding_ScopedToBuilding(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewComplianceRepository(tdb.DB)

	agencyID := uuid.New()
	buildingID := seedBuilding(t, tdb, agencyID, "Ashwood Court", "", false)
	otherID := seedBuilding(t, tdb, agencyID, "Birch House", "", false)
	seedComplianceItem(t, tdb, buildingID, "Fire Risk Assessment", models.ComplianceStatusCompliant, nil)
	seedComplianceItem(t, tdb, otherID, "EICR", models.ComplianceStatusOverdue, nil)

	items, err := repo.ListByBuilding(context.Background(), buildingID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Fire Risk Assessment", items[0].ItemName)
}
