//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/blociq/blociq-engine/pkg/testhelpers"
)

// Seed helpers shared by the repository integration tests. Each inserts
// one row and returns its generated ID.

func seedBuilding(t *testing.T, tdb *testhelpers.TestDB, agencyID uuid.UUID, name, address string, isHRB bool) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO buildings (agency_id, name, address, is_hrb)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, agencyID, name, address, isHRB).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed building: %v", err)
	}
	return id
}

func seedUnit(t *testing.T, tdb *testhelpers.TestDB, buildingID uuid.UUID, unitNumber, floor string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO units (building_id, unit_number, floor)
		VALUES ($1, $2, $3)
		RETURNING id`, buildingID, unitNumber, floor).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed unit: %v", err)
	}
	return id
}

func seedLeaseholder(t *testing.T, tdb *testhelpers.TestDB, unitID uuid.UUID, name, email string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO leaseholders (unit_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id`, unitID, name, email).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed leaseholder: %v", err)
	}
	return id
}

func seedComplianceItem(t *testing.T, tdb *testhelpers.TestDB, buildingID uuid.UUID, itemName, status string, dueDate *time.Time) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO compliance_items (building_id, item_name, status, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, buildingID, itemName, status, dueDate).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed compliance item: %v", err)
	}
	return id
}

func seedCommunication(t *testing.T, tdb *testhelpers.TestDB, buildingID uuid.UUID, subject, summary string, createdAt time.Time) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := tdb.DB.QueryRow(context.Background(), `
		INSERT INTO communications_log (building_id, direction, subject, summary, created_at)
		VALUES ($1, 'inbound', $2, $3, $4)
		RETURNING id`, buildingID, subject, summary, createdAt).Scan(&id)
	if err != nil {
		t.Fatalf("failed to seed communication: %v", err)
	}
	return id
}
