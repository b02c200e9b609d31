package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/models"
)

// UnitRepository defines the interface for unit data access.
type UnitRepository interface {
	// MatchInBuilding finds units whose number matches any of the common
	// ways a correspondent writes it: "5", "Flat 5", "5A". Zero rows is
	// not an error; the caller degrades the prompt instead.
	MatchInBuilding(ctx context.Context, buildingID uuid.UUID, unitText string) ([]*models.Unit, error)
	ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.Unit, error)
}

// unitRepository implements UnitRepository using PostgreSQL.
type unitRepository struct {
	db *database.DB
}

// NewUnitRepository creates a new unit repository.
func NewUnitRepository(db *database.DB) UnitRepository {
	return &unitRepository{db: db}
}

// MatchInBuilding matches the free-text unit reference against the
// building's units using OR'd equality and ILIKE variants.
func (r *unitRepository) MatchInBuilding(ctx context.Context, buildingID uuid.UUID, unitText string) ([]*models.Unit, error) {
	unitText = strings.TrimSpace(unitText)
	if unitText == "" {
		return nil, nil
	}

	// Strip a leading "Flat"/"Apartment" so "Flat 5" matches unit "5" too.
	bare := unitText
	for _, prefix := range []string{"flat ", "apartment ", "apt ", "unit "} {
		if strings.HasPrefix(strings.ToLower(bare), prefix) {
			bare = strings.TrimSpace(bare[len(prefix):])
			break
		}
	}

	query := `
		SELECT id, building_id, unit_number, floor, created_at
		FROM units
		WHERE building_id = $1
		  AND (unit_number = $2
		       OR unit_number ILIKE $2
		       OR unit_number = $3
		       OR unit_number ILIKE 'Flat ' || $3
		       OR unit_number ILIKE $3 || '%')
		ORDER BY unit_number`

	rows, err := r.db.Query(ctx, query, buildingID, unitText, bare)
	if err != nil {
		return nil, fmt.Errorf("failed to match units: %w", err)
	}
	defer rows.Close()

	var units []*models.Unit
	for rows.Next() {
		var unit models.Unit
		err := rows.Scan(
			&unit.ID,
			&unit.BuildingID,
			&unit.UnitNumber,
			&unit.Floor,
			&unit.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, &unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}

	return units, nil
}

// ListByBuilding retrieves all units in a building.
func (r *unitRepository) ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.Unit, error) {
	query := `
		SELECT id, building_id, unit_number, floor, created_at
		FROM units
		WHERE building_id = $1
		ORDER BY unit_number`

	rows, err := r.db.Query(ctx, query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []*models.Unit
	for rows.Next() {
		var unit models.Unit
		err := rows.Scan(
			&unit.ID,
			&unit.BuildingID,
			&unit.UnitNumber,
			&unit.Floor,
			&unit.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, &unit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating units: %w", err)
	}

	return units, nil
}

// Ensure unitRepository implements UnitRepository at compile time.
var _ UnitRepository = (*unitRepository)(nil)
