package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/blociq/blociq-engine/pkg/apperrors"
	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/models"
)

// BuildingRepository defines the interface for building data access.
type BuildingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error)
	// SearchByName performs a fuzzy ILIKE lookup scoped to the agency.
	// At most one building is returned; ties are broken by name order.
	SearchByName(ctx context.Context, agencyID uuid.UUID, name string) (*models.Building, error)
	Update(ctx context.Context, id uuid.UUID, update *models.BuildingUpdate) (*models.Building, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.Building, error)
}

// buildingRepository implements BuildingRepository using PostgreSQL.
type buildingRepository struct {
	db *database.DB
}

// NewBuildingRepository creates a new building repository.
func NewBuildingRepository(db *database.DB) BuildingRepository {
	return &buildingRepository{db: db}
}

const buildingColumns = `id, agency_id, name, address, is_hrb, created_at, updated_at`

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	err := row.Scan(
		&b.ID,
		&b.AgencyID,
		&b.Name,
		&b.Address,
		&b.IsHRB,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID retrieves a building by UUID (the direct-ID lookup branch).
func (r *buildingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE id = $1`

	building, err := scanBuilding(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBuildingMissing
		}
		return nil, fmt.Errorf("failed to get building: %w", err)
	}

	return building, nil
}

// SearchByName retrieves the first building whose name fuzzily matches
// the given text (the ILIKE lookup branch).
func (r *buildingRepository) SearchByName(ctx context.Context, agencyID uuid.UUID, name string) (*models.Building, error) {
	query := `
		SELECT ` + buildingColumns + `
		FROM buildings
		WHERE agency_id = $1 AND name ILIKE '%' || $2 || '%'
		ORDER BY name
		LIMIT 1`

	building, err := scanBuilding(r.db.QueryRow(ctx, query, agencyID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBuildingMissing
		}
		return nil, fmt.Errorf("failed to search buildings: %w", err)
	}

	return building, nil
}

// Update applies the non-nil fields of the update to the building and
// returns the updated row. A nil field leaves the column unchanged.
func (r *buildingRepository) Update(ctx context.Context, id uuid.UUID, update *models.BuildingUpdate) (*models.Building, error) {
	query := `
		UPDATE buildings
		SET name = COALESCE($2, name),
		    address = COALESCE($3, address),
		    is_hrb = COALESCE($4, is_hrb),
		    updated_at = $5
		WHERE id = $1
		RETURNING ` + buildingColumns

	building, err := scanBuilding(r.db.QueryRow(ctx, query, id, update.Name, update.Address, update.IsHRB, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBuildingMissing
		}
		return nil, fmt.Errorf("failed to update building: %w", err)
	}

	return building, nil
}

// ListByAgency retrieves all buildings managed by an agency.
func (r *buildingRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE agency_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	defer rows.Close()

	var buildings []*models.Building
	for rows.Next() {
		building, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan building: %w", err)
		}
		buildings = append(buildings, building)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buildings: %w", err)
	}

	return buildings, nil
}

// Ensure buildingRepository implements BuildingRepository at compile time.
var _ BuildingRepository = (*buildingRepository)(nil)
