package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/models"
)

// LeaseholderRepository defines the interface for leaseholder data access.
type LeaseholderRepository interface {
	ListByUnitIDs(ctx context.Context, unitIDs []uuid.UUID) ([]*models.Leaseholder, error)
}

// leaseholderRepository implements LeaseholderRepository using PostgreSQL.
type leaseholderRepository struct {
	db *database.DB
}

// NewLeaseholderRepository creates a new leaseholder repository.
func NewLeaseholderRepository(db *database.DB) LeaseholderRepository {
	return &leaseholderRepository{db: db}
}

// ListByUnitIDs retrieves leaseholders attached to any of the given units.
func (r *leaseholderRepository) ListByUnitIDs(ctx context.Context, unitIDs []uuid.UUID) ([]*models.Leaseholder, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, unit_id, name, email, phone, created_at
		FROM leaseholders
		WHERE unit_id = ANY($1)
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaseholders: %w", err)
	}
	defer rows.Close()

	var leaseholders []*models.Leaseholder
	for rows.Next() {
		var lh models.Leaseholder
		err := rows.Scan(
			&lh.ID,
			&lh.UnitID,
			&lh.Name,
			&lh.Email,
			&lh.Phone,
			&lh.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaseholder: %w", err)
		}
		leaseholders = append(leaseholders, &lh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaseholders: %w", err)
	}

	return leaseholders, nil
}

// Ensure leaseholderRepository implements LeaseholderRepository at compile time.
var _ LeaseholderRepository = (*leaseholderRepository)(nil)
