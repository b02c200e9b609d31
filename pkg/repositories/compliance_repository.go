package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/models"
)

// ComplianceRepository defines the interface for compliance data access.
type ComplianceRepository interface {
	// SummaryByBuilding returns items plus overdue/due-soon counts in a
	// single aggregate query.
	SummaryByBuilding(ctx context.Context, buildingID uuid.UUID) (*models.ComplianceSummary, error)
	// ListByBuilding is the plain table scan used as fallback when the
	// aggregate fails; callers compute counts themselves.
	ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.ComplianceItem, error)
}

// complianceRepository implements ComplianceRepository using PostgreSQL.
type complianceRepository struct {
	db *database.DB
}

// NewComplianceRepository creates a new compliance repository.
func NewComplianceRepository(db *database.DB) ComplianceRepository {
	return &complianceRepository{db: db}
}

// SummaryByBuilding aggregates compliance status counts alongside the items.
func (r *complianceRepository) SummaryByBuilding(ctx context.Context, buildingID uuid.UUID) (*models.ComplianceSummary, error) {
	summary := &models.ComplianceSummary{BuildingID: buildingID}

	countQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'overdue'),
		       COUNT(*) FILTER (WHERE status = 'due_soon')
		FROM compliance_items
		WHERE building_id = $1`

	err := r.db.QueryRow(ctx, countQuery, buildingID).Scan(
		&summary.Total,
		&summary.Overdue,
		&summary.DueSoon,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate compliance counts: %w", err)
	}

	items, err := r.ListByBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	summary.Items = items

	return summary, nil
}

// ListByBuilding retrieves all compliance items for a building, most
// urgent first.
func (r *complianceRepository) ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.ComplianceItem, error) {
	query := `
		SELECT id, building_id, item_name, status, due_date, priority, created_at, updated_at
		FROM compliance_items
		WHERE building_id = $1
		ORDER BY CASE status
		           WHEN 'overdue' THEN 0
		           WHEN 'due_soon' THEN 1
		           WHEN 'missing' THEN 2
		           ELSE 3
		         END,
		         due_date NULLS LAST`

	rows, err := r.db.Query(ctx, query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compliance items: %w", err)
	}
	defer rows.Close()

	var items []*models.ComplianceItem
	for rows.Next() {
		var item models.ComplianceItem
		err := rows.Scan(
			&item.ID,
			&item.BuildingID,
			&item.ItemName,
			&item.Status,
			&item.DueDate,
			&item.Priority,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan compliance item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance items: %w", err)
	}

	return items, nil
}

// Ensure complianceRepository implements ComplianceRepository at compile time.
var _ ComplianceRepository = (*complianceRepository)(nil)
