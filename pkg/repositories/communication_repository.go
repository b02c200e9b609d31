package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/models"
)

// CommunicationRepository defines the interface for historical
// interaction data access.
type CommunicationRepository interface {
	ListRecentByBuilding(ctx context.Context, buildingID uuid.UUID, limit int) ([]*models.CommunicationLog, error)
	Insert(ctx context.Context, log *models.CommunicationLog) error
}

// communicationRepository implements CommunicationRepository using PostgreSQL.
type communicationRepository struct {
	db *database.DB
}

// NewCommunicationRepository creates a new communication repository.
func NewCommunicationRepository(db *database.DB) CommunicationRepository {
	return &communicationRepository{db: db}
}

// ListRecentByBuilding retrieves the most recent interactions for a building.
func (r *communicationRepository) ListRecentByBuilding(ctx context.Context, buildingID uuid.UUID, limit int) ([]*models.CommunicationLog, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, building_id, unit_id, direction, subject, summary, created_at
		FROM communications_log
		WHERE building_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, buildingID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}
	defer rows.Close()

	var logs []*models.CommunicationLog
	for rows.Next() {
		var log models.CommunicationLog
		err := rows.Scan(
			&log.ID,
			&log.BuildingID,
			&log.UnitID,
			&log.Direction,
			&log.Subject,
			&log.Summary,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan communication: %w", err)
		}
		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating communications: %w", err)
	}

	return logs, nil
}

// Insert records a new interaction.
func (r *communicationRepository) Insert(ctx context.Context, log *models.CommunicationLog) error {
	query := `
		INSERT INTO communications_log (building_id, unit_id, direction, subject, summary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		log.BuildingID,
		log.UnitID,
		log.Direction,
		log.Subject,
		log.Summary,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert communication: %w", err)
	}

	return nil
}

// Ensure communicationRepository implements CommunicationRepository at compile time.
var _ CommunicationRepository = (*communicationRepository)(nil)
