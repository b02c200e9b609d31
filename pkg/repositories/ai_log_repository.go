package repositories

import (
	"context"
	"fmt"

	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/models"
)

// AILogRepository defines the interface for the append-only AI audit log.
type AILogRepository interface {
	Insert(ctx context.Context, log *models.AILog) error
}

// aiLogRepository implements AILogRepository using PostgreSQL.
type aiLogRepository struct {
	db *database.DB
}

// NewAILogRepository creates a new AI log repository.
func NewAILogRepository(db *database.DB) AILogRepository {
	return &aiLogRepository{db: db}
}

// Insert appends one audit row. Callers treat failure as non-fatal.
func (r *aiLogRepository) Insert(ctx context.Context, log *models.AILog) error {
	query := `
		INSERT INTO ai_logs (user_id, agency_id, question, response, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		log.UserID,
		log.AgencyID,
		log.Question,
		log.Response,
		log.Metadata,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ai log: %w", err)
	}

	return nil
}

// Ensure aiLogRepository implements AILogRepository at compile time.
var _ AILogRepository = (*aiLogRepository)(nil)
