package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/blociq/blociq-engine/pkg/apperrors"
	"github.com/blociq/blociq-engine/pkg/database"
	"github.com/blociq/blociq-engine/pkg/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// FindOrCreateByEmail returns the user with the given email, creating
	// one on first sight. Creation races between concurrent requests are
	// resolved by the unique constraint on email.
	FindOrCreateByEmail(ctx context.Context, email string, agencyID uuid.UUID) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// FindOrCreateByEmail looks up a user by email and auto-creates the row
// when absent. The upsert keeps this a single round trip and makes
// concurrent first requests for the same address converge on one row.
func (r *userRepository) FindOrCreateByEmail(ctx context.Context, email string, agencyID uuid.UUID) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.ErrMissingEmail
	}

	query := `
		INSERT INTO users (email, agency_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id, email, agency_id, role, created_at, updated_at`

	var user models.User
	err := r.db.QueryRow(ctx, query, email, agencyID, models.RoleManager).Scan(
		&user.ID,
		&user.Email,
		&user.AgencyID,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by its ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, agency_id, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.AgencyID,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
