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

// EmailRepository defines the interface for inbox email data access.
type EmailRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.IncomingEmail, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID, unhandledOnly bool) ([]*models.IncomingEmail, error)
	Insert(ctx context.Context, email *models.IncomingEmail) error
	MarkRead(ctx context.Context, id uuid.UUID, read bool) error
	MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error
	SetTags(ctx context.Context, id uuid.UUID, tags []string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// emailRepository implements EmailRepository using PostgreSQL.
type emailRepository struct {
	db *database.DB
}

// NewEmailRepository creates a new email repository.
func NewEmailRepository(db *database.DB) EmailRepository {
	return &emailRepository{db: db}
}

const emailColumns = `id, agency_id, building_id, from_name, from_address, subject, body,
	tags, is_read, is_handled, received_at, created_at, updated_at`

func scanEmail(row pgx.Row) (*models.IncomingEmail, error) {
	var e models.IncomingEmail
	err := row.Scan(
		&e.ID,
		&e.AgencyID,
		&e.BuildingID,
		&e.FromName,
		&e.FromAddress,
		&e.Subject,
		&e.Body,
		&e.Tags,
		&e.IsRead,
		&e.IsHandled,
		&e.ReceivedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID retrieves an inbox email by ID.
func (r *emailRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.IncomingEmail, error) {
	query := `SELECT ` + emailColumns + ` FROM incoming_emails WHERE id = $1`

	email, err := scanEmail(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get email: %w", err)
	}

	return email, nil
}

// ListByAgency retrieves inbox emails newest first, optionally only
// those not yet handled.
func (r *emailRepository) ListByAgency(ctx context.Context, agencyID uuid.UUID, unhandledOnly bool) ([]*models.IncomingEmail, error) {
	query := `SELECT ` + emailColumns + `
		FROM incoming_emails
		WHERE agency_id = $1 AND ($2 = FALSE OR is_handled = FALSE)
		ORDER BY received_at DESC
		LIMIT 200`

	rows, err := r.db.Query(ctx, query, agencyID, unhandledOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	var emails []*models.IncomingEmail
	for rows.Next() {
		email, err := scanEmail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emails: %w", err)
	}

	return emails, nil
}

// Insert stores a new inbox email and fills in generated fields.
func (r *emailRepository) Insert(ctx context.Context, email *models.IncomingEmail) error {
	if email.Tags == nil {
		email.Tags = []string{}
	}

	query := `
		INSERT INTO incoming_emails
			(agency_id, building_id, from_name, from_address, subject, body, tags, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING id, is_read, is_handled, received_at, created_at, updated_at`

	var receivedAt *time.Time
	if !email.ReceivedAt.IsZero() {
		receivedAt = &email.ReceivedAt
	}

	err := r.db.QueryRow(ctx, query,
		email.AgencyID,
		email.BuildingID,
		email.FromName,
		email.FromAddress,
		email.Subject,
		email.Body,
		email.Tags,
		receivedAt,
	).Scan(
		&email.ID,
		&email.IsRead,
		&email.IsHandled,
		&email.ReceivedAt,
		&email.CreatedAt,
		&email.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert email: %w", err)
	}

	return nil
}

// MarkRead flips the read flag.
func (r *emailRepository) MarkRead(ctx context.Context, id uuid.UUID, read bool) error {
	return r.setFlag(ctx, id, "is_read", read)
}

// MarkHandled flips the handled flag.
func (r *emailRepository) MarkHandled(ctx context.Context, id uuid.UUID, handled bool) error {
	return r.setFlag(ctx, id, "is_handled", handled)
}

func (r *emailRepository) setFlag(ctx context.Context, id uuid.UUID, column string, value bool) error {
	// column is one of the two fixed flag names above, never user input.
	query := fmt.Sprintf(`UPDATE incoming_emails SET %s = $2, updated_at = now() WHERE id = $1`, column)

	result, err := r.db.Exec(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update email %s: %w", column, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SetTags replaces the triage tags on an email.
func (r *emailRepository) SetTags(ctx context.Context, id uuid.UUID, tags []string) error {
	if tags == nil {
		tags = []string{}
	}

	query := `UPDATE incoming_emails SET tags = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, tags)
	if err != nil {
		return fmt.Errorf("failed to set email tags: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes an inbox email.
func (r *emailRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM incoming_emails WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete email: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure emailRepository implements EmailRepository at compile time.
var _ EmailRepository = (*emailRepository)(nil)
