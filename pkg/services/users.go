package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/repositories"
)

// UserService resolves the requesting user from the X-User-Email header.
type UserService interface {
	ResolveByEmail(ctx context.Context, email string, agencyID uuid.UUID) (*models.User, error)
}

type userService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{users: users, logger: logger.Named("users")}
}

var _ UserService = (*userService)(nil)

// ResolveByEmail finds the user row for the given address, auto-creating
// it on first sight.
func (s *userService) ResolveByEmail(ctx context.Context, email string, agencyID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindOrCreateByEmail(ctx, email, agencyID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Resolved user",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return user, nil
}
