package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blociq/blociq-engine/pkg/models"
	"github.com/blociq/blociq-engine/pkg/repositories"
)

// BuildingService provides building CRUD operations.
type BuildingService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Building, error)
	Update(ctx context.Context, id uuid.UUID, update *models.BuildingUpdate) (*models.Building, error)
	ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.Building, error)
}

type buildingService struct {
	buildings repositories.BuildingRepository
	logger    *zap.Logger
}

// NewBuildingService creates a new building service.
func NewBuildingService(buildings repositories.BuildingRepository, logger *zap.Logger) BuildingService {
	return &buildingService{buildings: buildings, logger: logger.Named("buildings")}
}

var _ BuildingService = (*buildingService)(nil)

func (s *buildingService) Get(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	return s.buildings.GetByID(ctx, id)
}

func (s *buildingService) Update(ctx context.Context, id uuid.UUID, update *models.BuildingUpdate) (*models.Building, error) {
	building, err := s.buildings.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Building updated",
		zap.String("building_id", building.ID.String()),
		zap.Bool("is_hrb", building.IsHRB))

	return building, nil
}

func (s *buildingService) ListByAgency(ctx context.Context, agencyID uuid.UUID) ([]*models.Building, error) {
	return s.buildings.ListByAgency(ctx, agencyID)
}
