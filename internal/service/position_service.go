package service

import (
	"context"

	"fleet-tracker/internal/model"
	"fleet-tracker/internal/repository"
)

// PositionService serves the latest-position map feed. The heavy lifting
// lives in the latest_vehicle_positions view, which already excludes
// deleted vehicles.
type PositionService struct {
	positions *repository.PositionRepository
}

func NewPositionService(positions *repository.PositionRepository) *PositionService {
	return &PositionService{positions: positions}
}

func (s *PositionService) Latest(ctx context.Context, orgID string) ([]model.LatestPosition, error) {
	return s.positions.Latest(ctx, orgID)
}
