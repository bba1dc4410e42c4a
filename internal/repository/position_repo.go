package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-tracker/internal/model"
)

type PositionRepository struct {
	pool *pgxpool.Pool
}

func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

func (r *PositionRepository) Insert(ctx context.Context, p model.VehiclePosition) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO vehicle_positions
		 (organization_id, vehicle_id, job_id, latitude, longitude, heading,
		  speed_kph, odometer_km, recorded_at, source_raw)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.OrganizationID, p.VehicleID, p.JobID, p.Latitude, p.Longitude, p.Heading,
		p.SpeedKPH, p.OdometerKM, p.RecordedAt, p.SourceRaw)
	if err != nil {
		return fmt.Errorf("insert vehicle position: %w", err)
	}
	return nil
}

// Latest reads the latest_vehicle_positions view. The view already filters
// out soft-deleted vehicles; this is the single enforcement point for
// "deleted vehicles disappear".
func (r *PositionRepository) Latest(ctx context.Context, orgID string) ([]model.LatestPosition, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT vehicle_id, vehicle_name, coalesce(vehicle_type, ''),
		        job_id, job_code, job_name,
		        latitude, longitude, speed_kph, recorded_at
		 FROM latest_vehicle_positions
		 WHERE organization_id = $1
		 ORDER BY vehicle_name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("query latest positions: %w", err)
	}
	defer rows.Close()

	positions := make([]model.LatestPosition, 0)
	for rows.Next() {
		var p model.LatestPosition
		if err := rows.Scan(
			&p.VehicleID, &p.VehicleName, &p.VehicleType,
			&p.JobID, &p.JobCode, &p.JobName,
			&p.Latitude, &p.Longitude, &p.SpeedKPH, &p.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan latest position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
