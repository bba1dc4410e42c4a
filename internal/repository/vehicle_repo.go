package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-tracker/internal/model"
)

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const vehicleColumns = `id, organization_id, external_id, source_system, name,
	 coalesce(type, ''), coalesce(description, ''), is_deleted, deleted_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (model.Vehicle, error) {
	var v model.Vehicle
	err := row.Scan(&v.ID, &v.OrganizationID, &v.ExternalID, &v.SourceSystem, &v.Name,
		&v.Type, &v.Description, &v.IsDeleted, &v.DeletedAt, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// SoftDelete marks a vehicle deleted. The predicate makes it conditional on
// ownership and current state, so the returned count is 0 when the row is
// missing, belongs to another organization, or is already deleted; that is a
// no-op, not an error.
func (r *VehicleRepository) SoftDelete(ctx context.Context, orgID string, vehicleID string) (model.Vehicle, int64, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE vehicles
		 SET is_deleted = true, deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND organization_id = $2 AND is_deleted = false
		 RETURNING `+vehicleColumns,
		vehicleID, orgID)

	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Vehicle{}, 0, nil
	}
	if err != nil {
		return model.Vehicle{}, 0, fmt.Errorf("soft delete vehicle: %w", err)
	}
	return v, 1, nil
}

// Restore is the symmetric operation: conditional on the row being currently
// deleted, with the same zero-row semantics.
func (r *VehicleRepository) Restore(ctx context.Context, orgID string, vehicleID string) (model.Vehicle, int64, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE vehicles
		 SET is_deleted = false, deleted_at = NULL, updated_at = now()
		 WHERE id = $1 AND organization_id = $2 AND is_deleted = true
		 RETURNING `+vehicleColumns,
		vehicleID, orgID)

	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Vehicle{}, 0, nil
	}
	if err != nil {
		return model.Vehicle{}, 0, fmt.Errorf("restore vehicle: %w", err)
	}
	return v, 1, nil
}

// ListDeleted returns the organization's soft-deleted vehicles, most recently
// deleted first.
func (r *VehicleRepository) ListDeleted(ctx context.Context, orgID string) ([]model.DeletedVehicle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, external_id, source_system, coalesce(type, ''), deleted_at
		 FROM vehicles
		 WHERE organization_id = $1 AND is_deleted = true
		 ORDER BY deleted_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list deleted vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]model.DeletedVehicle, 0)
	for rows.Next() {
		var v model.DeletedVehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.ExternalID, &v.SourceSystem, &v.Type, &v.DeletedAt); err != nil {
			return nil, fmt.Errorf("scan deleted vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// List returns the organization's visible (non-deleted) vehicles.
func (r *VehicleRepository) List(ctx context.Context, orgID string) ([]model.Vehicle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vehicleColumns+`
		 FROM vehicles
		 WHERE organization_id = $1 AND is_deleted = false
		 ORDER BY name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) FindByID(ctx context.Context, orgID string, vehicleID string) (model.Vehicle, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+`
		 FROM vehicles
		 WHERE id = $1 AND organization_id = $2`, vehicleID, orgID)

	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Vehicle{}, model.ErrVehicleNotFound
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("find vehicle by id: %w", err)
	}
	return v, nil
}

// FindBySource looks a vehicle up by its provider identity, regardless of
// deletion state. The sync process uses it for the skip-deleted check.
func (r *VehicleRepository) FindBySource(ctx context.Context, orgID string, sourceSystem string, externalID string) (model.Vehicle, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+`
		 FROM vehicles
		 WHERE organization_id = $1 AND source_system = $2 AND external_id = $3`,
		orgID, sourceSystem, externalID)

	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Vehicle{}, model.ErrVehicleNotFound
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("find vehicle by source: %w", err)
	}
	return v, nil
}

// Upsert creates the vehicle on first observation and refreshes its metadata
// afterwards, returning the row id. The DO UPDATE guard keeps a soft-deleted
// row from reactivating even if the caller's skip check raced a delete; that
// case surfaces as ErrVehicleDeleted.
func (r *VehicleRepository) Upsert(ctx context.Context, v model.Vehicle) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vehicles (organization_id, external_id, source_system, name, type, description)
		 VALUES ($1, $2, $3, $4, nullif($5, ''), nullif($6, ''))
		 ON CONFLICT (organization_id, source_system, external_id) DO UPDATE SET
		   name = coalesce(excluded.name, vehicles.name),
		   type = coalesce(excluded.type, vehicles.type),
		   description = coalesce(excluded.description, vehicles.description),
		   updated_at = now()
		 WHERE vehicles.is_deleted = false
		 RETURNING id`,
		v.OrganizationID, v.ExternalID, v.SourceSystem, v.Name, v.Type, v.Description).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrVehicleDeleted
	}
	if err != nil {
		return "", fmt.Errorf("upsert vehicle: %w", err)
	}
	return id, nil
}
