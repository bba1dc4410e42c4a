package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleet-tracker/internal/model"
)

type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

func (r *JobRepository) ListByOrganization(ctx context.Context, orgID string) ([]model.Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, job_code, name, latitude, longitude
		 FROM jobs
		 WHERE organization_id = $1
		 ORDER BY job_code`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.OrganizationID, &j.JobCode, &j.Name, &j.Latitude, &j.Longitude); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) FindByCode(ctx context.Context, orgID string, jobCode string) (model.Job, error) {
	var j model.Job
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, job_code, name, latitude, longitude
		 FROM jobs
		 WHERE organization_id = $1 AND job_code = $2`, orgID, jobCode).
		Scan(&j.ID, &j.OrganizationID, &j.JobCode, &j.Name, &j.Latitude, &j.Longitude)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Job{}, model.ErrJobNotFound
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("find job by code: %w", err)
	}
	return j, nil
}
