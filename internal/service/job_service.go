package service

import (
	"context"

	"fleet-tracker/internal/model"
	"fleet-tracker/internal/repository"
)

type JobService struct {
	jobs *repository.JobRepository
}

func NewJobService(jobs *repository.JobRepository) *JobService {
	return &JobService{jobs: jobs}
}

func (s *JobService) List(ctx context.Context, orgID string) ([]model.Job, error) {
	return s.jobs.ListByOrganization(ctx, orgID)
}

func (s *JobService) GetByCode(ctx context.Context, orgID string, jobCode string) (model.Job, error) {
	return s.jobs.FindByCode(ctx, orgID, jobCode)
}
