// Package sync pulls vehicle locations from telematics providers and writes
// them to the store, respecting soft-deleted vehicles.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fleet-tracker/internal/event"
	"fleet-tracker/internal/geo"
	"fleet-tracker/internal/model"
	"fleet-tracker/internal/telematics"
)

type VehicleWriter interface {
	FindBySource(ctx context.Context, orgID string, sourceSystem string, externalID string) (model.Vehicle, error)
	Upsert(ctx context.Context, v model.Vehicle) (string, error)
}

type PositionWriter interface {
	Insert(ctx context.Context, p model.VehiclePosition) error
}

type JobLister interface {
	ListByOrganization(ctx context.Context, orgID string) ([]model.Job, error)
}

// Stats summarizes one sync pass.
type Stats struct {
	Fetched   int `json:"fetched"`
	Deduped   int `json:"deduped"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Positions int `json:"positions"`
	Failed    int `json:"failed"`
}

type Syncer struct {
	orgID     string
	sources   []telematics.Source
	vehicles  VehicleWriter
	positions PositionWriter
	jobs      JobLister
	bus       event.Bus
	logger    *slog.Logger
}

func New(orgID string, sources []telematics.Source, vehicles VehicleWriter, positions PositionWriter, jobs JobLister, bus event.Bus, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		orgID:     orgID,
		sources:   sources,
		vehicles:  vehicles,
		positions: positions,
		jobs:      jobs,
		bus:       bus,
		logger:    logger,
	}
}

// Run executes sync passes until the context is cancelled. A non-positive
// interval means a single pass.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		_, err := s.RunOnce(ctx)
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("sync pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce pulls every configured source, dedupes the combined batch, and
// writes vehicles and positions. Soft-deleted vehicles are skipped entirely:
// no position row, no reactivation.
func (s *Syncer) RunOnce(ctx context.Context) (Stats, error) {
	started := time.Now()
	s.publish(event.TypeSyncStarted, map[string]any{"organization_id": s.orgID})

	var stats Stats
	var records []telematics.Record
	var fetchErrs []error

	for _, source := range s.sources {
		batch, err := source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			s.logger.Error("fetch failed", "source", source.Name(), "error", err)
			fetchErrs = append(fetchErrs, fmt.Errorf("%s: %w", source.Name(), err))
			continue
		}
		s.logger.Info("fetched records", "source", source.Name(), "count", len(batch))
		records = append(records, batch...)
	}

	if len(fetchErrs) == len(s.sources) && len(s.sources) > 0 {
		err := errors.Join(fetchErrs...)
		s.publish(event.TypeSyncFailed, map[string]any{
			"organization_id": s.orgID,
			"error":           err.Error(),
		})
		return stats, fmt.Errorf("all sources failed: %w", err)
	}

	stats.Fetched = len(records)
	records = telematics.Dedupe(records)
	stats.Deduped = stats.Fetched - len(records)

	jobs, err := s.jobs.ListByOrganization(ctx, s.orgID)
	if err != nil {
		s.publish(event.TypeSyncFailed, map[string]any{
			"organization_id": s.orgID,
			"error":           err.Error(),
		})
		return stats, fmt.Errorf("list jobs: %w", err)
	}

	for _, record := range records {
		if err := s.ingest(ctx, record, jobs, &stats); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			s.logger.Error("record ingest failed",
				"source", record.SourceSystem,
				"external_id", record.ExternalID,
				"error", err)
		}
	}

	s.logger.Info("sync pass complete",
		"duration_ms", time.Since(started).Milliseconds(),
		"fetched", stats.Fetched,
		"deduped", stats.Deduped,
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"positions", stats.Positions,
		"failed", stats.Failed)

	s.publish(event.TypeSyncCompleted, map[string]any{
		"organization_id": s.orgID,
		"stats":           stats,
	})

	return stats, nil
}

func (s *Syncer) ingest(ctx context.Context, record telematics.Record, jobs []model.Job, stats *Stats) error {
	existing, err := s.vehicles.FindBySource(ctx, s.orgID, record.SourceSystem, record.ExternalID)
	known := true
	if err != nil {
		if !errors.Is(err, model.ErrVehicleNotFound) {
			return fmt.Errorf("lookup vehicle: %w", err)
		}
		known = false
	}

	// A deleted vehicle stays deleted. Providers keep reporting it, so the
	// whole record is dropped here before any write happens.
	if known && existing.IsDeleted {
		stats.Skipped++
		s.logger.Debug("skipping deleted vehicle",
			"vehicle_id", existing.ID,
			"external_id", record.ExternalID,
			"source", record.SourceSystem)
		return nil
	}

	vehicleID, err := s.vehicles.Upsert(ctx, model.Vehicle{
		OrganizationID: s.orgID,
		ExternalID:     record.ExternalID,
		SourceSystem:   record.SourceSystem,
		Name:           record.Name,
		Type:           record.Type,
	})
	if err != nil {
		// Racing a delete between the lookup and the write counts as a skip.
		if errors.Is(err, model.ErrVehicleDeleted) {
			stats.Skipped++
			return nil
		}
		return fmt.Errorf("upsert vehicle: %w", err)
	}

	if known {
		stats.Updated++
	} else {
		stats.Created++
		s.publish(event.TypeVehicleCreated, map[string]any{
			"vehicle_id":      vehicleID,
			"organization_id": s.orgID,
			"name":            record.Name,
			"source_system":   record.SourceSystem,
		})
	}

	position := model.VehiclePosition{
		OrganizationID: s.orgID,
		VehicleID:      vehicleID,
		Latitude:       record.Latitude,
		Longitude:      record.Longitude,
		Heading:        record.Heading,
		SpeedKPH:       record.SpeedKPH,
		OdometerKM:     record.OdometerKM,
		RecordedAt:     record.RecordedAt,
		SourceRaw:      record.Raw,
	}

	if nearest := geo.NearestJob(record.Latitude, record.Longitude, jobs); nearest != nil {
		position.JobID = &nearest.ID
	}

	if err := s.positions.Insert(ctx, position); err != nil {
		return fmt.Errorf("insert position: %w", err)
	}
	stats.Positions++

	s.publish(event.TypePositionUpdated, map[string]any{
		"vehicle_id":      vehicleID,
		"organization_id": s.orgID,
		"latitude":        record.Latitude,
		"longitude":       record.Longitude,
		"recorded_at":     record.RecordedAt,
	})

	return nil
}

func (s *Syncer) publish(typ event.Type, payload map[string]any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
