package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleet-tracker/internal/model"
)

func TestHaversineKM(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineKM(40.0, -75.0, 40.0, -75.0))
	})

	t.Run("known city pair", func(t *testing.T) {
		// New York (40.7128, -74.0060) to Los Angeles (34.0522, -118.2437)
		// is roughly 3936 km great-circle.
		d := HaversineKM(40.7128, -74.0060, 34.0522, -118.2437)
		assert.InDelta(t, 3936, d, 10)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineKM(51.5, -0.12, 48.85, 2.35)
		b := HaversineKM(48.85, 2.35, 51.5, -0.12)
		assert.InDelta(t, a, b, 1e-9)
	})
}

func TestNearestJob(t *testing.T) {
	jobs := []model.Job{
		{ID: "a", JobCode: "25-001", Latitude: 40.0, Longitude: -75.0},
		{ID: "b", JobCode: "25-002", Latitude: 41.0, Longitude: -75.0},
		{ID: "c", JobCode: "25-003", Latitude: 45.0, Longitude: -80.0},
	}

	t.Run("picks the closest site", func(t *testing.T) {
		got := NearestJob(40.9, -75.0, jobs)
		if assert.NotNil(t, got) {
			assert.Equal(t, "b", got.ID)
		}
	})

	t.Run("nil for empty job list", func(t *testing.T) {
		assert.Nil(t, NearestJob(40.0, -75.0, nil))
	})
}
