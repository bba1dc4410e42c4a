// Package telematics defines the provider-neutral location record and the
// dedupe step applied before anything is written to the store.
package telematics

import (
	"context"
	"encoding/json"
	"time"
)

// SourceCategory identifies which provider endpoint a record came from.
// Categories overlap (the same asset can appear on more than one endpoint),
// so dedupe uses them as a priority order.
type SourceCategory string

const (
	CategoryVehiclesV2  SourceCategory = "vehicles_v2"
	CategoryEquipmentV2 SourceCategory = "equipment_v2"
	CategoryAssetsV1    SourceCategory = "assets_v1"
	CategoryCATFleet    SourceCategory = "cat_fleet"
)

// Record is one normalized vehicle location observation.
type Record struct {
	ExternalID     string
	SourceSystem   string
	SourceCategory SourceCategory
	Name           string
	Type           string
	Latitude       float64
	Longitude      float64
	Heading        *float64
	SpeedKPH       *float64
	OdometerKM     *float64
	RecordedAt     time.Time
	Raw            json.RawMessage
}

// Source is a telematics provider the syncer can pull from.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Record, error)
}

const kphPerMPH = 1.60934

// MPHToKPH converts a speed reported in miles per hour.
func MPHToKPH(mph float64) float64 {
	return mph * kphPerMPH
}

// MetersToKM converts an odometer reported in meters.
func MetersToKM(meters float64) float64 {
	return meters / 1000.0
}
