package model

import (
	"encoding/json"
	"time"
)

// VehiclePosition is one GPS ping as written by the sync process.
type VehiclePosition struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	VehicleID      string          `json:"vehicle_id"`
	JobID          *string         `json:"job_id,omitempty"`
	Latitude       float64         `json:"latitude"`
	Longitude      float64         `json:"longitude"`
	Heading        *float64        `json:"heading,omitempty"`
	SpeedKPH       *float64        `json:"speed_kph,omitempty"`
	OdometerKM     *float64        `json:"odometer_km,omitempty"`
	RecordedAt     time.Time       `json:"recorded_at"`
	SourceRaw      json.RawMessage `json:"source_raw,omitempty"`
}

// LatestPosition is one row of the latest_vehicle_positions view: the most
// recent ping per non-deleted vehicle, joined to its assigned job.
type LatestPosition struct {
	VehicleID   string    `json:"vehicle_id"`
	VehicleName string    `json:"vehicle_name"`
	VehicleType string    `json:"vehicle_type,omitempty"`
	JobID       *string   `json:"job_id,omitempty"`
	JobCode     *string   `json:"job_code,omitempty"`
	JobName     *string   `json:"job_name,omitempty"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	SpeedKPH    *float64  `json:"speed_kph,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}
