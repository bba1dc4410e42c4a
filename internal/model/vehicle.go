package model

import "time"

// Vehicle is a tracked fleet asset. Rows are created by the sync process on
// first observation from a telematics provider and are never physically
// removed; soft delete hides them instead.
type Vehicle struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organization_id"`
	ExternalID     string     `json:"external_id"`
	SourceSystem   string     `json:"source_system"`
	Name           string     `json:"name"`
	Type           string     `json:"type,omitempty"`
	Description    string     `json:"description,omitempty"`
	IsDeleted      bool       `json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DeletedVehicle is the fixed projection returned by the list-deleted query.
type DeletedVehicle struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ExternalID   string    `json:"external_id"`
	SourceSystem string    `json:"source_system"`
	Type         string    `json:"type,omitempty"`
	DeletedAt    time.Time `json:"deleted_at"`
}
