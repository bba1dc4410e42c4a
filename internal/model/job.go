package model

// Job is a project site vehicles get assigned to by proximity.
type Job struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	JobCode        string  `json:"job_code"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}
