package model

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *Meta     `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// VehicleMutationResponse reports a delete or restore outcome. Affected is 0
// when the row was missing, owned by another organization, or already in the
// target state; callers that care can tell a no-op from a transition by it.
type VehicleMutationResponse struct {
	VehicleID string `json:"vehicle_id"`
	Name      string `json:"name,omitempty"`
	Affected  int64  `json:"affected"`
	Message   string `json:"message"`
}

type DeletedVehicleListData struct {
	Items []DeletedVehicle `json:"items"`
}

type VehicleListData struct {
	Items []Vehicle `json:"items"`
}

type LatestPositionListData struct {
	Items []LatestPosition `json:"items"`
}

type JobListData struct {
	Items []Job `json:"items"`
}
