package samsara

import (
	"encoding/json"
	"strings"
	"time"

	"fleet-tracker/internal/telematics"
)

// speedValue accepts either a bare number or an object like
// {"value": 27.8, "unit": "kph"}; both shapes appear in the wild.
type speedValue struct {
	value *float64
}

func (s *speedValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		s.value = &n
		return nil
	}

	var obj struct {
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.value = obj.Value
	return nil
}

// v2 vehicle/equipment location payloads carry the fix under "location" or
// "lastKnownLocation" depending on the org's API version.
type v2Location struct {
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Time      string     `json:"time"`
	UpdatedAt string     `json:"updatedAt"`
	Heading   *float64   `json:"heading"`
	Bearing   *float64   `json:"bearing"`
	SpeedKPH  *float64   `json:"speedKph"`
	Speed     speedValue `json:"speed"`
	SpeedMPH  *float64   `json:"speedMilesPerHour"`
}

type v2Item struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	VehicleType       string      `json:"vehicleType"`
	AssetType         string      `json:"assetType"`
	Type              string      `json:"type"`
	Location          *v2Location `json:"location"`
	LastKnownLocation *v2Location `json:"lastKnownLocation"`
}

// v1 assets report an array of fixes; the first element is the latest.
type v1Location struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Time      string   `json:"time"`
	TimeMs    *int64   `json:"timeMs"`
	SpeedMPH  *float64 `json:"speedMilesPerHour"`
}

type v1Item struct {
	ID                json.Number  `json:"id"`
	AssetID           json.Number  `json:"assetId"`
	AssetSerialNumber string       `json:"assetSerialNumber"`
	Name              string       `json:"name"`
	AssetType         string       `json:"assetType"`
	Type              string       `json:"type"`
	Location          []v1Location `json:"location"`
}

// normalize flattens one raw API item into the common record. The second
// return is false when the item has no identity or no usable fix.
func normalize(raw json.RawMessage, category telematics.SourceCategory) (telematics.Record, bool) {
	switch category {
	case telematics.CategoryVehiclesV2, telematics.CategoryEquipmentV2:
		return normalizeV2(raw, category)
	case telematics.CategoryAssetsV1:
		return normalizeV1(raw)
	default:
		return telematics.Record{}, false
	}
}

func normalizeV2(raw json.RawMessage, category telematics.SourceCategory) (telematics.Record, bool) {
	var item v2Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return telematics.Record{}, false
	}

	if item.ID == "" {
		return telematics.Record{}, false
	}

	loc := item.Location
	if loc == nil {
		loc = item.LastKnownLocation
	}
	if loc == nil || loc.Latitude == nil || loc.Longitude == nil {
		return telematics.Record{}, false
	}

	ts := loc.Time
	if ts == "" {
		ts = loc.UpdatedAt
	}
	recordedAt, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return telematics.Record{}, false
	}

	var speedKPH *float64
	switch {
	case loc.SpeedKPH != nil:
		speedKPH = loc.SpeedKPH
	case loc.SpeedMPH != nil:
		kph := telematics.MPHToKPH(*loc.SpeedMPH)
		speedKPH = &kph
	case loc.Speed.value != nil:
		speedKPH = loc.Speed.value
	}

	heading := loc.Heading
	if heading == nil {
		heading = loc.Bearing
	}

	name := item.Name
	if name == "" {
		name = item.ID
	}

	return telematics.Record{
		ExternalID:     item.ID,
		SourceSystem:   "samsara",
		SourceCategory: category,
		Name:           name,
		Type:           firstNonEmpty(item.VehicleType, item.AssetType, item.Type),
		Latitude:       *loc.Latitude,
		Longitude:      *loc.Longitude,
		Heading:        heading,
		SpeedKPH:       speedKPH,
		RecordedAt:     recordedAt.UTC(),
		Raw:            raw,
	}, true
}

func normalizeV1(raw json.RawMessage) (telematics.Record, bool) {
	var item v1Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return telematics.Record{}, false
	}

	externalID := firstNonEmpty(item.ID.String(), item.AssetID.String(), item.AssetSerialNumber)
	if externalID == "" {
		return telematics.Record{}, false
	}

	if len(item.Location) == 0 {
		return telematics.Record{}, false
	}
	loc := item.Location[0]
	if loc.Latitude == nil || loc.Longitude == nil {
		return telematics.Record{}, false
	}

	var recordedAt time.Time
	switch {
	case loc.Time != "":
		parsed, err := time.Parse(time.RFC3339, loc.Time)
		if err != nil {
			return telematics.Record{}, false
		}
		recordedAt = parsed.UTC()
	case loc.TimeMs != nil:
		recordedAt = time.UnixMilli(*loc.TimeMs).UTC()
	default:
		return telematics.Record{}, false
	}

	var speedKPH *float64
	if loc.SpeedMPH != nil {
		kph := telematics.MPHToKPH(*loc.SpeedMPH)
		speedKPH = &kph
	}

	name := item.Name
	if name == "" {
		name = externalID
	}

	return telematics.Record{
		ExternalID:     externalID,
		SourceSystem:   "samsara",
		SourceCategory: telematics.CategoryAssetsV1,
		Name:           name,
		Type:           firstNonEmpty(item.AssetType, item.Type),
		Latitude:       *loc.Latitude,
		Longitude:      *loc.Longitude,
		SpeedKPH:       speedKPH,
		RecordedAt:     recordedAt,
		Raw:            raw,
	}, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
