package cat

import (
	"encoding/json"
	"time"

	"fleet-tracker/internal/telematics"
)

type equipmentHeader struct {
	EquipmentID  string `json:"EquipmentID"`
	SerialNumber string `json:"SerialNumber"`
	Model        string `json:"Model"`
	OEMName      string `json:"OEMName"`
}

type equipmentLocation struct {
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
	Datetime  string   `json:"datetime"`
}

type equipmentDistance struct {
	Odometer      *float64 `json:"Odometer"`
	OdometerUnits string   `json:"OdometerUnits"`
	Datetime      string   `json:"datetime"`
}

type equipmentItem struct {
	Header   equipmentHeader    `json:"EquipmentHeader"`
	Location *equipmentLocation `json:"Location"`
	Distance *equipmentDistance `json:"Distance"`
}

// normalizeEquipment maps one AEMP Equipment record to the common shape.
// EquipmentID doubles as the display name; the fleet snapshot time is the
// timestamp of last resort.
func normalizeEquipment(raw json.RawMessage, snapshotTime string) (telematics.Record, bool) {
	var item equipmentItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return telematics.Record{}, false
	}

	externalID := item.Header.EquipmentID
	if externalID == "" {
		externalID = item.Header.SerialNumber
	}
	if externalID == "" {
		return telematics.Record{}, false
	}

	if item.Location == nil || item.Location.Latitude == nil || item.Location.Longitude == nil {
		return telematics.Record{}, false
	}

	ts := item.Location.Datetime
	if ts == "" && item.Distance != nil {
		ts = item.Distance.Datetime
	}
	if ts == "" {
		ts = snapshotTime
	}
	recordedAt, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return telematics.Record{}, false
	}

	name := item.Header.EquipmentID
	if name == "" {
		name = item.Header.SerialNumber
	}

	var odometerKM *float64
	if item.Distance != nil {
		// OdometerUnits is 'kilometre' on this endpoint.
		odometerKM = item.Distance.Odometer
	}

	return telematics.Record{
		ExternalID:     externalID,
		SourceSystem:   "cat",
		SourceCategory: telematics.CategoryCATFleet,
		Name:           name,
		Type:           item.Header.Model,
		Latitude:       *item.Location.Latitude,
		Longitude:      *item.Location.Longitude,
		OdometerKM:     odometerKM,
		RecordedAt:     recordedAt.UTC(),
		Raw:            raw,
	}, true
}
