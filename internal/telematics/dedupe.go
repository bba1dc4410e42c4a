package telematics

import "fmt"

// Lower rank wins when the same asset shows up from multiple endpoints.
var categoryRank = map[SourceCategory]int{
	CategoryVehiclesV2:  0,
	CategoryEquipmentV2: 1,
	CategoryAssetsV1:    2,
	CategoryCATFleet:    3,
}

func rank(cat SourceCategory) int {
	if r, ok := categoryRank[cat]; ok {
		return r
	}
	return 99
}

// Dedupe collapses records that describe the same asset. The key is the
// source system plus external id when present, falling back to name and
// rounded coordinates. When records collide, the one from the
// highest-priority category is kept. Input order is otherwise preserved.
func Dedupe(records []Record) []Record {
	type slot struct {
		index int
		rec   Record
	}

	byKey := make(map[string]*slot, len(records))
	order := make([]string, 0, len(records))

	for _, rec := range records {
		var key string
		switch {
		case rec.ExternalID != "":
			key = fmt.Sprintf("id:%s:%s", rec.SourceSystem, rec.ExternalID)
		default:
			key = fmt.Sprintf("name:%s|%.5f|%.5f", rec.Name, rec.Latitude, rec.Longitude)
		}

		existing, ok := byKey[key]
		if !ok {
			byKey[key] = &slot{index: len(order), rec: rec}
			order = append(order, key)
			continue
		}

		if rank(rec.SourceCategory) < rank(existing.rec.SourceCategory) {
			existing.rec = rec
		}
	}

	out := make([]Record, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key].rec)
	}
	return out
}
