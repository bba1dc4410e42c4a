// Package geo has the small amount of spherical geometry the syncer needs to
// assign vehicles to their nearest job site.
package geo

import (
	"math"

	"fleet-tracker/internal/model"
)

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between two points in
// kilometers.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// NearestJob returns the job closest to the given point, or nil when jobs is
// empty.
func NearestJob(lat, lon float64, jobs []model.Job) *model.Job {
	var nearest *model.Job
	nearestDist := math.Inf(1)

	for i := range jobs {
		d := HaversineKM(lat, lon, jobs[i].Latitude, jobs[i].Longitude)
		if d < nearestDist {
			nearestDist = d
			nearest = &jobs[i]
		}
	}

	return nearest
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
