// Package geo holds the great-circle math used to gate clock-ins.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the haversine distance between two points given in
// signed decimal degrees.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Asin(math.Sqrt(math.Min(1, a)))

	return c * EarthRadiusMeters
}

// ValidCoordinate reports whether lat/lon fall inside the WGS84 ranges.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// OffsetNorth returns the latitude reached by moving meters due north from
// lat. Handy for building points at a known distance.
func OffsetNorth(lat, meters float64) float64 {
	return lat + (meters/EarthRadiusMeters)*180/math.Pi
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
