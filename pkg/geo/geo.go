package geo

import (
	"math"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// EarthRadiusMeters is the spherical-earth radius used for Haversine.
const EarthRadiusMeters = 6371000.0

// DistanceMeters returns the great-circle distance in meters between two
// points (lat/lon in degrees). Symmetric; zero for identical points.
// NaN or out-of-range inputs propagate NaN; callers validate coordinates.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	φ1, φ2 := rad(lat1), rad(lat2)
	Δφ := rad(lat2 - lat1)
	Δλ := rad(lon2 - lon1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// EncodeBucket returns the fixed-precision geohash cell for a coordinate.
// Identical inputs always yield the identical code; nearby points frequently
// share one. Precision 7 gives cells of roughly 150 m x 150 m.
func EncodeBucket(lat, lon float64, precision int) string {
	return geohash.EncodeWithPrecision(lat, lon, precision)
}

// ValidCoordinate reports whether lat/lon are finite and within the WGS84
// degree ranges.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
