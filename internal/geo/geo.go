package geo

import "math"

const (
	// DefaultRadiusMeters bounds a near-point search when the client
	// does not supply a radius.
	DefaultRadiusMeters = 10000

	earthRadiusMeters = 6371000
)

// DistanceSQL is a haversine distance (meters) between a station row's
// latitude/longitude columns and a bound (lat, lng, lat) point. The least()
// clamp guards acos against rounding just above 1.
const DistanceSQL = `6371000 * acos(least(1.0,
	cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) +
	sin(radians(?)) * sin(radians(latitude))))`

// Distance computes the haversine distance in meters between two points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
