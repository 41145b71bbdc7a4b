// Package geo estimates great-circle distances and naive driving times
// between two coordinates.
package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusMiles is the sphere radius used by the haversine formula.
	EarthRadiusMiles = 3959.0
	// DefaultAverageSpeedMPH is used whenever a caller passes a non-positive speed.
	DefaultAverageSpeedMPH = 40.0
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Result holds a distance and the travel time derived from it.
type Result struct {
	DistanceMiles float64 `json:"distanceMiles"`
	TravelMinutes int     `json:"travelTimeMinutes"`
}

// Distance returns the haversine distance in miles between two points,
// rounded to two decimal places.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return roundTo(EarthRadiusMiles*c, 2)
}

// TravelTime converts a distance into whole minutes at the given average speed.
// A speed <= 0 means DefaultAverageSpeedMPH.
func TravelTime(distanceMiles, avgSpeedMPH float64) int {
	if avgSpeedMPH <= 0 {
		avgSpeedMPH = DefaultAverageSpeedMPH
	}
	return int(math.Round(distanceMiles / avgSpeedMPH * 60))
}

// Estimate computes distance and travel time from one point to another.
func Estimate(from, to Point, avgSpeedMPH float64) Result {
	miles := Distance(from.Lat, from.Lon, to.Lat, to.Lon)
	return Result{
		DistanceMiles: miles,
		TravelMinutes: TravelTime(miles, avgSpeedMPH),
	}
}

// FormatTravelTime renders minutes as "1h 30m", "2h" or "45m".
// Zero or negative input yields "Unknown".
func FormatTravelTime(minutes int) string {
	if minutes <= 0 {
		return "Unknown"
	}

	hours := minutes / 60
	rest := minutes % 60

	switch {
	case hours > 0 && rest > 0:
		return fmt.Sprintf("%dh %dm", hours, rest)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", rest)
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
