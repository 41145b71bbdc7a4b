package maps

import (
	"strconv"

	"vacation_planner_backend/internal/geo"
)

// Field-mapping keys a host form can bind to.
const (
	FieldFullAddress  = "full_address"
	FieldAddressLine1 = "address_line1"
	FieldAddressLine2 = "address_line2"
	FieldCity         = "city"
	FieldState        = "state"
	FieldZipCode      = "zip_code"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
)

// LookupRequest represents the query parameters from the frontend.
type LookupRequest struct {
	Query string `form:"q" binding:"required,trimmedmin=3"`
}

// DistanceRequest represents the query parameters of the distance endpoint.
type DistanceRequest struct {
	FromLat *float64 `form:"fromLat" binding:"required,latitude"`
	FromLon *float64 `form:"fromLon" binding:"required,longitude"`
	ToLat   *float64 `form:"toLat" binding:"required,latitude"`
	ToLon   *float64 `form:"toLon" binding:"required,longitude"`
	Speed   float64  `form:"speed" binding:"omitempty,gt=0"`
}

// DistanceResponse is returned by the distance endpoint.
type DistanceResponse struct {
	geo.Result
	TravelTimeDisplay string `json:"travelTimeDisplay"`
}

// ContextEntry is one hierarchical location fact attached to a feature.
type ContextEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"shortCode,omitempty"`
}

// Feature is one geocoding candidate as returned by the provider.
// Center is ordered (longitude, latitude).
type Feature struct {
	PlaceName   string         `json:"placeName"`
	Center      [2]float64     `json:"center"`
	HouseNumber string         `json:"houseNumber,omitempty"`
	Street      string         `json:"street,omitempty"`
	Text        string         `json:"text,omitempty"`
	PlaceType   []string       `json:"placeType,omitempty"`
	Context     []ContextEntry `json:"context,omitempty"`
}

// Point returns the feature's coordinate as a geo.Point.
func (f Feature) Point() geo.Point {
	return geo.Point{Lat: f.Center[1], Lon: f.Center[0]}
}

// NormalizedAddress is the structured address written into a host form.
type NormalizedAddress struct {
	FullAddress  string  `json:"fullAddress"`
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 string  `json:"addressLine2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zipCode"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Point returns the address coordinate as a geo.Point.
func (a NormalizedAddress) Point() geo.Point {
	return geo.Point{Lat: a.Latitude, Lon: a.Longitude}
}

// Values returns the address keyed by field-mapping key.
func (a NormalizedAddress) Values() map[string]string {
	return map[string]string{
		FieldFullAddress:  a.FullAddress,
		FieldAddressLine1: a.AddressLine1,
		FieldAddressLine2: a.AddressLine2,
		FieldCity:         a.City,
		FieldState:        a.State,
		FieldZipCode:      a.ZipCode,
		FieldLatitude:     FormatCoordinate(a.Latitude),
		FieldLongitude:    FormatCoordinate(a.Longitude),
	}
}

// FormatCoordinate renders a coordinate with the fewest digits that round-trip.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
