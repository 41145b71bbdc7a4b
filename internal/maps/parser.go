package maps

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	contextPostcode = "postcode"
	contextPlace    = "place"
	contextRegion   = "region"
)

// ParseError reports a provider payload that could not be understood.
// It is distinct from transport and HTTP status failures.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "malformed geocoding response: " + e.Reason
}

// ParseFeature normalizes a single provider feature. It has no side effects.
func ParseFeature(f Feature) NormalizedAddress {
	addr := NormalizedAddress{
		FullAddress: f.PlaceName,
		Latitude:    f.Center[1],
		Longitude:   f.Center[0],
	}

	switch {
	case f.HouseNumber != "" && f.Street != "":
		addr.AddressLine1 = f.HouseNumber + " " + f.Street
	case f.Street != "":
		addr.AddressLine1 = f.Street
	}

	// Forward walk without early exit: the last matching entry wins.
	for _, entry := range f.Context {
		switch {
		case strings.HasPrefix(entry.ID, contextPostcode):
			addr.ZipCode = entry.Text
		case strings.HasPrefix(entry.ID, contextPlace):
			addr.City = entry.Text
		case strings.HasPrefix(entry.ID, contextRegion):
			addr.State = regionCode(entry)
		}
	}

	return addr
}

// regionCode prefers the part of the short code after "-" ("US-HI" -> "HI").
func regionCode(entry ContextEntry) string {
	if _, code, ok := strings.Cut(entry.ShortCode, "-"); ok && code != "" {
		return code
	}
	return entry.Text
}

// DecodeFeatures extracts the feature list from a provider response body.
func DecodeFeatures(body []byte) ([]Feature, error) {
	if !gjson.ValidBytes(body) {
		return nil, &ParseError{Reason: "body is not valid JSON"}
	}

	list := gjson.GetBytes(body, "features")
	if !list.IsArray() {
		return nil, &ParseError{Reason: "missing features array"}
	}

	raw := list.Array()
	features := make([]Feature, 0, len(raw))
	for i, item := range raw {
		feature, err := decodeFeature(item)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("feature %d: %s", i, err.Error())}
		}
		features = append(features, feature)
	}

	return features, nil
}

func decodeFeature(item gjson.Result) (Feature, error) {
	if !item.IsObject() {
		return Feature{}, fmt.Errorf("not an object")
	}

	center := item.Get("center").Array()
	if len(center) != 2 || center[0].Type != gjson.Number || center[1].Type != gjson.Number {
		return Feature{}, fmt.Errorf("center must be [longitude, latitude]")
	}

	f := Feature{
		PlaceName:   item.Get("place_name").String(),
		Center:      [2]float64{center[0].Float(), center[1].Float()},
		HouseNumber: item.Get("address").String(),
		Text:        item.Get("text").String(),
	}

	for _, pt := range item.Get("place_type").Array() {
		f.PlaceType = append(f.PlaceType, pt.String())
	}
	// For POIs and places "text" is a name, not a street.
	if len(f.PlaceType) == 0 || f.hasPlaceType("address") {
		f.Street = f.Text
	}

	for _, c := range item.Get("context").Array() {
		f.Context = append(f.Context, ContextEntry{
			ID:        c.Get("id").String(),
			Text:      c.Get("text").String(),
			ShortCode: c.Get("short_code").String(),
		})
	}

	return f, nil
}

func (f Feature) hasPlaceType(kind string) bool {
	for _, pt := range f.PlaceType {
		if pt == kind {
			return true
		}
	}
	return false
}
