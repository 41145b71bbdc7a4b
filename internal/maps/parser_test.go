package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeature_SwapsCoordinateOrder(t *testing.T) {
	addr := ParseFeature(Feature{
		PlaceName: "Kihei, Hawaii, United States",
		Center:    [2]float64{-156.6825, 20.7967},
	})

	assert.Equal(t, 20.7967, addr.Latitude)
	assert.Equal(t, -156.6825, addr.Longitude)
}

func TestParseFeature_AddressLine1(t *testing.T) {
	tests := []struct {
		name    string
		feature Feature
		want    string
	}{
		{"number and street", Feature{HouseNumber: "123", Street: "Main St"}, "123 Main St"},
		{"street only", Feature{Street: "Main St"}, "Main St"},
		{"neither", Feature{}, ""},
		{"number without street", Feature{HouseNumber: "123"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := ParseFeature(tt.feature)
			assert.Equal(t, tt.want, addr.AddressLine1)
			assert.Empty(t, addr.AddressLine2)
		})
	}
}

func TestParseFeature_ContextClassification(t *testing.T) {
	addr := ParseFeature(Feature{
		PlaceName:   "2500 Kalakaua Ave, Honolulu, Hawaii 96815, United States",
		HouseNumber: "2500",
		Street:      "Kalakaua Ave",
		Center:      [2]float64{-157.8246, 21.2713},
		Context: []ContextEntry{
			{ID: "neighborhood.123", Text: "Waikiki"},
			{ID: "postcode.456", Text: "96815"},
			{ID: "place.789", Text: "Honolulu"},
			{ID: "region.321", Text: "Hawaii", ShortCode: "US-HI"},
			{ID: "country.1", Text: "United States", ShortCode: "us"},
		},
	})

	assert.Equal(t, NormalizedAddress{
		FullAddress:  "2500 Kalakaua Ave, Honolulu, Hawaii 96815, United States",
		AddressLine1: "2500 Kalakaua Ave",
		City:         "Honolulu",
		State:        "HI",
		ZipCode:      "96815",
		Latitude:     21.2713,
		Longitude:    -157.8246,
	}, addr)
}

func TestParseFeature_LastMatchingContextWins(t *testing.T) {
	addr := ParseFeature(Feature{
		Context: []ContextEntry{
			{ID: "region.1", Text: "Hawaii", ShortCode: "US-HI"},
			{ID: "region.2", Text: "California", ShortCode: "US-CA"},
		},
	})

	assert.Equal(t, "CA", addr.State)
}

func TestParseFeature_RegionWithoutShortCodeUsesText(t *testing.T) {
	addr := ParseFeature(Feature{
		Context: []ContextEntry{{ID: "region.9", Text: "Hawaii"}},
	})

	assert.Equal(t, "Hawaii", addr.State)
}

func TestParseFeature_EmptyContext(t *testing.T) {
	addr := ParseFeature(Feature{PlaceName: "Haleakala National Park", Center: [2]float64{-156.17, 20.72}})

	assert.Equal(t, "Haleakala National Park", addr.FullAddress)
	assert.Empty(t, addr.AddressLine1)
	assert.Empty(t, addr.City)
	assert.Empty(t, addr.State)
	assert.Empty(t, addr.ZipCode)
}

func TestNormalizedAddress_Values(t *testing.T) {
	values := NormalizedAddress{City: "Kihei", Latitude: 20.7967, Longitude: -156.6825}.Values()

	assert.Equal(t, "Kihei", values[FieldCity])
	assert.Equal(t, "20.7967", values[FieldLatitude])
	assert.Equal(t, "-156.6825", values[FieldLongitude])
	assert.Contains(t, values, FieldAddressLine2)
	assert.Len(t, values, 8)
}

const sampleResponse = `{
  "type": "FeatureCollection",
  "features": [
    {
      "id": "address.1",
      "place_type": ["address"],
      "text": "Main St",
      "address": "123",
      "place_name": "123 Main St, Wailuku, Hawaii 96793, United States",
      "center": [-156.5, 20.89],
      "context": [
        {"id": "postcode.1", "text": "96793"},
        {"id": "place.1", "text": "Wailuku"},
        {"id": "region.1", "text": "Hawaii", "short_code": "US-HI"}
      ]
    },
    {
      "id": "poi.2",
      "place_type": ["poi"],
      "text": "Iao Valley State Monument",
      "place_name": "Iao Valley State Monument, Wailuku, Hawaii, United States",
      "center": [-156.5486, 20.8809],
      "context": [{"id": "place.1", "text": "Wailuku"}]
    }
  ]
}`

func TestDecodeFeatures(t *testing.T) {
	features, err := DecodeFeatures([]byte(sampleResponse))
	require.NoError(t, err)
	require.Len(t, features, 2)

	first := features[0]
	assert.Equal(t, "123", first.HouseNumber)
	assert.Equal(t, "Main St", first.Street)
	assert.Equal(t, [2]float64{-156.5, 20.89}, first.Center)
	assert.Equal(t, "US-HI", first.Context[2].ShortCode)

	poi := ParseFeature(features[1])
	assert.Empty(t, poi.AddressLine1)
	assert.Equal(t, "Iao Valley State Monument, Wailuku, Hawaii, United States", poi.FullAddress)
	assert.Equal(t, "Wailuku", poi.City)
}

func TestDecodeFeatures_EmptyList(t *testing.T) {
	features, err := DecodeFeatures([]byte(`{"features": []}`))
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestDecodeFeatures_Malformed(t *testing.T) {
	bodies := map[string]string{
		"not json":         `{"features": [`,
		"missing features": `{"message": "Not Authorized"}`,
		"bad center":       `{"features": [{"place_name": "x", "center": [1]}]}`,
		"string center":    `{"features": [{"place_name": "x", "center": ["1", "2"]}]}`,
		"feature not obj":  `{"features": [42]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeFeatures([]byte(body))
			require.Error(t, err)
			assert.True(t, IsParseError(err))
		})
	}
}
