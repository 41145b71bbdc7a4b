package maps

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vacation_planner_backend/platform/apperr"
	"vacation_planner_backend/platform/logger"
	"vacation_planner_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, searcher Searcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*playground.Validate); ok {
		require.NoError(t, validator.RegisterDefaults(v))
	}

	h := NewHandler(NewService(searcher, nil, logger.Discard()))
	r := gin.New()
	r.GET("/address-lookup", h.LookupAddress)
	r.GET("/distance", h.Distance)
	return r
}

func TestLookupAddress(t *testing.T) {
	stub := &stubSearcher{features: []Feature{{PlaceName: "5 Front St", HouseNumber: "5", Street: "Front St", Center: [2]float64{-156.68, 20.87}}}}
	r := newTestRouter(t, stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/address-lookup?q=Front", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body []NormalizedAddress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "5 Front St", body[0].AddressLine1)
	assert.Equal(t, 20.87, body[0].Latitude)
}

func TestLookupAddress_ShortQuery(t *testing.T) {
	stub := &stubSearcher{}
	r := newTestRouter(t, stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/address-lookup?q=%20ab%20", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), stub.calls.Load())
}

func TestLookupAddress_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"status", apperr.Upstream("geocoding provider returned status 500", nil)},
		{"parse", &ParseError{Reason: "missing features array"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &stubSearcher{err: tt.err})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/address-lookup?q=Makawao", nil))

			assert.Equal(t, http.StatusBadGateway, w.Code)
		})
	}
}

func TestDistance(t *testing.T) {
	r := newTestRouter(t, &stubSearcher{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/distance?fromLat=20.7967&fromLon=-156.6825&toLat=20.8893&toLon=-156.4729", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 14.97, body["distanceMiles"])
	assert.Equal(t, float64(22), body["travelTimeMinutes"])
	assert.Equal(t, "22m", body["travelTimeDisplay"])
}

func TestDistance_ZeroCoordinatesAreValid(t *testing.T) {
	r := newTestRouter(t, &stubSearcher{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/distance?fromLat=0&fromLon=0&toLat=0&toLon=0", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"distanceMiles":0,"travelTimeMinutes":0,"travelTimeDisplay":"Unknown"}`, w.Body.String())
}

func TestDistance_InvalidCoordinates(t *testing.T) {
	r := newTestRouter(t, &stubSearcher{})

	for _, q := range []string{
		"/distance?fromLat=95&fromLon=0&toLat=0&toLon=0",
		"/distance?fromLat=20&toLat=0&toLon=0",
		"/distance?fromLat=20&fromLon=0&toLat=0&toLon=0&speed=-3",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}
