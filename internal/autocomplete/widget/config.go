package widget

import (
	"net/http"
	"time"

	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/logger"

	"github.com/jonboulle/clockwork"
)

const (
	// MinQueryLength is the trimmed rune count below which no search is issued.
	MinQueryLength = 3
	// DebounceInterval is the typing pause that triggers a search.
	DebounceInterval = 300 * time.Millisecond

	// FieldDistanceFromResort and FieldTravelTimeFromResort are filled when a reference point is configured.
	FieldDistanceFromResort   = "distance_from_resort"
	FieldTravelTimeFromResort = "travel_time_from_resort"

	noResultsMessage = "No addresses found"
	errorMessage     = "Error searching addresses. Please try again."
)

// Config is fixed for the lifetime of a Controller.
type Config struct {
	// Token is the geocoding credential; the controller stays inert without it.
	Token string
	// InputID identifies the text input the user types into.
	InputID string
	// ResultsID identifies the results panel; it is created when missing.
	// Defaults to InputID + "-results".
	ResultsID string
	// Fields maps normalized address keys to form element IDs.
	Fields map[string]string
	// Reference, when set, is the origin for distance and travel time fields.
	Reference *geo.Point
	// AverageSpeedMPH feeds the travel time estimate; zero means the default.
	AverageSpeedMPH float64
	// OnSelect is called synchronously after a selection has been written.
	OnSelect func(maps.NormalizedAddress)

	// Searcher performs the lookup. When nil a maps.Client is built from Token and HTTPClient.
	Searcher maps.Searcher
	// HTTPClient is used by the default Searcher.
	HTTPClient maps.Doer
	// BaseURL overrides the provider endpoint of the default Searcher.
	BaseURL string
	// Clock drives the debounce timer. Defaults to the wall clock.
	Clock clockwork.Clock
	// Logger defaults to a discarding logger.
	Logger *logger.Logger
}

// activation holds the settings without which the controller refuses to bind.
type activation struct {
	Token   string `validate:"required,trimmedmin=1"`
	InputID string `validate:"required"`
}

func (c Config) withDefaults() Config {
	if c.ResultsID == "" && c.InputID != "" {
		c.ResultsID = c.InputID + "-results"
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = logger.Discard()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	return c
}
