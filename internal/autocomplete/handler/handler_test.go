package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vacation_planner_backend/internal/autocomplete/transport"
	"vacation_planner_backend/internal/autocomplete/widget"
	"vacation_planner_backend/internal/events"
	"vacation_planner_backend/internal/maps"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	features []maps.Feature
}

func (s stubSearcher) Search(ctx context.Context, query string) ([]maps.Feature, error) {
	return s.features, nil
}

var testPresets = widget.Presets{
	"activity": {
		Input:   "activity-address-search",
		Results: "activity-address-results",
		Fields: map[string]string{
			maps.FieldCity:                   "id_city",
			maps.FieldState:                  "id_state",
			widget.FieldDistanceFromResort:   "id_distance",
			widget.FieldTravelTimeFromResort: "id_travel",
		},
	},
}

func kihei() maps.Feature {
	return maps.Feature{
		PlaceName:   "123 Main St, Kihei, Hawaii 96753, United States",
		Center:      [2]float64{-156.4729, 20.8893},
		HouseNumber: "123",
		Street:      "Main St",
		Context: []maps.ContextEntry{
			{ID: "place.2", Text: "Kihei"},
			{ID: "region.3", Text: "Hawaii", ShortCode: "US-HI"},
		},
	}
}

func newTestServer(t *testing.T, bus events.Bus) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(Options{
		Token:          "pk.test",
		Presets:        testPresets,
		Searcher:       stubSearcher{features: []maps.Feature{kihei()}},
		Bus:            bus,
		AllowedOrigins: []string{"http://planner.example.com"},
	})

	r := gin.New()
	r.GET("/ws", h.Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil returns every message up to and including the first one matching stop.
func readUntil(t *testing.T, conn *websocket.Conn, stop func(transport.ServerMessage) bool) []transport.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msgs []transport.ServerMessage
	for {
		var msg transport.ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		msgs = append(msgs, msg)
		if stop(msg) {
			return msgs
		}
	}
}

func TestServe_SelectionRoundTrip(t *testing.T) {
	bus := events.NewInMemoryBus(nil)
	published := make(chan events.AddressSelected, 1)
	bus.Subscribe(events.AddressSelected{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		published <- e.(events.AddressSelected)
		return nil
	}))

	srv := newTestServer(t, bus)
	conn := dial(t, srv, "form=activity&refLat=20.7967&refLon=-156.6825")

	require.NoError(t, conn.WriteJSON(transport.ClientMessage{
		Type: transport.TypeMount,
		Elements: []transport.ElementState{
			{ID: "activity-address-search", Value: "123 Main"},
			{ID: "id_city"},
			{ID: "id_distance"},
			{ID: "id_travel"},
		},
	}))
	require.NoError(t, conn.WriteJSON(transport.ClientMessage{Type: transport.TypeFocus}))

	msgs := readUntil(t, conn, func(m transport.ServerMessage) bool {
		return m.Type == transport.TypePanel && m.Op == transport.PanelShow
	})
	assert.Equal(t, transport.TypeCreatePanel, msgs[0].Type)
	assert.Equal(t, "activity-address-results", msgs[0].ID)
	assert.Equal(t, "activity-address-search", msgs[0].After)

	var row transport.ServerMessage
	for _, m := range msgs {
		if m.Op == transport.PanelRow {
			row = m
		}
	}
	require.Equal(t, "activity-address-results-row-0", row.Row)
	assert.Equal(t, kihei().PlaceName, row.Label)

	require.NoError(t, conn.WriteJSON(transport.ClientMessage{Type: transport.TypeClick, Target: row.Row}))

	msgs = readUntil(t, conn, func(m transport.ServerMessage) bool { return m.Type == transport.TypeSelected })

	changed := map[string]string{}
	for _, m := range msgs {
		if m.Type == transport.TypeSetValue && m.Change {
			changed[m.ID] = *m.Value
		}
	}
	assert.Equal(t, map[string]string{
		"id_city":     "Kihei",
		"id_distance": "14.97",
		"id_travel":   "22",
	}, changed)

	selected := msgs[len(msgs)-1]
	require.NotNil(t, selected.Address)
	assert.Equal(t, "HI", selected.Address.State)
	require.NotNil(t, selected.Estimate)
	assert.Equal(t, 22, selected.Estimate.TravelMinutes)

	select {
	case e := <-published:
		assert.Equal(t, "activity", e.Form)
		assert.Equal(t, "Kihei", e.Address.City)
	case <-time.After(5 * time.Second):
		t.Fatal("address selection was not published")
	}
}

func TestServe_RequiresMountFirst(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := dial(t, srv, "form=activity")

	require.NoError(t, conn.WriteJSON(transport.ClientMessage{Type: transport.TypeFocus}))

	msgs := readUntil(t, conn, func(m transport.ServerMessage) bool { return m.Type == transport.TypeError })
	assert.Equal(t, errNotMounted.Error(), msgs[len(msgs)-1].Error)
}

func TestServe_MountWithoutInputReportsError(t *testing.T) {
	srv := newTestServer(t, nil)
	conn := dial(t, srv, "form=activity")

	require.NoError(t, conn.WriteJSON(transport.ClientMessage{
		Type:     transport.TypeMount,
		Elements: []transport.ElementState{{ID: "id_city"}},
	}))

	msgs := readUntil(t, conn, func(m transport.ServerMessage) bool { return m.Type == transport.TypeError })
	assert.Equal(t, "address search is unavailable on this page", msgs[len(msgs)-1].Error)
}

func TestServe_RejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{name: "missing form", query: "", status: http.StatusBadRequest},
		{name: "unknown form", query: "form=hotel", status: http.StatusNotFound},
		{name: "half a reference", query: "form=activity&refLat=20.8", status: http.StatusBadRequest},
		{name: "latitude out of range", query: "form=activity&refLat=120&refLon=-156", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/ws?" + tt.query)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestCheckOrigin(t *testing.T) {
	h := New(Options{AllowedOrigins: []string{"http://planner.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://planner.example.com")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example.com")
	assert.False(t, h.checkOrigin(req))

	open := New(Options{})
	assert.True(t, open.checkOrigin(req))
}
