// Package handler serves the live address widget over a WebSocket.
package handler

import (
	"net/http"
	"strings"
	"time"

	"vacation_planner_backend/internal/autocomplete/widget"
	"vacation_planner_backend/internal/events"
	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/httpkit"
	"vacation_planner_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

// SessionRequest represents the query parameters of the WebSocket endpoint.
type SessionRequest struct {
	Form   string   `form:"form" binding:"required"`
	RefLat *float64 `form:"refLat" binding:"omitempty,latitude"`
	RefLon *float64 `form:"refLon" binding:"omitempty,longitude"`
	Speed  float64  `form:"speed" binding:"omitempty,gt=0"`
}

// Options configures the widget endpoint.
type Options struct {
	Token    string
	Presets  widget.Presets
	Searcher maps.Searcher
	Bus      events.Bus
	// AllowedOrigins restricts browser origins; empty or "*" allows any.
	AllowedOrigins []string
	Clock          clockwork.Clock
	Logger         *logger.Logger
}

// Handler upgrades widget sessions.
type Handler struct {
	opts     Options
	upgrader websocket.Upgrader
	log      *logger.Logger
}

func New(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	h := &Handler{opts: opts, log: opts.Logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
	return h
}

// Serve handles GET /api/v1/maps/autocomplete/ws?form=<preset>[&refLat=..&refLon=..]
func (h *Handler) Serve(c *gin.Context) {
	var req SessionRequest
	if err := c.ShouldBindQuery(&req); err != nil || (req.RefLat == nil) != (req.RefLon == nil) {
		httpkit.Error(c, http.StatusBadRequest, "form is required; refLat and refLon must be given together", nil)
		return
	}

	preset, ok := h.opts.Presets[req.Form]
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "unknown address form", gin.H{"forms": h.opts.Presets.Names()})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written an error response.
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	sessionID := uuid.New()
	cfg := preset.Apply(widget.Config{
		Token:           h.opts.Token,
		Searcher:        h.opts.Searcher,
		Clock:           h.opts.Clock,
		AverageSpeedMPH: req.Speed,
		Logger:          h.log.WithSessionID(sessionID.String()),
	})
	if req.RefLat != nil && req.RefLon != nil {
		cfg.Reference = &geo.Point{Lat: *req.RefLat, Lon: *req.RefLon}
	}

	s := newSession(sessionID, req.Form, conn, cfg, h.opts.Bus)
	s.run(c.Request.Context())
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.opts.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
