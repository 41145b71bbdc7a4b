// Package autocomplete wires the live address widget into the HTTP server.
package autocomplete

import (
	"context"

	"vacation_planner_backend/internal/autocomplete/handler"
	"vacation_planner_backend/internal/autocomplete/widget"
	"vacation_planner_backend/internal/events"
	apphttp "vacation_planner_backend/internal/http"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/config"
	"vacation_planner_backend/platform/logger"
)

// Module serves the widget endpoint and logs selections published on the bus.
type Module struct {
	handler *handler.Handler
	presets widget.Presets
}

// NewModule loads the form presets and builds the widget endpoint.
func NewModule(cfg config.MapsConfig, httpCfg config.HTTPConfig, searcher maps.Searcher, bus events.Bus, log *logger.Logger) (*Module, error) {
	presets, err := widget.LoadPresets(cfg.GetAddressFormsFile())
	if err != nil {
		return nil, err
	}

	var origins []string
	if !httpCfg.GetCORSAllowAll() {
		origins = httpCfg.GetCORSOrigins()
	}

	if bus != nil {
		bus.Subscribe(events.AddressSelected{}.EventName(), selectionLogger(log))
	}

	return &Module{
		presets: presets,
		handler: handler.New(handler.Options{
			Token:          cfg.GetMapboxToken(),
			Presets:        presets,
			Searcher:       searcher,
			Bus:            bus,
			AllowedOrigins: origins,
			Logger:         log,
		}),
	}, nil
}

// Forms returns the names of the forms the widget can be mounted on.
func (m *Module) Forms() []string {
	return m.presets.Names()
}

func (m *Module) Name() string {
	return "autocomplete"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps/autocomplete")
	if ctx.RateLimiter != nil {
		group.Use(ctx.RateLimiter.RateLimit())
	}
	group.GET("/ws", m.handler.Serve)
}

func selectionLogger(log *logger.Logger) events.Handler {
	return events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.AddressSelected)
		if !ok {
			return nil
		}
		attrs := []any{
			"session_id", e.SessionID.String(),
			"form", e.Form,
			"city", e.Address.City,
			"state", e.Address.State,
		}
		if e.Estimate != nil {
			attrs = append(attrs, "distance_miles", e.Estimate.DistanceMiles, "travel_minutes", e.Estimate.TravelMinutes)
		}
		log.Info("address selected", attrs...)
		return nil
	})
}

var _ apphttp.Module = (*Module)(nil)
