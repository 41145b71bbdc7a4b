// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Maps Domain Events
// =============================================================================

// AddressSelected is published when a user picks a candidate in a live address widget.
type AddressSelected struct {
	BaseEvent
	SessionID uuid.UUID              `json:"sessionId"`
	Form      string                 `json:"form"`
	Address   maps.NormalizedAddress `json:"address"`
	// Estimate is set when the widget was mounted with a reference point.
	Estimate *geo.Result `json:"estimate,omitempty"`
}

func (e AddressSelected) EventName() string { return "maps.address.selected" }
