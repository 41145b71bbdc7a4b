// Package transport defines the JSON messages exchanged with a live address widget page.
package transport

import (
	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/internal/maps"
)

// Client → server message types.
const (
	TypeMount = "mount"
	TypeInput = "input"
	TypeFocus = "focus"
	TypeClick = "click"
)

// Server → client message types.
const (
	TypeCreatePanel = "create_panel"
	TypePanel       = "panel"
	TypeSetValue    = "set_value"
	TypeSelected    = "selected"
	TypeError       = "error"
)

// Panel operations carried by TypePanel messages.
const (
	PanelClear   = "clear"
	PanelRow     = "row"
	PanelMessage = "message"
	PanelShow    = "show"
	PanelHide    = "hide"
)

// ElementState is the current value of one form element on the page.
type ElementState struct {
	ID    string `json:"id" validate:"required"`
	Value string `json:"value"`
}

// ClientMessage is sent by the page. Which fields are set depends on Type.
type ClientMessage struct {
	Type     string         `json:"type" validate:"required,oneof=mount input focus click"`
	Elements []ElementState `json:"elements,omitempty" validate:"omitempty,dive"`
	// Panel names a results panel the page already renders.
	Panel  string `json:"panel,omitempty"`
	Value  string `json:"value,omitempty"`
	Target string `json:"target,omitempty"`
}

// ServerMessage instructs the page. Which fields are set depends on Type.
type ServerMessage struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	After string `json:"after,omitempty"`
	Op    string `json:"op,omitempty"`
	// Row is the element ID of a clickable panel row, "<panelID>-row-<n>".
	Row      string                  `json:"row,omitempty"`
	Label    string                  `json:"label,omitempty"`
	Text     string                  `json:"text,omitempty"`
	Value    *string                 `json:"value,omitempty"`
	Change   bool                    `json:"change,omitempty"`
	Address  *maps.NormalizedAddress `json:"address,omitempty"`
	Estimate *geo.Result             `json:"estimate,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// SetValue builds a set_value message.
func SetValue(id, value string, change bool) ServerMessage {
	return ServerMessage{Type: TypeSetValue, ID: id, Value: &value, Change: change}
}

// PanelOp builds a panel message without payload.
func PanelOp(id, op string) ServerMessage {
	return ServerMessage{Type: TypePanel, ID: id, Op: op}
}

// Error builds an error message for a request the server could not honour.
func Error(text string) ServerMessage {
	return ServerMessage{Type: TypeError, Error: text}
}
