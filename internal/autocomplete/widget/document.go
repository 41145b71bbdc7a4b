package widget

// Element is a form control whose value the controller reads or writes.
type Element interface {
	ID() string
	Value() string
	SetValue(value string)
	// DispatchChange notifies listeners on the host page that the value changed.
	DispatchChange()
}

// Panel is the dropdown that lists candidate addresses.
type Panel interface {
	ID() string
	Clear()
	// AddRow appends a clickable row; onClick runs when the row is clicked.
	AddRow(label string, onClick func())
	// SetMessage replaces the panel content with a single non-clickable row.
	SetMessage(text string)
	Show()
	Hide()
}

// Document is the host page the controller is mounted on.
type Document interface {
	Element(id string) (Element, bool)
	Panel(id string) (Panel, bool)
	// CreatePanel appends a new panel as a sibling of the given element.
	CreatePanel(id string, after Element) Panel
	// Contains reports whether targetID is ancestorID or nested inside it.
	Contains(ancestorID, targetID string) bool
	// AddClickListener registers a page-wide click listener and returns its remover.
	AddClickListener(fn func(targetID string)) (remove func())
}
