package handler

import (
	"fmt"
	"strings"
	"sync"

	"vacation_planner_backend/internal/autocomplete/transport"
	"vacation_planner_backend/internal/autocomplete/widget"
	"vacation_planner_backend/platform/sanitize"
)

// Sender delivers one message to the remote page.
type Sender func(msg transport.ServerMessage) error

// Page mirrors a remote browser page. Element values are kept in sync with
// the client; every mutation is forwarded as a ServerMessage.
type Page struct {
	send Sender

	mu        sync.Mutex
	elements  map[string]*pageElement
	panels    map[string]*pagePanel
	listeners map[int]func(string)
	nextID    int
	sendErr   error
}

// NewPage creates an empty page that forwards mutations through send.
func NewPage(send Sender) *Page {
	return &Page{
		send:      send,
		elements:  make(map[string]*pageElement),
		panels:    make(map[string]*pagePanel),
		listeners: make(map[int]func(string)),
	}
}

// Mount records the elements the client reported and, if given, the panel it already renders.
func (p *Page) Mount(elements []transport.ElementState, panelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, el := range elements {
		p.elements[el.ID] = &pageElement{page: p, id: el.ID, value: el.Value}
	}
	if panelID != "" {
		p.panels[panelID] = &pagePanel{page: p, id: panelID}
	}
}

// Update mirrors a value the user typed. Unknown elements are ignored.
func (p *Page) Update(id, value string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elements[id]
	if !ok {
		return false
	}
	el.value = value
	return true
}

// Click replays a click on target: a panel row runs its handler first, then
// every page-wide click listener sees the target.
func (p *Page) Click(target string) {
	p.mu.Lock()
	var onClick func()
	for _, panel := range p.panels {
		if fn, ok := panel.rowHandler(target); ok {
			onClick = fn
			break
		}
	}
	listeners := make([]func(string), 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	for _, fn := range listeners {
		fn(target)
	}
}

// Send forwards msg to the client and records the first delivery failure.
func (p *Page) Send(msg transport.ServerMessage) {
	if err := p.send(msg); err != nil {
		p.mu.Lock()
		if p.sendErr == nil {
			p.sendErr = err
		}
		p.mu.Unlock()
	}
}

// Err returns the first error returned by the sender, if any.
func (p *Page) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sendErr
}

// Element implements widget.Document.
func (p *Page) Element(id string) (widget.Element, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

// Panel implements widget.Document.
func (p *Page) Panel(id string) (widget.Panel, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	panel, ok := p.panels[id]
	if !ok {
		return nil, false
	}
	return panel, true
}

// CreatePanel implements widget.Document.
func (p *Page) CreatePanel(id string, after widget.Element) widget.Panel {
	panel := &pagePanel{page: p, id: id}
	p.mu.Lock()
	p.panels[id] = panel
	p.mu.Unlock()

	p.Send(transport.ServerMessage{Type: transport.TypeCreatePanel, ID: id, After: after.ID()})
	return panel
}

// Contains implements widget.Document. Only panels have children.
func (p *Page) Contains(ancestorID, targetID string) bool {
	if targetID == ancestorID {
		return true
	}
	return strings.HasPrefix(targetID, ancestorID+"-row-")
}

// AddClickListener implements widget.Document.
func (p *Page) AddClickListener(fn func(targetID string)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

type pageElement struct {
	page  *Page
	id    string
	value string
}

func (e *pageElement) ID() string { return e.id }

func (e *pageElement) Value() string {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	return e.value
}

func (e *pageElement) SetValue(value string) {
	e.page.mu.Lock()
	e.value = value
	e.page.mu.Unlock()

	e.page.Send(transport.SetValue(e.id, value, false))
}

func (e *pageElement) DispatchChange() {
	e.page.Send(transport.SetValue(e.id, e.Value(), true))
}

// pagePanel fields other than id are guarded by page.mu.
type pagePanel struct {
	page *Page
	id   string
	rows []func()
}

func (pp *pagePanel) ID() string { return pp.id }

func (pp *pagePanel) Clear() {
	pp.page.mu.Lock()
	pp.rows = nil
	pp.page.mu.Unlock()

	pp.page.Send(transport.PanelOp(pp.id, transport.PanelClear))
}

func (pp *pagePanel) AddRow(label string, onClick func()) {
	pp.page.mu.Lock()
	row := fmt.Sprintf("%s-row-%d", pp.id, len(pp.rows))
	pp.rows = append(pp.rows, onClick)
	pp.page.mu.Unlock()

	msg := transport.PanelOp(pp.id, transport.PanelRow)
	msg.Row = row
	msg.Label = sanitize.Label(label)
	pp.page.Send(msg)
}

func (pp *pagePanel) SetMessage(text string) {
	pp.page.mu.Lock()
	pp.rows = nil
	pp.page.mu.Unlock()

	msg := transport.PanelOp(pp.id, transport.PanelMessage)
	msg.Text = text
	pp.page.Send(msg)
}

func (pp *pagePanel) Show() {
	pp.page.Send(transport.PanelOp(pp.id, transport.PanelShow))
}

func (pp *pagePanel) Hide() {
	pp.page.Send(transport.PanelOp(pp.id, transport.PanelHide))
}

// rowHandler must be called with page.mu held.
func (pp *pagePanel) rowHandler(target string) (func(), bool) {
	suffix, ok := strings.CutPrefix(target, pp.id+"-row-")
	if !ok {
		return nil, false
	}
	for i, fn := range pp.rows {
		if suffix == fmt.Sprint(i) {
			return fn, true
		}
	}
	return nil, false
}

var _ widget.Document = (*Page)(nil)
