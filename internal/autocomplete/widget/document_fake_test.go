package widget

import (
	"strings"
	"sync"
)

type fakeElement struct {
	mu      sync.Mutex
	id      string
	value   string
	changes int
}

func (e *fakeElement) ID() string { return e.id }

func (e *fakeElement) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *fakeElement) SetValue(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
}

func (e *fakeElement) DispatchChange() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changes++
}

func (e *fakeElement) changeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.changes
}

type fakeRow struct {
	label   string
	onClick func()
}

type fakePanel struct {
	mu      sync.Mutex
	id      string
	rows    []fakeRow
	message string
	visible bool
}

func (p *fakePanel) ID() string { return p.id }

func (p *fakePanel) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = nil
	p.message = ""
}

func (p *fakePanel) AddRow(label string, onClick func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = append(p.rows, fakeRow{label: label, onClick: onClick})
}

func (p *fakePanel) SetMessage(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = nil
	p.message = text
}

func (p *fakePanel) Show() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = true
}

func (p *fakePanel) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
}

func (p *fakePanel) isVisible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *fakePanel) labels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	labels := make([]string, 0, len(p.rows))
	for _, r := range p.rows {
		labels = append(labels, r.label)
	}
	return labels
}

func (p *fakePanel) currentMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.message
}

func (p *fakePanel) click(i int) {
	p.mu.Lock()
	onClick := p.rows[i].onClick
	p.mu.Unlock()
	onClick()
}

type fakeDocument struct {
	mu        sync.Mutex
	elements  map[string]*fakeElement
	panels    map[string]*fakePanel
	created   []string
	listeners map[int]func(string)
	nextID    int
}

func newFakeDocument(ids ...string) *fakeDocument {
	d := &fakeDocument{
		elements:  make(map[string]*fakeElement),
		panels:    make(map[string]*fakePanel),
		listeners: make(map[int]func(string)),
	}
	for _, id := range ids {
		d.elements[id] = &fakeElement{id: id}
	}
	return d
}

func (d *fakeDocument) Element(id string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el, ok := d.elements[id]
	if !ok {
		return nil, false
	}
	return el, true
}

func (d *fakeDocument) Panel(id string) (Panel, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.panels[id]
	if !ok {
		return nil, false
	}
	return p, true
}

func (d *fakeDocument) CreatePanel(id string, after Element) Panel {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := &fakePanel{id: id}
	d.panels[id] = p
	d.created = append(d.created, id+"@"+after.ID())
	return p
}

func (d *fakeDocument) Contains(ancestorID, targetID string) bool {
	return targetID == ancestorID || strings.HasPrefix(targetID, ancestorID+"-row-")
}

func (d *fakeDocument) AddClickListener(fn func(targetID string)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

func (d *fakeDocument) click(targetID string) {
	d.mu.Lock()
	fns := make([]func(string), 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn(targetID)
	}
}

func (d *fakeDocument) listenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

func (d *fakeDocument) el(id string) *fakeElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.elements[id]
}

func (d *fakeDocument) panel(id string) *fakePanel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.panels[id]
}
