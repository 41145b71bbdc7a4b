// Package widget binds a free-text address input on a host page to the
// geocoding provider: it debounces keystrokes, lists candidates in a results
// panel and writes the chosen address into the host form.
package widget

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/logger"
	"vacation_planner_backend/platform/validator"

	"github.com/jonboulle/clockwork"
)

// activationRules is shared by every controller.
var activationRules = validator.New()

// Controller is one address search widget mounted on one Document.
// All methods are safe for concurrent use.
type Controller struct {
	cfg      Config
	doc      Document
	input    Element
	panel    Panel
	searcher maps.Searcher
	log      *logger.Logger

	mu          sync.Mutex
	active      bool
	timer       clockwork.Timer
	timerGen    uint64
	seq         uint64
	ctx         context.Context
	cancel      context.CancelFunc
	removeClick func()
	inflight    sync.WaitGroup
}

// Activate binds a controller to doc. An invalid configuration or a missing
// input element is logged and yields an inert controller with no listeners.
func Activate(doc Document, cfg Config) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{cfg: cfg, doc: doc, log: cfg.Logger}

	if err := activationRules.Struct(activation{Token: cfg.Token, InputID: cfg.InputID}); err != nil {
		c.log.Warn("address autocomplete disabled: missing token or input id", "input", cfg.InputID, "error", err)
		return c
	}

	input, ok := doc.Element(cfg.InputID)
	if !ok {
		c.log.Warn("address autocomplete disabled: input element not found", "input", cfg.InputID)
		return c
	}

	searcher := cfg.Searcher
	if searcher == nil {
		client, err := maps.NewClient(maps.ClientOptions{Token: cfg.Token, BaseURL: cfg.BaseURL, HTTP: cfg.HTTPClient})
		if err != nil {
			c.log.Warn("address autocomplete disabled: geocoding client unavailable", "input", cfg.InputID, "error", err)
			return c
		}
		searcher = client
	}

	panel, ok := doc.Panel(cfg.ResultsID)
	if !ok {
		panel = doc.CreatePanel(cfg.ResultsID, input)
	}

	c.input = input
	c.panel = panel
	c.searcher = searcher
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.active = true
	c.removeClick = doc.AddClickListener(c.handleDocumentClick)

	return c
}

// Active reports whether the controller is bound and listening.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// HandleInput reacts to a change of the input's text. Short queries hide the
// panel; longer ones (re)arm the debounce timer so only the last keystroke searches.
func (c *Controller) HandleInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}

	query := strings.TrimSpace(c.input.Value())
	c.stopTimerLocked()

	if utf8.RuneCountInString(query) < MinQueryLength {
		c.seq++ // results still in flight are no longer wanted
		c.panel.Hide()
		return
	}

	gen := c.timerGen
	c.timer = c.cfg.Clock.AfterFunc(DebounceInterval, func() {
		c.fire(gen, query)
	})
}

// HandleFocus searches right away when the input already holds a usable query.
func (c *Controller) HandleFocus() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	query := strings.TrimSpace(c.input.Value())
	c.mu.Unlock()

	if utf8.RuneCountInString(query) >= MinQueryLength {
		c.Search(query)
	}
}

// Search looks query up asynchronously and renders the outcome. Only the most
// recently issued search may update the panel. Failures are logged and shown
// as a message in the panel; they never reach the caller.
func (c *Controller) Search(query string) {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	ctx := c.ctx
	c.inflight.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.inflight.Done()

		features, err := c.searcher.Search(ctx, query)

		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.active || seq != c.seq {
			c.log.Debug("discarding stale address results", "query", query)
			return
		}
		if err != nil {
			c.log.GeocodeFailure(query, err)
			c.panel.SetMessage(errorMessage)
			c.panel.Show()
			return
		}
		c.renderLocked(features)
	}()
}

// Select writes feature into the input and every mapped element present on
// the page, hides the panel and invokes OnSelect.
func (c *Controller) Select(feature maps.Feature) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}

	c.stopTimerLocked()
	c.seq++

	addr := maps.ParseFeature(feature)
	c.input.SetValue(addr.FullAddress)

	values := c.selectionValues(addr)
	keys := make([]string, 0, len(c.cfg.Fields))
	for key := range c.cfg.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := values[key]
		if !ok {
			continue
		}
		el, ok := c.doc.Element(c.cfg.Fields[key])
		if !ok {
			continue
		}
		el.SetValue(value)
		el.DispatchChange()
	}

	c.panel.Hide()
	onSelect := c.cfg.OnSelect
	c.mu.Unlock()

	if onSelect != nil {
		onSelect(addr)
	}
}

// Deactivate removes the click listener, hides the panel, cancels the pending
// timer and any search in flight, then waits for running searches to finish.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.active = false
	c.stopTimerLocked()
	c.cancel()
	c.panel.Hide()
	remove := c.removeClick
	c.removeClick = nil
	c.mu.Unlock()

	if remove != nil {
		remove()
	}
	c.inflight.Wait()
}

// selectionValues returns what may be written into mapped fields. The full
// address only ever goes to the input itself.
func (c *Controller) selectionValues(addr maps.NormalizedAddress) map[string]string {
	values := addr.Values()
	delete(values, maps.FieldFullAddress)

	if c.cfg.Reference != nil {
		est := geo.Estimate(*c.cfg.Reference, addr.Point(), c.cfg.AverageSpeedMPH)
		values[FieldDistanceFromResort] = strconv.FormatFloat(est.DistanceMiles, 'f', 2, 64)
		values[FieldTravelTimeFromResort] = strconv.Itoa(est.TravelMinutes)
	}
	return values
}

func (c *Controller) fire(gen uint64, query string) {
	c.mu.Lock()
	if !c.active || gen != c.timerGen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	c.Search(query)
}

func (c *Controller) renderLocked(features []maps.Feature) {
	if len(features) == 0 {
		c.panel.SetMessage(noResultsMessage)
		c.panel.Show()
		return
	}

	c.panel.Clear()
	for _, f := range features {
		feature := f
		c.panel.AddRow(feature.PlaceName, func() {
			c.Select(feature)
		})
	}
	c.panel.Show()
}

func (c *Controller) handleDocumentClick(targetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	if targetID == c.cfg.InputID || c.doc.Contains(c.panel.ID(), targetID) {
		return
	}
	c.panel.Hide()
}

// stopTimerLocked cancels the pending debounce timer. Bumping the generation
// also neutralizes a timer that already fired but has not run yet.
func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}
