package toc

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/blognav/internal/event"
)

// Defaults for TrackerOptions.
const (
	DefaultScrollOffset = 100
	DefaultMinHeadings  = 2
)

var (
	// ErrTooFewHeadings means the page has fewer headings than the TOC
	// needs; the sidebar is suppressed instead.
	ErrTooFewHeadings = errors.New("toc: too few headings")
	// ErrUnknownHeading is returned by Navigate for an id not on the page.
	ErrUnknownHeading = errors.New("toc: unknown heading")
)

// Layout reports geometry. Positions are document-relative.
type Layout interface {
	ScrollY() float64
	HeadingTop(id string) (float64, bool)
	ScrollTo(y float64)
}

// Links receives the active heading id, or "" to clear every link.
type Links interface {
	Activate(id string)
}

// TrackerOptions tunes a Tracker. Zero fields take the defaults.
type TrackerOptions struct {
	// Offset accounts for the sticky header.
	Offset      float64
	MinHeadings int
	Logger      *slog.Logger
}

func (o *TrackerOptions) defaults() {
	if o.Offset == 0 {
		o.Offset = DefaultScrollOffset
	}
	if o.MinHeadings <= 0 {
		o.MinHeadings = DefaultMinHeadings
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Tracker is the scroll-spy. Its active heading changes only through Update
// (scroll position) or Navigate (a TOC click). Call its methods from the
// scheduler's dispatch thread.
type Tracker struct {
	headings []Heading
	layout   Layout
	links    Links
	opts     TrackerOptions
	throttle *event.Throttle

	active  int
	recomps int
	tops    []float64
}

// NewTracker validates headings and returns an inactive Tracker. Every
// heading must carry a unique non-empty id.
func NewTracker(sched event.Scheduler, headings []Heading, layout Layout, links Links, opts TrackerOptions) (*Tracker, error) {
	opts.defaults()
	if len(headings) < opts.MinHeadings {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewHeadings, len(headings), opts.MinHeadings)
	}
	seen := make(map[string]bool, len(headings))
	for i, h := range headings {
		if h.ID == "" {
			return nil, fmt.Errorf("toc: heading %d has no id", i)
		}
		if seen[h.ID] {
			return nil, fmt.Errorf("toc: duplicate heading id %q", h.ID)
		}
		seen[h.ID] = true
	}

	t := &Tracker{
		headings: headings,
		layout:   layout,
		links:    links,
		opts:     opts,
		active:   -1,
		tops:     make([]float64, len(headings)),
	}
	t.throttle = event.NewThrottle(sched, t.Update)
	return t, nil
}

// Register binds the tracker to the onScroll and onResize events.
func (t *Tracker) Register(h *event.Handlers) {
	h.On(event.Scroll, func(event.Event) { t.OnScroll() })
	h.On(event.Resize, func(event.Event) { t.OnResize() })
}

// OnScroll schedules a recompute for the next frame.
func (t *Tracker) OnScroll() { t.throttle.Request() }

// OnResize schedules a recompute for the next frame.
func (t *Tracker) OnResize() { t.throttle.Request() }

// Update recomputes the active heading from the current scroll position.
func (t *Tracker) Update() {
	t.recomps++
	for i, h := range t.headings {
		top, ok := t.layout.HeadingTop(h.ID)
		if !ok {
			// Detached headings never qualify.
			top = maxTop
		}
		t.tops[i] = top
	}
	t.setActive(ActiveIndex(t.tops, t.layout.ScrollY()+t.opts.Offset), false)
}

const maxTop = 1<<53 - 1

// Navigate smooth-scrolls to the heading and activates it at once, ahead of
// the scroll events the animation will produce.
func (t *Tracker) Navigate(id string) error {
	for i, h := range t.headings {
		if h.ID != id {
			continue
		}
		top, ok := t.layout.HeadingTop(id)
		if !ok {
			return fmt.Errorf("%w: %q is not laid out", ErrUnknownHeading, id)
		}
		t.layout.ScrollTo(top - t.opts.Offset)
		t.setActive(i, true)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownHeading, id)
}

func (t *Tracker) setActive(i int, force bool) {
	if i == t.active && !force {
		return
	}
	t.active = i
	id := ""
	if i >= 0 {
		id = t.headings[i].ID
	}
	t.opts.Logger.Debug("toc active heading", "id", id)
	t.links.Activate(id)
}

// Active returns the active heading, if any.
func (t *Tracker) Active() (Heading, bool) {
	if t.active < 0 {
		return Heading{}, false
	}
	return t.headings[t.active], true
}

// Recomputes counts Update runs.
func (t *Tracker) Recomputes() int { return t.recomps }

// Headings returns the tracked headings in document order.
func (t *Tracker) Headings() []Heading { return t.headings }
