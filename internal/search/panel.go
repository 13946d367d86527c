package search

import (
	"time"

	"github.com/ziadkadry99/blognav/internal/content"
	"github.com/ziadkadry99/blognav/internal/event"
)

// Target names where a pointer event landed relative to the search widget.
type Target string

const (
	TargetInput     Target = "input"
	TargetResults   Target = "results"
	TargetElsewhere Target = "elsewhere"
)

// RecordSource supplies the current records; *content.Index satisfies it and
// returns nil until its load resolves.
type RecordSource interface {
	Records() []content.Record
}

// View receives panel output.
type View interface {
	Render(resp Response)
	SetVisible(visible bool)
}

// Panel is the results-panel controller of one page session. All methods
// must be called from the scheduler's dispatch thread.
type Panel struct {
	engine   *Engine
	source   RecordSource
	view     View
	debounce *event.Debouncer

	query    string
	visible  bool
	last     Response
	searches int
}

// PanelOptions configures a Panel.
type PanelOptions struct {
	Engine   *Engine
	Debounce time.Duration
}

// NewPanel wires a Panel to a scheduler, record source and view.
func NewPanel(sched event.Scheduler, source RecordSource, view View, opts PanelOptions) *Panel {
	if opts.Engine == nil {
		opts.Engine = NewEngine(Options{})
	}
	p := &Panel{engine: opts.Engine, source: source, view: view}
	p.debounce = event.NewDebouncer(sched, opts.Debounce, p.perform)
	return p
}

// Register binds the panel to the onQueryChange, onFocus and onClick events.
func (p *Panel) Register(h *event.Handlers) {
	h.On(event.QueryChange, func(ev event.Event) { p.OnQueryChange(ev.Value) })
	h.On(event.Focus, func(event.Event) { p.OnFocus() })
	h.On(event.Click, func(ev event.Event) { p.OnClick(Target(ev.Target)) })
}

// OnQueryChange records the input value and schedules a debounced search.
func (p *Panel) OnQueryChange(value string) {
	p.query = value
	p.debounce.Trigger(value)
}

// OnFocus re-shows results when the retained query is still searchable.
func (p *Panel) OnFocus() {
	if runeLen(p.query) >= p.engine.opts.MinQueryLength {
		p.perform(p.query)
	}
}

// OnClick hides the panel when the click landed outside both the input and
// the results.
func (p *Panel) OnClick(target Target) {
	if target == TargetInput || target == TargetResults {
		return
	}
	p.setVisible(false)
}

func (p *Panel) perform(query string) {
	p.searches++
	var records []content.Record
	if p.source != nil {
		records = p.source.Records()
	}
	resp := p.engine.Search(query, records)
	p.last = resp
	p.view.Render(resp)
	p.setVisible(resp.State != StateIdle)
}

func (p *Panel) setVisible(v bool) {
	p.visible = v
	p.view.SetVisible(v)
}

// Query returns the retained input value.
func (p *Panel) Query() string { return p.query }

// Visible reports whether the results panel is shown.
func (p *Panel) Visible() bool { return p.visible }

// Last returns the most recent response.
func (p *Panel) Last() Response { return p.last }

// Searches counts the searches actually run.
func (p *Panel) Searches() int { return p.searches }
