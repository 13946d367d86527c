package event

import (
	"fmt"
	"sort"
)

// Name identifies a UI event a component reacts to.
type Name string

const (
	QueryChange Name = "onQueryChange"
	Focus       Name = "onFocus"
	Click       Name = "onClick"
	Scroll      Name = "onScroll"
	Resize      Name = "onResize"
	Toggle      Name = "onToggle"
	Key         Name = "onKey"
)

// Event is one dispatched occurrence. Value carries the input text, the
// toggled node id or the pressed key depending on Name; Target names the
// element a click landed on.
type Event struct {
	Name   Name
	Value  string
	Target string
}

// Handler reacts to an Event.
type Handler func(Event)

// Handlers is a registry of handlers keyed by event name. Dispatch is
// synchronous: every handler registered for the name runs to completion, in
// registration order, before Dispatch returns. Use it from one dispatch
// thread only.
type Handlers struct {
	m map[Name][]Handler
}

// NewHandlers returns an empty registry.
func NewHandlers() *Handlers {
	return &Handlers{m: make(map[Name][]Handler)}
}

// On registers h for name.
func (h *Handlers) On(name Name, fn Handler) {
	h.m[name] = append(h.m[name], fn)
}

// Dispatch delivers ev to its handlers and reports whether any were
// registered. Pages without a widget simply have no handlers for its events.
func (h *Handlers) Dispatch(ev Event) bool {
	handlers := h.m[ev.Name]
	for _, fn := range handlers {
		fn(ev)
	}
	return len(handlers) > 0
}

// Names lists the registered event names, sorted.
func (h *Handlers) Names() []Name {
	names := make([]Name, 0, len(h.m))
	for n := range h.m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ParseName validates a wire-format event name.
func ParseName(s string) (Name, error) {
	switch n := Name(s); n {
	case QueryChange, Focus, Click, Scroll, Resize, Toggle, Key:
		return n, nil
	}
	return "", fmt.Errorf("unknown event %q", s)
}
