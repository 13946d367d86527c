package tree

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ziadkadry99/blognav/internal/event"
)

// ErrUnknownNode is returned for an id no node carries.
var ErrUnknownNode = errors.New("tree: unknown node")

// Keys that activate a focused node header.
const (
	KeyEnter = "Enter"
	KeySpace = " "
)

// Node is one collapsible tree node. ID is its persistence key; a node
// without one can still be toggled but is never persisted.
type Node struct {
	ID        string `json:"id"`
	Collapsed bool   `json:"collapsed"`
}

// Options configures a Tree.
type Options struct {
	StateKey string
	Logger   *slog.Logger
	// OnChange, when set, is called after a node's collapsed flag changes.
	OnChange func(index int, n Node)
}

// Tree is the tree-state controller of one page. Call it from a single
// dispatch thread.
type Tree struct {
	nodes []Node
	store KeyValueStore
	opts  Options
}

// New creates a Tree over nodes in document order. Nothing is restored until
// Restore is called.
func New(nodes []Node, store KeyValueStore, opts Options) *Tree {
	if opts.StateKey == "" {
		opts.StateKey = DefaultStateKey
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Tree{nodes: nodes, store: store, opts: opts}
}

// Nodes returns the nodes in document order.
func (t *Tree) Nodes() []Node { return t.nodes }

// Collapsed reports the state of the first node with id.
func (t *Tree) Collapsed(id string) (bool, error) {
	i := t.find(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return t.nodes[i].Collapsed, nil
}

// Toggle flips the first node with id and persists the full mapping with
// the new value. It returns the node's new collapsed flag.
func (t *Tree) Toggle(id string) (bool, error) {
	i := t.find(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return t.ToggleAt(i)
}

// ToggleAt flips the node at index i.
func (t *Tree) ToggleAt(i int) (bool, error) {
	if i < 0 || i >= len(t.nodes) {
		return false, fmt.Errorf("%w: index %d", ErrUnknownNode, i)
	}
	collapsed := !t.nodes[i].Collapsed
	t.set(i, collapsed)

	id := t.nodes[i].ID
	if id == "" {
		return collapsed, nil
	}
	st, err := t.load()
	if err != nil {
		return collapsed, err
	}
	st[id] = collapsed
	if err := t.store.Set(t.opts.StateKey, st.Encode()); err != nil {
		return collapsed, fmt.Errorf("saving tree state: %w", err)
	}
	return collapsed, nil
}

// Restore collapses every node whose persisted value is true. Entries for
// nodes not on the page are ignored. It returns how many nodes it collapsed.
func (t *Tree) Restore() (int, error) {
	st, err := t.load()
	if err != nil {
		return 0, err
	}
	n := 0
	for id, collapsed := range st {
		if !collapsed {
			continue
		}
		i := t.find(id)
		if i < 0 {
			continue
		}
		if !t.nodes[i].Collapsed {
			n++
		}
		t.set(i, true)
	}
	return n, nil
}

// ExpandAll expands every node and deletes the persisted mapping.
func (t *Tree) ExpandAll() error {
	for i := range t.nodes {
		t.set(i, false)
	}
	if err := t.store.Remove(t.opts.StateKey); err != nil {
		return fmt.Errorf("clearing tree state: %w", err)
	}
	return nil
}

// CollapseAll collapses every node. The persisted mapping is left as it
// was, so a reload restores the previous state.
func (t *Tree) CollapseAll() {
	for i := range t.nodes {
		t.set(i, true)
	}
}

// HandleKey treats Enter and Space on a focused header like a click. It
// reports whether the key was handled, in which case the default scroll
// must be suppressed.
func (t *Tree) HandleKey(id, key string) (bool, error) {
	if key != KeyEnter && key != KeySpace {
		return false, nil
	}
	_, err := t.Toggle(id)
	return true, err
}

// Register binds the tree to the onToggle and onKey events. The event Value
// carries the node id for onToggle and the key for onKey, whose Target is
// the node id.
func (t *Tree) Register(h *event.Handlers) {
	h.On(event.Toggle, func(ev event.Event) {
		if _, err := t.Toggle(ev.Value); err != nil {
			t.opts.Logger.Warn("tree toggle failed", "node", ev.Value, "error", err)
		}
	})
	h.On(event.Key, func(ev event.Event) {
		if _, err := t.HandleKey(ev.Target, ev.Value); err != nil {
			t.opts.Logger.Warn("tree key failed", "node", ev.Target, "error", err)
		}
	})
}

// State returns the persisted mapping.
func (t *Tree) State() (State, error) { return t.load() }

// load reads the persisted mapping. A malformed value is logged and read as
// an empty state; the next Toggle overwrites it.
func (t *Tree) load() (State, error) {
	v, ok, err := t.store.Get(t.opts.StateKey)
	if err != nil {
		return nil, fmt.Errorf("loading tree state: %w", err)
	}
	if !ok {
		return State{}, nil
	}
	st, err := DecodeState(v)
	if err != nil {
		t.opts.Logger.Warn("ignoring persisted tree state", "key", t.opts.StateKey, "error", err)
		return State{}, nil
	}
	return st, nil
}

func (t *Tree) set(i int, collapsed bool) {
	if t.nodes[i].Collapsed == collapsed {
		return
	}
	t.nodes[i].Collapsed = collapsed
	if t.opts.OnChange != nil {
		t.opts.OnChange(i, t.nodes[i])
	}
}

func (t *Tree) find(id string) int {
	if id == "" {
		return -1
	}
	for i, n := range t.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
