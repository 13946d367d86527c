// Package tree keeps the collapsed/expanded state of the category tree and
// persists it across page loads.
package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// DefaultStateKey is the storage key of the persisted mapping.
const DefaultStateKey = "categoryTreeState"

// ErrMalformedState means the persisted value is not a JSON object of
// booleans. Readers treat it as an empty state.
var ErrMalformedState = errors.New("tree: malformed persisted state")

// KeyValueStore is durable string storage.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// State maps a node id to whether it is collapsed.
type State map[string]bool

// DecodeState parses a persisted mapping. An empty value is an empty state.
func DecodeState(value string) (State, error) {
	st := State{}
	if value == "" {
		return st, nil
	}
	if err := json.Unmarshal([]byte(value), &st); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if st == nil {
		// "null" decodes to a nil map.
		st = State{}
	}
	return st, nil
}

// Encode serialises the mapping.
func (s State) Encode() string {
	if s == nil {
		return "{}"
	}
	data, _ := json.Marshal(map[string]bool(s))
	return string(data)
}

// MemoryStore is an in-memory KeyValueStore.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
