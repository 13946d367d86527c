package content

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Index is the in-memory Content Index of one page session. It is loaded at
// most once, in the background; until the load resolves Records returns nil,
// so early queries see an empty index rather than an error.
type Index struct {
	src Source
	log *slog.Logger

	once    sync.Once
	records atomic.Pointer[[]Record]
	err     atomic.Pointer[error]
	ready   chan struct{}
}

// NewIndex creates an unloaded Index over src.
func NewIndex(src Source, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{src: src, log: logger, ready: make(chan struct{})}
}

// NewStaticIndex returns an Index that is already loaded with records.
func NewStaticIndex(records []Record) *Index {
	idx := &Index{log: slog.Default(), ready: make(chan struct{})}
	idx.once.Do(func() {
		idx.records.Store(&records)
		close(idx.ready)
	})
	return idx
}

// Load starts fetching the index and returns immediately. Later calls are
// no-ops. A failed fetch is logged and leaves the index empty; if ctx is
// cancelled before the response arrives the response is discarded.
func (i *Index) Load(ctx context.Context) {
	i.once.Do(func() {
		go i.load(ctx)
	})
}

func (i *Index) load(ctx context.Context) {
	defer close(i.ready)

	records, err := i.src.Load(ctx)
	if ctx.Err() != nil {
		i.log.Debug("content index load abandoned", "error", ctx.Err())
		return
	}
	if err != nil {
		i.err.Store(&err)
		i.log.Error("loading content index", "error", err)
		return
	}
	i.records.Store(&records)
	i.log.Debug("content index loaded", "records", len(records))
}

// Wait blocks until the load resolves or ctx is done.
func (i *Index) Wait(ctx context.Context) error {
	select {
	case <-i.ready:
		return i.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready is closed once the load has resolved, successfully or not.
func (i *Index) Ready() <-chan struct{} { return i.ready }

// Loaded reports whether records are available.
func (i *Index) Loaded() bool { return i.records.Load() != nil }

// Records returns the loaded records in index order, or nil.
func (i *Index) Records() []Record {
	if p := i.records.Load(); p != nil {
		return *p
	}
	return nil
}

// Err returns the load error, if any.
func (i *Index) Err() error {
	if p := i.err.Load(); p != nil {
		return *p
	}
	return nil
}
