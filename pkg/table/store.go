package table

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// StoreOptions configures a Store.
type StoreOptions struct {
	Load LoadOptions
	// KeepOnFailure preserves the previous table when a load fails. By
	// default a failed load leaves the store empty.
	KeepOnFailure bool
	Logger        *slog.Logger
}

// Store owns the current table. Replacement is atomic: readers either see
// the previous table in full or the new one in full.
type Store struct {
	opts    StoreOptions
	logger  *slog.Logger
	current atomic.Pointer[Table]
	loads   singleflight.Group
}

// NewStore creates an empty store.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{opts: opts, logger: logger}
}

// Snapshot returns the current table, or nil when nothing is loaded.
func (s *Store) Snapshot() *Table {
	return s.current.Load()
}

// Replace installs t as the current table.
func (s *Store) Replace(t *Table) {
	s.current.Store(t)
}

// Clear drops the current table.
func (s *Store) Clear() {
	s.current.Store(nil)
}

// Load reads path and installs the result. Concurrent loads of the same path
// share one read.
func (s *Store) Load(ctx context.Context, path string) (*Table, error) {
	v, err, shared := s.loads.Do(path, func() (any, error) {
		return Load(path, s.opts.Load)
	})
	if err != nil {
		if s.opts.KeepOnFailure {
			s.logger.WarnContext(ctx, "load failed, keeping previous table", "path", path, "error", err)
		} else {
			s.logger.WarnContext(ctx, "load failed, table cleared", "path", path, "error", err)
			s.Clear()
		}
		return nil, err
	}

	t := v.(*Table)
	s.Replace(t)
	s.logger.InfoContext(ctx, "table loaded",
		"path", path,
		"rows", t.NumRows(),
		"columns", len(t.columns),
		"shared", shared,
	)
	return t, nil
}
