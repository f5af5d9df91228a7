// Package session holds the current result set between refreshes.
//
// The only mutation is Refresh: a successful run replaces the stored result
// set wholesale, while a failed or empty run leaves it untouched.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scipunch/newspulse/pipeline"
)

// Store keeps a single result set
type Store interface {
	// Load returns the stored result set and whether one exists
	Load() (pipeline.ResultSet, bool, error)
	// Replace swaps the stored result set for rs
	Replace(rs pipeline.ResultSet) error
}

// Runner produces a result set for a query
type Runner interface {
	Run(ctx context.Context, query string, limit int) (pipeline.ResultSet, error)
}

type Session struct {
	runner Runner
	store  Store
}

func New(runner Runner, store Store) *Session {
	return &Session{runner: runner, store: store}
}

// Refresh runs the pipeline and stores its output on success. The run's
// own result and error are returned unchanged so the caller can tell a
// fetch failure from an empty feed.
func (s *Session) Refresh(ctx context.Context, query string, limit int) (pipeline.ResultSet, error) {
	rs, err := s.runner.Run(ctx, query, limit)
	if err != nil {
		slog.Debug("keeping previous result set", "reason", err)
		return rs, err
	}

	if err := s.store.Replace(rs); err != nil {
		return rs, fmt.Errorf("failed to store result set %s with %w", rs.ID, err)
	}
	slog.Debug("result set replaced", "run", rs.ID, "items", len(rs.Items))
	return rs, nil
}

// Current returns the stored result set, if any
func (s *Session) Current() (pipeline.ResultSet, bool, error) {
	return s.store.Load()
}

// MemoryStore keeps the result set in process memory
type MemoryStore struct {
	rs  pipeline.ResultSet
	set bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (pipeline.ResultSet, bool, error) {
	return m.rs, m.set, nil
}

func (m *MemoryStore) Replace(rs pipeline.ResultSet) error {
	m.rs = rs
	m.set = true
	return nil
}
