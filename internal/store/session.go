package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SessionGenerator mints session ids.
type SessionGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids, so listing
// sessions by id lists them in creation order.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined session ids for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, to catch tests that open more
// sessions than they planned for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all session ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// Session summarizes one stored stream.
type Session struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Artifacts int    `json:"artifacts"`
}

// NewSession registers a new session and returns its id.
// The label is free-form, typically the run name.
func (s *Store) NewSession(ctx context.Context, label string) (string, error) {
	id := s.sessions.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label) VALUES (?, ?)
	`, id, label)
	if err != nil {
		return "", fmt.Errorf("new session: %w", err)
	}
	return id, nil
}

// Sessions lists all sessions ordered by id.
//
// Returns an empty slice (not nil) if the store holds no sessions.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.label, COUNT(a.seq)
		FROM sessions s
		LEFT JOIN artifacts a ON a.session_id = s.id
		GROUP BY s.id, s.label
		ORDER BY s.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Label, &sess.Artifacts); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
