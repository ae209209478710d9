package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ocptv/internal/model"
)

// StoredArtifact is one stored output line with its indexed envelope fields.
type StoredArtifact struct {
	Session string
	Seq     int64
	Kind    string
	Record  string
	StepID  string // empty for run-scoped artifacts and the preamble
	Line    []byte
	Hash    string
}

// ReadSession returns every line of session ordered by sequence number.
// Each line's hash is recomputed and compared with the stored one.
//
// Returns an empty slice (not nil) if the session holds no artifacts.
func (s *Store) ReadSession(ctx context.Context, session string) ([]StoredArtifact, error) {
	return s.query(ctx, `
		SELECT session_id, seq, kind, record, step_id, line, hash
		FROM artifacts
		WHERE session_id = ?
		ORDER BY seq ASC
	`, session)
}

// ReadStep returns the lines emitted by one step of session, ordered by
// sequence number.
func (s *Store) ReadStep(ctx context.Context, session, stepID string) ([]StoredArtifact, error) {
	return s.query(ctx, `
		SELECT session_id, seq, kind, record, step_id, line, hash
		FROM artifacts
		WHERE session_id = ? AND step_id = ?
		ORDER BY seq ASC
	`, session, stepID)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]StoredArtifact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []StoredArtifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}

func scanArtifact(rows *sql.Rows) (StoredArtifact, error) {
	var (
		a      StoredArtifact
		stepID sql.NullString
		line   string
	)
	if err := rows.Scan(&a.Session, &a.Seq, &a.Kind, &a.Record, &stepID, &line, &a.Hash); err != nil {
		return StoredArtifact{}, fmt.Errorf("scan artifact: %w", err)
	}
	a.StepID = stepID.String
	a.Line = []byte(line)

	if got := model.ArtifactHash(a.Line); got != a.Hash {
		return StoredArtifact{}, fmt.Errorf("artifact %s/%d: hash mismatch: stored %s, computed %s",
			a.Session, a.Seq, a.Hash, got)
	}
	return a, nil
}
