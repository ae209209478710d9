package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/ocptv/internal/model"
)

// ArtifactWriter stores output lines into one session. It implements
// output.Writer, so it can be handed to tv.WithWriter directly or combined
// with a stdout writer through output.MultiWriter.
type ArtifactWriter struct {
	ctx     context.Context
	db      *sql.DB
	session string
}

// Writer returns a writer appending to session. ctx bounds every insert.
func (s *Store) Writer(ctx context.Context, session string) *ArtifactWriter {
	return &ArtifactWriter{ctx: ctx, db: s.db, session: session}
}

// Write parses the envelope of line and inserts it.
// Uses ON CONFLICT(session_id, seq) DO NOTHING for idempotency - a line
// whose sequence number is already stored is silently ignored.
func (w *ArtifactWriter) Write(line []byte) error {
	info, err := model.ParseLine(line)
	if err != nil {
		return fmt.Errorf("store artifact: %w", err)
	}

	var stepID sql.NullString
	if info.Kind == (model.StepArtifact{}).SpecObject() {
		stepID = sql.NullString{String: info.StepID, Valid: true}
	}

	_, err = w.db.ExecContext(w.ctx, `
		INSERT INTO artifacts
		(session_id, seq, kind, record, step_id, line, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		w.session,
		info.SequenceNumber,
		info.Kind,
		info.Record,
		stepID,
		string(line),
		model.ArtifactHash(line),
	)
	if err != nil {
		return fmt.Errorf("store artifact %d: %w", info.SequenceNumber, err)
	}
	return nil
}
