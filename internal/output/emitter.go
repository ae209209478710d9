package output

import (
	"fmt"
	"sync"

	"github.com/roach88/ocptv/internal/model"
)

// Emitter accepts artifacts for output. Implementations perform the actual
// serialization and delivery.
type Emitter interface {
	Emit(artifact model.RootArtifact) error
}

// ArtifactEmitter is the standard Emitter. It owns the sequence numbering of
// one output stream.
//
// Thread-safety: ArtifactEmitter is safe for concurrent use. Sequence
// assignment and the write happen under one lock, so lines reach the Writer
// in sequence order.
type ArtifactEmitter struct {
	mu      sync.Mutex
	writer  Writer
	clock   Clock
	seq     int64
	started bool
}

// EmitterOption configures an ArtifactEmitter.
type EmitterOption func(*ArtifactEmitter)

// WithClock overrides the timestamp source (defaults to SystemClock).
func WithClock(c Clock) EmitterOption {
	return func(e *ArtifactEmitter) {
		e.clock = c
	}
}

// NewArtifactEmitter creates an emitter writing to w.
func NewArtifactEmitter(w Writer, opts ...EmitterOption) *ArtifactEmitter {
	e := &ArtifactEmitter{
		writer: w,
		clock:  SystemClock{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit encodes artifact as the next line of the stream and writes it.
//
// The schemaVersion preamble is written before the first artifact. An
// artifact that fails to encode does not consume a sequence number; a failed
// write does, since the Writer may have accepted part of the line.
func (e *ArtifactEmitter) Emit(artifact model.RootArtifact) error {
	if model.IsNil(artifact) {
		return fmt.Errorf("emit: nil artifact")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		if err := e.write(model.CurrentSchemaVersion(), 0); err != nil {
			return err
		}
		e.started = true
	}

	if _, ok := artifact.(model.SchemaVersion); ok {
		return fmt.Errorf("emit: schemaVersion is written by the emitter")
	}

	seq := e.seq + 1
	line, err := model.Encode(model.Root{
		Artifact:       artifact,
		SequenceNumber: seq,
		Timestamp:      e.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	e.seq = seq

	return e.writer.Write(line)
}

// Sequence returns the sequence number of the last emitted artifact.
func (e *ArtifactEmitter) Sequence() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

func (e *ArtifactEmitter) write(artifact model.RootArtifact, seq int64) error {
	line, err := model.Encode(model.Root{
		Artifact:       artifact,
		SequenceNumber: seq,
		Timestamp:      e.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("emit: %w", err)
	}
	return e.writer.Write(line)
}
