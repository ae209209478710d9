package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Writer receives encoded output lines, one artifact per call. The line does
// not include a trailing newline and must not be retained after Write returns.
type Writer interface {
	Write(line []byte) error
}

// LineWriter writes newline-terminated lines to an io.Writer.
//
// Thread-safety: LineWriter serializes writes with a mutex, so it may be
// shared by several emitters.
type LineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineWriter wraps w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// NewStdoutWriter writes lines to os.Stdout.
func NewStdoutWriter() *LineWriter {
	return NewLineWriter(os.Stdout)
}

// Write implements Writer.
func (lw *LineWriter) Write(line []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	if _, err := lw.w.Write(buf); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}

// FileWriter writes newline-terminated lines to a file.
type FileWriter struct {
	*LineWriter
	f *os.File
}

// NewFileWriter creates (or truncates) the file at path.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &FileWriter{LineWriter: NewLineWriter(f), f: f}, nil
}

// Close flushes and closes the file.
func (fw *FileWriter) Close() error {
	if err := fw.f.Sync(); err != nil {
		fw.f.Close()
		return fmt.Errorf("sync output file: %w", err)
	}
	return fw.f.Close()
}

// LogWriter forwards each line to a slog.Logger at the given level, with the
// line under the "artifact" attribute.
type LogWriter struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogWriter creates a LogWriter. A nil logger means slog.Default().
func NewLogWriter(logger *slog.Logger, level slog.Level) *LogWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogWriter{logger: logger, level: level}
}

// Write implements Writer.
func (lw *LogWriter) Write(line []byte) error {
	lw.logger.Log(context.Background(), lw.level, "ocptv", "artifact", string(line))
	return nil
}

// MultiWriter duplicates every line to all writers in order. Writing stops at
// the first error.
type MultiWriter []Writer

// Write implements Writer.
func (mw MultiWriter) Write(line []byte) error {
	for _, w := range mw {
		if err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
