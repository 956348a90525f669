// internal/logger/stream_sink.go

package logger

import (
	"fmt"
	"os"
	"sync"
)

// StreamSink writes formatted lines to an open file descriptor (stdout,
// stderr, or a plain file) and syncs after every line.
type StreamSink struct {
	mu    sync.Mutex
	out   *os.File
	name  string
	flush bool // regular files are synced per line, character devices are not
}

// NewStreamSink creates a sink writing to the given stream. out must not
// be nil.
func NewStreamSink(out *os.File, name string) *StreamSink {
	return &StreamSink{
		out:   out,
		name:  name,
		flush: isRegularFile(out),
	}
}

func isRegularFile(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Write formats the record as "[timestamp] name: message" and writes it
// with a trailing newline.
func (s *StreamSink) Write(r Record) error {
	line := FormatLine(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}
	if s.flush {
		if err := s.out.Sync(); err != nil {
			return fmt.Errorf("failed to flush log line: %w", err)
		}
	}
	return nil
}

// Close is a no-op for the process standard streams; the sink does not own
// them.
func (s *StreamSink) Close() error {
	return nil
}

// Name returns the name of the sink.
func (s *StreamSink) Name() string {
	return s.name
}

// Ensure StreamSink implements the Sink interface.
var _ Sink = (*StreamSink)(nil)
