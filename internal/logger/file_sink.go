// internal/logger/file_sink.go

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/diagtap/diagtap/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSink writes records to a file with optional rotation.
type FileSink struct {
	mu     sync.Mutex
	writer io.WriteCloser // *os.File or *lumberjack.Logger
	format string         // "json" or "text"
	name   string
}

// fileRecord is the JSON Lines representation of a record.
type fileRecord struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Name    string `json:"name,omitempty"`
	Message string `json:"msg"`
}

// NewFileSink creates a new FileSink instance.
func NewFileSink(cfg config.LogDestination) (*FileSink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file sink requires a path")
	}
	if cfg.Format != "json" && cfg.Format != "text" {
		return nil, fmt.Errorf("invalid file sink format: %s", cfg.Format)
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("file sink requires a name")
	}

	var writer io.WriteCloser
	var maxSizeMB int
	var maxAgeDays int

	// Parse rotation config if provided
	if cfg.Rotation.MaxSize != "" {
		sizeBytes, err := config.ParseSize(cfg.Rotation.MaxSize)
		if err != nil {
			return nil, fmt.Errorf("invalid rotation.max_size '%s' for destination '%s': %w", cfg.Rotation.MaxSize, cfg.Name, err)
		}
		maxSizeMB = int(sizeBytes / (1024 * 1024))
		if sizeBytes > 0 && maxSizeMB == 0 {
			// Minimum value is 1MB (lumberjack limitation)
			maxSizeMB = 1
		}
	}

	if cfg.Rotation.MaxAge != "" {
		ageDuration, err := config.ParseDuration(cfg.Rotation.MaxAge)
		if err != nil {
			return nil, fmt.Errorf("invalid rotation.max_age '%s' for destination '%s': %w", cfg.Rotation.MaxAge, cfg.Name, err)
		}
		maxAgeDays = int(ageDuration.Hours() / 24)
		if maxAgeDays <= 0 && ageDuration > 0 {
			maxAgeDays = 1
		}
	}

	rotationConfigured := maxSizeMB > 0 || maxAgeDays > 0 || cfg.Rotation.MaxBackups > 0

	if rotationConfigured {
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    maxSizeMB,
			MaxBackups: cfg.Rotation.MaxBackups,
			MaxAge:     maxAgeDays,
			Compress:   cfg.Rotation.Compress,
			LocalTime:  false, // Use UTC time for rotated file names
		}
	} else {
		file, err := os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Path, err)
		}
		writer = file
	}

	return &FileSink{
		writer: writer,
		format: cfg.Format,
		name:   cfg.Name,
	}, nil
}

// Write appends the record to the file, one line per record.
func (s *FileSink) Write(r Record) error {
	var line []byte

	if s.format == "json" {
		var err error
		line, err = json.Marshal(fileRecord{
			Time:    FormatTime(r.Time),
			Level:   r.Level.String(),
			Name:    r.Name,
			Message: r.Message,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal log record to JSON: %w", err)
		}
	} else { // format == "text"
		line = []byte(s.formatText(r))
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write log line: %w", err)
	}
	return nil
}

// formatText renders the record as "[timestamp] LEVEL name: message".
func (s *FileSink) formatText(r Record) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(FormatTime(r.Time))
	sb.WriteString("] ")
	sb.WriteString(r.Level.String())
	if r.Name != "" {
		sb.WriteString(" ")
		sb.WriteString(r.Name)
	}
	sb.WriteString(": ")
	sb.WriteString(r.Message)
	return sb.String()
}

// Close closes the underlying file writer.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer != nil {
		return s.writer.Close()
	}
	return nil
}

// Name returns the name of the sink destination.
func (s *FileSink) Name() string {
	return s.name
}

// Ensure FileSink implements the Sink interface.
var _ Sink = (*FileSink)(nil)
