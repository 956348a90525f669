// internal/logger/gelf_sink.go

package logger

import (
	"fmt"
	"os"

	"github.com/diagtap/diagtap/internal/config"
	"gopkg.in/Graylog2/go-gelf.v2/gelf"
)

// Variables for factories to allow mocking in tests
var gelfUDPWriterFactory = gelf.NewUDPWriter
var gelfTCPWriterFactory = gelf.NewTCPWriter

// Function to set compression, can be mocked in tests
var setUDPCompression = func(writer *gelf.UDPWriter, compType gelf.CompressType) {
	writer.CompressionType = compType
}

// GelfSink delivers records to a Graylog server. It is the structured
// channel implementation of Sink: records are translated into GELF's
// syslog-style severity enumeration instead of being rendered as text
// lines.
type GelfSink struct {
	name        string
	writer      gelf.Writer
	hostName    string
	extraFields map[string]string
}

// NewGelfSink creates a new GELF sink.
func NewGelfSink(cfg config.LogDestination) (*GelfSink, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required for GELF sink")
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("valid port is required for GELF sink")
	}

	hostName, err := os.Hostname()
	if err != nil {
		hostName = "unknown"
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var writer gelf.Writer
	if cfg.Protocol == "tcp" {
		tcpWriter, err := gelfTCPWriterFactory(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF TCP writer: %w", err)
		}
		writer = tcpWriter
	} else {
		// Default to UDP
		udpWriter, err := gelfUDPWriterFactory(addr)
		if err != nil {
			return nil, fmt.Errorf("failed to create GELF UDP writer: %w", err)
		}

		switch cfg.CompressionType {
		case "gzip":
			setUDPCompression(udpWriter, gelf.CompressGzip)
		case "zlib":
			setUDPCompression(udpWriter, gelf.CompressZlib)
		default:
			setUDPCompression(udpWriter, gelf.CompressNone)
		}

		writer = udpWriter
	}

	return &GelfSink{
		name:        cfg.Name,
		writer:      writer,
		hostName:    hostName,
		extraFields: cfg.ExtraFields,
	}, nil
}

// gelfLevel translates the six diagnostic severities into GELF's
// syslog-style enumeration (0=emergency .. 7=debug), preserving the
// ordering.
func gelfLevel(l Level) int32 {
	switch l {
	case LevelCritical:
		return 2 // critical
	case LevelError:
		return 3 // error
	case LevelWarn:
		return 4 // warning
	case LevelInfo:
		return 6 // informational
	case LevelDebug, LevelTrace:
		return 7 // debug
	default:
		return 6
	}
}

// Write sends the record to the Graylog server.
func (g *GelfSink) Write(r Record) error {
	msg := &gelf.Message{
		Version:  "1.1",
		Host:     g.hostName,
		Short:    r.Message,
		TimeUnix: float64(r.Time.UnixMilli()) / 1000.0,
		Level:    gelfLevel(r.Level),
		Extra:    make(map[string]interface{}, len(g.extraFields)+1),
	}

	if r.Name != "" {
		msg.Extra["_name"] = r.Name
	}
	// GELF requires additional fields to start with an underscore
	for k, v := range g.extraFields {
		if k == "" {
			continue
		}
		key := k
		if key[0] != '_' {
			key = "_" + key
		}
		msg.Extra[key] = v
	}

	return g.writer.WriteMessage(msg)
}

// Close closes the GELF writer.
func (g *GelfSink) Close() error {
	return g.writer.Close()
}

// Name returns the name of the sink destination.
func (g *GelfSink) Name() string {
	return g.name
}

// Ensure GelfSink implements the Sink interface.
var _ Sink = (*GelfSink)(nil)
