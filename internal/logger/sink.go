// internal/logger/sink.go

package logger

import (
	"os"
	"strconv"
	"sync"
)

// Sink defines the interface for all immediate-output destination
// implementations. Each sink type (stream, file, gelf) implements this
// interface.
type Sink interface {
	// Write delivers a single record. Implementations format the record
	// into their own output representation and must flush before
	// returning, so the record is durable even if the process aborts
	// right after.
	Write(r Record) error

	// Close handles any necessary cleanup, like flushing buffers or
	// closing connections. It should be called during application
	// shutdown.
	Close() error

	// Name returns the unique name of the sink instance (from config).
	Name() string
}

// DebugTargetEnv selects the immediate-write target of the default
// facility: 1 for stdout, 2 for stderr, anything else for none.
const DebugTargetEnv = "DIAGTAP_DEBUG_FD"

var (
	debugTargetOnce sync.Once
	debugTarget     *os.File
)

// resolveDebugTarget evaluates DebugTargetEnv once and caches the result
// for the life of the process. Returns nil when no target is configured.
func resolveDebugTarget() *os.File {
	debugTargetOnce.Do(func() {
		fd, _ := strconv.Atoi(os.Getenv(DebugTargetEnv))
		switch fd {
		case 1:
			debugTarget = os.Stdout
		case 2:
			debugTarget = os.Stderr
		default:
			debugTarget = nil
		}
	})
	return debugTarget
}
