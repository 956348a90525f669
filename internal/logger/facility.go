// internal/logger/facility.go

package logger

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/diagtap/diagtap/internal/truncate"
)

// MaxFormattedLength caps the rendered text of the formatted emit path.
// Longer messages are truncated silently.
const MaxFormattedLength = 2048

// tooManyMessage is the one-time notice emitted when a call site reaches
// the repeat-suppression threshold.
const tooManyMessage = "Too many messages like this! I won't log this message anymore this session."

// Router selects additional named sinks that should receive a copy of an
// immediately-written record. The primary sink always receives the record;
// routing only adds fan-out.
type Router interface {
	Route(r Record) []Sink
}

// Facility is the process-wide diagnostic logging coordinator. It holds
// the severity threshold, the deferred-mode flag, the repeat-suppression
// table and the deferred queue, all behind a single mutex, so the order of
// records observed at the queue or the output matches real-time emission
// order across goroutines.
type Facility struct {
	mu           sync.Mutex
	level        Level
	queueEnabled bool
	queue        *logQueue
	suppressor   *repeatSuppressor
	sink         Sink
	router       Router
}

// Global instance
var (
	defaultFacility *Facility
	once            sync.Once
)

// Default returns the lazily-initialized process-wide facility. Its
// immediate-write target is resolved once from DebugTargetEnv, falling
// back to stderr.
func Default() *Facility {
	once.Do(func() {
		out := resolveDebugTarget()
		if out == nil {
			out = os.Stderr
		}
		defaultFacility = New(NewStreamSink(out, "default"))
	})
	return defaultFacility
}

// New creates a facility writing immediate-mode records to the given sink.
// The threshold defaults to Error and deferred mode is off.
func New(sink Sink) *Facility {
	return &Facility{
		level:      LevelError,
		queue:      newLogQueue(MaxQueueLength),
		suppressor: newRepeatSuppressor(),
		sink:       sink,
	}
}

// SetLevel sets the minimum severity. It affects subsequently emitted
// records only, never retroactively.
func (f *Facility) SetLevel(level Level) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.level = level
}

// Level returns the current minimum severity.
func (f *Facility) Level() Level {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

// SetLevelFromString sets the level from a string name.
func (f *Facility) SetLevelFromString(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	f.SetLevel(level)
	return nil
}

// SetQueueEnabled toggles deferred mode. Records already buffered or
// already written are untouched.
func (f *Facility) SetQueueEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queueEnabled = enabled
}

// QueueEnabled reports whether deferred mode is active.
func (f *Facility) QueueEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queueEnabled
}

// SetRouter installs the destination router used for immediate-mode
// fan-out. A nil router disables fan-out.
func (f *Facility) SetRouter(r Router) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.router = r
}

// DrainQueue atomically detaches and returns the buffered records, oldest
// first, leaving the queue empty. The returned slice is owned by the
// caller. Safe to call in any mode; returns an empty slice when nothing is
// buffered.
func (f *Facility) DrainQueue() []Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.drainAll()
}

// QueueLength returns the number of currently buffered records.
func (f *Facility) QueueLength() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.len()
}

// LevelIsActive reports whether records at the given severity would pass
// the current threshold.
func (f *Facility) LevelIsActive(level Level) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return level <= f.level
}

// Emit is the sole entry point for producing a record. Empty messages and
// messages more verbose than the threshold are dropped without side
// effects. Warn-or-worse messages are subject to per-site repeat
// suppression: the 30th occurrence from one site is delivered followed by
// a single synthetic notice, and later occurrences are dropped for the
// rest of the session. Emit never fails; sink errors are absorbed.
func (f *Facility) Emit(file string, line int, level Level, name, message string) {
	if message == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// skip unwanted messages
	if level > f.level {
		return
	}

	// don't log the same warning ad infinitum
	lastOne := false
	if level <= LevelWarn {
		count := f.suppressor.recordOccurrence(file, line)
		if count > maxSiteRepeats {
			return
		}
		lastOne = count == maxSiteRepeats
	}

	f.route(Record{
		Level:   level,
		Time:    time.Now(),
		File:    file,
		Line:    line,
		Name:    name,
		Message: message,
	})
	if lastOne {
		f.route(Record{
			Level:   level,
			Time:    time.Now(),
			File:    file,
			Line:    line,
			Message: tooManyMessage,
		})
	}
}

// Emitf renders a printf-style message and forwards it to Emit. Rendering
// happens before the facility mutex is taken to keep the critical section
// short. The rendered text is capped at MaxFormattedLength bytes; empty
// results are a no-op.
func (f *Facility) Emitf(file string, line int, level Level, name, format string, args ...interface{}) {
	message := truncate.Silent(fmt.Sprintf(format, args...), MaxFormattedLength)
	if message == "" {
		return
	}
	f.Emit(file, line, level, name, message)
}

// route hands a filtered, suppression-checked record to the queue or the
// output sinks. Caller must hold f.mu.
func (f *Facility) route(r Record) {
	if f.queueEnabled {
		f.queue.push(r)
		return
	}
	if f.sink != nil {
		_ = f.sink.Write(r) // best effort, logging never fails the caller
	}
	if f.router != nil {
		for _, sink := range f.router.Route(r) {
			_ = sink.Write(r)
		}
	}
}

// callerSite returns the file and line of the caller's caller, used as the
// suppression key by the leveled convenience methods.
func callerSite() (string, int) {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown", 0
	}
	return file, line
}

// Leveled convenience methods. Each captures its call site, so repeat
// suppression keys on the line that invoked it.

// Critical logs a formatted critical message.
func (f *Facility) Critical(name, format string, args ...interface{}) {
	if !f.LevelIsActive(LevelCritical) {
		return
	}
	file, line := callerSite()
	f.Emitf(file, line, LevelCritical, name, format, args...)
}

// Error logs a formatted error message.
func (f *Facility) Error(name, format string, args ...interface{}) {
	if !f.LevelIsActive(LevelError) {
		return
	}
	file, line := callerSite()
	f.Emitf(file, line, LevelError, name, format, args...)
}

// Warn logs a formatted warning message.
func (f *Facility) Warn(name, format string, args ...interface{}) {
	if !f.LevelIsActive(LevelWarn) {
		return
	}
	file, line := callerSite()
	f.Emitf(file, line, LevelWarn, name, format, args...)
}

// Info logs a formatted info message.
func (f *Facility) Info(name, format string, args ...interface{}) {
	if !f.LevelIsActive(LevelInfo) {
		return
	}
	file, line := callerSite()
	f.Emitf(file, line, LevelInfo, name, format, args...)
}

// Debug logs a formatted debug message.
func (f *Facility) Debug(name, format string, args ...interface{}) {
	if !f.LevelIsActive(LevelDebug) {
		return
	}
	file, line := callerSite()
	f.Emitf(file, line, LevelDebug, name, format, args...)
}

// Trace logs a formatted trace message.
func (f *Facility) Trace(name, format string, args ...interface{}) {
	if !f.LevelIsActive(LevelTrace) {
		return
	}
	file, line := callerSite()
	f.Emitf(file, line, LevelTrace, name, format, args...)
}
