// internal/logger/manager.go

package logger

import (
	"fmt"
	"os"
	"sync"

	"github.com/diagtap/diagtap/internal/config"
)

// Manager handles the lifecycle and access to named destination sinks.
type Manager struct {
	sinks    map[string]Sink
	mu       sync.RWMutex
	facility *Facility
}

// NewManager creates a new sink manager. Diagnostics about the manager's
// own lifecycle go through the given facility.
func NewManager(facility *Facility) *Manager {
	if facility == nil {
		facility = Default()
	}
	return &Manager{
		sinks:    make(map[string]Sink),
		facility: facility,
	}
}

// InitSinks initializes destination sinks based on the provided
// configuration.
func (m *Manager) InitSinks(destinations []config.LogDestination) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Close existing sinks first if any (e.g., on config reload)
	for name, sink := range m.sinks {
		if err := sink.Close(); err != nil {
			m.facility.Warn("logger", "Error closing existing sink '%s' during re-initialization: %v", name, err)
		}
	}
	m.sinks = make(map[string]Sink)

	var initErrors []error
	for _, dest := range destinations {
		if !dest.Enabled {
			continue
		}

		var sink Sink
		var err error

		switch dest.Type {
		case "file":
			sink, err = NewFileSink(dest)
		case "gelf":
			sink, err = NewGelfSink(dest)
		case "stream":
			sink, err = newStreamSinkFromConfig(dest)
		default:
			err = fmt.Errorf("unsupported sink type: %s", dest.Type)
		}

		if err != nil {
			m.facility.Error("logger", "Failed to initialize destination '%s' (type: %s): %v", dest.Name, dest.Type, err)
			initErrors = append(initErrors, fmt.Errorf("dest '%s': %w", dest.Name, err))
			continue
		}

		m.sinks[dest.Name] = sink
		m.facility.Info("logger", "Initialized destination '%s' (type: %s)", dest.Name, dest.Type)
	}

	if len(initErrors) > 0 {
		return fmt.Errorf("failed to initialize some sinks: %v", initErrors)
	}
	return nil
}

func newStreamSinkFromConfig(dest config.LogDestination) (*StreamSink, error) {
	switch dest.Stream {
	case "stdout":
		return NewStreamSink(os.Stdout, dest.Name), nil
	case "stderr", "":
		return NewStreamSink(os.Stderr, dest.Name), nil
	default:
		return nil, fmt.Errorf("invalid stream '%s', must be 'stdout' or 'stderr'", dest.Stream)
	}
}

// GetSink retrieves a sink by name. Returns nil if the sink is not found
// or not initialized.
func (m *Manager) GetSink(name string) Sink {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sink, ok := m.sinks[name]
	if !ok {
		return nil
	}
	return sink
}

// SinkNames returns a slice of names for all initialized sinks.
func (m *Manager) SinkNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sinks))
	for name := range m.sinks {
		names = append(names, name)
	}
	return names
}

// CloseAll closes all managed sinks.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var wg sync.WaitGroup
	for name, sink := range m.sinks {
		wg.Add(1)
		go func(name string, sink Sink) {
			defer wg.Done()
			if err := sink.Close(); err != nil {
				m.facility.Warn("logger", "Error closing sink '%s': %v", name, err)
			}
		}(name, sink)
	}
	wg.Wait()
	m.sinks = make(map[string]Sink)
}
