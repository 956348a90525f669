// internal/logger/level.go

package logger

import (
	"fmt"
	"strings"
)

// Level defines the available diagnostic severities, ordered from most
// severe to most verbose.
type Level int

const (
	// Severity levels
	LevelCritical Level = 1
	LevelError    Level = 2
	LevelWarn     Level = 3
	LevelInfo     Level = 4
	LevelDebug    Level = 5
	LevelTrace    Level = 6
)

// Level to string mapping
var levelNames = map[Level]string{
	LevelCritical: "CRITICAL",
	LevelError:    "ERROR",
	LevelWarn:     "WARN",
	LevelInfo:     "INFO",
	LevelDebug:    "DEBUG",
	LevelTrace:    "TRACE",
}

// LevelNameToLevel maps string level names to level values
var LevelNameToLevel = map[string]Level{
	"CRITICAL": LevelCritical,
	"ERROR":    LevelError,
	"WARN":     LevelWarn,
	"INFO":     LevelInfo,
	"DEBUG":    LevelDebug,
	"TRACE":    LevelTrace,
}

// String returns the canonical upper-case name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(name string) (Level, error) {
	level, ok := LevelNameToLevel[strings.ToUpper(name)]
	if !ok {
		return 0, fmt.Errorf("invalid log level: %s", name)
	}
	return level, nil
}
