// internal/logger/record.go

package logger

import (
	"strings"
	"time"
)

// Record is one diagnostic event. Records are plain values: a record handed
// to the queue is owned by the queue until drained, after which the caller
// of DrainQueue owns the returned slice.
type Record struct {
	Level   Level
	Time    time.Time
	File    string // originating call site, suppression key only
	Line    int
	Name    string // optional subsystem label
	Message string
}

// FormatLine renders the record as the immediate-mode output line,
// without a trailing newline:
//
//	[2006-01-02 15:04:05.000] name: message
//	[2006-01-02 15:04:05.000] message
func FormatLine(r Record) string {
	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(FormatTime(r.Time))
	sb.WriteString("] ")
	if r.Name != "" {
		sb.WriteString(r.Name)
		sb.WriteString(": ")
	}
	sb.WriteString(r.Message)
	return sb.String()
}
