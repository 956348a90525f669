// internal/logger/timeformat.go

package logger

import "time"

// timestampLayout renders local time with millisecond precision.
const timestampLayout = "2006-01-02 15:04:05.000"

// FormatTime renders t as a fixed-width timestamp, e.g. "2025-03-01 14:07:02.041".
// Pure function, safe for concurrent use.
func FormatTime(t time.Time) string {
	return t.Format(timestampLayout)
}
