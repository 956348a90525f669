package logger

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	instant := time.Date(2025, time.March, 1, 14, 7, 2, 41*int(time.Millisecond), time.Local)
	got := FormatTime(instant)
	want := "2025-03-01 14:07:02.041"
	if got != want {
		t.Errorf("FormatTime() = %q, want %q", got, want)
	}
}

func TestFormatTimeFixedWidth(t *testing.T) {
	// Milliseconds must be zero padded so the timestamp stays fixed width.
	instant := time.Date(2025, time.January, 9, 1, 2, 3, 0, time.Local)
	got := FormatTime(instant)
	if len(got) != len("2006-01-02 15:04:05.000") {
		t.Errorf("FormatTime() = %q, expected fixed-width output", got)
	}
}
