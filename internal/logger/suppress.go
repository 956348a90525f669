// internal/logger/suppress.go

package logger

// maxSiteRepeats is the number of times a single call site may emit a
// warning-or-worse message per session before further repeats are dropped.
const maxSiteRepeats = 30

// site identifies the call site that produced a record.
type site struct {
	file string
	line int
}

// repeatSuppressor tracks per-site occurrence counts for warning-or-worse
// messages. Entries are created lazily and never removed; the table is
// bounded by the number of distinct call sites in the program, not by
// message volume. Not safe for concurrent use on its own; the facility
// mutex serializes access.
type repeatSuppressor struct {
	counts map[site]int
}

func newRepeatSuppressor() *repeatSuppressor {
	return &repeatSuppressor{counts: make(map[site]int)}
}

// recordOccurrence increments the count for the given site and returns the
// post-increment value. Counts are monotonically non-decreasing.
func (s *repeatSuppressor) recordOccurrence(file string, line int) int {
	key := site{file: file, line: line}
	s.counts[key]++
	return s.counts[key]
}

// wasJustSuppressed reports whether the site has reached exactly the
// suppression threshold, i.e. the current message is the last one that will
// be delivered from this site.
func (s *repeatSuppressor) wasJustSuppressed(file string, line int) bool {
	return s.counts[site{file: file, line: line}] == maxSiteRepeats
}
