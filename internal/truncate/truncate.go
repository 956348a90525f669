package truncate

const ellipsis = "...truncated"

// Silent caps s at max bytes with no marker. Used for the formatted emit
// path, which truncates oversized messages without any indication to the
// caller.
func Silent(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}

// Marked caps s at max bytes, appending an ellipsis marker when anything
// was cut. Used for operator-facing inputs where a visible hint that the
// text is incomplete is preferable.
func Marked(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= len(ellipsis) {
		// Not enough space for the marker, just cut
		return s[:max]
	}
	return s[:max-len(ellipsis)] + ellipsis
}
