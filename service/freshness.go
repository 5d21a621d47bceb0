package service

import (
	"fmt"
	"time"
)

// ParseTimestamp parses the timestamp string returned by the post source.
// The actor emits ISO 8601 / RFC 3339 timestamps.
func ParseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// IsFresh reports whether a post published at ts is still inside the
// freshness window. The boundary is inclusive. A zero timestamp is never
// fresh: posts without a parsable timestamp would otherwise resurface on
// every scan.
func IsFresh(ts time.Time, windowHours int, now time.Time) bool {
	if ts.IsZero() {
		return false
	}
	diff := now.Sub(ts)
	if diff < 0 {
		diff = 0
	}
	return diff.Hours() <= float64(windowHours)
}

// AgeLabel renders the post age as a short human-readable string, bucketed
// at minute/hour/day granularity. Future or missing timestamps map to
// "Unknown" and "0m ago" respectively.
func AgeLabel(ts time.Time, now time.Time) string {
	if ts.IsZero() {
		return "Unknown"
	}
	diff := now.Sub(ts)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
