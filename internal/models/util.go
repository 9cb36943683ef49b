package models

import (
	"strconv"
	"strings"
	"time"
)

// ParseRFC3339Ptr parses an RFC 3339 timestamp and returns a pointer to the
// resulting time. Returns nil if the input is empty, whitespace-only, or
// not a valid RFC 3339 string.
func ParseRFC3339Ptr(raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// ParseResetTime parses a vendor reset timestamp, first as RFC 3339, then as
// epoch seconds. Returns nil when neither form applies.
func ParseResetTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if t := ParseRFC3339Ptr(raw); t != nil {
		return t
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		t := time.Unix(secs, 0).UTC()
		return &t
	}
	return nil
}

// ClampPct clamps an integer percentage to the range [0, 100].
func ClampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
