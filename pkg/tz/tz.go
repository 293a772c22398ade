package tz

import (
	"strings"
	"time"

	"eventbot/internal/domain"
)

// Layout is the only accepted start format, e.g. "2025-09-16 20:00".
const Layout = "2006-01-02 15:04"

// Load resolves an IANA zone name; empty means UTC.
func Load(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// ParseStart parses s with Layout as a wall clock time in loc.
func ParseStart(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDateTime
	}
	return t, nil
}

// FormatStart renders t in loc using Layout.
func FormatStart(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(Layout)
}
