package application

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"eventbot/internal/domain"
)

// maxCloseAfter bounds the timer so the close time stays representable.
const maxCloseAfter = 365 * 24 * time.Hour

var closeAfterPattern = regexp.MustCompile(`^(\d+)\s*(\p{L}+)$`)

var closeAfterUnits = map[string]time.Duration{
	"m": time.Minute, "min": time.Minute, "mins": time.Minute,
	"minuto": time.Minute, "minutos": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hora": time.Hour, "horas": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": 24 * time.Hour, "dia": 24 * time.Hour, "dias": 24 * time.Hour, "día": 24 * time.Hour,
	"días": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
	"semana": 7 * 24 * time.Hour, "semanas": 7 * 24 * time.Hour,
	"week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
}

// ParseCloseAfter reads a registration close timer such as "10 minutos",
// "1 hora" or "2 days".
func ParseCloseAfter(s string) (time.Duration, error) {
	m := closeAfterPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, domain.ErrInvalidCloseTimer
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, domain.ErrInvalidCloseTimer
	}
	unit, ok := closeAfterUnits[m[2]]
	if !ok {
		return 0, domain.ErrInvalidCloseTimer
	}
	if time.Duration(n) > maxCloseAfter/unit {
		return 0, domain.ErrInvalidCloseTimer
	}
	return time.Duration(n) * unit, nil
}
