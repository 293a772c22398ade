package discord

import (
	"fmt"
	"time"
)

// Discord timestamp styles, see https://discord.com/developers/docs/reference#message-formatting.
const (
	StyleShortTime = "t"
	StyleLongDate  = "D"
	StyleFull      = "F"
	StyleRelative  = "R"
)

// Timestamp renders t as a Discord timestamp tag shown in each reader's own timezone.
func Timestamp(t time.Time, style string) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// UrgencyBadge marks how soon an event starts: 🔥 within the hour, ⏰ within a day, 📌 later.
func UrgencyBadge(start, now time.Time) string {
	switch d := start.Sub(now); {
	case d < time.Hour:
		return "🔥"
	case d < 24*time.Hour:
		return "⏰"
	default:
		return "📌"
	}
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
