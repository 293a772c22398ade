package discord

import (
	"context"
	"log"
	"time"
)

// RunScheduledTasks sends due reminders and closes expired registrations every
// interval until ctx is done.
func (b *Bot) RunScheduledTasks(ctx context.Context, interval time.Duration) {
	log.Printf("⏰ Recordatorios cada %s", interval)
	b.reminders.Run(ctx, interval)
}
