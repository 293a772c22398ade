package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// Announcer renders events in the guild. Failures are reported but never
// roll back the stored record.
type Announcer interface {
	// Publish posts the announcement and returns its message id.
	Publish(ctx context.Context, event *entities.Event) (string, error)
	// Refresh re-renders the announcement in place.
	Refresh(ctx context.Context, event *entities.Event) error
	// Retract deletes the announcement.
	Retract(ctx context.Context, event *entities.Event) error
	// Remind sends the pre-start reminder to the event channel.
	Remind(ctx context.Context, event *entities.Event, userIDs []string) error
}

// MemberRoles grants guild roles to members.
type MemberRoles interface {
	Grant(ctx context.Context, guildID, userID, roleID string) error
}

// GuildDirectory lists what the wizard lets a creator pick from.
type GuildDirectory interface {
	TextChannels(ctx context.Context, guildID string) ([]entities.Channel, error)
	AssignableRoles(ctx context.Context, guildID string) ([]entities.GuildRole, error)
}
