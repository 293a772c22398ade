package database

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"eventbot/internal/domain/entities"
)

const eventColumns = `id, guild_id, channel_id, message_id, creator_id, title, description,
	start_at, duration, max_attendees, color, image, mention_roles, allowed_roles,
	assign_role, multi_response, participants_roles, registration_open,
	registration_close, registration_close_at, reminder_sent, created_at`

// scanEvent reads one row selected with eventColumns.
func scanEvent(row pgx.Row) (*entities.Event, error) {
	var (
		e     entities.Event
		parts []byte
	)
	err := row.Scan(
		&e.ID, &e.GuildID, &e.ChannelID, &e.MessageID, &e.CreatorID, &e.Title, &e.Description,
		&e.Start, &e.Duration, &e.MaxAttendees, &e.Color, &e.Image, &e.MentionRoles, &e.AllowedRoles,
		&e.AssignRole, &e.MultiResponse, &parts, &e.RegistrationOpen,
		&e.RegistrationClose, &e.RegistrationCloseAt, &e.ReminderSent, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(parts, &e.ParticipantsRoles); err != nil {
		return nil, fmt.Errorf("decode participants of %s: %w", e.ID, err)
	}
	return &e, nil
}

// eventArgs returns the values for eventColumns, in order.
func eventArgs(e *entities.Event) ([]any, error) {
	parts := e.ParticipantsRoles
	if parts == nil {
		parts = map[string][]entities.Signup{}
	}
	raw, err := json.Marshal(parts)
	if err != nil {
		return nil, fmt.Errorf("encode participants of %s: %w", e.ID, err)
	}
	return []any{
		e.ID, e.GuildID, e.ChannelID, e.MessageID, e.CreatorID, e.Title, e.Description,
		e.Start, e.Duration, e.MaxAttendees, e.Color, e.Image, nonNil(e.MentionRoles), nonNil(e.AllowedRoles),
		e.AssignRole, e.MultiResponse, string(raw), e.RegistrationOpen,
		e.RegistrationClose, e.RegistrationCloseAt, e.ReminderSent, e.CreatedAt,
	}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
