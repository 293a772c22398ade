package entities

import (
	"slices"
	"time"
)

// DefaultColor is the embed color used when none (or an invalid one) was chosen.
const DefaultColor = 0x00FF00

// Signup is one member listed under a role of an event.
type Signup struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Event is a scheduled event announced in a guild channel.
type Event struct {
	ID                  string              `json:"id" validate:"required,uuid4"`
	GuildID             string              `json:"guild_id"`
	ChannelID           string              `json:"channel_id" validate:"required,numeric"`
	MessageID           string              `json:"message_id,omitempty"`
	CreatorID           string              `json:"creator_id" validate:"required"`
	Title               string              `json:"title" validate:"required,max=200"`
	Description         string              `json:"description" validate:"max=1600"`
	Start               time.Time           `json:"start" validate:"required"`
	Duration            string              `json:"end,omitempty" validate:"max=100"`
	MaxAttendees        *int                `json:"max_attendees" validate:"omitempty,min=1,max=250"`
	Color               int                 `json:"color" validate:"min=0,max=16777215"`
	Image               string              `json:"image,omitempty" validate:"omitempty,url"`
	MentionRoles        []string            `json:"mention_roles"`
	AllowedRoles        []string            `json:"allowed_roles"`
	AssignRole          string              `json:"assign_role,omitempty"`
	MultiResponse       bool                `json:"multi_response"`
	ParticipantsRoles   map[string][]Signup `json:"participants_roles" validate:"required"`
	RegistrationOpen    bool                `json:"registration_open"`
	RegistrationClose   string              `json:"registration_close,omitempty"`
	RegistrationCloseAt *time.Time          `json:"registration_close_at,omitempty"`
	ReminderSent        bool                `json:"reminder_sent"`
	CreatedAt           time.Time           `json:"created_at"`
}

// IsCreator reports whether userID created the event.
func (e *Event) IsCreator(userID string) bool {
	return userID != "" && e.CreatorID == userID
}

// RoleOf returns the role keys under which userID is listed.
func (e *Event) RoleOf(userID string) []string {
	var keys []string
	for key, signups := range e.ParticipantsRoles {
		if slices.ContainsFunc(signups, func(s Signup) bool { return s.UserID == userID }) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// ParticipantCount counts distinct members across all roles.
func (e *Event) ParticipantCount() int {
	seen := make(map[string]struct{})
	for _, signups := range e.ParticipantsRoles {
		for _, s := range signups {
			seen[s.UserID] = struct{}{}
		}
	}
	return len(seen)
}

// InReminderWindow reports whether now is inside [Start-lead, Start).
func (e *Event) InReminderWindow(now time.Time, lead time.Duration) bool {
	return !now.Before(e.Start.Add(-lead)) && now.Before(e.Start)
}

// Clone returns a deep copy so callers never share slices or maps with a store.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	if e.MaxAttendees != nil {
		v := *e.MaxAttendees
		c.MaxAttendees = &v
	}
	if e.RegistrationCloseAt != nil {
		v := *e.RegistrationCloseAt
		c.RegistrationCloseAt = &v
	}
	c.MentionRoles = slices.Clone(e.MentionRoles)
	c.AllowedRoles = slices.Clone(e.AllowedRoles)
	if e.ParticipantsRoles != nil {
		c.ParticipantsRoles = make(map[string][]Signup, len(e.ParticipantsRoles))
		for k, v := range e.ParticipantsRoles {
			c.ParticipantsRoles[k] = slices.Clone(v)
		}
	}
	return &c
}
