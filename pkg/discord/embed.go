package discord

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// Discord limits.
const (
	maxFieldValue   = 1024
	maxEmbedFields  = 25
	buttonsPerRow   = 5
	maxRoleButtons  = 20
	maxDescription  = 4096
	truncatedSuffix = "…"
)

// BuildEventEmbed renders the announcement of e. It only depends on the record.
func BuildEventEmbed(e *entities.Event, roles []entities.RoleSlot, msg output.Messages) *discordgo.MessageEmbed {
	var desc strings.Builder
	if len(e.MentionRoles) > 0 {
		desc.WriteString(roleMentions(e.MentionRoles))
		desc.WriteString("\n")
	}
	desc.WriteString(e.Description)

	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: truncate(desc.String(), maxDescription),
		Color:       e.Color,
	}
	if !e.Start.IsZero() {
		embed.Timestamp = e.Start.Format(time.RFC3339)
	}
	if e.Image != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: e.Image}
	}

	duration := e.Duration
	if duration == "" {
		duration = msg.Msg("wizard.no_duration", nil)
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   msg.Msg("embed.start", nil),
			Value:  fmt.Sprintf("%s (%s)", Timestamp(e.Start, StyleFull), Timestamp(e.Start, StyleRelative)),
			Inline: true,
		},
		&discordgo.MessageEmbedField{Name: msg.Msg("embed.duration", nil), Value: duration, Inline: true},
		&discordgo.MessageEmbedField{Name: msg.Msg("embed.attendees", nil), Value: attendance(e, msg), Inline: true},
	)

	for _, r := range displayRoles(e, roles) {
		signups := e.ParticipantsRoles[r.Key]
		value := msg.Msg("embed.empty_role", nil)
		if len(signups) > 0 {
			names := make([]string, len(signups))
			for i, s := range signups {
				names[i] = s.Name
			}
			value = truncate(strings.Join(names, "\n"), maxFieldValue)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   strings.TrimSpace(fmt.Sprintf("%s %s (%d)", r.Emoji, r.Key, len(signups))),
			Value:  value,
			Inline: true,
		})
	}

	footer := []string{fmt.Sprintf("%s <@%s>", msg.Msg("embed.creator", nil), e.CreatorID)}
	switch {
	case !e.RegistrationOpen:
		footer = append(footer, msg.Msg("embed.closed", nil))
	case e.RegistrationCloseAt != nil:
		footer = append(footer, fmt.Sprintf("%s %s", msg.Msg("embed.closes_at", nil), Timestamp(*e.RegistrationCloseAt, StyleRelative)))
	}
	if e.MultiResponse {
		footer = append(footer, msg.Msg("embed.multi_response", nil))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "\u200b", Value: strings.Join(footer, "\n")})

	if len(embed.Fields) > maxEmbedFields {
		embed.Fields = embed.Fields[:maxEmbedFields]
	}
	return embed
}

// BuildEventComponents renders one button per role plus the action row.
// Signup buttons are disabled while registration is closed.
func BuildEventComponents(e *entities.Event, roles []entities.RoleSlot, msg output.Messages) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for i, r := range roles {
		if i == maxRoleButtons {
			break
		}
		b := discordgo.Button{
			Style:    discordgo.SecondaryButton,
			Label:    r.Key,
			CustomID: CustomID(ActionSignup, e.ID, r.Key),
			Disabled: !e.RegistrationOpen,
		}
		if r.Emoji != "" {
			b.Emoji = &discordgo.ComponentEmoji{Name: r.Emoji}
		}
		row = append(row, b)
		if len(row) == buttonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}

	toggleLabel := msg.Msg("embed.button_close", nil)
	toggleEmoji := "🔒"
	if !e.RegistrationOpen {
		toggleLabel = msg.Msg("embed.button_open", nil)
		toggleEmoji = "🔓"
	}
	rows = append(rows, discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				Label:    msg.Msg("embed.button_leave", nil),
				CustomID: CustomID(ActionLeave, e.ID, ""),
				Emoji:    &discordgo.ComponentEmoji{Name: "👋"},
			},
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				Label:    msg.Msg("embed.button_edit", nil),
				CustomID: CustomID(ActionEdit, e.ID, ""),
				Emoji:    &discordgo.ComponentEmoji{Name: "✏️"},
			},
			discordgo.Button{
				Style:    discordgo.SecondaryButton,
				Label:    toggleLabel,
				CustomID: CustomID(ActionToggle, e.ID, ""),
				Emoji:    &discordgo.ComponentEmoji{Name: toggleEmoji},
			},
			discordgo.Button{
				Style:    discordgo.DangerButton,
				Label:    msg.Msg("embed.button_delete", nil),
				CustomID: CustomID(ActionDelete, e.ID, ""),
				Emoji:    &discordgo.ComponentEmoji{Name: "🗑️"},
			},
		},
	})
	return rows
}

// BuildUpcomingEmbed lists events (already sorted by start) grouped by day in loc.
func BuildUpcomingEmbed(events []entities.Event, now time.Time, loc *time.Location, msg output.Messages) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: msg.Msg("ui.upcoming_title", nil),
		Color: entities.DefaultColor,
	}
	if len(events) == 0 {
		embed.Description = msg.Msg("ui.no_upcoming", nil)
		return embed
	}
	if loc == nil {
		loc = time.UTC
	}

	var field *discordgo.MessageEmbedField
	currentDay := ""
	for i := range events {
		e := &events[i]
		if day := dayKey(e.Start, loc); day != currentDay {
			if len(embed.Fields) == maxEmbedFields {
				break
			}
			currentDay = day
			field = &discordgo.MessageEmbedField{
				Name: fmt.Sprintf("📆 %s", e.Start.In(loc).Format("02/01/2006")),
			}
			embed.Fields = append(embed.Fields, field)
		}
		line := msg.Msg("ui.upcoming_line", map[string]any{
			"Badge":    UrgencyBadge(e.Start, now),
			"Title":    e.Title,
			"Time":     e.Start.In(loc).Format("15:04"),
			"Relative": Timestamp(e.Start, StyleRelative),
		})
		if field.Value != "" {
			line = "\n" + line
		}
		if len(field.Value)+len(line) <= maxFieldValue {
			field.Value += line
		}
	}
	return embed
}

// ReminderContent is the channel message sent shortly before e starts.
func ReminderContent(e *entities.Event, userIDs []string, msg output.Messages) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = fmt.Sprintf("<@%s>", id)
	}
	return msg.Msg("reminder.message", map[string]any{
		"Title":    e.Title,
		"Start":    Timestamp(e.Start, StyleRelative),
		"Mentions": strings.Join(mentions, " "),
	})
}

func attendance(e *entities.Event, msg output.Messages) string {
	n := e.ParticipantCount()
	if e.MaxAttendees == nil {
		return fmt.Sprintf("%d (%s)", n, msg.Msg("embed.unlimited", nil))
	}
	return fmt.Sprintf("%d/%d", n, *e.MaxAttendees)
}

// displayRoles lists the configured roles followed by any stored key no
// longer configured, so signups are never hidden.
func displayRoles(e *entities.Event, roles []entities.RoleSlot) []entities.RoleSlot {
	out := append([]entities.RoleSlot(nil), roles...)
	known := make(map[string]bool, len(roles))
	for _, r := range roles {
		known[r.Key] = true
	}
	var extra []string
	for key, signups := range e.ParticipantsRoles {
		if !known[key] && len(signups) > 0 {
			extra = append(extra, key)
		}
	}
	slices.Sort(extra)
	for _, key := range extra {
		out = append(out, entities.RoleSlot{Key: key})
	}
	return out
}

func roleMentions(ids []string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("<@&%s>", id)
	}
	return strings.Join(parts, " ")
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + truncatedSuffix
}
