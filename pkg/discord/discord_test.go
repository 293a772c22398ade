package discord

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
)

type keyMsg struct{}

func (keyMsg) Msg(key string, data map[string]any) string {
	if len(data) == 0 {
		return key
	}
	return fmt.Sprintf("%s%v", key, data)
}

var roles = []entities.RoleSlot{
	{Key: "Tanque", Emoji: "🛡️"},
	{Key: "Healer", Emoji: "💉"},
	{Key: "DPS", Emoji: "⚔️"},
}

func testEvent() *entities.Event {
	return &entities.Event{
		ID:           "e1",
		CreatorID:    "42",
		Title:        "Raid Night",
		Description:  "Bring potions",
		Start:        time.Date(2025, 9, 16, 18, 0, 0, 0, time.UTC),
		Color:        entities.DefaultColor,
		MentionRoles: []string{"7"},
		ParticipantsRoles: map[string][]entities.Signup{
			"Tanque": {{UserID: "1", Name: "Alice"}, {UserID: "2", Name: "Bob"}},
			"Healer": {},
			"DPS":    {},
			"Bardo":  {{UserID: "3", Name: "Carol"}},
		},
		RegistrationOpen: true,
	}
}

func TestCustomIDRoundTrip(t *testing.T) {
	id := CustomID(ActionSignup, "e1", "Tanque")
	if id != "event:signup:e1:Tanque" {
		t.Fatalf("unexpected id %q", id)
	}
	got, ok := ParseCustomID(id)
	if !ok || got != (ComponentID{Action: ActionSignup, EventID: "e1", Role: "Tanque"}) {
		t.Fatalf("unexpected parse %+v %v", got, ok)
	}
	if got, ok := ParseCustomID(CustomID(ActionDelete, "e1", "")); !ok || got.Action != ActionDelete || got.Role != "" {
		t.Fatalf("unexpected parse %+v %v", got, ok)
	}
	for _, bad := range []string{"", "queue_join", "event:signup:e1", "event::e1", "other:leave:e1"} {
		if _, ok := ParseCustomID(bad); ok {
			t.Errorf("%q should not parse", bad)
		}
	}
}

func TestDomainErrorKey(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", domain.ErrEventFull)
	if got := DomainErrorKey(wrapped); got != "errors.event_full" {
		t.Fatalf("unexpected key %q", got)
	}
	if got := DomainErrorKey(errors.New("boom")); got != "errors.generic" {
		t.Fatalf("unexpected key %q", got)
	}
	if DomainErrorMessage(keyMsg{}, nil) != "" {
		t.Fatal("nil error should have no message")
	}
}

func TestBuildEventEmbed(t *testing.T) {
	e := testEvent()
	embed := BuildEventEmbed(e, roles, keyMsg{})
	if embed.Title != "Raid Night" || !strings.HasPrefix(embed.Description, "<@&7>\n") {
		t.Fatalf("unexpected header %q / %q", embed.Title, embed.Description)
	}
	if embed.Timestamp != "2025-09-16T18:00:00Z" {
		t.Fatalf("unexpected timestamp %q", embed.Timestamp)
	}
	fields := map[string]string{}
	for _, f := range embed.Fields {
		fields[f.Name] = f.Value
	}
	if v := fields["🛡️ Tanque (2)"]; v != "Alice\nBob" {
		t.Fatalf("tank field = %q", v)
	}
	if v := fields["💉 Healer (0)"]; v != "embed.empty_role" {
		t.Fatalf("healer field = %q", v)
	}
	if v := fields["Bardo (1)"]; v != "Carol" {
		t.Fatalf("unconfigured role hidden: %v", fields)
	}
	if v := fields["embed.duration"]; v != "wizard.no_duration" {
		t.Fatalf("duration placeholder = %q", v)
	}
	if v := fields["embed.attendees"]; v != "3 (embed.unlimited)" {
		t.Fatalf("attendance = %q", v)
	}
	if v := fields["embed.start"]; v != "<t:1758045600:F> (<t:1758045600:R>)" {
		t.Fatalf("start = %q", v)
	}
}

func TestBuildEventComponents(t *testing.T) {
	e := testEvent()
	rows := BuildEventComponents(e, roles, keyMsg{})
	if len(rows) != 2 {
		t.Fatalf("expected role row + action row, got %d", len(rows))
	}
	first := rows[0].(discordgo.ActionsRow).Components
	if len(first) != 3 || first[0].(discordgo.Button).CustomID != "event:signup:e1:Tanque" {
		t.Fatalf("unexpected role buttons %+v", first)
	}

	e.RegistrationOpen = false
	rows = BuildEventComponents(e, roles, keyMsg{})
	for _, c := range rows[0].(discordgo.ActionsRow).Components {
		if !c.(discordgo.Button).Disabled {
			t.Fatal("signup buttons must be disabled when closed")
		}
	}
	actions := rows[1].(discordgo.ActionsRow).Components
	if actions[2].(discordgo.Button).Label != "embed.button_open" {
		t.Fatalf("toggle should offer reopening, got %q", actions[2].(discordgo.Button).Label)
	}

	many := make([]entities.RoleSlot, 12)
	for i := range many {
		many[i] = entities.RoleSlot{Key: fmt.Sprintf("R%d", i)}
	}
	if rows := BuildEventComponents(e, many, keyMsg{}); len(rows) != 4 {
		t.Fatalf("expected 3 role rows + action row, got %d", len(rows))
	}
}

func TestBuildUpcomingEmbedGroupsByDay(t *testing.T) {
	now := time.Date(2025, 9, 16, 12, 0, 0, 0, time.UTC)
	mk := func(title string, start time.Time) entities.Event {
		return entities.Event{Title: title, Start: start}
	}
	events := []entities.Event{
		mk("Soon", now.Add(30*time.Minute)),
		mk("Tonight", now.Add(8*time.Hour)),
		mk("Next week", now.Add(7*24*time.Hour)),
	}
	embed := BuildUpcomingEmbed(events, now, time.UTC, keyMsg{})
	if len(embed.Fields) != 2 {
		t.Fatalf("expected two days, got %d", len(embed.Fields))
	}
	if embed.Fields[0].Name != "📆 16/09/2025" || strings.Count(embed.Fields[0].Value, "\n") != 1 {
		t.Fatalf("unexpected first day %+v", embed.Fields[0])
	}
	if !strings.Contains(embed.Fields[0].Value, "Badge:🔥") || !strings.Contains(embed.Fields[0].Value, "Badge:⏰") {
		t.Fatalf("badges missing: %q", embed.Fields[0].Value)
	}
	if !strings.Contains(embed.Fields[1].Value, "Badge:📌") {
		t.Fatalf("badge missing: %q", embed.Fields[1].Value)
	}

	empty := BuildUpcomingEmbed(nil, now, time.UTC, keyMsg{})
	if empty.Description != "ui.no_upcoming" {
		t.Fatalf("unexpected empty embed %+v", empty)
	}
}

func TestReminderContent(t *testing.T) {
	got := ReminderContent(testEvent(), []string{"1", "2"}, keyMsg{})
	if !strings.Contains(got, "Mentions:<@1> <@2>") {
		t.Fatalf("mentions missing: %q", got)
	}
}

func TestModalValues(t *testing.T) {
	data := discordgo.ModalSubmitInteractionData{
		Components: []discordgo.MessageComponent{
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: FieldTitle, Value: "New"}}},
			&discordgo.ActionsRow{Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: FieldStart, Value: "2025-09-17 21:00"}}},
		},
	}
	values := ModalValues(data)
	if values[FieldTitle] != "New" || values[FieldStart] != "2025-09-17 21:00" || len(values) != 2 {
		t.Fatalf("unexpected values %v", values)
	}
}
