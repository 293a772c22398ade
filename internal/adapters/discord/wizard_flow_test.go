package discord

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"eventbot/internal/application"
	"eventbot/internal/infrastructure/filestore"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

func TestWizardOverDirectMessages(t *testing.T) {
	store, err := filestore.Open(filepath.Join(t.TempDir(), "events.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	api := &fakeAPI{}
	announcer := NewAnnouncer(api, testRoles, keyMessages{})
	events := application.NewEventService(store, announcer)
	wizard := application.NewWizard(announcer, keyMessages{}, application.WizardConfig{
		Roles:       testRoles,
		Location:    time.UTC,
		StepTimeout: time.Second,
		Exclusive:   true,
	})
	h := NewHandler(context.Background(), api, events, nil, wizard, keyMessages{}, HandlerConfig{})

	replies, release, err := h.inbox.open("creator")
	if err != nil {
		t.Fatalf("open inbox: %v", err)
	}
	for _, line := range []string{"1", "Raid Night", "none", "none", "2025-09-16 20:00", "none", "8"} {
		if !h.inbox.deliver("creator", output.Reply{Content: line}) {
			t.Fatalf("reply %q not delivered", line)
		}
	}

	start := input.WizardStart{GuildID: "100", ChannelID: "200", CreatorID: "creator"}
	h.runWizard(&dmPrompter{api: api, channelID: "dm-creator", replies: replies}, start, release)

	stored, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("expected one stored event, got %d", len(stored))
	}
	e := stored[0]
	if e.Title != "Raid Night" || e.ChannelID != "200" || e.MessageID == "" {
		t.Fatalf("unexpected event %+v", e)
	}
	if len(e.ParticipantsRoles) != len(testRoles) {
		t.Fatalf("expected an empty list per role, got %v", e.ParticipantsRoles)
	}
	if got := api.sentTo("200"); len(got) != 1 {
		t.Fatalf("expected one announcement, got %d", len(got))
	}
	dms := api.sentTo("dm-creator")
	if len(dms) == 0 || dms[len(dms)-1] != "ui.event_created" {
		t.Fatalf("expected creation confirmation, got %v", dms)
	}
	if _, again, err := h.inbox.open("creator"); err != nil {
		t.Fatalf("inbox not released after the wizard: %v", err)
	} else {
		again()
	}
}
