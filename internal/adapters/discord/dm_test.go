package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
	"eventbot/internal/ports/output"
)

func TestInboxAllowsOneSessionPerUser(t *testing.T) {
	b := newInbox()
	_, release, err := b.open("u1")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, _, err := b.open("u1"); !errors.Is(err, domain.ErrWizardInProgress) {
		t.Fatalf("expected ErrWizardInProgress, got %v", err)
	}
	if _, releaseOther, err := b.open("u2"); err != nil {
		t.Fatalf("other users must not be blocked: %v", err)
	} else {
		releaseOther()
	}
	release()
	release()
	if _, _, err := b.open("u1"); err != nil {
		t.Fatalf("released inbox should reopen: %v", err)
	}
}

func TestInboxDeliversOnlyToOwner(t *testing.T) {
	b := newInbox()
	replies, release, _ := b.open("u1")
	defer release()

	if b.deliver("u2", output.Reply{Content: "hola"}) {
		t.Fatal("message from a user without a session was delivered")
	}
	if !b.deliver("u1", output.Reply{Content: "Raid Night"}) {
		t.Fatal("owner message not delivered")
	}
	if got := <-replies; got.Content != "Raid Night" {
		t.Fatalf("unexpected reply %+v", got)
	}
	for i := 0; i < inboxBuffer; i++ {
		b.deliver("u1", output.Reply{Content: "x"})
	}
	if b.deliver("u1", output.Reply{Content: "overflow"}) {
		t.Fatal("full inbox should drop messages")
	}
}

func TestHandleDirectMessageFilters(t *testing.T) {
	h := &Handler{inbox: newInbox()}
	replies, release, _ := h.inbox.open("u1")
	defer release()

	msg := func(authorID, guildID string, bot bool) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			Author:  &discordgo.User{ID: authorID, Bot: bot},
			GuildID: guildID,
			Content: "from " + authorID + guildID,
			Attachments: []*discordgo.MessageAttachment{
				{URL: "https://cdn.example.com/a.png", ContentType: "image/png"},
			},
		}}
	}
	h.handleDirectMessage(nil, msg("u1", "guild", false))
	h.handleDirectMessage(nil, msg("u1", "", true))
	h.handleDirectMessage(nil, msg("u2", "", false))
	h.handleDirectMessage(nil, msg("u1", "", false))

	select {
	case got := <-replies:
		if got.Content != "from u1" || len(got.Attachments) != 1 || got.Attachments[0].ContentType != "image/png" {
			t.Fatalf("unexpected reply %+v", got)
		}
	default:
		t.Fatal("expected the DM to be delivered")
	}
	select {
	case got := <-replies:
		t.Fatalf("unexpected extra reply %+v", got)
	default:
	}
}

func TestDMPrompterAwaitHonoursContext(t *testing.T) {
	p := &dmPrompter{api: &fakeAPI{}, channelID: "dm", replies: make(chan output.Reply)}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := p.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
}
