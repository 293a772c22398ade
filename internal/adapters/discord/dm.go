package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
	"eventbot/internal/ports/output"
)

// Replies typed faster than the wizard reads them are kept up to this many.
const inboxBuffer = 8

// inbox routes direct messages to the wizard session waiting on their author.
// A user has at most one open session.
type inbox struct {
	mu       sync.Mutex
	sessions map[string]chan output.Reply
}

func newInbox() *inbox {
	return &inbox{sessions: make(map[string]chan output.Reply)}
}

// open reserves the user's inbox. The returned func releases it.
func (b *inbox) open(userID string) (<-chan output.Reply, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, busy := b.sessions[userID]; busy {
		return nil, nil, domain.ErrWizardInProgress
	}
	ch := make(chan output.Reply, inboxBuffer)
	b.sessions[userID] = ch
	var once sync.Once
	release := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.sessions, userID)
		})
	}
	return ch, release, nil
}

// deliver hands r to the user's open session, reporting whether one was waiting.
func (b *inbox) deliver(userID string, r output.Reply) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.sessions[userID]
	if !ok {
		return false
	}
	select {
	case ch <- r:
		return true
	default:
		return false
	}
}

// handleDirectMessage feeds private messages into the inbox; guild messages
// and bot messages are ignored.
func (h *Handler) handleDirectMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	h.inbox.deliver(m.Author.ID, replyFromMessage(m.Message))
}

func replyFromMessage(m *discordgo.Message) output.Reply {
	r := output.Reply{Content: m.Content}
	for _, a := range m.Attachments {
		r.Attachments = append(r.Attachments, output.Attachment{URL: a.URL, ContentType: a.ContentType})
	}
	return r
}

// dmPrompter is one wizard conversation held in a user's DM channel.
type dmPrompter struct {
	api       discordAPI
	channelID string
	replies   <-chan output.Reply
}

func (p *dmPrompter) Send(ctx context.Context, content string) error {
	if _, err := p.api.ChannelMessageSend(p.channelID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}

func (p *dmPrompter) Await(ctx context.Context) (output.Reply, error) {
	select {
	case r := <-p.replies:
		return r, nil
	case <-ctx.Done():
		return output.Reply{}, ctx.Err()
	}
}
