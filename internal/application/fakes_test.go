package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// memStore is an in-memory output.EventStore.
type memStore struct {
	mu     sync.Mutex
	events []entities.Event
	writes int
}

func (m *memStore) Load(ctx context.Context) ([]entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entities.Event, len(m.events))
	for i := range m.events {
		out[i] = *m.events[i].Clone()
	}
	return out, nil
}

func (m *memStore) Save(ctx context.Context, events []entities.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	for i := range events {
		m.events = append(m.events, *events[i].Clone())
	}
	m.writes++
	return nil
}

func (m *memStore) Append(ctx context.Context, event *entities.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == event.ID {
			return domain.ErrDuplicateEvent
		}
	}
	m.events = append(m.events, *event.Clone())
	m.writes++
	return nil
}

func (m *memStore) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.events {
		if e.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			m.writes++
			return nil
		}
	}
	return domain.ErrEventNotFound
}

func (m *memStore) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID == id {
			return m.events[i].Clone(), nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (m *memStore) FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].MessageID == messageID {
			return m.events[i].Clone(), nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func (m *memStore) Mutate(ctx context.Context, id string, fn func(*entities.Event) error) (*entities.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.events {
		if m.events[i].ID != id {
			continue
		}
		work := m.events[i].Clone()
		if err := fn(work); err != nil {
			return nil, err
		}
		m.events[i] = *work
		m.writes++
		return work.Clone(), nil
	}
	return nil, domain.ErrEventNotFound
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

type remindCall struct {
	eventID string
	userIDs []string
}

type fakeAnnouncer struct {
	publishErr error
	refreshErr error
	remindErr  error
	published  []string
	refreshed  []string
	retracted  []string
	reminders  []remindCall
}

func (a *fakeAnnouncer) Publish(ctx context.Context, e *entities.Event) (string, error) {
	if a.publishErr != nil {
		return "", a.publishErr
	}
	a.published = append(a.published, e.ID)
	return "msg-" + e.ID, nil
}

func (a *fakeAnnouncer) Refresh(ctx context.Context, e *entities.Event) error {
	a.refreshed = append(a.refreshed, e.ID)
	return a.refreshErr
}

func (a *fakeAnnouncer) Retract(ctx context.Context, e *entities.Event) error {
	a.retracted = append(a.retracted, e.ID)
	return nil
}

func (a *fakeAnnouncer) Remind(ctx context.Context, e *entities.Event, userIDs []string) error {
	if a.remindErr != nil {
		return a.remindErr
	}
	a.reminders = append(a.reminders, remindCall{eventID: e.ID, userIDs: userIDs})
	return nil
}

type grantCall struct{ guildID, userID, roleID string }

type fakeMembers struct {
	err    error
	grants []grantCall
}

func (f *fakeMembers) Grant(ctx context.Context, guildID, userID, roleID string) error {
	f.grants = append(f.grants, grantCall{guildID, userID, roleID})
	return f.err
}

type fakeDirectory struct {
	channels []entities.Channel
	roles    []entities.GuildRole
}

func (d *fakeDirectory) TextChannels(ctx context.Context, guildID string) ([]entities.Channel, error) {
	return d.channels, nil
}

func (d *fakeDirectory) AssignableRoles(ctx context.Context, guildID string) ([]entities.GuildRole, error) {
	return d.roles, nil
}

// keyMessages renders a message as its key.
type keyMessages struct{}

func (keyMessages) Msg(key string, data map[string]any) string { return key }

var errScriptExhausted = errors.New("script exhausted")

// scriptPrompter replays canned replies and records what the wizard sent.
type scriptPrompter struct {
	replies []output.Reply
	sent    []string
	// block makes Await wait for ctx once the script runs out.
	block bool
}

func script(lines ...string) *scriptPrompter {
	p := &scriptPrompter{}
	for _, l := range lines {
		p.replies = append(p.replies, output.Reply{Content: l})
	}
	return p
}

func (p *scriptPrompter) Send(ctx context.Context, content string) error {
	p.sent = append(p.sent, content)
	return nil
}

func (p *scriptPrompter) Await(ctx context.Context) (output.Reply, error) {
	if len(p.replies) == 0 {
		if p.block {
			<-ctx.Done()
			return output.Reply{}, ctx.Err()
		}
		return output.Reply{}, errScriptExhausted
	}
	r := p.replies[0]
	p.replies = p.replies[1:]
	return r, nil
}

func (p *scriptPrompter) lastSent() string {
	if len(p.sent) == 0 {
		return ""
	}
	return p.sent[len(p.sent)-1]
}

var testRoles = []entities.RoleSlot{
	{Key: "Tanque", Emoji: "🛡️"},
	{Key: "Healer", Emoji: "💉"},
	{Key: "DPS", Emoji: "⚔️"},
	{Key: "Organizador", Emoji: "📋", Admin: true},
}

func intPtr(v int) *int { return &v }

func signup(userID string) entities.Signup {
	return entities.Signup{UserID: userID, Name: "name-" + userID}
}

func newTestEvent(id string) *entities.Event {
	parts := make(map[string][]entities.Signup)
	for _, r := range testRoles {
		parts[r.Key] = []entities.Signup{}
	}
	return &entities.Event{
		ID:                id,
		GuildID:           "100",
		ChannelID:         "200",
		MessageID:         fmt.Sprintf("msg-%s", id),
		CreatorID:         "creator",
		Title:             "Raid Night",
		Description:       "Sin descripción",
		Color:             entities.DefaultColor,
		ParticipantsRoles: parts,
		RegistrationOpen:  true,
	}
}
