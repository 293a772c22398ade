package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type sentMessage struct {
	channelID string
	content   string
	send      *discordgo.MessageSend
}

// fakeAPI records what the adapter asks Discord to do.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []sentMessage
	edits    []*discordgo.MessageEdit
	deleted  []string
	grants   []string
	channels []*discordgo.Channel
	roles    []*discordgo.Role
	sendErr  error
	nextID   int

	responses []*discordgo.InteractionResponse
	followups []string
}

func (f *fakeAPI) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return f.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{channelID: channelID, content: data.Content, send: data})
	return &discordgo.Message{ID: fmt.Sprintf("m%d", f.nextID), ChannelID: channelID}, nil
}

func (f *fakeAPI) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *fakeAPI) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID+"/"+messageID)
	return nil
}

func (f *fakeAPI) UserChannelCreate(recipientID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return &discordgo.Channel{ID: "dm-" + recipientID, Type: discordgo.ChannelTypeDM}, nil
}

func (f *fakeAPI) GuildChannels(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.channels, nil
}

func (f *fakeAPI) GuildRoles(guildID string, _ ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	return f.roles, nil
}

func (f *fakeAPI) GuildMemberRoleAdd(guildID, userID, roleID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants = append(f.grants, guildID+"/"+userID+"/"+roleID)
	return nil
}

func (f *fakeAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeAPI) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.followups = append(f.followups, data.Content)
	return &discordgo.Message{ID: "followup"}, nil
}

// lastReply is the text the member finally saw for the last interaction.
func (f *fakeAPI) lastReply() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	last := f.responses[len(f.responses)-1]
	if last.Type == discordgo.InteractionResponseDeferredChannelMessageWithSource {
		return f.followups[len(f.followups)-1]
	}
	return last.Data.Content
}

func (f *fakeAPI) sentTo(channelID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.channelID == channelID {
			out = append(out, m.content)
		}
	}
	return out
}

// keyMessages renders a message as its key.
type keyMessages struct{}

func (keyMessages) Msg(key string, data map[string]any) string { return key }
