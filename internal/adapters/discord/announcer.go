package discord

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
	pkgdiscord "eventbot/pkg/discord"
)

var (
	_ output.Announcer      = (*Announcer)(nil)
	_ output.GuildDirectory = (*Announcer)(nil)
	_ output.MemberRoles    = (*Announcer)(nil)
)

// Announcer posts and maintains event messages in guild channels.
type Announcer struct {
	api   discordAPI
	roles []entities.RoleSlot
	msg   output.Messages
}

func NewAnnouncer(api discordAPI, roles []entities.RoleSlot, msg output.Messages) *Announcer {
	return &Announcer{api: api, roles: roles, msg: msg}
}

func (a *Announcer) Publish(ctx context.Context, e *entities.Event) (string, error) {
	send := &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{pkgdiscord.BuildEventEmbed(e, a.roles, a.msg)},
		Components: pkgdiscord.BuildEventComponents(e, a.roles, a.msg),
		// Only the roles picked in the wizard may be pinged.
		AllowedMentions: &discordgo.MessageAllowedMentions{Roles: e.MentionRoles},
	}
	if len(e.MentionRoles) > 0 {
		mentions := make([]string, len(e.MentionRoles))
		for i, id := range e.MentionRoles {
			mentions[i] = fmt.Sprintf("<@&%s>", id)
		}
		send.Content = strings.Join(mentions, " ")
	}
	m, err := a.api.ChannelMessageSendComplex(e.ChannelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("send announcement: %w", err)
	}
	return m.ID, nil
}

func (a *Announcer) Refresh(ctx context.Context, e *entities.Event) error {
	embeds := []*discordgo.MessageEmbed{pkgdiscord.BuildEventEmbed(e, a.roles, a.msg)}
	components := pkgdiscord.BuildEventComponents(e, a.roles, a.msg)
	_, err := a.api.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         e.MessageID,
		Channel:    e.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit announcement: %w", err)
	}
	return nil
}

func (a *Announcer) Retract(ctx context.Context, e *entities.Event) error {
	if err := a.api.ChannelMessageDelete(e.ChannelID, e.MessageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}

func (a *Announcer) Remind(ctx context.Context, e *entities.Event, userIDs []string) error {
	_, err := a.api.ChannelMessageSendComplex(e.ChannelID, &discordgo.MessageSend{
		Content: pkgdiscord.ReminderContent(e, userIDs, a.msg),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

func (a *Announcer) Grant(ctx context.Context, guildID, userID, roleID string) error {
	if err := a.api.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add role %s: %w", roleID, err)
	}
	return nil
}

// TextChannels lists the guild text channels in sidebar order.
func (a *Announcer) TextChannels(ctx context.Context, guildID string) ([]entities.Channel, error) {
	channels, err := a.api.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	channels = slices.DeleteFunc(channels, func(c *discordgo.Channel) bool {
		return c.Type != discordgo.ChannelTypeGuildText
	})
	slices.SortStableFunc(channels, func(x, y *discordgo.Channel) int { return x.Position - y.Position })
	out := make([]entities.Channel, len(channels))
	for i, c := range channels {
		out[i] = entities.Channel{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

// AssignableRoles lists guild roles except @everyone and integration-managed
// ones, highest first.
func (a *Announcer) AssignableRoles(ctx context.Context, guildID string) ([]entities.GuildRole, error) {
	roles, err := a.api.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roles = slices.DeleteFunc(roles, func(r *discordgo.Role) bool {
		return r.ID == guildID || r.Managed
	})
	slices.SortStableFunc(roles, func(x, y *discordgo.Role) int { return y.Position - x.Position })
	out := make([]entities.GuildRole, len(roles))
	for i, r := range roles {
		out[i] = entities.GuildRole{ID: r.ID, Name: r.Name}
	}
	return out, nil
}
