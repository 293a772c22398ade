package discord

import (
	"errors"
	"log"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
	pkgdiscord "eventbot/pkg/discord"
)

// Nick > GlobalName > Username
func resolveDisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// interactionUser returns who triggered i, in a guild or in DMs.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func memberRoleIDs(member *discordgo.Member) []string {
	if member == nil {
		return nil
	}
	return member.Roles
}

func respondEphemeral(s discordAPI, i *discordgo.Interaction, content string, embeds ...*discordgo.MessageEmbed) {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Embeds:  embeds,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("⚠️ Error al responder a la interacción: %v", err)
	}
}

func deferEphemeral(s discordAPI, i *discordgo.Interaction) error {
	err := s.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("⚠️ Error al diferir la interacción: %v", err)
	}
	return err
}

// followupEphemeral answers a deferred interaction, falling back to a direct
// response when nothing was deferred yet.
func followupEphemeral(s discordAPI, i *discordgo.Interaction, content string) {
	_, err := s.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err == nil {
		return
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownWebhook {
		respondEphemeral(s, i, content)
		return
	}
	log.Printf("⚠️ Error al enviar el seguimiento: %v", err)
}

// errorMessage localizes err; errors without a domain code are logged.
func (h *Handler) errorMessage(action string, err error) string {
	if domain.Code(err) == "" || errors.Is(err, domain.ErrInvalidEvent) {
		log.Printf("❌ Error en %s: %v", action, err)
	}
	return pkgdiscord.DomainErrorMessage(h.msg, err)
}
