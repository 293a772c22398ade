package discord

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain"
	"eventbot/internal/ports/input"
	pkgdiscord "eventbot/pkg/discord"
)

const (
	cmdCreateEvent    = "eventos"
	cmdUpcomingEvents = "proximos_eventos_visual"
	cmdPing           = "ping"
)

func (h *Handler) commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: cmdCreateEvent, Description: h.translate("command.eventos", nil)},
		{Name: cmdUpcomingEvents, Description: h.translate("command.proximos_eventos_visual", nil)},
		{Name: cmdPing, Description: h.translate("command.ping", nil)},
	}
}

func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case cmdCreateEvent:
		h.handleCreateEvent(s, i)
	case cmdUpcomingEvents:
		h.handleUpcoming(s, i)
	case cmdPing:
		respondEphemeral(s, i.Interaction, h.translate("ui.pong", nil))
	}
}

// handleCreateEvent opens a DM with the creator and runs the wizard there.
func (h *Handler) handleCreateEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	replies, release, err := h.inbox.open(user.ID)
	if err != nil {
		respondEphemeral(s, i.Interaction, pkgdiscord.DomainErrorMessage(h.msg, err))
		return
	}
	dm, err := h.api.UserChannelCreate(user.ID)
	if err != nil {
		release()
		log.Printf("⚠️ No se pudo abrir el DM con %s: %v", user.ID, err)
		respondEphemeral(s, i.Interaction, h.translate("ui.dm_failed", nil))
		return
	}
	respondEphemeral(s, i.Interaction, h.translate("ui.dm_sent", nil))

	start := input.WizardStart{GuildID: i.GuildID, ChannelID: i.ChannelID, CreatorID: user.ID}
	go h.runWizard(&dmPrompter{api: h.api, channelID: dm.ID, replies: replies}, start, release)
}

func (h *Handler) runWizard(p *dmPrompter, start input.WizardStart, release func()) {
	defer release()
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ panic en el asistente de %s: %v", start.CreatorID, rec)
		}
	}()

	draft, err := h.wizard.Run(h.root, p, start)
	switch {
	case errors.Is(err, domain.ErrWizardCancelled), errors.Is(err, domain.ErrWizardTimeout):
		log.Printf("ℹ️ Asistente de %s terminado: %v", start.CreatorID, err)
		return
	case err != nil:
		log.Printf("❌ Asistente de %s: %v", start.CreatorID, err)
		return
	}

	ctx, cancel := context.WithTimeout(h.root, 15*time.Second)
	defer cancel()
	event, announced, err := h.events.Create(ctx, draft)
	if err != nil {
		_ = p.Send(ctx, h.errorMessage("crear evento", err))
		return
	}
	key := "ui.event_created"
	if !announced {
		key = "ui.event_not_announced"
	}
	log.Printf("✅ Evento %s creado por %s", event.ID, start.CreatorID)
	if err := p.Send(ctx, h.translate(key, map[string]any{"ChannelID": event.ChannelID})); err != nil {
		log.Printf("⚠️ No se pudo confirmar la creación a %s: %v", start.CreatorID, err)
	}
}

func (h *Handler) handleUpcoming(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(h.root, 5*time.Second)
	defer cancel()
	now := h.now()
	events, err := h.events.Upcoming(ctx, now)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.errorMessage(cmdUpcomingEvents, err))
		return
	}
	respondEphemeral(s, i.Interaction, "", pkgdiscord.BuildUpcomingEmbed(events, now, h.loc, h.msg))
}
