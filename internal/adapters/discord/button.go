package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/ports/input"
	pkgdiscord "eventbot/pkg/discord"
)

// HandleComponent dispatches the buttons of an event announcement.
func (h *Handler) HandleComponent(s discordAPI, i *discordgo.InteractionCreate) {
	cid, ok := pkgdiscord.ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}
	user := interactionUser(i)
	if user == nil {
		return
	}
	if cid.Action == pkgdiscord.ActionEdit {
		h.openEditModal(s, i, cid.EventID, user.ID)
		return
	}
	if !h.clicks.Allow(user.ID, cid.EventID) {
		respondEphemeral(s, i.Interaction, h.translate("ui.slow_down", nil))
		return
	}

	_ = deferEphemeral(s, i.Interaction)
	ctx, cancel := context.WithTimeout(h.root, 10*time.Second)
	defer cancel()

	var (
		reply string
		err   error
	)
	switch cid.Action {
	case pkgdiscord.ActionSignup:
		_, err = h.signups.Register(ctx, input.RegisterRequest{
			EventID:       cid.EventID,
			RoleKey:       cid.Role,
			UserID:        user.ID,
			Name:          resolveDisplayName(i.Member, user),
			MemberRoleIDs: memberRoleIDs(i.Member),
		})
		reply = h.translate("ui.signed_up", map[string]any{"Role": cid.Role})
	case pkgdiscord.ActionLeave:
		_, err = h.signups.Unregister(ctx, cid.EventID, user.ID)
		reply = h.translate("ui.left", nil)
	case pkgdiscord.ActionDelete:
		err = h.events.Delete(ctx, cid.EventID, user.ID)
		reply = h.translate("ui.deleted", nil)
	case pkgdiscord.ActionToggle:
		event, toggleErr := h.events.ToggleRegistration(ctx, cid.EventID, user.ID)
		err = toggleErr
		if err == nil && event.RegistrationOpen {
			reply = h.translate("ui.registration_opened", nil)
		} else {
			reply = h.translate("ui.registration_closed", nil)
		}
	default:
		return
	}
	if err != nil {
		reply = h.errorMessage(cid.Action, err)
	}
	followupEphemeral(s, i.Interaction, reply)
}
