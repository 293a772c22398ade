package discord

import (
	"github.com/bwmarrin/discordgo"

	pkgdiscord "eventbot/pkg/discord"
)

// HandleModalSubmit routes a modal submission by its custom id.
func (h *Handler) HandleModalSubmit(s discordAPI, i *discordgo.InteractionCreate) {
	cid, ok := pkgdiscord.ParseCustomID(i.ModalSubmitData().CustomID)
	if !ok {
		return
	}
	switch cid.Action {
	case pkgdiscord.ActionEditModal:
		h.handleEditModalSubmit(s, i, cid.EventID)
	}
}
