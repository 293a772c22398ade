package discord

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/application"
	"eventbot/internal/ports/input"
	pkgdiscord "eventbot/pkg/discord"
	"eventbot/pkg/tz"
)

// openEditModal opens the edit form prefilled with the stored event.
func (h *Handler) openEditModal(s discordAPI, i *discordgo.InteractionCreate, eventID, userID string) {
	ctx, cancel := context.WithTimeout(h.root, 3*time.Second)
	defer cancel()
	event, err := h.events.Get(ctx, eventID)
	if err != nil {
		respondEphemeral(s, i.Interaction, h.errorMessage("editar", err))
		return
	}
	if !event.IsCreator(userID) {
		respondEphemeral(s, i.Interaction, h.translate("errors.not_creator", nil))
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: pkgdiscord.EditModalID(event.ID),
			Title:    h.translate("modal.edit_title", nil),
			Components: []discordgo.MessageComponent{
				pkgdiscord.TextInputRow(pkgdiscord.FieldTitle, h.translate("modal.field_title", nil),
					event.Title, discordgo.TextInputShort, true, application.MaxTitleLen),
				pkgdiscord.TextInputRow(pkgdiscord.FieldDescription, h.translate("modal.field_description", nil),
					event.Description, discordgo.TextInputParagraph, false, application.MaxDescriptionLen),
				pkgdiscord.TextInputRow(pkgdiscord.FieldStart, h.translate("modal.field_start", nil),
					tz.FormatStart(event.Start, h.loc), discordgo.TextInputShort, true, len(tz.Layout)),
				pkgdiscord.TextInputRow(pkgdiscord.FieldDuration, h.translate("modal.field_duration", nil),
					event.Duration, discordgo.TextInputShort, false, application.MaxDurationLen),
			},
		},
	})
	if err != nil {
		log.Printf("⚠️ No se pudo abrir el modal de edición: %v", err)
	}
}

// handleEditModalSubmit applies the submitted edit form.
func (h *Handler) handleEditModalSubmit(s discordAPI, i *discordgo.InteractionCreate, eventID string) {
	user := interactionUser(i)
	if user == nil {
		return
	}
	values := pkgdiscord.ModalValues(i.ModalSubmitData())
	start, err := tz.ParseStart(values[pkgdiscord.FieldStart], h.loc)
	if err != nil {
		respondEphemeral(s, i.Interaction, pkgdiscord.DomainErrorMessage(h.msg, err))
		return
	}
	description := strings.TrimSpace(values[pkgdiscord.FieldDescription])
	if description == "" {
		description = h.translate("wizard.no_description", nil)
	}

	_ = deferEphemeral(s, i.Interaction)
	ctx, cancel := context.WithTimeout(h.root, 10*time.Second)
	defer cancel()
	_, err = h.events.Edit(ctx, eventID, user.ID, input.EditRequest{
		Title:       strings.TrimSpace(values[pkgdiscord.FieldTitle]),
		Description: description,
		Start:       start,
		Duration:    strings.TrimSpace(values[pkgdiscord.FieldDuration]),
	})
	if err != nil {
		followupEphemeral(s, i.Interaction, h.errorMessage("editar", err))
		return
	}
	followupEphemeral(s, i.Interaction, h.translate("ui.updated", nil))
}
