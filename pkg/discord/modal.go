package discord

import "github.com/bwmarrin/discordgo"

// Text input ids of the edit modal.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStart       = "start"
	FieldDuration    = "duration"
)

// ModalValues returns the submitted text inputs keyed by custom id.
func ModalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, c := range data.Components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, rc := range row.Components {
			if input, ok := rc.(*discordgo.TextInput); ok {
				values[input.CustomID] = input.Value
			}
		}
	}
	return values
}

// TextInputRow wraps a single text input in its own row, as modals require.
func TextInputRow(id, label, value string, style discordgo.TextInputStyle, required bool, maxLen int) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:  id,
				Label:     label,
				Style:     style,
				Value:     value,
				Required:  required,
				MaxLength: maxLen,
			},
		},
	}
}
