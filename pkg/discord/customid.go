package discord

import "strings"

// Component actions carried in custom ids of the form event:<action>:<id>[:<role>].
const (
	ActionSignup = "signup"
	ActionLeave  = "leave"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionToggle = "toggle"
	// ActionEditModal identifies the submitted edit modal.
	ActionEditModal = "edit_modal"

	customIDPrefix = "event"
)

// EditModalID is the custom id of the edit modal for eventID.
func EditModalID(eventID string) string {
	return CustomID(ActionEditModal, eventID, "")
}

// CustomID builds a component custom id. role is only used by signup buttons.
func CustomID(action, eventID, role string) string {
	parts := []string{customIDPrefix, action, eventID}
	if role != "" {
		parts = append(parts, role)
	}
	return strings.Join(parts, ":")
}

type ComponentID struct {
	Action  string
	EventID string
	Role    string
}

// ParseCustomID is the inverse of CustomID.
func ParseCustomID(id string) (ComponentID, bool) {
	parts := strings.SplitN(id, ":", 4)
	if len(parts) < 3 || parts[0] != customIDPrefix || parts[1] == "" || parts[2] == "" {
		return ComponentID{}, false
	}
	c := ComponentID{Action: parts[1], EventID: parts[2]}
	if len(parts) == 4 {
		c.Role = parts[3]
	}
	if c.Action == ActionSignup && c.Role == "" {
		return ComponentID{}, false
	}
	return c, true
}
