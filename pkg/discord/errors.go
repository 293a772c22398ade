package discord

import (
	"eventbot/internal/domain"
	"eventbot/internal/ports/output"
)

const genericErrorKey = "errors.generic"

// DomainErrorKey maps err to the i18n key of its user-facing message.
func DomainErrorKey(err error) string {
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return genericErrorKey
}

// DomainErrorMessage resolves err to a localized message, or "" for a nil error.
func DomainErrorMessage(msg output.Messages, err error) string {
	if err == nil {
		return ""
	}
	return msg.Msg(DomainErrorKey(err), nil)
}
