package domain

import "errors"

// Error is a domain error carrying a stable code used to pick the
// user-facing message (see pkg/discord.DomainErrorKey).
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable identifier of the error.
func (e *Error) Code() string { return e.code }

func newError(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Domain errors.
var (
	ErrEventNotFound      = newError("event_not_found", "event not found")
	ErrDuplicateEvent     = newError("duplicate_event", "event id already exists")
	ErrNotCreator         = newError("not_creator", "only the event creator can perform this action")
	ErrUnknownRole        = newError("unknown_role", "unknown role key")
	ErrRegistrationClosed = newError("registration_closed", "registration is closed")
	ErrRoleNotAllowed     = newError("role_not_allowed", "member does not hold an allowed role")
	ErrEventFull          = newError("event_full", "event is full")
	ErrNotRegistered      = newError("not_registered", "participant is not registered")
	ErrInvalidEvent       = newError("invalid_event", "event record is invalid")
	ErrInvalidDateTime    = newError("invalid_datetime", "invalid date/time, expected YYYY-MM-DD HH:MM")
	ErrWizardCancelled    = newError("wizard_cancelled", "event creation cancelled")
	ErrWizardTimeout      = newError("wizard_timeout", "event creation timed out")
	ErrWizardInProgress   = newError("wizard_in_progress", "an event creation is already in progress")
	ErrNoTextChannels     = newError("no_text_channels", "guild has no text channels")
	ErrInvalidCloseTimer  = newError("invalid_close_timer", "invalid registration close timer")
)

// Code extracts the domain error code from err, or "" when err is not a
// domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}
