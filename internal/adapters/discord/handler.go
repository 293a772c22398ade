package discord

import (
	"context"
	"time"

	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

// Handler handles Discord interactions using use cases.
type Handler struct {
	api     discordAPI
	events  input.EventUseCase
	signups input.SignupUseCase
	wizard  input.WizardUseCase
	msg     output.Messages
	loc     *time.Location
	inbox   *inbox
	clicks  *clickThrottle

	// root is cancelled on shutdown and bounds wizard sessions.
	root context.Context
	now  func() time.Time
}

type HandlerConfig struct {
	Location      *time.Location
	ClickCooldown time.Duration
}

// NewHandler creates a Handler.
func NewHandler(
	root context.Context,
	api discordAPI,
	events input.EventUseCase,
	signups input.SignupUseCase,
	wizard input.WizardUseCase,
	msg output.Messages,
	cfg HandlerConfig,
) *Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		api:     api,
		events:  events,
		signups: signups,
		wizard:  wizard,
		msg:     msg,
		loc:     loc,
		inbox:   newInbox(),
		clicks:  newClickThrottle(cfg.ClickCooldown),
		root:    root,
		now:     time.Now,
	}
}

func (h *Handler) translate(key string, data map[string]any) string {
	return h.msg.Msg(key, data)
}
