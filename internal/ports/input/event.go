package input

import (
	"context"
	"time"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// EditRequest carries the creator-editable fields of an event.
type EditRequest struct {
	Title       string
	Description string
	Start       time.Time
	Duration    string
}

// WizardStart is what the wizard knows when the creator runs the command.
type WizardStart struct {
	GuildID   string
	ChannelID string // channel the command was used in
	CreatorID string
}

type EventUseCase interface {
	Create(ctx context.Context, draft *entities.Event) (*entities.Event, bool, error)
	Get(ctx context.Context, id string) (*entities.Event, error)
	GetByMessageID(ctx context.Context, messageID string) (*entities.Event, error)
	Upcoming(ctx context.Context, now time.Time) ([]entities.Event, error)
	Edit(ctx context.Context, eventID, actorID string, req EditRequest) (*entities.Event, error)
	Delete(ctx context.Context, eventID, actorID string) error
	ToggleRegistration(ctx context.Context, eventID, actorID string) (*entities.Event, error)
}

type WizardUseCase interface {
	Run(ctx context.Context, p output.Prompter, start WizardStart) (*entities.Event, error)
}
