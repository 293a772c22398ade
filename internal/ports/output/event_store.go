package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// EventStore owns the event collection. Every method returns copies; the only
// way to change a stored record is Append, Remove, Save or Mutate.
type EventStore interface {
	Load(ctx context.Context) ([]entities.Event, error)
	Save(ctx context.Context, events []entities.Event) error
	Append(ctx context.Context, event *entities.Event) error
	Remove(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entities.Event, error)
	FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error)
	// Mutate applies fn to the stored record and persists the result atomically.
	// If fn returns an error nothing is written and that error is returned.
	Mutate(ctx context.Context, id string, fn func(*entities.Event) error) (*entities.Event, error)
}
