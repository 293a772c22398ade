package application

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

type EventService struct {
	store     output.EventStore
	announcer output.Announcer
}

func NewEventService(store output.EventStore, announcer output.Announcer) *EventService {
	return &EventService{
		store:     store,
		announcer: announcer,
	}
}

// Create persists a finished draft and publishes it. A publish failure keeps
// the record and reports announced=false.
func (s *EventService) Create(ctx context.Context, draft *entities.Event) (*entities.Event, bool, error) {
	if err := validateEvent(draft); err != nil {
		return nil, false, err
	}
	if err := s.store.Append(ctx, draft); err != nil {
		return nil, false, fmt.Errorf("append event: %w", err)
	}
	messageID, err := s.announcer.Publish(ctx, draft)
	if err != nil {
		log.Printf("⚠️ Evento %s guardado pero no publicado: %v", draft.ID, err)
		return draft.Clone(), false, nil
	}
	event, err := s.store.Mutate(ctx, draft.ID, func(e *entities.Event) error {
		e.MessageID = messageID
		return nil
	})
	if err != nil {
		return nil, true, fmt.Errorf("store message id: %w", err)
	}
	return event, true, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*entities.Event, error) {
	return s.store.FindByID(ctx, id)
}

func (s *EventService) GetByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	return s.store.FindByMessageID(ctx, messageID)
}

// Upcoming returns events starting at or after now, soonest first.
func (s *EventService) Upcoming(ctx context.Context, now time.Time) ([]entities.Event, error) {
	events, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	out := make([]entities.Event, 0, len(events))
	for _, e := range events {
		if !e.Start.Before(now) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *EventService) Edit(ctx context.Context, eventID, actorID string, req input.EditRequest) (*entities.Event, error) {
	event, err := s.store.Mutate(ctx, eventID, func(e *entities.Event) error {
		if !e.IsCreator(actorID) {
			return domain.ErrNotCreator
		}
		if !req.Start.Equal(e.Start) {
			e.ReminderSent = false
		}
		e.Title = req.Title
		e.Description = req.Description
		e.Start = req.Start
		e.Duration = req.Duration
		return validateEvent(e)
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, event)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, eventID, actorID string) error {
	event, err := s.store.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsCreator(actorID) {
		return domain.ErrNotCreator
	}
	if err := s.store.Remove(ctx, eventID); err != nil {
		return fmt.Errorf("remove event: %w", err)
	}
	if event.MessageID != "" {
		if err := s.announcer.Retract(ctx, event); err != nil {
			log.Printf("⚠️ Error al borrar el anuncio %s: %v", event.MessageID, err)
		}
	}
	return nil
}

func (s *EventService) ToggleRegistration(ctx context.Context, eventID, actorID string) (*entities.Event, error) {
	event, err := s.store.Mutate(ctx, eventID, func(e *entities.Event) error {
		if !e.IsCreator(actorID) {
			return domain.ErrNotCreator
		}
		e.RegistrationOpen = !e.RegistrationOpen
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, event)
	return event, nil
}

func (s *EventService) refresh(ctx context.Context, event *entities.Event) {
	if event.MessageID == "" {
		return
	}
	if err := s.announcer.Refresh(ctx, event); err != nil {
		log.Printf("⚠️ Error al actualizar el anuncio %s: %v", event.MessageID, err)
	}
}
