package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"time"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// ReminderService scans every event on each tick. There is no per-event timer.
type ReminderService struct {
	store     output.EventStore
	announcer output.Announcer
	roles     []entities.RoleSlot
	lead      time.Duration
}

func NewReminderService(store output.EventStore, announcer output.Announcer, roles []entities.RoleSlot, lead time.Duration) *ReminderService {
	return &ReminderService{
		store:     store,
		announcer: announcer,
		roles:     roles,
		lead:      lead,
	}
}

// Run calls Tick right away and then every interval until ctx is done.
// A panicking tick is logged and the next one still runs.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.runTick(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.runTick(ctx, now)
		}
	}
}

func (s *ReminderService) runTick(ctx context.Context, now time.Time) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ panic en recordatorios: %v", rec)
		}
	}()
	n, err := s.Tick(ctx, now)
	if err != nil {
		log.Printf("❌ Recordatorios: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ %d recordatorio(s) enviados", n)
	}
}

// Tick sends at most one reminder per event whose start is within the lead
// window, and closes registrations whose close time has passed. It returns
// the number of reminders sent.
//
// The flag is persisted after the message goes out, so a crash in between
// can produce a duplicate reminder on restart. Events created too close to
// their start (or after it) never get one.
func (s *ReminderService) Tick(ctx context.Context, now time.Time) (int, error) {
	events, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load events: %w", err)
	}
	sent := 0
	for i := range events {
		e := &events[i]
		if err := s.closeRegistration(ctx, e, now); err != nil {
			return sent, err
		}
		if e.ReminderSent || !e.InReminderWindow(now, s.lead) {
			continue
		}
		if err := s.announcer.Remind(ctx, e, s.mentions(e)); err != nil {
			log.Printf("⚠️ Recordatorio del evento %s no enviado: %v", e.ID, err)
			continue
		}
		_, err := s.store.Mutate(ctx, e.ID, func(ev *entities.Event) error {
			ev.ReminderSent = true
			return nil
		})
		if errors.Is(err, domain.ErrEventNotFound) {
			continue
		}
		if err != nil {
			return sent, fmt.Errorf("mark reminder sent: %w", err)
		}
		sent++
	}
	return sent, nil
}

func (s *ReminderService) closeRegistration(ctx context.Context, e *entities.Event, now time.Time) error {
	if !e.RegistrationOpen || e.RegistrationCloseAt == nil || now.Before(*e.RegistrationCloseAt) {
		return nil
	}
	updated, err := s.store.Mutate(ctx, e.ID, func(ev *entities.Event) error {
		ev.RegistrationOpen = false
		return nil
	})
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("close registration: %w", err)
	}
	e.RegistrationOpen = false
	if updated.MessageID != "" {
		if err := s.announcer.Refresh(ctx, updated); err != nil {
			log.Printf("⚠️ Error al actualizar el anuncio %s: %v", updated.MessageID, err)
		}
	}
	return nil
}

// mentions lists participant user ids across non-admin roles, in role order,
// each user once. Keys missing from the role configuration count as non-admin.
func (s *ReminderService) mentions(e *entities.Event) []string {
	var keys []string
	known := make(map[string]bool, len(s.roles))
	for _, r := range s.roles {
		known[r.Key] = true
		if !r.Admin {
			keys = append(keys, r.Key)
		}
	}
	var extra []string
	for key := range e.ParticipantsRoles {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	var ids []string
	for _, key := range keys {
		for _, signup := range e.ParticipantsRoles[key] {
			if !slices.Contains(ids, signup.UserID) {
				ids = append(ids, signup.UserID)
			}
		}
	}
	return ids
}
