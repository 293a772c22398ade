package application

import (
	"context"
	"errors"
	"log"
	"slices"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
)

var _ input.SignupUseCase = (*SignupService)(nil)

// errUnchanged aborts a Mutate whose outcome equals the stored record.
var errUnchanged = errors.New("unchanged")

// SignupService is the per-event ledger of who signed up under which role.
type SignupService struct {
	store     output.EventStore
	announcer output.Announcer
	members   output.MemberRoles
	roles     []entities.RoleSlot
}

func NewSignupService(
	store output.EventStore,
	announcer output.Announcer,
	members output.MemberRoles,
	roles []entities.RoleSlot,
) *SignupService {
	return &SignupService{
		store:     store,
		announcer: announcer,
		members:   members,
		roles:     roles,
	}
}

// Register lists the member under req.RoleKey. Clicking the same role twice is
// a no-op. Unless the event allows multiple responses the member is first
// removed from every other role.
func (s *SignupService) Register(ctx context.Context, req input.RegisterRequest) (*entities.Event, error) {
	if !slices.ContainsFunc(s.roles, func(r entities.RoleSlot) bool { return r.Key == req.RoleKey }) {
		return nil, domain.ErrUnknownRole
	}
	event, err := s.store.Mutate(ctx, req.EventID, func(e *entities.Event) error {
		return applySignup(e, req)
	})
	if errors.Is(err, errUnchanged) {
		return s.store.FindByID(ctx, req.EventID)
	}
	if err != nil {
		return nil, err
	}

	s.refresh(ctx, event)
	if event.AssignRole != "" && event.GuildID != "" && s.members != nil {
		if err := s.members.Grant(ctx, event.GuildID, req.UserID, event.AssignRole); err != nil {
			log.Printf("⚠️ No se pudo asignar el rol %s a %s: %v", event.AssignRole, req.UserID, err)
		}
	}
	return event, nil
}

// Unregister removes the member from every role of the event.
func (s *SignupService) Unregister(ctx context.Context, eventID, userID string) (*entities.Event, error) {
	event, err := s.store.Mutate(ctx, eventID, func(e *entities.Event) error {
		if !removeSignup(e, userID) {
			return domain.ErrNotRegistered
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, event)
	return event, nil
}

func (s *SignupService) refresh(ctx context.Context, event *entities.Event) {
	if event.MessageID == "" {
		return
	}
	if err := s.announcer.Refresh(ctx, event); err != nil {
		log.Printf("⚠️ Error al actualizar el anuncio %s: %v", event.MessageID, err)
	}
}

func applySignup(e *entities.Event, req input.RegisterRequest) error {
	if slices.ContainsFunc(e.ParticipantsRoles[req.RoleKey], func(s entities.Signup) bool {
		return s.UserID == req.UserID
	}) {
		return errUnchanged
	}
	if !e.RegistrationOpen {
		return domain.ErrRegistrationClosed
	}
	if len(e.AllowedRoles) > 0 && !slices.ContainsFunc(req.MemberRoleIDs, func(id string) bool {
		return slices.Contains(e.AllowedRoles, id)
	}) {
		return domain.ErrRoleNotAllowed
	}
	// Capacity only applies to members not yet listed under any role.
	if e.MaxAttendees != nil && len(e.RoleOf(req.UserID)) == 0 && e.ParticipantCount() >= *e.MaxAttendees {
		return domain.ErrEventFull
	}
	if !e.MultiResponse {
		removeSignup(e, req.UserID)
	}
	if e.ParticipantsRoles == nil {
		e.ParticipantsRoles = make(map[string][]entities.Signup)
	}
	e.ParticipantsRoles[req.RoleKey] = append(e.ParticipantsRoles[req.RoleKey], entities.Signup{
		UserID: req.UserID,
		Name:   req.Name,
	})
	return nil
}

func removeSignup(e *entities.Event, userID string) bool {
	removed := false
	for key, signups := range e.ParticipantsRoles {
		kept := slices.DeleteFunc(slices.Clone(signups), func(s entities.Signup) bool { return s.UserID == userID })
		if len(kept) != len(signups) {
			e.ParticipantsRoles[key] = kept
			removed = true
		}
	}
	return removed
}
