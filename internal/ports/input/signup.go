package input

import (
	"context"

	"eventbot/internal/domain/entities"
)

// RegisterRequest is a signup button press.
type RegisterRequest struct {
	EventID       string
	RoleKey       string
	UserID        string
	Name          string
	MemberRoleIDs []string
}

type SignupUseCase interface {
	Register(ctx context.Context, req RegisterRequest) (*entities.Event, error)
	Unregister(ctx context.Context, eventID, userID string) (*entities.Event, error)
}
