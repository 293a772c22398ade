package application

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateEvent(e *entities.Event) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}
	return nil
}
