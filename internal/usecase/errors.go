package usecase

import (
	"errors"
	"fmt"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
	"devis_broker/internal/usecase/interfaces"
)

var (
	ErrValidationFailed  = errors.New("validation failed")
	ErrUnknownForwarder  = errors.New("unknown forwarder")
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
	ErrForbidden         = lifecycle.ErrForbidden
	ErrTransientStore    = interfaces.ErrTransientStore

	ErrNotFound             = errors.New("not found")
	ErrQuoteNotFound        = fmt.Errorf("quote %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrForwarderNotFound    = fmt.Errorf("forwarder %w", ErrNotFound)
)

// TransitionError is returned when a quote cannot move as requested. It keeps
// the quote as currently stored so callers can show, for instance, that it
// expired in the meantime.
type TransitionError struct {
	Action string
	Quote  entities.Quote
	Err    error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("quote %s: %s: %v", e.Quote.ID, e.Action, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}
