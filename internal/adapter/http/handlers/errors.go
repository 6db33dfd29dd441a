package handlers

import (
	"errors"
	"log"
	"net/http"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase"
	"devis_broker/pkg"
)

var (
	errInvalidRequest = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errQuoteExpired   = pkg.NewDomainErrorSimple("QUOTE_EXPIRED", "This quote can no longer be modified", http.StatusConflict)
)

// mapUseCaseError translates use case failures into HTTP errors. Quotes that
// reject an action because they expired get their own code so dashboards can
// render them as expired.
func mapUseCaseError(err error) *pkg.AppError {
	var terr *usecase.TransitionError
	switch {
	case errors.Is(err, usecase.ErrValidationFailed):
		return errInvalidRequest.WithDetails(map[string]any{"reason": err.Error()})
	case errors.Is(err, usecase.ErrUnknownForwarder):
		return pkg.NewDomainErrorSimple("UNKNOWN_FORWARDER", "Forwarder does not exist or is inactive", http.StatusUnprocessableEntity)
	case errors.As(err, &terr):
		details := map[string]any{"status": string(terr.Quote.Status), "action": terr.Action}
		if terr.Quote.Status == entities.QuoteStatusExpired {
			return errQuoteExpired.WithDetails(details)
		}
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Action not allowed in the current quote status", http.StatusConflict).WithDetails(details)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Action not allowed in the current quote status", http.StatusConflict)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrNotificationNotFound):
		return pkg.NewDomainErrorSimple("NOTIFICATION_NOT_FOUND", "Notification not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrForwarderNotFound):
		return pkg.NewDomainErrorSimple("FORWARDER_NOT_FOUND", "Forwarder not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrForbidden):
		return pkg.NewDomainErrorSimple("FORBIDDEN", "Not allowed to act on this resource", http.StatusForbidden)
	case errors.Is(err, usecase.ErrTransientStore):
		return pkg.NewDomainError("STORE_UNAVAILABLE", "Storage temporarily unavailable, retry later", err, http.StatusServiceUnavailable)
	default:
		log.Printf("[http][handler] unexpected error err=%v", err)
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
