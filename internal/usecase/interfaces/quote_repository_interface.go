package interfaces

import (
	"context"
	"time"

	"devis_broker/internal/domain/entities"
)

// IQuoteRepository abstracts persistence for Quote.
//
// The quote service must be able to:
//   - create a quote exactly once (id collision is an error)
//   - update a quote atomically against the version it read (compare-and-set)
//   - list quotes by customer, forwarder or status
//   - find pending quotes whose deadline has passed (expiry sweep)
//
// Lookups that miss return a zero Quote and a nil error.

type IQuoteRepository interface {
	Create(ctx context.Context, q entities.Quote) (entities.Quote, error)
	GetByID(ctx context.Context, id string) (entities.Quote, error)
	// Update stores q if the persisted version still equals expectedVersion and
	// returns it with Version = expectedVersion+1. ErrVersionConflict otherwise.
	Update(ctx context.Context, q entities.Quote, expectedVersion int64) (entities.Quote, error)
	List(ctx context.Context, filter entities.QuoteFilter) ([]entities.Quote, error)
	ListExpiredPending(ctx context.Context, now time.Time) ([]entities.Quote, error)
}
