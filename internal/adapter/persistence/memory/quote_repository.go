// Package memory holds process-local repositories. They back the
// STORE_BACKEND=memory mode and the use case scenario tests, and honour the
// same compare-and-set contract as the DynamoDB repositories.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"
)

var errDuplicateID = errors.New("item already exists")

type QuoteRepository struct {
	mu     sync.Mutex
	quotes map[string]entities.Quote
}

var _ interfaces.IQuoteRepository = (*QuoteRepository)(nil)

func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{quotes: make(map[string]entities.Quote)}
}

func (r *QuoteRepository) Create(_ context.Context, q entities.Quote) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.quotes[q.ID]; exists {
		return entities.Quote{}, errDuplicateID
	}
	r.quotes[q.ID] = cloneQuote(q)
	return cloneQuote(q), nil
}

func (r *QuoteRepository) GetByID(_ context.Context, id string) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return entities.Quote{}, nil
	}
	return cloneQuote(q), nil
}

func (r *QuoteRepository) Update(_ context.Context, q entities.Quote, expectedVersion int64) (entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.quotes[q.ID]
	if !ok || stored.Version != expectedVersion {
		return entities.Quote{}, interfaces.ErrVersionConflict
	}
	q.Version = expectedVersion + 1
	r.quotes[q.ID] = cloneQuote(q)
	return cloneQuote(q), nil
}

func (r *QuoteRepository) List(_ context.Context, filter entities.QuoteFilter) ([]entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Quote, 0)
	for _, q := range r.quotes {
		if filter.CustomerID != "" && q.CustomerID != filter.CustomerID {
			continue
		}
		if filter.ForwarderID != "" && q.ForwarderID != filter.ForwarderID {
			continue
		}
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		out = append(out, cloneQuote(q))
	}
	return out, nil
}

func (r *QuoteRepository) ListExpiredPending(_ context.Context, now time.Time) ([]entities.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Quote, 0)
	for _, q := range r.quotes {
		if q.Status == entities.QuoteStatusPending && q.IsDue(now) {
			out = append(out, cloneQuote(q))
		}
	}
	return out, nil
}

func cloneQuote(q entities.Quote) entities.Quote {
	q.Attachments = append([]entities.Attachment(nil), q.Attachments...)
	q.History = append([]entities.StatusChange(nil), q.History...)
	if q.EstimatedAmount != nil {
		v := *q.EstimatedAmount
		q.EstimatedAmount = &v
	}
	if q.ExpiresAt != nil {
		v := *q.ExpiresAt
		q.ExpiresAt = &v
	}
	if q.Response != nil {
		resp := *q.Response
		resp.Attachments = append([]entities.Attachment(nil), resp.Attachments...)
		q.Response = &resp
	}
	return q
}
