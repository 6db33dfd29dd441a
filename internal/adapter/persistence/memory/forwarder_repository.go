package memory

import (
	"context"
	"sort"
	"sync"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"
)

type ForwarderRepository struct {
	mu         sync.Mutex
	forwarders map[string]entities.Forwarder
}

var _ interfaces.IForwarderRepository = (*ForwarderRepository)(nil)

func NewForwarderRepository() *ForwarderRepository {
	return &ForwarderRepository{forwarders: make(map[string]entities.Forwarder)}
}

func (r *ForwarderRepository) Create(_ context.Context, f entities.Forwarder) (entities.Forwarder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forwarders[f.ID]; exists {
		return entities.Forwarder{}, errDuplicateID
	}
	r.forwarders[f.ID] = f
	return f, nil
}

func (r *ForwarderRepository) GetByID(_ context.Context, id string) (entities.Forwarder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forwarders[id], nil
}

func (r *ForwarderRepository) List(_ context.Context) ([]entities.Forwarder, error) {
	return r.snapshot(false), nil
}

func (r *ForwarderRepository) ListActive(_ context.Context) ([]entities.Forwarder, error) {
	return r.snapshot(true), nil
}

func (r *ForwarderRepository) SetActive(_ context.Context, id string, active bool) (entities.Forwarder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forwarders[id]
	if !ok {
		return entities.Forwarder{}, nil
	}
	f.Active = active
	r.forwarders[id] = f
	return f, nil
}

func (r *ForwarderRepository) snapshot(activeOnly bool) []entities.Forwarder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Forwarder, 0, len(r.forwarders))
	for _, f := range r.forwarders {
		if activeOnly && !f.Active {
			continue
		}
		out = append(out, f)
	}
	SortForwarders(out)
	return out
}

// SortForwarders orders the candidate pool by (created_at, id).
func SortForwarders(fs []entities.Forwarder) {
	sort.Slice(fs, func(i, j int) bool {
		if !fs[i].CreatedAt.Equal(fs[j].CreatedAt) {
			return fs[i].CreatedAt.Before(fs[j].CreatedAt)
		}
		return fs[i].ID < fs[j].ID
	})
}
