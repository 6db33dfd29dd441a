package interfaces

import (
	"context"

	"devis_broker/internal/domain/entities"
)

// IForwarderRepository abstracts persistence for the forwarder pool.
//
// ListActive must return a consistent snapshot ordered by (created_at, id);
// the assignment resolver picks the first entry.

type IForwarderRepository interface {
	Create(ctx context.Context, f entities.Forwarder) (entities.Forwarder, error)
	GetByID(ctx context.Context, id string) (entities.Forwarder, error)
	List(ctx context.Context) ([]entities.Forwarder, error)
	ListActive(ctx context.Context) ([]entities.Forwarder, error)
	SetActive(ctx context.Context, id string, active bool) (entities.Forwarder, error)
}
