package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"
)

// Assignment is the outcome of resolving a creation request.
type Assignment struct {
	ForwarderID string
	Channel     entities.CreationChannel
}

// AssignmentResolver binds new quotes to a forwarder.
//
// Rules:
//   - explicit, existing, active forwarder => bound, channel "search"
//   - explicit but unknown/inactive => ErrUnknownForwarder (no substitution)
//   - no preference => first active forwarder of the ordered pool, channel "generic"
//   - empty pool => no forwarder; the administrator routes the quote
//
// The administrator stays the implicit owner in every case.
type AssignmentResolver struct {
	forwarders interfaces.IForwarderRepository
}

func NewAssignmentResolver(forwarders interfaces.IForwarderRepository) *AssignmentResolver {
	return &AssignmentResolver{forwarders: forwarders}
}

func (r *AssignmentResolver) Resolve(ctx context.Context, requestedForwarderID string) (Assignment, error) {
	requestedForwarderID = strings.TrimSpace(requestedForwarderID)
	if requestedForwarderID != "" {
		f, err := r.Lookup(ctx, requestedForwarderID)
		if err != nil {
			return Assignment{}, err
		}
		return Assignment{ForwarderID: f.ID, Channel: entities.CreationChannelSearch}, nil
	}

	pool, err := r.forwarders.ListActive(ctx)
	if err != nil {
		return Assignment{}, err
	}
	if len(pool) == 0 {
		log.Printf("[quote][resolver] no active forwarder; quote left to administrator routing")
		return Assignment{Channel: entities.CreationChannelGeneric}, nil
	}
	return Assignment{ForwarderID: pool[0].ID, Channel: entities.CreationChannelGeneric}, nil
}

// Lookup returns an active forwarder or ErrUnknownForwarder.
func (r *AssignmentResolver) Lookup(ctx context.Context, forwarderID string) (entities.Forwarder, error) {
	f, err := r.forwarders.GetByID(ctx, forwarderID)
	if err != nil {
		return entities.Forwarder{}, err
	}
	if f.ID == "" || !f.Active {
		return entities.Forwarder{}, fmt.Errorf("%w: %s", ErrUnknownForwarder, forwarderID)
	}
	return f, nil
}
