package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// IForwarderUseCase manages the forwarder pool the assignment resolver draws
// from. Administrators only.

type IForwarderUseCase interface {
	Register(ctx context.Context, actor entities.Actor, name string) (entities.Forwarder, error)
	SetActive(ctx context.Context, actor entities.Actor, forwarderID string, active bool) (entities.Forwarder, error)
	List(ctx context.Context, actor entities.Actor) ([]entities.Forwarder, error)
}

type ForwarderUseCase struct {
	repo interfaces.IForwarderRepository
}

var _ IForwarderUseCase = (*ForwarderUseCase)(nil)

func NewForwarderUseCase(repo interfaces.IForwarderRepository) *ForwarderUseCase {
	return &ForwarderUseCase{repo: repo}
}

func (u *ForwarderUseCase) Register(ctx context.Context, actor entities.Actor, name string) (entities.Forwarder, error) {
	if actor.Role != entities.RoleAdmin {
		return entities.Forwarder{}, ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return entities.Forwarder{}, validationError("name is required")
	}
	f := entities.Forwarder{
		ID:        uuid.NewString(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	created, err := u.repo.Create(ctx, f)
	if err != nil {
		return entities.Forwarder{}, err
	}
	log.Printf("[forwarder][usecase] registered forwarder_id=%s name=%q", created.ID, created.Name)
	return created, nil
}

// SetActive toggles participation in assignment. Quotes already bound to the
// forwarder keep their assignment.
func (u *ForwarderUseCase) SetActive(ctx context.Context, actor entities.Actor, forwarderID string, active bool) (entities.Forwarder, error) {
	if actor.Role != entities.RoleAdmin {
		return entities.Forwarder{}, ErrForbidden
	}
	forwarderID = strings.TrimSpace(forwarderID)
	if forwarderID == "" {
		return entities.Forwarder{}, validationError("forwarder id is required")
	}
	f, err := u.repo.SetActive(ctx, forwarderID, active)
	if err != nil {
		return entities.Forwarder{}, err
	}
	if f.ID == "" {
		return entities.Forwarder{}, ErrForwarderNotFound
	}
	return f, nil
}

func (u *ForwarderUseCase) List(ctx context.Context, actor entities.Actor) ([]entities.Forwarder, error) {
	if actor.Role != entities.RoleAdmin {
		return nil, ErrForbidden
	}
	return u.repo.List(ctx)
}
