package usecase

import (
	"context"
	"log"
	"strings"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// INotificationUseCase is the read side polled by dashboards.

type INotificationUseCase interface {
	List(ctx context.Context, actor entities.Actor, limit int) ([]entities.Notification, error)
	UnreadCount(ctx context.Context, actor entities.Actor) (int, error)
	MarkRead(ctx context.Context, actor entities.Actor, notificationID string) (entities.Notification, error)
	MarkAllRead(ctx context.Context, actor entities.Actor) (int, error)
}

type NotificationUseCase struct {
	repo       interfaces.INotificationRepository
	adminInbox entities.Recipient
}

var _ INotificationUseCase = (*NotificationUseCase)(nil)

func NewNotificationUseCase(repo interfaces.INotificationRepository, emitter *NotificationEmitter) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, adminInbox: emitter.AdminInbox()}
}

// RecipientFor maps an actor to the inbox it reads. Administrators share one.
func (u *NotificationUseCase) RecipientFor(actor entities.Actor) (entities.Recipient, error) {
	switch actor.Role {
	case entities.RoleAdmin:
		return u.adminInbox, nil
	case entities.RoleCustomer, entities.RoleForwarder:
		if strings.TrimSpace(actor.ID) == "" {
			return entities.Recipient{}, ErrForbidden
		}
		return entities.Recipient{Role: actor.Role, ID: actor.ID}, nil
	}
	return entities.Recipient{}, ErrForbidden
}

func (u *NotificationUseCase) List(ctx context.Context, actor entities.Actor, limit int) ([]entities.Notification, error) {
	r, err := u.RecipientFor(actor)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	items, err := u.repo.ListByRecipient(ctx, r, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entities.Notification{}
	}
	return items, nil
}

func (u *NotificationUseCase) UnreadCount(ctx context.Context, actor entities.Actor) (int, error) {
	r, err := u.RecipientFor(actor)
	if err != nil {
		return 0, err
	}
	return u.repo.CountUnread(ctx, r)
}

func (u *NotificationUseCase) MarkRead(ctx context.Context, actor entities.Actor, notificationID string) (entities.Notification, error) {
	r, err := u.RecipientFor(actor)
	if err != nil {
		return entities.Notification{}, err
	}
	notificationID = strings.TrimSpace(notificationID)
	if notificationID == "" {
		return entities.Notification{}, validationError("notification id is required")
	}

	n, err := u.repo.GetByID(ctx, notificationID)
	if err != nil {
		return entities.Notification{}, err
	}
	if n.ID == "" {
		return entities.Notification{}, ErrNotificationNotFound
	}
	if n.Recipient != r {
		return entities.Notification{}, ErrForbidden
	}
	if n.Read {
		return n, nil
	}

	updated, err := u.repo.MarkRead(ctx, notificationID)
	if err != nil {
		return entities.Notification{}, err
	}
	if updated.ID == "" {
		return entities.Notification{}, ErrNotificationNotFound
	}
	return updated, nil
}

// MarkAllRead is idempotent; a second call changes nothing and returns 0.
func (u *NotificationUseCase) MarkAllRead(ctx context.Context, actor entities.Actor) (int, error) {
	r, err := u.RecipientFor(actor)
	if err != nil {
		return 0, err
	}
	changed, err := u.repo.MarkAllRead(ctx, r)
	if err != nil {
		return 0, err
	}
	log.Printf("[notification][usecase] mark-all-read recipient=%s changed=%d", r.Key(), changed)
	return changed, nil
}
