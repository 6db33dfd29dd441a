package interfaces

import (
	"context"

	"devis_broker/internal/domain/entities"
)

// INotificationRepository abstracts persistence for Notification.
//
// Create is idempotent on the notification id so the emitter can retry a
// write whose outcome is unknown.

type INotificationRepository interface {
	Create(ctx context.Context, n entities.Notification) (entities.Notification, error)
	GetByID(ctx context.Context, id string) (entities.Notification, error)
	// ListByRecipient returns the newest notifications first.
	ListByRecipient(ctx context.Context, r entities.Recipient, limit int) ([]entities.Notification, error)
	CountUnread(ctx context.Context, r entities.Recipient) (int, error)
	MarkRead(ctx context.Context, id string) (entities.Notification, error)
	// MarkAllRead returns how many notifications changed state.
	MarkAllRead(ctx context.Context, r entities.Recipient) (int, error)
}
