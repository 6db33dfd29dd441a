package memory

import (
	"context"
	"sort"
	"sync"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"
)

type NotificationRepository struct {
	mu            sync.Mutex
	notifications map[string]entities.Notification
}

var _ interfaces.INotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{notifications: make(map[string]entities.Notification)}
}

// Create keeps the first write of an id; replays return the stored copy.
func (r *NotificationRepository) Create(_ context.Context, n entities.Notification) (entities.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, exists := r.notifications[n.ID]; exists {
		return stored, nil
	}
	r.notifications[n.ID] = n
	return n, nil
}

func (r *NotificationRepository) GetByID(_ context.Context, id string) (entities.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifications[id], nil
}

func (r *NotificationRepository) ListByRecipient(_ context.Context, rcpt entities.Recipient, limit int) ([]entities.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Notification, 0)
	for _, n := range r.notifications {
		if n.Recipient == rcpt {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, rcpt entities.Recipient) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if n.Recipient == rcpt && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, id string) (entities.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok {
		return entities.Notification{}, nil
	}
	n.Read = true
	r.notifications[id] = n
	return n, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, rcpt entities.Recipient) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for id, n := range r.notifications {
		if n.Recipient == rcpt && !n.Read {
			n.Read = true
			r.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}
