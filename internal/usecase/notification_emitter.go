package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
	"devis_broker/internal/usecase/interfaces"

	"github.com/google/uuid"
)

// actionAssign is the late administrator assignment. It does not change the
// status, so it is not part of the lifecycle table.
const actionAssign lifecycle.Action = "assign"

// QuoteEvent describes what just happened to a quote.
type QuoteEvent struct {
	Action lifecycle.Action
	Change entities.StatusChange
	Actor  entities.Actor
}

type EmitterConfig struct {
	AdminInboxID string
	MaxAttempts  int
	BaseDelay    time.Duration
	MaxDelay     time.Duration
}

// NotificationEmitter turns quote events into persisted notifications.
//
// Delivery is at-least-once: each write is retried with bounded backoff and
// ids are fixed before the first attempt, so a retried write that had in fact
// succeeded is absorbed by the repository. When retries run out the quote
// change still stands and the miss is logged for reconciliation.
type NotificationEmitter struct {
	repo interfaces.INotificationRepository
	cfg  EmitterConfig
	now  func() time.Time
}

func NewNotificationEmitter(repo interfaces.INotificationRepository, cfg EmitterConfig) *NotificationEmitter {
	if strings.TrimSpace(cfg.AdminInboxID) == "" {
		cfg.AdminInboxID = "admin"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	return &NotificationEmitter{repo: repo, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// AdminInbox is the recipient shared by all administrators.
func (e *NotificationEmitter) AdminInbox() entities.Recipient {
	return entities.Recipient{Role: entities.RoleAdmin, ID: e.cfg.AdminInboxID}
}

// Emit persists one notification per recipient of ev and returns those that
// were stored. It never fails the caller.
func (e *NotificationEmitter) Emit(ctx context.Context, q entities.Quote, ev QuoteEvent) []entities.Notification {
	// The quote change is committed; a caller hanging up must not drop the
	// notifications.
	ctx = context.WithoutCancel(ctx)

	recipients := Recipients(q, ev, e.AdminInbox())
	if len(recipients) == 0 {
		return nil
	}
	title, body := renderNotification(q, ev)
	now := e.now()

	stored := make([]entities.Notification, 0, len(recipients))
	for _, r := range recipients {
		n := entities.Notification{
			ID:             uuid.NewString(),
			Recipient:      r,
			Title:          title,
			Body:           body,
			RelatedQuoteID: q.ID,
			CreatedAt:      now,
		}
		if r.Role == entities.RoleAdmin {
			n.Body = body + adminSuffix(q)
		}
		created, err := e.persist(ctx, n)
		if err != nil {
			notificationsEmittedCounter.WithLabelValues(string(r.Role), "reconcile").Inc()
			log.Printf("[notification][emitter] reconcile notification_id=%s quote_id=%s action=%s recipient=%s attempts=%d err=%v",
				n.ID, q.ID, ev.Action, r.Key(), e.cfg.MaxAttempts, err)
			continue
		}
		notificationsEmittedCounter.WithLabelValues(string(r.Role), "ok").Inc()
		stored = append(stored, created)
	}
	return stored
}

func (e *NotificationEmitter) persist(ctx context.Context, n entities.Notification) (entities.Notification, error) {
	var lastErr error
	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		created, err := e.repo.Create(ctx, n)
		if err == nil {
			return created, nil
		}
		lastErr = err
		if attempt == e.cfg.MaxAttempts {
			break
		}
		notificationWriteRetriesCounter.Inc()
		log.Printf("[notification][emitter] write failed notification_id=%s attempt=%d transient=%t err=%v",
			n.ID, attempt, errors.Is(err, interfaces.ErrTransientStore), err)
		if waitErr := waitWithContext(ctx, e.retryDelay(attempt)); waitErr != nil {
			return entities.Notification{}, waitErr
		}
	}
	return entities.Notification{}, lastErr
}

func (e *NotificationEmitter) retryDelay(attempt int) time.Duration {
	delay := e.cfg.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= e.cfg.MaxDelay {
			return e.cfg.MaxDelay
		}
	}
	return delay
}

// Recipients computes who must hear about ev. The acting party is never told
// about its own action.
func Recipients(q entities.Quote, ev QuoteEvent, adminInbox entities.Recipient) []entities.Recipient {
	customer := entities.Recipient{Role: entities.RoleCustomer, ID: q.CustomerID}
	forwarder := entities.Recipient{Role: entities.RoleForwarder, ID: q.ForwarderID}

	var out []entities.Recipient
	switch ev.Action {
	case lifecycle.ActionCreate, lifecycle.ActionCancel:
		if q.ForwarderID != "" {
			out = append(out, forwarder)
		}
		out = append(out, adminInbox)
	case lifecycle.ActionRespond, lifecycle.ActionRefuse, lifecycle.ActionExpire:
		out = append(out, customer)
	case actionAssign:
		if q.ForwarderID != "" {
			out = append(out, forwarder)
		}
	}

	filtered := out[:0]
	for _, r := range out {
		if r.Role == ev.Actor.Role && r.ID == ev.Actor.ID {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func renderNotification(q entities.Quote, ev QuoteEvent) (title, body string) {
	ref := shortID(q.ID)
	route := fmt.Sprintf("%s → %s", q.Origin, q.Destination)

	switch ev.Action {
	case lifecycle.ActionCreate:
		title = fmt.Sprintf("New quote request #%s", ref)
		if q.CreationChannel == entities.CreationChannelSearch {
			body = fmt.Sprintf("A customer selected you from the forwarder search for a %s shipment %s.", q.ServiceType, route)
		} else {
			body = fmt.Sprintf("A new %s quote request %s is waiting for an offer.", q.ServiceType, route)
		}
	case actionAssign:
		title = fmt.Sprintf("Quote #%s assigned to you", ref)
		body = fmt.Sprintf("The %s quote request %s is now yours to answer.", q.ServiceType, route)
	default:
		title = fmt.Sprintf("Quote #%s status changed to %s", ref, ev.Change.To)
		body = fmt.Sprintf("Quote #%s (%s) is now %s.", ref, route, ev.Change.To)
		if ev.Action == lifecycle.ActionRespond && q.Response != nil {
			body += " Offer: " + strconv.FormatFloat(q.Response.Amount, 'f', -1, 64) + "."
			if q.Response.Message != "" {
				body += " " + q.Response.Message
			}
		}
	}
	return title, body
}

func adminSuffix(q entities.Quote) string {
	if q.ForwarderID == "" {
		return " No forwarder is assigned; administrator routing required."
	}
	return " Assigned forwarder: " + q.ForwarderID + "."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func waitWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
