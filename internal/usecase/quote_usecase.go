package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
	"devis_broker/internal/usecase/interfaces"

	"github.com/google/uuid"
)

const maxConflictRetries = 5

// IQuoteUseCase exposes the quote operations offered to dashboards and CLIs.
//
//   - CreateQuote => customer raises a request (resolver + notifications)
//   - Transition => respond / refuse / cancel / archive / process
//   - UpdateDetails, AddAttachments => customer edits while still pending
//   - AssignForwarder => administrator routes an unassigned quote
//   - SweepExpired => periodic expiry of pending quotes past their deadline

type IQuoteUseCase interface {
	CreateQuote(ctx context.Context, actor entities.Actor, cmd CreateQuoteCommand) (entities.Quote, error)
	Transition(ctx context.Context, quoteID string, actor entities.Actor, action lifecycle.Action, payload lifecycle.ResponsePayload) (entities.Quote, error)
	GetQuote(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error)
	ListQuotes(ctx context.Context, actor entities.Actor, query ListQuotesQuery) (QuotePage, error)
	UpdateDetails(ctx context.Context, quoteID string, actor entities.Actor, cmd UpdateDetailsCommand) (entities.Quote, error)
	AddAttachments(ctx context.Context, quoteID string, actor entities.Actor, attachments []entities.Attachment) (entities.Quote, error)
	AssignForwarder(ctx context.Context, quoteID string, actor entities.Actor, forwarderID string) (entities.Quote, error)
	SweepExpired(ctx context.Context) (int, error)
}

type CreateQuoteCommand struct {
	ForwarderID     string
	ServiceType     entities.ServiceType
	Description     string
	Origin          string
	Destination     string
	Attachments     []entities.Attachment
	EstimatedAmount *float64
	ExpiresAt       *time.Time
}

type UpdateDetailsCommand struct {
	Description *string
	Origin      *string
	Destination *string
}

type ListQuotesQuery struct {
	Status   entities.QuoteStatus
	Page     int
	PageSize int
}

type QuotePage struct {
	Items    []entities.Quote
	Page     int
	PageSize int
	Total    int
}

type QuoteUseCaseConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type QuoteUseCase struct {
	repo     interfaces.IQuoteRepository
	resolver *AssignmentResolver
	emitter  *NotificationEmitter
	cfg      QuoteUseCaseConfig
	now      func() time.Time
}

var _ IQuoteUseCase = (*QuoteUseCase)(nil)

func NewQuoteUseCase(repo interfaces.IQuoteRepository, resolver *AssignmentResolver, emitter *NotificationEmitter, cfg QuoteUseCaseConfig) *QuoteUseCase {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = 100
	}
	return &QuoteUseCase{
		repo:     repo,
		resolver: resolver,
		emitter:  emitter,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests and the sweeper.
func (u *QuoteUseCase) WithClock(now func() time.Time) *QuoteUseCase {
	u.now = now
	u.emitter.now = now
	return u
}

func (u *QuoteUseCase) CreateQuote(ctx context.Context, actor entities.Actor, cmd CreateQuoteCommand) (entities.Quote, error) {
	if actor.Role != entities.RoleCustomer || strings.TrimSpace(actor.ID) == "" {
		return entities.Quote{}, ErrForbidden
	}
	if err := validateCreate(&cmd); err != nil {
		return entities.Quote{}, err
	}

	assignment, err := u.resolver.Resolve(ctx, cmd.ForwarderID)
	if err != nil {
		log.Printf("[quote][usecase] assignment failed customer_id=%s forwarder_id=%q err=%v", actor.ID, cmd.ForwarderID, err)
		return entities.Quote{}, err
	}

	now := u.now()
	q := entities.Quote{
		ID:              uuid.NewString(),
		CustomerID:      actor.ID,
		ForwarderID:     assignment.ForwarderID,
		ServiceType:     cmd.ServiceType,
		Description:     cmd.Description,
		Origin:          cmd.Origin,
		Destination:     cmd.Destination,
		Attachments:     cmd.Attachments,
		EstimatedAmount: cmd.EstimatedAmount,
		ExpiresAt:       cmd.ExpiresAt,
		CreationChannel: assignment.Channel,
		Version:         1,
		CreatedAt:       now,
	}
	change, err := lifecycle.Create(&q, actor, now)
	if err != nil {
		return entities.Quote{}, err
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		log.Printf("[quote][usecase] create failed customer_id=%s err=%v", actor.ID, err)
		return entities.Quote{}, err
	}
	quoteTransitionsCounter.WithLabelValues(string(lifecycle.ActionCreate), "ok").Inc()
	log.Printf("[quote][usecase] created quote_id=%s customer_id=%s forwarder_id=%q channel=%s", created.ID, created.CustomerID, created.ForwarderID, created.CreationChannel)

	u.emitter.Emit(ctx, created, QuoteEvent{Action: lifecycle.ActionCreate, Change: change, Actor: actor})
	return created, nil
}

func (u *QuoteUseCase) Transition(
	ctx context.Context,
	quoteID string,
	actor entities.Actor,
	action lifecycle.Action,
	payload lifecycle.ResponsePayload,
) (entities.Quote, error) {
	if action == lifecycle.ActionCreate {
		return entities.Quote{}, validationError("create is not a transition")
	}
	if action == lifecycle.ActionRespond {
		if err := validateAttachments(payload.Attachments); err != nil {
			return entities.Quote{}, err
		}
	}

	updated, err := u.mutate(ctx, quoteID, func(q *entities.Quote, now time.Time) (*QuoteEvent, error) {
		change, err := lifecycle.Apply(q, actor, action, payload, now)
		if errors.Is(err, ErrInvalidTransition) {
			return nil, &TransitionError{Action: string(action), Quote: *q, Err: err}
		}
		if err != nil {
			return nil, err
		}
		return &QuoteEvent{Action: action, Change: change, Actor: actor}, nil
	})
	quoteTransitionsCounter.WithLabelValues(string(action), resultLabel(err)).Inc()
	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidPayload) {
			return entities.Quote{}, validationError("%v", err)
		}
		log.Printf("[quote][usecase] transition rejected quote_id=%s action=%s actor=%s/%s err=%v", quoteID, action, actor.Role, actor.ID, err)
		return entities.Quote{}, err
	}
	log.Printf("[quote][usecase] transition applied quote_id=%s action=%s status=%s version=%d", updated.ID, action, updated.Status, updated.Version)
	return updated, nil
}

func (u *QuoteUseCase) GetQuote(ctx context.Context, quoteID string, actor entities.Actor) (entities.Quote, error) {
	q, err := u.load(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if err := lifecycle.CanAccess(q, actor); err != nil {
		return entities.Quote{}, err
	}
	return u.expireIfDue(ctx, q)
}

func (u *QuoteUseCase) ListQuotes(ctx context.Context, actor entities.Actor, query ListQuotesQuery) (QuotePage, error) {
	filter := entities.QuoteFilter{}
	switch actor.Role {
	case entities.RoleCustomer:
		filter.CustomerID = actor.ID
	case entities.RoleForwarder:
		filter.ForwarderID = actor.ID
	case entities.RoleAdmin:
	default:
		return QuotePage{}, ErrForbidden
	}
	if query.Status != "" && !query.Status.Valid() {
		return QuotePage{}, validationError("unknown status %q", query.Status)
	}
	// pending and expired depend on lazy expiry, so they are filtered after it.
	if query.Status != entities.QuoteStatusPending && query.Status != entities.QuoteStatusExpired {
		filter.Status = query.Status
	}

	page, size := query.Page, query.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = u.cfg.DefaultPageSize
	}
	if size > u.cfg.MaxPageSize {
		size = u.cfg.MaxPageSize
	}

	// Reads the caller's whole scope (a Scan for administrators) so lazy
	// expiry and the status filter apply before paging. O(N) per page.
	all, err := u.repo.List(ctx, filter)
	if err != nil {
		return QuotePage{}, err
	}

	items := make([]entities.Quote, 0, len(all))
	for _, stored := range all {
		q, err := u.expireIfDue(ctx, stored)
		if err != nil {
			return QuotePage{}, err
		}
		if query.Status != "" && q.Status != query.Status {
			continue
		}
		items = append(items, q)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	total := len(items)
	start, end := total, total
	// page-1 is compared before multiplying so huge pages cannot overflow.
	if page-1 < (total+size-1)/size {
		start = (page - 1) * size
		end = min(start+size, total)
	}
	return QuotePage{Items: items[start:end], Page: page, PageSize: size, Total: total}, nil
}

func (u *QuoteUseCase) UpdateDetails(ctx context.Context, quoteID string, actor entities.Actor, cmd UpdateDetailsCommand) (entities.Quote, error) {
	if cmd.Origin != nil && strings.TrimSpace(*cmd.Origin) == "" {
		return entities.Quote{}, validationError("origin cannot be empty")
	}
	if cmd.Destination != nil && strings.TrimSpace(*cmd.Destination) == "" {
		return entities.Quote{}, validationError("destination cannot be empty")
	}
	return u.mutate(ctx, quoteID, func(q *entities.Quote, now time.Time) (*QuoteEvent, error) {
		if err := requireOwner(*q, actor); err != nil {
			return nil, err
		}
		if q.Status != entities.QuoteStatusPending || q.HasResponse() {
			return nil, &TransitionError{Action: "update", Quote: *q, Err: ErrInvalidTransition}
		}
		if cmd.Description != nil {
			q.Description = strings.TrimSpace(*cmd.Description)
		}
		if cmd.Origin != nil {
			q.Origin = strings.TrimSpace(*cmd.Origin)
		}
		if cmd.Destination != nil {
			q.Destination = strings.TrimSpace(*cmd.Destination)
		}
		q.UpdatedAt = now
		return nil, nil
	})
}

func (u *QuoteUseCase) AddAttachments(ctx context.Context, quoteID string, actor entities.Actor, attachments []entities.Attachment) (entities.Quote, error) {
	if len(attachments) == 0 {
		return entities.Quote{}, validationError("no attachment given")
	}
	if err := validateAttachments(attachments); err != nil {
		return entities.Quote{}, err
	}
	return u.mutate(ctx, quoteID, func(q *entities.Quote, now time.Time) (*QuoteEvent, error) {
		if err := requireOwner(*q, actor); err != nil {
			return nil, err
		}
		if q.Status != entities.QuoteStatusPending {
			return nil, &TransitionError{Action: "attach", Quote: *q, Err: ErrInvalidTransition}
		}
		q.Attachments = append(append([]entities.Attachment(nil), q.Attachments...), attachments...)
		q.UpdatedAt = now
		return nil, nil
	})
}

func (u *QuoteUseCase) AssignForwarder(ctx context.Context, quoteID string, actor entities.Actor, forwarderID string) (entities.Quote, error) {
	if actor.Role != entities.RoleAdmin {
		return entities.Quote{}, ErrForbidden
	}
	forwarderID = strings.TrimSpace(forwarderID)
	if forwarderID == "" {
		return entities.Quote{}, validationError("forwarder_id is required")
	}
	f, err := u.resolver.Lookup(ctx, forwarderID)
	if err != nil {
		return entities.Quote{}, err
	}

	updated, err := u.mutate(ctx, quoteID, func(q *entities.Quote, now time.Time) (*QuoteEvent, error) {
		if q.Status != entities.QuoteStatusPending || q.ForwarderID != "" {
			return nil, &TransitionError{Action: string(actionAssign), Quote: *q, Err: ErrInvalidTransition}
		}
		q.ForwarderID = f.ID
		q.UpdatedAt = now
		return &QuoteEvent{Action: actionAssign, Actor: actor}, nil
	})
	quoteTransitionsCounter.WithLabelValues(string(actionAssign), resultLabel(err)).Inc()
	return updated, err
}

// SweepExpired expires every pending quote whose deadline has passed and
// returns how many were moved.
func (u *QuoteUseCase) SweepExpired(ctx context.Context) (int, error) {
	due, err := u.repo.ListExpiredPending(ctx, u.now())
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, q := range due {
		updated, err := u.expireIfDue(ctx, q)
		if err != nil {
			log.Printf("[quote][sweeper] expire failed quote_id=%s err=%v", q.ID, err)
			continue
		}
		if updated.Status == entities.QuoteStatusExpired && q.Status != entities.QuoteStatusExpired {
			expired++
		}
	}
	return expired, nil
}

// mutate runs a read-validate-write cycle against the stored version and
// retries it when another writer wins the compare-and-set. Lazy expiry is
// committed before apply sees the quote.
func (u *QuoteUseCase) mutate(
	ctx context.Context,
	quoteID string,
	apply func(q *entities.Quote, now time.Time) (*QuoteEvent, error),
) (entities.Quote, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		q, err := u.load(ctx, quoteID)
		if err != nil {
			return entities.Quote{}, err
		}
		q, err = u.expireIfDue(ctx, q)
		if err != nil {
			return entities.Quote{}, err
		}

		expected := q.Version
		ev, err := apply(&q, u.now())
		if err != nil {
			return entities.Quote{}, err
		}

		updated, err := u.repo.Update(ctx, q, expected)
		if errors.Is(err, interfaces.ErrVersionConflict) {
			quoteVersionConflictsCounter.Inc()
			log.Printf("[quote][usecase] version conflict quote_id=%s expected_version=%d attempt=%d", quoteID, expected, attempt+1)
			continue
		}
		if err != nil {
			return entities.Quote{}, err
		}
		if ev != nil {
			u.emitter.Emit(ctx, updated, *ev)
		}
		return updated, nil
	}
	return entities.Quote{}, fmt.Errorf("%w: quote %s kept changing concurrently", ErrTransientStore, quoteID)
}

// expireIfDue commits the expiry of a pending quote past its deadline.
func (u *QuoteUseCase) expireIfDue(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		expected := q.Version
		change, ok := lifecycle.ExpireIfDue(&q, u.now())
		if !ok {
			return q, nil
		}
		updated, err := u.repo.Update(ctx, q, expected)
		if errors.Is(err, interfaces.ErrVersionConflict) {
			quoteVersionConflictsCounter.Inc()
			fresh, loadErr := u.load(ctx, q.ID)
			if loadErr != nil {
				return entities.Quote{}, loadErr
			}
			q = fresh
			continue
		}
		if err != nil {
			return entities.Quote{}, err
		}
		quoteTransitionsCounter.WithLabelValues(string(lifecycle.ActionExpire), "ok").Inc()
		log.Printf("[quote][usecase] expired quote_id=%s expires_at=%s", updated.ID, updated.ExpiresAt.Format(time.RFC3339))
		u.emitter.Emit(ctx, updated, QuoteEvent{Action: lifecycle.ActionExpire, Change: change, Actor: entities.SystemActor})
		return updated, nil
	}
	return entities.Quote{}, fmt.Errorf("%w: quote %s kept changing concurrently", ErrTransientStore, q.ID)
}

func (u *QuoteUseCase) load(ctx context.Context, quoteID string) (entities.Quote, error) {
	quoteID = strings.TrimSpace(quoteID)
	if quoteID == "" {
		return entities.Quote{}, validationError("quote id is required")
	}
	q, err := u.repo.GetByID(ctx, quoteID)
	if err != nil {
		return entities.Quote{}, err
	}
	if q.ID == "" {
		return entities.Quote{}, ErrQuoteNotFound
	}
	return q, nil
}

func requireOwner(q entities.Quote, actor entities.Actor) error {
	if actor.Role != entities.RoleCustomer {
		return ErrForbidden
	}
	return lifecycle.CanAccess(q, actor)
}

func validateCreate(cmd *CreateQuoteCommand) error {
	cmd.ForwarderID = strings.TrimSpace(cmd.ForwarderID)
	cmd.Description = strings.TrimSpace(cmd.Description)
	cmd.Origin = strings.TrimSpace(cmd.Origin)
	cmd.Destination = strings.TrimSpace(cmd.Destination)

	if !cmd.ServiceType.Valid() {
		return validationError("service_type must be maritime, road or air")
	}
	if cmd.Origin == "" {
		return validationError("origin is required")
	}
	if cmd.Destination == "" {
		return validationError("destination is required")
	}
	if cmd.EstimatedAmount != nil && *cmd.EstimatedAmount < 0 {
		return validationError("estimated_amount cannot be negative")
	}
	return validateAttachments(cmd.Attachments)
}

func validateAttachments(attachments []entities.Attachment) error {
	for i, a := range attachments {
		if strings.TrimSpace(a.URL) == "" {
			return validationError("attachment %d has no url", i)
		}
	}
	return nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid"
	case errors.Is(err, ErrTransientStore):
		return "conflict"
	default:
		return "error"
	}
}
