// Package lifecycle is the quote state machine: which actor may move a quote
// from which status to which status, and what the move writes.
//
// Functions here are pure. Persistence, atomicity and notifications belong to
// the quote use case.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"devis_broker/internal/domain/entities"
)

type Action string

const (
	ActionCreate  Action = "create"
	ActionRespond Action = "respond"
	ActionRefuse  Action = "refuse"
	ActionCancel  Action = "cancel"
	ActionExpire  Action = "expire"
	ActionArchive Action = "archive"
	ActionProcess Action = "process"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
	ErrUnknownAction     = errors.New("unknown action")
	ErrInvalidPayload    = errors.New("invalid transition payload")
)

type rule struct {
	actors []entities.Role
	from   []entities.QuoteStatus
	to     entities.QuoteStatus
}

// noStatus is the source state of create.
const noStatus entities.QuoteStatus = ""

var table = map[Action]rule{
	ActionCreate: {
		actors: []entities.Role{entities.RoleCustomer},
		from:   []entities.QuoteStatus{noStatus},
		to:     entities.QuoteStatusPending,
	},
	ActionRespond: {
		actors: []entities.Role{entities.RoleForwarder, entities.RoleAdmin},
		from:   []entities.QuoteStatus{entities.QuoteStatusPending, entities.QuoteStatusAccepted},
		to:     entities.QuoteStatusAccepted,
	},
	ActionRefuse: {
		actors: []entities.Role{entities.RoleForwarder, entities.RoleAdmin},
		from:   []entities.QuoteStatus{entities.QuoteStatusPending, entities.QuoteStatusAccepted},
		to:     entities.QuoteStatusRefused,
	},
	ActionCancel: {
		actors: []entities.Role{entities.RoleCustomer},
		from:   []entities.QuoteStatus{entities.QuoteStatusPending, entities.QuoteStatusAccepted},
		to:     entities.QuoteStatusCancelled,
	},
	ActionExpire: {
		actors: []entities.Role{entities.RoleSystem},
		from:   []entities.QuoteStatus{entities.QuoteStatusPending},
		to:     entities.QuoteStatusExpired,
	},
	ActionArchive: {
		actors: []entities.Role{entities.RoleForwarder, entities.RoleAdmin},
		from: []entities.QuoteStatus{
			entities.QuoteStatusAccepted,
			entities.QuoteStatusRefused,
			entities.QuoteStatusProcessed,
			entities.QuoteStatusExpired,
			entities.QuoteStatusCancelled,
		},
		to: entities.QuoteStatusArchived,
	},
	ActionProcess: {
		actors: []entities.Role{entities.RoleAdmin},
		from:   []entities.QuoteStatus{entities.QuoteStatusAccepted},
		to:     entities.QuoteStatusProcessed,
	},
}

// actionOrder keeps Allowed deterministic.
var actionOrder = []Action{ActionRespond, ActionRefuse, ActionCancel, ActionArchive, ActionProcess}

// ParseAction resolves the actions a caller may request. create and expire are
// not requestable through a transition call.
func ParseAction(raw string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range actionOrder {
		if a == known {
			return a, true
		}
	}
	return "", false
}

// ResponsePayload is the data carried by respond. Other actions ignore it.
type ResponsePayload struct {
	Amount      float64
	Message     string
	Attachments []entities.Attachment
}

// Authorize checks role and ownership. Administrators are implicit
// stakeholders of every quote; forwarders only act on quotes bound to them;
// customers only on their own.
func Authorize(q entities.Quote, actor entities.Actor, action Action) error {
	r, ok := table[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if !containsRole(r.actors, actor.Role) {
		return fmt.Errorf("%w: role %s cannot %s", ErrForbidden, actor.Role, action)
	}
	return CanAccess(q, actor)
}

// CanAccess reports whether actor is a stakeholder of q.
func CanAccess(q entities.Quote, actor entities.Actor) error {
	switch actor.Role {
	case entities.RoleAdmin, entities.RoleSystem:
		return nil
	case entities.RoleCustomer:
		if q.CustomerID != "" && q.CustomerID == actor.ID {
			return nil
		}
	case entities.RoleForwarder:
		if q.ForwarderID != "" && q.ForwarderID == actor.ID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s is not a stakeholder of quote %s", ErrForbidden, actor.Role, actor.ID, q.ID)
}

// Create puts a freshly built quote into pending and records the first log
// entry.
func Create(q *entities.Quote, actor entities.Actor, now time.Time) (entities.StatusChange, error) {
	if q.Status != noStatus {
		return entities.StatusChange{}, fmt.Errorf("%w: quote already has status %s", ErrInvalidTransition, q.Status)
	}
	if actor.Role != entities.RoleCustomer {
		return entities.StatusChange{}, fmt.Errorf("%w: role %s cannot create", ErrForbidden, actor.Role)
	}
	return record(q, actor, ActionCreate, entities.QuoteStatusPending, now), nil
}

// Apply validates and performs action on q. On error q is left untouched.
func Apply(q *entities.Quote, actor entities.Actor, action Action, payload ResponsePayload, now time.Time) (entities.StatusChange, error) {
	if action == ActionCreate {
		return Create(q, actor, now)
	}
	if err := Authorize(*q, actor, action); err != nil {
		return entities.StatusChange{}, err
	}
	r := table[action]
	if !containsStatus(r.from, q.Status) {
		return entities.StatusChange{}, fmt.Errorf("%w: cannot %s a quote in status %s", ErrInvalidTransition, action, q.Status)
	}
	if action == ActionExpire && !q.IsDue(now) {
		return entities.StatusChange{}, fmt.Errorf("%w: quote %s is not due", ErrInvalidTransition, q.ID)
	}
	if action == ActionRespond {
		if payload.Amount <= 0 {
			return entities.StatusChange{}, fmt.Errorf("%w: response amount must be positive", ErrInvalidPayload)
		}
		q.Response = &entities.QuoteResponse{
			Amount:      payload.Amount,
			Message:     strings.TrimSpace(payload.Message),
			Attachments: append([]entities.Attachment(nil), payload.Attachments...),
			RespondedBy: actor,
			RespondedAt: now,
		}
	}
	return record(q, actor, action, r.to, now), nil
}

// ExpireIfDue applies expire when a pending quote is past its deadline.
func ExpireIfDue(q *entities.Quote, now time.Time) (entities.StatusChange, bool) {
	if q.Status != entities.QuoteStatusPending || !q.IsDue(now) {
		return entities.StatusChange{}, false
	}
	change, err := Apply(q, entities.SystemActor, ActionExpire, ResponsePayload{}, now)
	if err != nil {
		return entities.StatusChange{}, false
	}
	return change, true
}

// Replay folds a transition log and returns the status it ends in. Every step
// must be a legal move for the recorded actor role.
func Replay(history []entities.StatusChange) (entities.QuoteStatus, error) {
	status := noStatus
	for i, h := range history {
		r, ok := table[Action(h.Action)]
		if !ok {
			return "", fmt.Errorf("step %d: %w: %q", i, ErrUnknownAction, h.Action)
		}
		if h.From != status || !containsStatus(r.from, h.From) || h.To != r.to {
			return "", fmt.Errorf("step %d: %w: %s %s -> %s", i, ErrInvalidTransition, h.Action, h.From, h.To)
		}
		if !containsRole(r.actors, h.ActorRole) {
			return "", fmt.Errorf("step %d: %w: role %s cannot %s", i, ErrForbidden, h.ActorRole, h.Action)
		}
		status = h.To
	}
	return status, nil
}

// Allowed lists the actions role could request on a quote in status.
// Ownership is not considered.
func Allowed(status entities.QuoteStatus, role entities.Role) []Action {
	var out []Action
	for _, a := range actionOrder {
		r := table[a]
		if containsRole(r.actors, role) && containsStatus(r.from, status) {
			out = append(out, a)
		}
	}
	return out
}

// IsTerminal reports whether no action leaves status.
func IsTerminal(status entities.QuoteStatus) bool {
	for _, r := range table {
		if containsStatus(r.from, status) {
			return false
		}
	}
	return true
}

func record(q *entities.Quote, actor entities.Actor, action Action, to entities.QuoteStatus, now time.Time) entities.StatusChange {
	change := entities.StatusChange{
		From:      q.Status,
		To:        to,
		Action:    string(action),
		ActorRole: actor.Role,
		ActorID:   actor.ID,
		At:        now,
	}
	q.Status = to
	q.History = append(q.History, change)
	q.UpdatedAt = now
	return change
}

func containsRole(roles []entities.Role, r entities.Role) bool {
	for _, candidate := range roles {
		if candidate == r {
			return true
		}
	}
	return false
}

func containsStatus(statuses []entities.QuoteStatus, s entities.QuoteStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
