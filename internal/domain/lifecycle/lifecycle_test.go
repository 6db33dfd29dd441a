package lifecycle

import (
	"errors"
	"testing"
	"time"

	"devis_broker/internal/domain/entities"
)

var (
	customer  = entities.Actor{ID: "cust-1", Role: entities.RoleCustomer}
	forwarder = entities.Actor{ID: "fwd-1", Role: entities.RoleForwarder}
	admin     = entities.Actor{ID: "adm-1", Role: entities.RoleAdmin}
)

func newQuote(t *testing.T, now time.Time) entities.Quote {
	t.Helper()
	q := entities.Quote{ID: "q-1", CustomerID: customer.ID, ForwarderID: forwarder.ID}
	if _, err := Create(&q, customer, now); err != nil {
		t.Fatalf("create: %v", err)
	}
	return q
}

func TestApply_TransitionTable(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := ResponsePayload{Amount: 150000, Message: "door to door"}

	cases := []struct {
		name    string
		from    entities.QuoteStatus
		actor   entities.Actor
		action  Action
		want    entities.QuoteStatus
		wantErr error
	}{
		{name: "forwarder responds to pending", from: entities.QuoteStatusPending, actor: forwarder, action: ActionRespond, want: entities.QuoteStatusAccepted},
		{name: "admin re-quotes accepted", from: entities.QuoteStatusAccepted, actor: admin, action: ActionRespond, want: entities.QuoteStatusAccepted},
		{name: "forwarder refuses pending", from: entities.QuoteStatusPending, actor: forwarder, action: ActionRefuse, want: entities.QuoteStatusRefused},
		{name: "customer cancels accepted", from: entities.QuoteStatusAccepted, actor: customer, action: ActionCancel, want: entities.QuoteStatusCancelled},
		{name: "admin processes accepted", from: entities.QuoteStatusAccepted, actor: admin, action: ActionProcess, want: entities.QuoteStatusProcessed},
		{name: "forwarder archives processed", from: entities.QuoteStatusProcessed, actor: forwarder, action: ActionArchive, want: entities.QuoteStatusArchived},
		{name: "admin archives expired", from: entities.QuoteStatusExpired, actor: admin, action: ActionArchive, want: entities.QuoteStatusArchived},
		{name: "archive pending rejected", from: entities.QuoteStatusPending, actor: admin, action: ActionArchive, wantErr: ErrInvalidTransition},
		{name: "respond on refused rejected", from: entities.QuoteStatusRefused, actor: forwarder, action: ActionRespond, wantErr: ErrInvalidTransition},
		{name: "cancel on cancelled rejected", from: entities.QuoteStatusCancelled, actor: customer, action: ActionCancel, wantErr: ErrInvalidTransition},
		{name: "customer cannot respond", from: entities.QuoteStatusPending, actor: customer, action: ActionRespond, wantErr: ErrForbidden},
		{name: "forwarder cannot process", from: entities.QuoteStatusAccepted, actor: forwarder, action: ActionProcess, wantErr: ErrForbidden},
		{name: "admin cannot cancel", from: entities.QuoteStatusPending, actor: admin, action: ActionCancel, wantErr: ErrForbidden},
		{name: "other forwarder forbidden", from: entities.QuoteStatusPending, actor: entities.Actor{ID: "fwd-2", Role: entities.RoleForwarder}, action: ActionRespond, wantErr: ErrForbidden},
		{name: "other customer forbidden", from: entities.QuoteStatusPending, actor: entities.Actor{ID: "cust-2", Role: entities.RoleCustomer}, action: ActionCancel, wantErr: ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := entities.Quote{ID: "q-1", CustomerID: customer.ID, ForwarderID: forwarder.ID, Status: tc.from}
			before := q

			change, err := Apply(&q, tc.actor, tc.action, payload, now)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if q.Status != before.Status || len(q.History) != 0 || q.Response != nil {
					t.Fatalf("quote mutated on rejected transition: %+v", q)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Status != tc.want || change.To != tc.want || change.From != tc.from {
				t.Fatalf("unexpected transition %+v, status %s", change, q.Status)
			}
			if len(q.History) != 1 || !q.UpdatedAt.Equal(now) {
				t.Fatalf("expected one history entry and updated timestamp, got %+v", q)
			}
		})
	}
}

func TestApply_RespondOverwritesResponse(t *testing.T) {
	now := time.Now().UTC()
	q := newQuote(t, now)

	if _, err := Apply(&q, forwarder, ActionRespond, ResponsePayload{Amount: 100, Message: "first"}, now); err != nil {
		t.Fatalf("first respond: %v", err)
	}
	if _, err := Apply(&q, admin, ActionRespond, ResponsePayload{Amount: 90, Message: " second "}, now.Add(time.Minute)); err != nil {
		t.Fatalf("second respond: %v", err)
	}
	if q.Response.Amount != 90 || q.Response.Message != "second" || q.Response.RespondedBy != admin {
		t.Fatalf("expected overwritten response, got %+v", q.Response)
	}

	_, err := Apply(&q, forwarder, ActionRespond, ResponsePayload{Amount: 0}, now)
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestArchivedIsTerminal(t *testing.T) {
	now := time.Now().UTC()
	for _, actor := range []entities.Actor{customer, forwarder, admin, entities.SystemActor} {
		for _, action := range []Action{ActionRespond, ActionRefuse, ActionCancel, ActionExpire, ActionArchive, ActionProcess} {
			q := entities.Quote{ID: "q-1", CustomerID: customer.ID, ForwarderID: forwarder.ID, Status: entities.QuoteStatusArchived}
			if _, err := Apply(&q, actor, action, ResponsePayload{Amount: 1}, now); err == nil {
				t.Fatalf("%s by %s succeeded on archived quote", action, actor.Role)
			}
		}
	}
	if !IsTerminal(entities.QuoteStatusArchived) {
		t.Fatalf("archived must be terminal")
	}
	if IsTerminal(entities.QuoteStatusExpired) {
		t.Fatalf("expired can still be archived")
	}
}

func TestExpireIfDue(t *testing.T) {
	now := time.Now().UTC()

	t.Run("never before deadline", func(t *testing.T) {
		q := newQuote(t, now)
		deadline := now.Add(time.Hour)
		q.ExpiresAt = &deadline
		if _, ok := ExpireIfDue(&q, now); ok {
			t.Fatalf("expired before deadline")
		}
		_, err := Apply(&q, entities.SystemActor, ActionExpire, ResponsePayload{}, now)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("after deadline", func(t *testing.T) {
		q := newQuote(t, now)
		deadline := now.Add(-time.Second)
		q.ExpiresAt = &deadline
		change, ok := ExpireIfDue(&q, now)
		if !ok || q.Status != entities.QuoteStatusExpired || change.ActorRole != entities.RoleSystem {
			t.Fatalf("expected expiry, got %+v ok=%v", q, ok)
		}
		_, err := Apply(&q, forwarder, ActionRespond, ResponsePayload{Amount: 10}, now)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected late respond rejected, got %v", err)
		}
	})

	t.Run("only pending expires", func(t *testing.T) {
		q := newQuote(t, now)
		if _, err := Apply(&q, forwarder, ActionRespond, ResponsePayload{Amount: 10}, now); err != nil {
			t.Fatalf("respond: %v", err)
		}
		deadline := now.Add(-time.Second)
		q.ExpiresAt = &deadline
		if _, ok := ExpireIfDue(&q, now); ok {
			t.Fatalf("accepted quote must not expire")
		}
	})
}

func TestReplayReproducesStatus(t *testing.T) {
	now := time.Now().UTC()
	q := newQuote(t, now)
	steps := []struct {
		actor  entities.Actor
		action Action
	}{
		{forwarder, ActionRespond},
		{admin, ActionRespond},
		{admin, ActionProcess},
		{forwarder, ActionArchive},
	}
	for _, s := range steps {
		if _, err := Apply(&q, s.actor, s.action, ResponsePayload{Amount: 5}, now); err != nil {
			t.Fatalf("%s: %v", s.action, err)
		}
	}

	got, err := Replay(q.History)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if got != q.Status {
		t.Fatalf("replay gave %s, quote is %s", got, q.Status)
	}

	tampered := append([]entities.StatusChange(nil), q.History...)
	tampered[2].ActorRole = entities.RoleCustomer
	if _, err := Replay(tampered); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected tampered log rejected, got %v", err)
	}
}

func TestAllowedAndParseAction(t *testing.T) {
	got := Allowed(entities.QuoteStatusAccepted, entities.RoleAdmin)
	want := []Action{ActionRespond, ActionRefuse, ActionArchive, ActionProcess}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(Allowed(entities.QuoteStatusArchived, entities.RoleAdmin)) != 0 {
		t.Fatalf("archived must expose no actions")
	}

	if a, ok := ParseAction(" Respond "); !ok || a != ActionRespond {
		t.Fatalf("expected respond, got %q %v", a, ok)
	}
	for _, raw := range []string{"expire", "create", "delete", ""} {
		if _, ok := ParseAction(raw); ok {
			t.Fatalf("%q must not be requestable", raw)
		}
	}
}
