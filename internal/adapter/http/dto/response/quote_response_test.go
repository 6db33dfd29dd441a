package response

import (
	"testing"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
	"devis_broker/internal/domain/projection"
)

func TestFromQuote_ProjectsPerRole(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	q := entities.Quote{
		ID:          "q-1",
		CustomerID:  "cust-1",
		ForwarderID: "fw-1",
		ServiceType: entities.ServiceTypeRoad,
		Status:      entities.QuoteStatusAccepted,
		Response: &entities.QuoteResponse{
			Amount:      980,
			RespondedBy: entities.Actor{ID: "fw-1", Role: entities.RoleForwarder},
			RespondedAt: now,
		},
		History: []entities.StatusChange{
			{To: entities.QuoteStatusPending, Action: "create", ActorRole: entities.RoleCustomer, ActorID: "cust-1", At: now},
			{From: entities.QuoteStatusPending, To: entities.QuoteStatusAccepted, Action: "respond", ActorRole: entities.RoleForwarder, ActorID: "fw-1", At: now},
		},
		CreatedAt: now,
	}

	customer := FromQuote(q, entities.RoleCustomer)
	if customer.Bucket != string(projection.BucketAccepted) || customer.Status != "accepted" {
		t.Fatalf("unexpected customer view: %+v", customer)
	}
	if customer.Offer == nil || customer.Offer.Amount != 980 || customer.Offer.RespondedRole != "forwarder" {
		t.Fatalf("unexpected offer: %+v", customer.Offer)
	}
	if len(customer.History) != 2 || customer.History[1].Action != "respond" {
		t.Fatalf("unexpected history: %+v", customer.History)
	}
	if !containsAction(customer.Actions, lifecycle.ActionCancel) {
		t.Fatalf("customer should be able to cancel: %v", customer.Actions)
	}

	forwarder := FromQuote(q, entities.RoleForwarder)
	if forwarder.Bucket != string(projection.BucketInProgress) {
		t.Fatalf("unexpected forwarder bucket: %s", forwarder.Bucket)
	}

	admin := FromQuote(q, entities.RoleAdmin)
	if admin.Bucket != "accepted" {
		t.Fatalf("administrators see the raw status, got %s", admin.Bucket)
	}
}

func TestFromQuote_EmptyCollectionsAreArrays(t *testing.T) {
	got := FromQuote(entities.Quote{ID: "q-1", Status: entities.QuoteStatusArchived}, entities.RoleCustomer)
	if got.Attachments == nil || got.History == nil || got.Actions == nil {
		t.Fatalf("collections must render as [] not null: %+v", got)
	}
	if got.Offer != nil {
		t.Fatalf("no offer expected")
	}
}

func containsAction(actions []lifecycle.Action, a lifecycle.Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}
