package repository

import (
	"errors"
	"testing"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

func TestClassify(t *testing.T) {
	throttled := &smithy.GenericAPIError{Code: "ThrottlingException", Message: "slow down"}
	if err := classify("put quote", throttled); !errors.Is(err, interfaces.ErrTransientStore) {
		t.Fatalf("expected transient error, got %v", err)
	}

	exceeded := &types.ProvisionedThroughputExceededException{}
	if err := classify("put quote", exceeded); !errors.Is(err, interfaces.ErrTransientStore) {
		t.Fatalf("expected transient error, got %v", err)
	}

	validation := &smithy.GenericAPIError{Code: "ValidationException"}
	err := classify("put quote", validation)
	if errors.Is(err, interfaces.ErrTransientStore) {
		t.Fatalf("validation errors are not transient: %v", err)
	}
	if !errors.As(err, new(smithy.APIError)) {
		t.Fatalf("original error must stay reachable: %v", err)
	}

	if classify("noop", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestQuoteItem_SparseIndexKeys(t *testing.T) {
	q := entities.Quote{ID: "q-1", CustomerID: "cust-1", Status: entities.QuoteStatusPending, Version: 1}
	av, err := attributevalue.MarshalMap(toQuoteItem(q))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"forwarder_id", "expires_at_unix", "response", "estimated_amount"} {
		if _, ok := av[key]; ok {
			t.Fatalf("attribute %s must be absent for an unassigned open quote", key)
		}
	}

	deadline := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	amount := 0.0
	q.ForwarderID = "fw-1"
	q.ExpiresAt = &deadline
	q.EstimatedAmount = &amount
	q.Response = &entities.QuoteResponse{Amount: 1500.5, RespondedBy: entities.Actor{ID: "fw-1", Role: entities.RoleForwarder}}

	back := fromQuoteItem(toQuoteItem(q))
	if back.ForwarderID != "fw-1" || back.ExpiresAt == nil || !back.ExpiresAt.Equal(deadline) {
		t.Fatalf("unexpected quote: %+v", back)
	}
	if back.EstimatedAmount == nil || *back.EstimatedAmount != 0 {
		t.Fatalf("zero estimate must survive: %+v", back.EstimatedAmount)
	}
	if back.Response == nil || back.Response.Amount != 1500.5 || back.Response.RespondedBy.Role != entities.RoleForwarder {
		t.Fatalf("unexpected response: %+v", back.Response)
	}
}
