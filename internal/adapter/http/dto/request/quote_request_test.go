package request

import (
	"errors"
	"testing"
	"time"

	"devis_broker/internal/domain/entities"
)

func TestCreateQuoteRequest_ToCommand(t *testing.T) {
	deadline := time.Date(2026, 6, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	r := CreateQuoteRequest{
		ForwarderID: " fw-1 ",
		ServiceType: " Maritime",
		Origin:      "Le Havre",
		Destination: "Abidjan",
		Attachments: []AttachmentRequest{{URL: " https://files.example/bl.pdf ", Name: "BL"}},
		ExpiresAt:   &deadline,
	}
	cmd, err := r.ToCommand()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.ForwarderID != "fw-1" || cmd.ServiceType != entities.ServiceTypeMaritime {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if len(cmd.Attachments) != 1 || cmd.Attachments[0].URL != "https://files.example/bl.pdf" {
		t.Fatalf("unexpected attachments: %+v", cmd.Attachments)
	}
	if cmd.ExpiresAt == nil || cmd.ExpiresAt.Location() != time.UTC || !cmd.ExpiresAt.Equal(deadline) {
		t.Fatalf("deadline must be normalised to UTC: %v", cmd.ExpiresAt)
	}

	r.ServiceType = "rail"
	if _, err := r.ToCommand(); !errors.Is(err, ErrInvalidServiceType) {
		t.Fatalf("expected ErrInvalidServiceType, got %v", err)
	}
}

func TestRespondQuoteRequest_ToPayload(t *testing.T) {
	p, err := RespondQuoteRequest{Amount: 150000, Message: "ETD 12/03"}.ToPayload()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Amount != 150000 || p.Message != "ETD 12/03" || p.Attachments != nil {
		t.Fatalf("unexpected payload: %+v", p)
	}

	if _, err := (RespondQuoteRequest{Amount: -3}).ToPayload(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestListQuotesRequest_ToQuery(t *testing.T) {
	q := ListQuotesRequest{Status: " Pending ", Page: 2, PageSize: 5}.ToQuery()
	if q.Status != entities.QuoteStatusPending || q.Page != 2 || q.PageSize != 5 {
		t.Fatalf("unexpected query: %+v", q)
	}
}
