package request

import (
	"errors"
	"strings"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
	"devis_broker/internal/usecase"
)

var (
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidAmount      = errors.New("invalid amount")
)

type AttachmentRequest struct {
	URL  string `json:"url" binding:"required"`
	Name string `json:"name"`
}

// CreateQuoteRequest is the body of POST /quotes. ForwarderID is set when the
// customer picked a forwarder from the search page.
type CreateQuoteRequest struct {
	ForwarderID     string              `json:"forwarder_id"`
	ServiceType     string              `json:"service_type" binding:"required"`
	Description     string              `json:"description"`
	Origin          string              `json:"origin" binding:"required"`
	Destination     string              `json:"destination" binding:"required"`
	Attachments     []AttachmentRequest `json:"attachments"`
	EstimatedAmount *float64            `json:"estimated_amount"`
	ExpiresAt       *time.Time          `json:"expires_at"`
}

func (r CreateQuoteRequest) ToCommand() (usecase.CreateQuoteCommand, error) {
	st := entities.ServiceType(strings.ToLower(strings.TrimSpace(r.ServiceType)))
	if !st.Valid() {
		return usecase.CreateQuoteCommand{}, ErrInvalidServiceType
	}
	cmd := usecase.CreateQuoteCommand{
		ForwarderID:     strings.TrimSpace(r.ForwarderID),
		ServiceType:     st,
		Description:     r.Description,
		Origin:          r.Origin,
		Destination:     r.Destination,
		Attachments:     toAttachments(r.Attachments),
		EstimatedAmount: r.EstimatedAmount,
	}
	if r.ExpiresAt != nil {
		t := r.ExpiresAt.UTC()
		cmd.ExpiresAt = &t
	}
	return cmd, nil
}

// RespondQuoteRequest is the offer sent with PATCH /quotes/:id/respond.
type RespondQuoteRequest struct {
	Amount      float64             `json:"amount" binding:"required"`
	Message     string              `json:"message"`
	Attachments []AttachmentRequest `json:"attachments"`
}

func (r RespondQuoteRequest) ToPayload() (lifecycle.ResponsePayload, error) {
	if r.Amount <= 0 {
		return lifecycle.ResponsePayload{}, ErrInvalidAmount
	}
	return lifecycle.ResponsePayload{
		Amount:      r.Amount,
		Message:     r.Message,
		Attachments: toAttachments(r.Attachments),
	}, nil
}

type UpdateQuoteRequest struct {
	Description *string `json:"description"`
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
}

func (r UpdateQuoteRequest) ToCommand() usecase.UpdateDetailsCommand {
	return usecase.UpdateDetailsCommand{
		Description: r.Description,
		Origin:      r.Origin,
		Destination: r.Destination,
	}
}

type AddAttachmentsRequest struct {
	Attachments []AttachmentRequest `json:"attachments" binding:"required,min=1,dive"`
}

func (r AddAttachmentsRequest) ToAttachments() []entities.Attachment {
	return toAttachments(r.Attachments)
}

type AssignForwarderRequest struct {
	ForwarderID string `json:"forwarder_id" binding:"required"`
}

// ListQuotesRequest binds the query string of GET /quotes.
type ListQuotesRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (r ListQuotesRequest) ToQuery() usecase.ListQuotesQuery {
	return usecase.ListQuotesQuery{
		Status:   entities.QuoteStatus(strings.ToLower(strings.TrimSpace(r.Status))),
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}

func toAttachments(in []AttachmentRequest) []entities.Attachment {
	if len(in) == 0 {
		return nil
	}
	out := make([]entities.Attachment, 0, len(in))
	for _, a := range in {
		out = append(out, entities.Attachment{URL: strings.TrimSpace(a.URL), Name: strings.TrimSpace(a.Name)})
	}
	return out
}
