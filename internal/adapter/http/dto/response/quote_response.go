package response

import (
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
	"devis_broker/internal/domain/projection"
	"devis_broker/internal/usecase"
)

type AttachmentResponse struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

type OfferResponse struct {
	Amount        float64              `json:"amount"`
	Message       string               `json:"message,omitempty"`
	Attachments   []AttachmentResponse `json:"attachments"`
	RespondedBy   string               `json:"responded_by"`
	RespondedRole string               `json:"responded_role"`
	RespondedAt   time.Time            `json:"responded_at"`
}

type HistoryEntryResponse struct {
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	Action    string    `json:"action"`
	ActorRole string    `json:"actor_role"`
	ActorID   string    `json:"actor_id"`
	At        time.Time `json:"at"`
}

// QuoteResponse is the quote as seen by one role: raw fields plus the
// dashboard bucket, its label and the actions the caller may take.
type QuoteResponse struct {
	ID              string                 `json:"id"`
	CustomerID      string                 `json:"customer_id"`
	ForwarderID     string                 `json:"forwarder_id,omitempty"`
	ServiceType     string                 `json:"service_type"`
	Description     string                 `json:"description"`
	Origin          string                 `json:"origin"`
	Destination     string                 `json:"destination"`
	Attachments     []AttachmentResponse   `json:"attachments"`
	EstimatedAmount *float64               `json:"estimated_amount,omitempty"`
	Offer           *OfferResponse         `json:"offer,omitempty"`
	Status          string                 `json:"status"`
	Bucket          string                 `json:"bucket"`
	Label           string                 `json:"label"`
	Actions         []lifecycle.Action     `json:"actions"`
	ExpiresAt       *time.Time             `json:"expires_at,omitempty"`
	CreationChannel string                 `json:"creation_channel"`
	History         []HistoryEntryResponse `json:"history"`
	Version         int64                  `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

type QuotePageResponse struct {
	Items    []QuoteResponse `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Total    int             `json:"total"`
}

func FromQuote(q entities.Quote, role entities.Role) QuoteResponse {
	view := projection.Project(q, role)
	out := QuoteResponse{
		ID:              q.ID,
		CustomerID:      q.CustomerID,
		ForwarderID:     q.ForwarderID,
		ServiceType:     string(q.ServiceType),
		Description:     q.Description,
		Origin:          q.Origin,
		Destination:     q.Destination,
		Attachments:     fromAttachments(q.Attachments),
		EstimatedAmount: q.EstimatedAmount,
		Status:          string(q.Status),
		Bucket:          string(view.Bucket),
		Label:           view.Label,
		Actions:         view.Actions,
		ExpiresAt:       q.ExpiresAt,
		CreationChannel: string(q.CreationChannel),
		Version:         q.Version,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	if out.Actions == nil {
		out.Actions = []lifecycle.Action{}
	}
	if q.Response != nil {
		out.Offer = &OfferResponse{
			Amount:        q.Response.Amount,
			Message:       q.Response.Message,
			Attachments:   fromAttachments(q.Response.Attachments),
			RespondedBy:   q.Response.RespondedBy.ID,
			RespondedRole: string(q.Response.RespondedBy.Role),
			RespondedAt:   q.Response.RespondedAt,
		}
	}
	out.History = make([]HistoryEntryResponse, 0, len(q.History))
	for _, h := range q.History {
		out.History = append(out.History, HistoryEntryResponse{
			From:      string(h.From),
			To:        string(h.To),
			Action:    h.Action,
			ActorRole: string(h.ActorRole),
			ActorID:   h.ActorID,
			At:        h.At,
		})
	}
	return out
}

func FromQuotePage(p usecase.QuotePage, role entities.Role) QuotePageResponse {
	items := make([]QuoteResponse, 0, len(p.Items))
	for _, q := range p.Items {
		items = append(items, FromQuote(q, role))
	}
	return QuotePageResponse{Items: items, Page: p.Page, PageSize: p.PageSize, Total: p.Total}
}

func fromAttachments(in []entities.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(in))
	for _, a := range in {
		out = append(out, AttachmentResponse{URL: a.URL, Name: a.Name})
	}
	return out
}
