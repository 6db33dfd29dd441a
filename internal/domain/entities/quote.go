package entities

import "time"

// QuoteStatus represents the lifecycle of a quote request (devis).
//
// Domain notes:
//   - Status is the single authoritative field; it only changes through the
//     lifecycle engine (internal/domain/lifecycle).
//   - archived is terminal. expired, refused and cancelled are terminal for the
//     normal flow but may still be archived.

type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusRefused   QuoteStatus = "refused"
	QuoteStatusCancelled QuoteStatus = "cancelled"
	QuoteStatusExpired   QuoteStatus = "expired"
	QuoteStatusProcessed QuoteStatus = "processed"
	QuoteStatusArchived  QuoteStatus = "archived"
)

// AllQuoteStatuses lists every status in lifecycle order.
var AllQuoteStatuses = []QuoteStatus{
	QuoteStatusPending,
	QuoteStatusAccepted,
	QuoteStatusRefused,
	QuoteStatusCancelled,
	QuoteStatusExpired,
	QuoteStatusProcessed,
	QuoteStatusArchived,
}

func (s QuoteStatus) Valid() bool {
	for _, known := range AllQuoteStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type ServiceType string

const (
	ServiceTypeMaritime ServiceType = "maritime"
	ServiceTypeRoad     ServiceType = "road"
	ServiceTypeAir      ServiceType = "air"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceTypeMaritime, ServiceTypeRoad, ServiceTypeAir:
		return true
	}
	return false
}

// CreationChannel records how the quote reached the platform. It only drives
// notification wording.
type CreationChannel string

const (
	CreationChannelSearch  CreationChannel = "search"
	CreationChannelGeneric CreationChannel = "generic"
)

// Attachment is an opaque file reference; content is never read.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// QuoteResponse holds the last offer made by a forwarder or administrator.
// A new respond overwrites it.
type QuoteResponse struct {
	Amount      float64      `json:"amount"`
	Message     string       `json:"message"`
	Attachments []Attachment `json:"attachments,omitempty"`
	RespondedBy Actor        `json:"responded_by"`
	RespondedAt time.Time    `json:"responded_at"`
}

// StatusChange is one entry of the transition log.
type StatusChange struct {
	From      QuoteStatus `json:"from"`
	To        QuoteStatus `json:"to"`
	Action    string      `json:"action"`
	ActorRole Role        `json:"actor_role"`
	ActorID   string      `json:"actor_id"`
	At        time.Time   `json:"at"`
}

// Quote is the freight quote request persisted by the quote store.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (customer_id-index): customer_id
//   - GSI2 (forwarder_id-index): forwarder_id (sparse; absent for admin-only quotes)
//
// Concurrency:
//   - Version is bumped on every write; updates are conditional on the
//     version read (compare-and-set).
type Quote struct {
	ID              string          `json:"id"`
	CustomerID      string          `json:"customer_id"`
	ForwarderID     string          `json:"forwarder_id,omitempty"`
	ServiceType     ServiceType     `json:"service_type"`
	Description     string          `json:"description"`
	Origin          string          `json:"origin"`
	Destination     string          `json:"destination"`
	Attachments     []Attachment    `json:"attachments,omitempty"`
	EstimatedAmount *float64        `json:"estimated_amount,omitempty"`
	Response        *QuoteResponse  `json:"response,omitempty"`
	Status          QuoteStatus     `json:"status"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	CreationChannel CreationChannel `json:"creation_channel"`
	History         []StatusChange  `json:"history,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (q Quote) HasResponse() bool {
	return q.Response != nil
}

// IsDue reports whether the expiry deadline has passed at now.
func (q Quote) IsDue(now time.Time) bool {
	return q.ExpiresAt != nil && now.After(*q.ExpiresAt)
}

// QuoteFilter narrows quote listings. Empty fields do not filter.
type QuoteFilter struct {
	CustomerID  string
	ForwarderID string
	Status      QuoteStatus
}
