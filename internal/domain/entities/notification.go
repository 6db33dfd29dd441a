package entities

import "time"

// Recipient addresses a notification inbox. Administrators share a single
// inbox whose id is configured.
type Recipient struct {
	Role Role   `json:"role"`
	ID   string `json:"id"`
}

// Key is the partition value used by the recipient index.
func (r Recipient) Key() string {
	return string(r.Role) + "#" + r.ID
}

// Notification is created by the emitter on quote events and only ever
// mutated by marking it read.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (recipient-index): recipient_key, sort key created_seq
type Notification struct {
	ID             string    `json:"id"`
	Recipient      Recipient `json:"recipient"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	RelatedQuoteID string    `json:"related_quote_id"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}
