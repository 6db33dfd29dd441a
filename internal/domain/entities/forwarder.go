package entities

import "time"

// Forwarder (transitaire) is a freight-forwarding company that may respond to
// quotes. Only active forwarders take part in assignment.
type Forwarder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
