package entities

import "strings"

// Role identifies which kind of actor performs an operation. The identity
// service supplies it; this service trusts it.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleForwarder Role = "forwarder"
	RoleAdmin     Role = "admin"
	// RoleSystem is used for time-triggered transitions (expiry).
	RoleSystem Role = "system"
)

// ParseRole accepts the externally visible roles only; system cannot be
// claimed by a caller.
func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleCustomer, RoleForwarder, RoleAdmin:
		return r, true
	}
	return "", false
}

// The identity service forwards the caller in these headers; the API reads
// them and the notification poller sends them.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// SystemActor performs expiry transitions.
var SystemActor = Actor{ID: "system", Role: RoleSystem}
