// Package projection reshapes quotes for each role's dashboard. Views are
// derived and never written back.
package projection

import (
	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"
)

type Bucket string

const (
	// customer dashboard
	BucketAccepted Bucket = "accepted"
	BucketPending  Bucket = "pending"
	BucketRefused  Bucket = "refused"

	// forwarder dashboard
	BucketInProgress Bucket = "en-cours"
	BucketTreated    Bucket = "treated"
)

// View is what a dashboard shows for one quote.
type View struct {
	QuoteID string               `json:"quote_id"`
	Status  entities.QuoteStatus `json:"status"`
	Bucket  Bucket               `json:"bucket"`
	Label   string               `json:"label"`
	Actions []lifecycle.Action   `json:"actions"`
}

func Project(q entities.Quote, role entities.Role) View {
	bucket := BucketFor(q.Status, role)
	return View{
		QuoteID: q.ID,
		Status:  q.Status,
		Bucket:  bucket,
		Label:   label(bucket),
		Actions: lifecycle.Allowed(q.Status, role),
	}
}

// BucketFor is total over statuses and roles. Unknown roles get the raw
// status, like administrators.
func BucketFor(status entities.QuoteStatus, role entities.Role) Bucket {
	switch role {
	case entities.RoleCustomer:
		return customerBucket(status)
	case entities.RoleForwarder:
		return forwarderBucket(status)
	default:
		return Bucket(status)
	}
}

func customerBucket(status entities.QuoteStatus) Bucket {
	switch status {
	case entities.QuoteStatusPending:
		return BucketPending
	case entities.QuoteStatusAccepted, entities.QuoteStatusProcessed:
		return BucketAccepted
	default:
		// refused, cancelled, expired, archived
		return BucketRefused
	}
}

func forwarderBucket(status entities.QuoteStatus) Bucket {
	switch status {
	case entities.QuoteStatusPending:
		return BucketPending
	case entities.QuoteStatusAccepted:
		return BucketInProgress
	default:
		return BucketTreated
	}
}

var labels = map[Bucket]string{
	BucketPending:    "En attente",
	BucketAccepted:   "Acceptée",
	BucketRefused:    "Refusée / annulée",
	BucketInProgress: "En cours",
	BucketTreated:    "Traitée",

	Bucket(entities.QuoteStatusCancelled): "Annulée",
	Bucket(entities.QuoteStatusExpired):   "Expirée",
	Bucket(entities.QuoteStatusProcessed): "Traitée",
	Bucket(entities.QuoteStatusArchived):  "Archivée",
}

func label(b Bucket) string {
	if l, ok := labels[b]; ok {
		return l
	}
	return string(b)
}
