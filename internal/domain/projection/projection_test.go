package projection

import (
	"testing"

	"devis_broker/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketFor_IsTotal(t *testing.T) {
	customerBuckets := map[Bucket]bool{BucketAccepted: true, BucketPending: true, BucketRefused: true}
	forwarderBuckets := map[Bucket]bool{BucketPending: true, BucketInProgress: true, BucketTreated: true}

	for _, status := range entities.AllQuoteStatuses {
		assert.True(t, customerBuckets[BucketFor(status, entities.RoleCustomer)], "customer bucket for %s", status)
		assert.True(t, forwarderBuckets[BucketFor(status, entities.RoleForwarder)], "forwarder bucket for %s", status)
		assert.Equal(t, Bucket(status), BucketFor(status, entities.RoleAdmin))
	}
}

func TestBucketFor_Mapping(t *testing.T) {
	assert.Equal(t, BucketPending, BucketFor(entities.QuoteStatusPending, entities.RoleCustomer))
	assert.Equal(t, BucketAccepted, BucketFor(entities.QuoteStatusAccepted, entities.RoleCustomer))
	assert.Equal(t, BucketRefused, BucketFor(entities.QuoteStatusCancelled, entities.RoleCustomer))
	assert.Equal(t, BucketRefused, BucketFor(entities.QuoteStatusExpired, entities.RoleCustomer))

	assert.Equal(t, BucketInProgress, BucketFor(entities.QuoteStatusAccepted, entities.RoleForwarder))
	assert.Equal(t, BucketTreated, BucketFor(entities.QuoteStatusRefused, entities.RoleForwarder))
	assert.Equal(t, BucketTreated, BucketFor(entities.QuoteStatusArchived, entities.RoleForwarder))
}

func TestProject_DoesNotMutate(t *testing.T) {
	q := entities.Quote{ID: "q-1", Status: entities.QuoteStatusAccepted, History: []entities.StatusChange{{To: entities.QuoteStatusPending}}}
	snapshot := q

	v := Project(q, entities.RoleForwarder)
	require.Equal(t, "q-1", v.QuoteID)
	assert.Equal(t, BucketInProgress, v.Bucket)
	assert.Equal(t, "En cours", v.Label)
	assert.NotEmpty(t, v.Actions)
	assert.Equal(t, snapshot, q)

	admin := Project(q, entities.RoleAdmin)
	assert.Equal(t, Bucket("accepted"), admin.Bucket)
	assert.Equal(t, "Acceptée", admin.Label)
}
