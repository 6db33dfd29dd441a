package usecase

import (
	"context"
	"testing"
	"time"

	"devis_broker/internal/domain/entities"
	"devis_broker/internal/domain/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationUseCase_ReadState(t *testing.T) {
	ctx := context.Background()
	s := newScenario(t, "fw-1")

	for i := 0; i < 3; i++ {
		q, err := s.quoteUC.CreateQuote(ctx, customerActor, maritimeRequest())
		require.NoError(t, err)
		s.advance(time.Minute)
		_, err = s.quoteUC.Transition(ctx, q.ID, forwarderActor, lifecycle.ActionRefuse, lifecycle.ResponsePayload{})
		require.NoError(t, err)
	}

	count, err := s.notifyUC.UnreadCount(ctx, customerActor)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	inbox := s.inbox(t, customerActor)
	require.Len(t, inbox, 3)
	assert.True(t, !inbox[0].CreatedAt.Before(inbox[2].CreatedAt), "newest first")

	read, err := s.notifyUC.MarkRead(ctx, customerActor, inbox[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	again, err := s.notifyUC.MarkRead(ctx, customerActor, inbox[0].ID)
	require.NoError(t, err)
	assert.True(t, again.Read)

	count, _ = s.notifyUC.UnreadCount(ctx, customerActor)
	assert.Equal(t, 2, count)

	changed, err := s.notifyUC.MarkAllRead(ctx, customerActor)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = s.notifyUC.MarkAllRead(ctx, customerActor)
	require.NoError(t, err)
	assert.Zero(t, changed)

	count, _ = s.notifyUC.UnreadCount(ctx, customerActor)
	assert.Zero(t, count)

	adminUnread, err := s.notifyUC.UnreadCount(ctx, adminActor)
	require.NoError(t, err)
	assert.Equal(t, 3, adminUnread, "customer reads do not touch other inboxes")
}

func TestNotificationUseCase_Ownership(t *testing.T) {
	ctx := context.Background()
	s := newScenario(t, "fw-1")
	_, err := s.quoteUC.CreateQuote(ctx, customerActor, maritimeRequest())
	require.NoError(t, err)

	forwarderInbox := s.inbox(t, forwarderActor)
	require.Len(t, forwarderInbox, 1)

	_, err = s.notifyUC.MarkRead(ctx, customerActor, forwarderInbox[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.notifyUC.MarkRead(ctx, customerActor, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.notifyUC.List(ctx, entities.Actor{Role: entities.RoleCustomer}, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	otherAdmin := entities.Actor{ID: "ops-2", Role: entities.RoleAdmin}
	shared := s.inbox(t, otherAdmin)
	require.Len(t, shared, 1, "administrators share one inbox")
	_, err = s.notifyUC.MarkRead(ctx, otherAdmin, shared[0].ID)
	assert.NoError(t, err)
}

func TestNotificationUseCase_ListLimit(t *testing.T) {
	ctx := context.Background()
	s := newScenario(t)
	for i := 0; i < 25; i++ {
		_, err := s.quoteUC.CreateQuote(ctx, customerActor, maritimeRequest())
		require.NoError(t, err)
		s.advance(time.Second)
	}

	items, err := s.notifyUC.List(ctx, adminActor, 0)
	require.NoError(t, err)
	assert.Len(t, items, 20)

	items, err = s.notifyUC.List(ctx, adminActor, 5)
	require.NoError(t, err)
	assert.Len(t, items, 5)

	empty, err := s.notifyUC.List(ctx, customerActor, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
