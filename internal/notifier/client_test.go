package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"devis_broker/internal/adapter/http/dto/response"
	"devis_broker/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_SpeaksNotificationAPI(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.RequestURI())
		mu.Unlock()
		assert.Equal(t, "fw-1", r.Header.Get("X-Actor-ID"))
		assert.Equal(t, "forwarder", r.Header.Get("X-Actor-Role"))
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/notifications/unread-count":
			_, _ = w.Write([]byte(`{"count":2}`))
		case "/v1/notifications":
			_, _ = w.Write([]byte(`{"items":[{"id":"n-2","title":"Quote q-1 status changed to accepted","related_quote_id":"q-1","read":false,"created_at":"2026-03-01T10:00:00Z"},{"id":"n-1","title":"New quote","read":true,"created_at":"2026-03-01T09:00:00Z"}]}`))
		case "/v1/notifications/read-all":
			_, _ = w.Write([]byte(`{"updated":2}`))
		case "/v1/notifications/n-2/read":
			_, _ = w.Write([]byte(`{"id":"n-2","read":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", entities.Actor{ID: "fw-1", Role: entities.RoleForwarder}, srv.Client())
	ctx := context.Background()

	count, err := f.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, err := f.List(ctx, 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n-2", items[0].ID)
	assert.Equal(t, "q-1", items[0].RelatedQuoteID)
	assert.False(t, items[0].Read)
	assert.True(t, items[1].Read)

	require.NoError(t, f.MarkRead(ctx, "n-2"))

	updated, err := f.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"GET /v1/notifications/unread-count",
		"GET /v1/notifications?limit=5",
		"PATCH /v1/notifications/n-2/read",
		"PATCH /v1/notifications/read-all",
	}, seen)
}

func TestHTTPFetcher_DecodesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOTIFICATION_NOT_FOUND","message":"notification not found"}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, entities.Actor{ID: "cust-1", Role: entities.RoleCustomer}, srv.Client())
	err := f.MarkRead(context.Background(), "missing")

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "NOTIFICATION_NOT_FOUND", httpErr.Code)
	assert.Contains(t, err.Error(), "notification not found")
}

func TestHTTPFetcher_DecodesServerDTOs(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := []entities.Notification{{
		ID:             "n-7",
		Recipient:      entities.Recipient{Role: entities.RoleCustomer, ID: "cust-1"},
		Title:          "Quote q-3 status changed to refused",
		Body:           "Your forwarder declined.",
		RelatedQuoteID: "q-3",
		CreatedAt:      created,
	}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body any
		switch r.URL.Path {
		case "/v1/notifications":
			body = response.FromNotifications(stored)
		case "/v1/notifications/unread-count":
			body = response.UnreadCountResponse{Count: 1}
		case "/v1/notifications/read-all":
			body = response.MarkAllReadResponse{Updated: 1}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, entities.Actor{ID: "cust-1", Role: entities.RoleCustomer}, srv.Client())
	ctx := context.Background()

	items, err := f.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, Notification{
		ID:             "n-7",
		Title:          "Quote q-3 status changed to refused",
		Body:           "Your forwarder declined.",
		RelatedQuoteID: "q-3",
		CreatedAt:      created,
	}, items[0])

	count, err := f.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	updated, err := f.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}
