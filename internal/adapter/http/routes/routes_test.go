package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devis_broker/internal/adapter/http/handlers"
	"devis_broker/internal/adapter/persistence/memory"
	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	quotes := memory.NewQuoteRepository()
	notifications := memory.NewNotificationRepository()
	forwarders := memory.NewForwarderRepository()
	_, err := forwarders.Create(context.Background(), entities.Forwarder{ID: "fw-1", Name: "Transit Ouest", Active: true, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	emitter := usecase.NewNotificationEmitter(notifications, usecase.EmitterConfig{BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})
	quoteUC := usecase.NewQuoteUseCase(quotes, usecase.NewAssignmentResolver(forwarders), emitter, usecase.QuoteUseCaseConfig{})

	return NewRouter(Handlers{
		Quote:        handlers.NewQuoteHandler(quoteUC),
		Notification: handlers.NewNotificationHandler(usecase.NewNotificationUseCase(notifications, emitter)),
		Forwarder:    handlers.NewForwarderHandler(usecase.NewForwarderUseCase(forwarders)),
	})
}

func call(t *testing.T, r http.Handler, method, path, actorID, role, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req.Header.Set(entities.HeaderActorID, actorID)
		req.Header.Set(entities.HeaderActorRole, role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func TestRouter_QuoteJourney(t *testing.T) {
	r := newTestRouter(t)

	code, created := call(t, r, http.MethodPost, "/v1/quotes", "cust-1", "customer",
		`{"service_type":"maritime","origin":"Le Havre","destination":"Abidjan","description":"2 x 40ft"}`)
	require.Equal(t, http.StatusCreated, code)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "fw-1", created["forwarder_id"])

	code, count := call(t, r, http.MethodGet, "/v1/notifications/unread-count", "fw-1", "forwarder", ``)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), count["count"])

	code, _ = call(t, r, http.MethodGet, "/v1/notifications/unread-count", "someone", "admin", ``)
	require.Equal(t, http.StatusOK, code)

	code, responded := call(t, r, http.MethodPatch, "/v1/quotes/"+id+"/respond", "fw-1", "forwarder", `{"amount":150000}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "accepted", responded["status"])
	assert.Equal(t, "en-cours", responded["bucket"])

	code, customerView := call(t, r, http.MethodGet, "/v1/quotes/"+id, "cust-1", "customer", ``)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "accepted", customerView["bucket"])

	code, _ = call(t, r, http.MethodPatch, "/v1/quotes/"+id+"/archive", "fw-1", "forwarder", ``)
	require.Equal(t, http.StatusOK, code)

	code, rejected := call(t, r, http.MethodPatch, "/v1/quotes/"+id+"/respond", "fw-1", "forwarder", `{"amount":10}`)
	require.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "INVALID_TRANSITION", rejected["code"])

	code, readAll := call(t, r, http.MethodPatch, "/v1/notifications/read-all", "cust-1", "customer", ``)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), readAll["updated"])

	code, readAll = call(t, r, http.MethodPatch, "/v1/notifications/read-all", "cust-1", "customer", ``)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), readAll["updated"])
}

func TestRouter_Ambient(t *testing.T) {
	r := newTestRouter(t)

	code, body := call(t, r, http.MethodGet, "/v1/ping", "", "", ``)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
