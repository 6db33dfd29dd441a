package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"devis_broker/internal/adapter/http/handlers/mocks"
	"devis_broker/internal/domain/entities"
	"devis_broker/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newNotificationRouter(h *NotificationHandler) *gin.Engine {
	r := gin.New()
	r.GET("/v1/notifications", h.ListNotifications)
	r.GET("/v1/notifications/unread-count", h.UnreadCount)
	r.PATCH("/v1/notifications/read-all", h.MarkAllRead)
	r.PATCH("/v1/notifications/:id/read", h.MarkRead)
	return r
}

func TestNotificationHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("list with limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)
		uc.EXPECT().List(gomock.Any(), *testCustomer, 5).Return([]entities.Notification{
			{ID: "n-1", Title: "Quote #q-1 status changed to accepted", RelatedQuoteID: "q-1", CreatedAt: time.Now()},
		}, nil)
		r := newNotificationRouter(NewNotificationHandler(uc))

		w := doRequest(r, http.MethodGet, "/v1/notifications?limit=5", ``, testCustomer)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body struct {
			Items []map[string]any `json:"items"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if len(body.Items) != 1 || body.Items[0]["related_quote_id"] != "q-1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("unread count", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)
		uc.EXPECT().UnreadCount(gomock.Any(), *testAdmin).Return(3, nil)
		r := newNotificationRouter(NewNotificationHandler(uc))

		w := doRequest(r, http.MethodGet, "/v1/notifications/unread-count", ``, testAdmin)
		if w.Code != http.StatusOK || w.Body.String() != `{"count":3}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("mark read of someone else's notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)
		uc.EXPECT().MarkRead(gomock.Any(), *testCustomer, "n-9").Return(entities.Notification{}, usecase.ErrForbidden)
		r := newNotificationRouter(NewNotificationHandler(uc))

		w := doRequest(r, http.MethodPatch, "/v1/notifications/n-9/read", ``, testCustomer)
		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("mark all read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockINotificationUseCase(ctrl)
		uc.EXPECT().MarkAllRead(gomock.Any(), *testForwarder).Return(0, nil)
		r := newNotificationRouter(NewNotificationHandler(uc))

		w := doRequest(r, http.MethodPatch, "/v1/notifications/read-all", ``, testForwarder)
		if w.Code != http.StatusOK || w.Body.String() != `{"updated":0}` {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})
}
