package handlers

import (
	"net/http"

	request "devis_broker/internal/adapter/http/dto/request"
	response "devis_broker/internal/adapter/http/dto/response"
	"devis_broker/internal/usecase"

	"github.com/gin-gonic/gin"
)

// NotificationHandler is the read side polled by the dashboards.

type NotificationHandler struct {
	usecase usecase.INotificationUseCase
}

func NewNotificationHandler(uc usecase.INotificationUseCase) *NotificationHandler {
	return &NotificationHandler{usecase: uc}
}

// ListNotifications godoc
// @Summary Latest notifications of the caller's inbox
// @Tags notifications
// @Produce json
// @Param limit query int false "Max items (default 20, max 100)"
// @Success 200 {object} response.NotificationListResponse
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	var query request.ListNotificationsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	items, err := h.usecase.List(c.Request.Context(), actor, query.Limit)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromNotifications(items))
}

// UnreadCount godoc
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} response.UnreadCountResponse
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	count, err := h.usecase.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} response.NotificationResponse
// @Failure 404 {object} pkg.HTTPError
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	n, err := h.usecase.MarkRead(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromNotification(n))
}

// MarkAllRead godoc
// @Summary Mark the whole inbox read
// @Tags notifications
// @Produce json
// @Success 200 {object} response.MarkAllReadResponse
// @Router /notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := actorFromRequest(c)
	if !ok {
		return
	}
	changed, err := h.usecase.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		writeError(c, mapUseCaseError(err))
		return
	}
	c.JSON(http.StatusOK, response.MarkAllReadResponse{Updated: changed})
}
