package routes

import (
	"devis_broker/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotes        = "/quotes"
	PathNotifications = "/notifications"
	PathForwarders    = "/forwarders"
)

func addQuoteRoutes(rg *gin.RouterGroup, h *handlers.QuoteHandler) {
	quotes := rg.Group(PathQuotes)
	{
		quotes.POST("", h.CreateQuote)
		quotes.GET("", h.ListQuotes)
		quotes.GET("/:id", h.GetQuote)
		quotes.PATCH("/:id", h.UpdateQuote)
		quotes.POST("/:id/attachments", h.AddAttachments)
		quotes.PATCH("/:id/assign", h.AssignForwarder)

		// Lifecycle transitions.
		quotes.PATCH("/:id/respond", h.RespondQuote)
		quotes.PATCH("/:id/refuse", h.RefuseQuote)
		quotes.PATCH("/:id/cancel", h.CancelQuote)
		quotes.PATCH("/:id/archive", h.ArchiveQuote)
		quotes.PATCH("/:id/process", h.ProcessQuote)
	}
}

func addNotificationRoutes(rg *gin.RouterGroup, h *handlers.NotificationHandler) {
	notifications := rg.Group(PathNotifications)
	{
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PATCH("/read-all", h.MarkAllRead)
		notifications.PATCH("/:id/read", h.MarkRead)
	}
}

func addForwarderRoutes(rg *gin.RouterGroup, h *handlers.ForwarderHandler) {
	forwarders := rg.Group(PathForwarders)
	{
		forwarders.POST("", h.RegisterForwarder)
		forwarders.GET("", h.ListForwarders)
		forwarders.PATCH("/:id/active", h.SetForwarderActive)
	}
}
