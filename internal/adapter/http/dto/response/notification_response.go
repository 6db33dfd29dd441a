package response

import (
	"time"

	"devis_broker/internal/domain/entities"
)

type NotificationResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	RelatedQuoteID string    `json:"related_quote_id"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Items []NotificationResponse `json:"items"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

func FromNotification(n entities.Notification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID,
		Title:          n.Title,
		Body:           n.Body,
		RelatedQuoteID: n.RelatedQuoteID,
		Read:           n.Read,
		CreatedAt:      n.CreatedAt,
	}
}

func FromNotifications(ns []entities.Notification) NotificationListResponse {
	items := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		items = append(items, FromNotification(n))
	}
	return NotificationListResponse{Items: items}
}
