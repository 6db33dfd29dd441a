package response

import (
	"time"

	"devis_broker/internal/domain/entities"
)

type ForwarderResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromForwarder(f entities.Forwarder) ForwarderResponse {
	return ForwarderResponse{ID: f.ID, Name: f.Name, Active: f.Active, CreatedAt: f.CreatedAt}
}

func FromForwarders(fs []entities.Forwarder) []ForwarderResponse {
	out := make([]ForwarderResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, FromForwarder(f))
	}
	return out
}
