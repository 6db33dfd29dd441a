package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devis_broker/internal/domain/entities"
)

// HTTPError is a non-2xx answer from the broker API.
type HTTPError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("http %d", e.StatusCode)
	}
	return fmt.Sprintf("http %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Wire shapes of the /v1/notifications answers.
type (
	notificationBody struct {
		ID             string    `json:"id"`
		Title          string    `json:"title"`
		Body           string    `json:"body"`
		RelatedQuoteID string    `json:"related_quote_id"`
		Read           bool      `json:"read"`
		CreatedAt      time.Time `json:"created_at"`
	}
	notificationListBody struct {
		Items []notificationBody `json:"items"`
	}
	unreadCountBody struct {
		Count int `json:"count"`
	}
	markAllReadBody struct {
		Updated int `json:"updated"`
	}
)

// HTTPFetcher reads one actor's inbox through the /v1 notification
// endpoints. It does not retry; the poller's backoff does.
type HTTPFetcher struct {
	baseURL    string
	actor      entities.Actor
	httpClient *http.Client
}

var _ Fetcher = (*HTTPFetcher)(nil)

func NewHTTPFetcher(baseURL string, actor entities.Actor, httpClient *http.Client) *HTTPFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		actor:      actor,
		httpClient: httpClient,
	}
}

func (c *HTTPFetcher) UnreadCount(ctx context.Context) (int, error) {
	var out unreadCountBody
	if err := c.doJSON(ctx, http.MethodGet, "/v1/notifications/unread-count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *HTTPFetcher) List(ctx context.Context, limit int) ([]Notification, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/v1/notifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out notificationListBody
	if err := c.doJSON(ctx, http.MethodGet, path, &out); err != nil {
		return nil, err
	}
	items := make([]Notification, 0, len(out.Items))
	for _, n := range out.Items {
		items = append(items, Notification{
			ID:             n.ID,
			Title:          n.Title,
			Body:           n.Body,
			RelatedQuoteID: n.RelatedQuoteID,
			Read:           n.Read,
			CreatedAt:      n.CreatedAt,
		})
	}
	return items, nil
}

func (c *HTTPFetcher) MarkRead(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPatch, "/v1/notifications/"+url.PathEscape(id)+"/read", nil)
}

func (c *HTTPFetcher) MarkAllRead(ctx context.Context) (int, error) {
	var out markAllReadBody
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/notifications/read-all", &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// doJSON sends a bodyless request as the configured actor and decodes a JSON
// answer into out when out is not nil.
func (c *HTTPFetcher) doJSON(ctx context.Context, method, requestPath string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set(entities.HeaderActorID, c.actor.ID)
	req.Header.Set(entities.HeaderActorRole, string(c.actor.Role))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	payload, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		if out == nil || len(payload) == 0 {
			return nil
		}
		return json.Unmarshal(payload, out)
	}

	var errPayload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(payload, &errPayload)
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Code:       errPayload.Code,
		Message:    errPayload.Message,
	}
}
