// Package client is the typed Go client for the TryRack wardrobe service.
//
// Beyond plain endpoint wrappers it implements the coordination layer the
// mobile app drives: a fixed-cadence status poller for AI processing
// (Poller), the submission lifecycle state machine behind the processing
// overlay (Lifecycle), one-shot reconciliation of AI suggestions into an
// editable item form (Reconcile), and the worn/dirty composite batch
// mutation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tryrack-backend/dtos"
)

// Item mirrors the service's wardrobe item representation.
type Item struct {
	ID               uint                `json:"id"`
	UserID           uint                `json:"user_id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Category         string              `json:"category"`
	Colors           []string            `json:"colors"`
	Sizes            []string            `json:"sizes"`
	Tags             []string            `json:"tags"`
	Price            float64             `json:"price"`
	Formality        *float64            `json:"formality"`
	Season           string              `json:"season"`
	ImageOriginal    string              `json:"image_original"`
	ImageClean       string              `json:"image_clean"`
	Status           string              `json:"status"`
	ProcessingStatus string              `json:"processing_status"`
	AISuggestions    *dtos.AISuggestions `json:"ai_suggestions"`
	WearCount        int                 `json:"wear_count"`
	LastWornAt       *time.Time          `json:"last_worn_at"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ItemOutcome is the tagged result of fetching a single item. Gone means
// the record no longer exists server-side: when a processing item is
// deleted mid-flight the service answers 404, and callers must treat that
// as a normal terminal signal rather than an error.
type ItemOutcome struct {
	Item *Item
	Gone bool
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the wardrobe service on behalf of one user.
type Client struct {
	baseURL string
	userID  uint
	token   string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, userID uint, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("user_id", strconv.FormatUint(uint64(c.userID), 10))

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// ProcessImage submits a base64 data-URI image to the AI pipeline and
// returns the processing id to poll.
func (c *Client) ProcessImage(ctx context.Context, imageDataURI string) (*dtos.ProcessImageResponse, error) {
	var resp dtos.ProcessImageResponse
	err := c.do(ctx, http.MethodPost, "/api/wardrobe/process-image", nil,
		dtos.ProcessImageRequest{Image: imageDataURI}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetItem fetches one item. A 404 is returned as Gone, not as an error.
func (c *Client) GetItem(ctx context.Context, itemID uint) (ItemOutcome, error) {
	var item Item
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/wardrobe/%d", itemID), nil, nil, &item)
	if err != nil {
		if IsNotFound(err) {
			return ItemOutcome{Gone: true}, nil
		}
		return ItemOutcome{}, err
	}
	return ItemOutcome{Item: &item}, nil
}

// ListItems fetches the wardrobe, optionally filtered by category and
// status.
func (c *Client) ListItems(ctx context.Context, category, status string) ([]Item, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if status != "" {
		query.Set("status", status)
	}

	var items []Item
	if err := c.do(ctx, http.MethodGet, "/api/wardrobe/", query, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateItem persists a new wardrobe item.
func (c *Client) CreateItem(ctx context.Context, req dtos.WardrobeItemCreate) (*Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodPost, "/api/wardrobe/", nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies a partial update.
func (c *Client) UpdateItem(ctx context.Context, itemID uint, req dtos.WardrobeItemUpdate) (*Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/wardrobe/%d", itemID), nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStatus changes one item's laundry status.
func (c *Client) UpdateStatus(ctx context.Context, itemID uint, status string) (*Item, error) {
	var item Item
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/wardrobe/%d/status", itemID), nil,
		dtos.ItemStatusUpdate{Status: status}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// BatchUpdateStatus changes the status of several items at once. A
// partially failed batch is a successful call whose result carries
// per-item errors; callers must inspect the counts.
func (c *Client) BatchUpdateStatus(ctx context.Context, itemIDs []uint, status string) (*dtos.BatchStatusResponse, error) {
	var resp dtos.BatchStatusResponse
	err := c.do(ctx, http.MethodPatch, "/api/wardrobe/batch-status", nil,
		dtos.BatchStatusRequest{ItemIDs: itemIDs, Status: status}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, itemID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/wardrobe/%d", itemID), nil, nil, nil)
}

// MarkWornAndDirty records a wear and sends the items to the laundry in
// one user action. The backend status field is single-valued and wear
// counting fires on transitions into worn, so this must be two ordered
// batch calls: worn first, then dirty. The second call is never issued
// if the first fails outright.
func (c *Client) MarkWornAndDirty(ctx context.Context, itemIDs []uint) (worn, dirty *dtos.BatchStatusResponse, err error) {
	worn, err = c.BatchUpdateStatus(ctx, itemIDs, "worn")
	if err != nil {
		return nil, nil, fmt.Errorf("marking items worn: %w", err)
	}

	dirty, err = c.BatchUpdateStatus(ctx, itemIDs, "dirty")
	if err != nil {
		return worn, nil, fmt.Errorf("marking items dirty: %w", err)
	}

	return worn, dirty, nil
}
