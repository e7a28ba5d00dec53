// Package client calls the CRM HTTP API. The scheduled jobs use it instead of
// touching the database directly.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the API rooted at BaseURL, e.g. http://localhost:8000/api.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// RestockedProduct is one entry of updateLowStockProducts.updatedProducts.
type RestockedProduct struct {
	ID    json.Number `json:"id"`
	Name  string      `json:"name"`
	Stock int         `json:"stock"`
}

type RestockResult struct {
	Success         bool               `json:"success"`
	Message         string             `json:"message"`
	UpdatedProducts []RestockedProduct `json:"updatedProducts"`
}

// OrderSummary carries what the reminder job needs. OrderDate stays raw so
// the caller decides what to do with values it cannot parse.
type OrderSummary struct {
	ID        json.Number `json:"id"`
	OrderDate string      `json:"orderDate"`
	Customer  *struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// APIError is returned when the API answers with an errors envelope.
type APIError struct {
	Status  int
	Message string
	Kind    string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Kind, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) Hello(ctx context.Context) (string, error) {
	var out string
	if err := c.do(ctx, http.MethodGet, "hello", nil, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) UpdateLowStockProducts(ctx context.Context) (*RestockResult, error) {
	var out RestockResult
	if err := c.do(ctx, http.MethodPost, "updateLowStockProducts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllOrders lists orders matching the filter query parameters.
func (c *Client) AllOrders(ctx context.Context, filter url.Values) ([]OrderSummary, error) {
	var out []OrderSummary
	if err := c.do(ctx, http.MethodGet, "allOrders", filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, op string, query url.Values, into any) error {
	u := c.BaseURL + "/" + op
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}

	var env struct {
		Data   map[string]json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
			Kind    string `json:"kind"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("unreadable response: %s", strings.TrimSpace(string(body)))}
	}
	if len(env.Errors) > 0 {
		return &APIError{Status: resp.StatusCode, Message: env.Errors[0].Message, Kind: env.Errors[0].Kind}
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	raw, ok := env.Data[op]
	if !ok {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("response has no %s field", op)}
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("failed to decode %s: %w", op, err)
	}
	return nil
}
