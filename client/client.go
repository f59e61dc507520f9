// Package client is the data-access layer of the School Connect apps. It builds the API
// requests, attaches the bearer token kept in a TokenStore and decodes the JSON replies.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "http://localhost:8000/api"

// APIError is returned for every non-2xx reply.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string // validation errors, by JSON field name
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore replaces the default in-memory token store.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

// New returns a Client for the API rooted at baseURL (eg. http://localhost:8000/api).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		tokens:  NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// Do sends a request to endpoint (relative to the base URL). A non-nil body is JSON encoded for
// POST, PUT and PATCH requests. When out is non-nil and the reply is JSON, it is decoded into out.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	token, err := c.tokens.Token()
	if err != nil {
		return errors.Wrap(err, "reading token")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading %s %s reply", method, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 || !isJSON(resp.Header.Get("Content-Type")) {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decoding %s %s reply", method, endpoint)
	}
	return nil
}

func newAPIError(code int, data []byte) *APIError {
	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(data, &body) // unreadable bodies fall back to the generic message
	if body.Message == "" {
		body.Message = fmt.Sprintf("API request failed with status %d", code)
	}
	return &APIError{StatusCode: code, Message: body.Message, Fields: body.Errors}
}

// isJSON accepts application/json and the +json structured types, parameters included.
func isJSON(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}
