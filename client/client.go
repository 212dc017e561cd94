package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// GenericFailureMessage is shown when the server gives no usable error text.
const GenericFailureMessage = "Something went wrong. Please try again."

// AuthError reports a 401 or 403. By the time a caller sees it the session
// has already been expired; it must be propagated, never swallowed.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("session rejected with status %d", e.Status)
}

// APIError carries a non-auth server rejection with the server's message
// verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

type idempotencyKeyContextKey struct{}

// WithIdempotencyKey pins the Idempotency-Key header for unsafe requests
// made with the returned context. A retry carrying the same key replays the
// server's cached response instead of posting a second transaction.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyContextKey{}, key)
}

// Client talks to the relief hub API. Requests carry the session's bearer
// token; unsafe requests carry an Idempotency-Key, pinned via
// WithIdempotencyKey or freshly generated. No retries happen at this layer.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// New builds a client for the API rooted at baseURL (the host part, without
// /api/relief-hub). Pass a nil httpClient to use http.DefaultClient, keeping
// the transport's own timeout semantics.
func New(baseURL string, session *Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/relief-hub",
		http:    httpClient,
		session: session,
	}
}

// Session exposes the client's session for login flows and tests.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method != http.MethodGet && method != http.MethodHead {
		key, _ := ctx.Value(idempotencyKeyContextKey{}).(string)
		if key == "" {
			key = uuid.NewString()
		}
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.session.Expire()
		return &AuthError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return err
		}
	}
	return nil
}

// serverMessage pulls the server's error text out of a failure body, falling
// back to the generic message.
func serverMessage(raw []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" {
		// Plain text error body, e.g. from the framework's error handler.
		return text
	}
	return GenericFailureMessage
}
