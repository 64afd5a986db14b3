// Package backend is the HTTP client for the turn-resolution backend.
//
// The backend owns all durable team state (position, coins, stars,
// inventory); the bot only issues requests against it and renders the
// responses. Response bodies are normalized once, here: list-shaped bodies
// are wrapped as {"items": [...]} and string bodies that hold JSON are
// decoded a second time, because the deployed backend double-encodes some
// responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrConnection marks a transport-level failure: the backend could not be
// reached at all. Callers show a friendlier message for this case than for
// an HTTP-level rejection.
var ErrConnection = errors.New("backend connection failed")

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Body)
}

// Client issues JSON requests against the turn backend.
type Client struct {
	baseURL string
	token   string
	logger  *slog.Logger
	http    *http.Client
}

// New builds a Client for the given base URL. token may be empty; it is
// sent as a bearer token when set.
func New(log *slog.Logger, baseURL, token string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("backend client: base url is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  log.With(slog.String("client", "backend")),
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Do issues a request and returns the normalized response object.
// 200 and 201 are success; any other status yields a *StatusError.
// An unreachable backend yields an error wrapping ErrConnection.
func (c *Client) Do(ctx context.Context, method, path string, payload any) (map[string]any, error) {
	var body io.Reader
	hasBody := false
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
		hasBody = true
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	// GET/DELETE without a payload carry no body, so no Content-Type.
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("backend unreachable",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrConnection, err)
	}

	c.logger.Debug("backend call",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(raw)),
		}
	}

	return normalize(c.logger, raw), nil
}

// Get issues a GET request with no body.
func (c *Client) Get(ctx context.Context, path string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request. payload may be nil.
func (c *Client) Post(ctx context.Context, path string, payload any) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, path, payload)
}

// normalize decodes a successful response body into a single object shape.
// Lists become {"items": [...]}; scalars become {"value": ...}; a body that
// fails to decode is kept as text under "value" rather than failing the call.
func normalize(log *slog.Logger, raw []byte) map[string]any {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}
	}

	var decoded any
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		log.Warn("backend response is not JSON", slog.String("body", clip(string(trimmed))))
		return map[string]any{"value": string(trimmed)}
	}

	// Double-encoded body: a JSON string whose contents are themselves JSON.
	if s, ok := decoded.(string); ok {
		var inner any
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			decoded = inner
		}
	}

	switch v := decoded.(type) {
	case map[string]any:
		return v
	case []any:
		return map[string]any{"items": v}
	default:
		return map[string]any{"value": v}
	}
}

func clip(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
