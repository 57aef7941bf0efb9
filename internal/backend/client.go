// Package backend is the HTTP client for the recommendation service.
//
// Two endpoints, both JSON over POST: /find returns ranked items for a query
// and /chat continues a conversation about the chosen item. Failures come back
// in one of two shapes:
//
//   - *APIError when the service answered but reported a problem (non-2xx
//     status or an "error" field in the body). Message is safe to show.
//   - an error wrapping ErrTransport when no usable answer arrived (dial or
//     read failure, timeout, malformed JSON).
//
// There is no retry. With no timeout configured a hung request stays pending.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abelbrown/shopper/internal/logging"
	"github.com/abelbrown/shopper/internal/model"
	"github.com/abelbrown/shopper/internal/otel"
)

// ErrTransport marks failures where the backend produced no usable answer.
var ErrTransport = errors.New("backend unreachable")

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// APIError is a failure the backend itself reported.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to /find and /chat.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	events  *otel.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A nil client keeps
// the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request, whatever http.Client is in use. Zero
// means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithEvents attaches a diagnostic event logger.
func WithEvents(l *otel.Logger) Option {
	return func(c *Client) { c.events = l }
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// WithRequestID returns a context whose backend call carries id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id set by WithRequestID, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Find issues POST /find.
func (c *Client) Find(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	var out model.SearchResponse
	status, err := c.post(ctx, "/find", req, &out)
	if err != nil {
		return nil, err
	}
	if msg := strings.TrimSpace(out.Error); msg != "" {
		c.emitAPIError(ctx, "/find", status, msg)
		return nil, &APIError{Status: status, Message: msg}
	}
	return &out, nil
}

// Chat issues POST /chat.
func (c *Client) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	if req.Messages == nil {
		req.Messages = []model.ChatMessage{}
	}
	var out model.ChatResponse
	status, err := c.post(ctx, "/chat", req, &out)
	if err != nil {
		return nil, err
	}
	if msg := strings.TrimSpace(out.Error); msg != "" {
		c.emitAPIError(ctx, "/chat", status, msg)
		return nil, &APIError{Status: status, Message: msg}
	}
	return &out, nil
}

// post sends body as JSON and decodes a 2xx response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) (int, error) {
	rid := RequestIDFrom(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal %s request: %w", path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("create %s request: %w", path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", rid)

	c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindAPIRequest, Comp: "api", RequestID: rid, Path: path})
	logging.Debug("backend request", "path", path, "rid", rid)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.emitTransport(rid, path, 0, time.Since(start), err)
		return 0, fmt.Errorf("%w: post %s: %w", ErrTransport, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	dur := time.Since(start)
	if err != nil {
		c.emitTransport(rid, path, resp.StatusCode, dur, err)
		return resp.StatusCode, fmt.Errorf("%w: read %s response: %w", ErrTransport, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(respBody)
		if msg == "" {
			msg = fmt.Sprintf("request failed (status %d)", resp.StatusCode)
		}
		c.events.Emit(otel.Event{
			Level: otel.LevelWarn, Kind: otel.KindAPIError, Comp: "api",
			RequestID: rid, Path: path, Status: resp.StatusCode, Dur: dur, Err: msg,
		})
		logging.Warn("backend error", "path", path, "status", resp.StatusCode, "error", msg)
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		c.emitTransport(rid, path, resp.StatusCode, dur, err)
		return resp.StatusCode, fmt.Errorf("%w: decode %s response: %w", ErrTransport, path, err)
	}

	c.events.Emit(otel.Event{
		Level: otel.LevelInfo, Kind: otel.KindAPIResponse, Comp: "api",
		RequestID: rid, Path: path, Status: resp.StatusCode, Dur: dur,
	})
	logging.Debug("backend response", "path", path, "status", resp.StatusCode, "ms", dur.Milliseconds())
	return resp.StatusCode, nil
}

func (c *Client) emitTransport(rid, path string, status int, dur time.Duration, err error) {
	c.events.Emit(otel.Event{
		Level: otel.LevelError, Kind: otel.KindAPIError, Comp: "api",
		RequestID: rid, Path: path, Status: status, Dur: dur, Err: err.Error(),
	})
	logging.Error("backend transport failure", "path", path, "rid", rid, "error", err)
}

func (c *Client) emitAPIError(ctx context.Context, path string, status int, msg string) {
	c.events.Emit(otel.Event{
		Level: otel.LevelWarn, Kind: otel.KindAPIError, Comp: "api",
		RequestID: RequestIDFrom(ctx), Path: path, Status: status, Err: msg,
	})
	logging.Warn("backend reported error", "path", path, "error", msg)
}

// errorMessage extracts {"error": "..."} from a body, or "".
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return strings.TrimSpace(e.Error)
}
