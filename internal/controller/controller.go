// Package controller implements the search and chat interaction logic that
// sits between the terminal UI and the recommendation backend.
//
// # Architecture
//
//	┌──────┐  form / keys   ┌────────────┐  tea.Cmd   ┌─────────┐
//	│  UI  │ ─────────────> │ Controller │ ─────────> │ Backend │
//	│      │ <───────────── │  (state)   │ <───────── │         │
//	└──────┘  View, status  └────────────┘  tea.Msg   └─────────┘
//
// The Controller owns all interaction state: the chat history, the current
// item under discussion, the in-flight flags, the status line and the
// rendered result View. Operations that talk to the network return a tea.Cmd;
// the command runs off the update goroutine and reports back with a message
// (SearchCompleted, ChatCompleted) that the UI passes to the matching handler.
//
// # Concurrency
//
// A Controller is NOT safe for concurrent use. Every method must be called
// from the Bubble Tea update goroutine. Commands never touch controller state;
// they only build a result message.
//
// # Guards
//
// Search has a presentation-only guard: Searching() tells the UI to disable
// the control, but a second HandleSearch while one is in flight is still
// issued. Chat is true single-flight: SendChat while Sending is a no-op.
package controller

import (
	"context"
	"time"

	"github.com/abelbrown/shopper/internal/model"
	"github.com/abelbrown/shopper/internal/otel"
	"github.com/abelbrown/shopper/internal/render"
	"github.com/abelbrown/shopper/internal/store"
)

// Backend is the subset of the HTTP client the controller needs.
type Backend interface {
	Find(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
	Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
}

// SearchLog records search outcomes. Optional.
type SearchLog interface {
	RecordSearch(ctx context.Context, s store.Search) error
}

// Tone colours the status line.
type Tone int

const (
	ToneInfo Tone = iota
	ToneBusy
	ToneSuccess
	ToneError
)

// Status is the line shown under the search form.
type Status struct {
	Text string
	Tone Tone
}

// ChatState is the conversation state for the lifetime of the process.
type ChatState struct {
	History       []model.ChatMessage
	CurrentItem   string
	Sending       bool
	HintDismissed bool
}

// LogEntry is one line of the visible chat log. Failed entries are shown but
// never sent back to the backend.
type LogEntry struct {
	Role    string
	Content string
	Failed  bool
}

// SearchForm is the raw text of the search inputs.
type SearchForm struct {
	Query    string
	MinPrice string
	MaxPrice string
	Notes    string
}

// Config configures a Controller.
type Config struct {
	Render    render.Options
	HintDelay time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Render:    render.Options{Locale: "en-US", Currency: "USD"},
		HintDelay: 1200 * time.Millisecond,
	}
}

// Controller holds interaction state. Create with New.
type Controller struct {
	backend Backend
	log     SearchLog
	events  *otel.Logger
	cfg     Config

	chat     ChatState
	chatLog  []LogEntry
	chatOpen bool
	hint     bool

	inflight int
	seq      int
	status   Status
	view     render.View
	hasView  bool
}

// Option configures optional collaborators.
type Option func(*Controller)

// WithSearchLog records every search outcome.
func WithSearchLog(l SearchLog) Option {
	return func(c *Controller) { c.log = l }
}

// WithEvents attaches a diagnostic event logger.
func WithEvents(l *otel.Logger) Option {
	return func(c *Controller) { c.events = l }
}

// New creates a Controller talking to b.
func New(b Backend, cfg Config, opts ...Option) *Controller {
	if cfg.HintDelay <= 0 {
		cfg.HintDelay = DefaultConfig().HintDelay
	}
	c := &Controller{
		backend: b,
		cfg:     cfg,
		status:  Status{Text: "Describe what you are looking for and press enter."},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the current status line.
func (c *Controller) Status() Status { return c.status }

// Searching reports whether the search control should be disabled.
func (c *Controller) Searching() bool { return c.inflight > 0 }

// View returns the latest rendered results and whether there are any.
func (c *Controller) View() (render.View, bool) { return c.view, c.hasView }

// Chat returns a copy of the chat state.
func (c *Controller) Chat() ChatState {
	s := c.chat
	s.History = append([]model.ChatMessage(nil), c.chat.History...)
	return s
}

// ChatLog returns the visible chat log.
func (c *Controller) ChatLog() []LogEntry { return c.chatLog }

// ChatOpen reports whether the chat panel is shown.
func (c *Controller) ChatOpen() bool { return c.chatOpen }

// HintVisible reports whether the chat hint bubble is shown.
func (c *Controller) HintVisible() bool { return c.hint }

// SendLabel is the label of the chat send control.
func (c *Controller) SendLabel() string {
	if c.chat.Sending {
		return "Sending…"
	}
	return "Send"
}
