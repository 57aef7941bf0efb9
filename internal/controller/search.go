package controller

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/abelbrown/shopper/internal/backend"
	"github.com/abelbrown/shopper/internal/logging"
	"github.com/abelbrown/shopper/internal/model"
	"github.com/abelbrown/shopper/internal/otel"
	"github.com/abelbrown/shopper/internal/render"
	"github.com/abelbrown/shopper/internal/store"
)

// Status texts.
const (
	msgEmptyQuery = "Please enter what you are looking for."
	msgSearching  = "Searching…"
	msgTransport  = "Something went wrong reaching the recommendation service. Please try again."
)

// FocusQuery asks the UI to move focus to the query input.
type FocusQuery struct{}

// SearchCompleted carries the outcome of one /find call.
type SearchCompleted struct {
	Seq       int
	RequestID string
	Request   model.SearchRequest
	Response  *model.SearchResponse
	Err       error
	Duration  time.Duration
}

// HintDue fires when the chat hint delay has elapsed.
type HintDue struct {
	Seq int
}

// NewSearchRequest builds a request from raw form text. ok is false when the
// query is blank.
func NewSearchRequest(f SearchForm) (req model.SearchRequest, ok bool) {
	q := strings.TrimSpace(f.Query)
	if q == "" {
		return model.SearchRequest{}, false
	}
	return model.SearchRequest{
		Query:     q,
		MinPrice:  model.ParsePrice(f.MinPrice),
		MaxPrice:  model.ParsePrice(f.MaxPrice),
		Reasoning: model.StringPtr(f.Notes),
	}, true
}

// HandleSearch validates the form and starts a search. A blank query sets an
// error status and returns a FocusQuery command without touching the network.
func (c *Controller) HandleSearch(f SearchForm) tea.Cmd {
	req, ok := NewSearchRequest(f)
	if !ok {
		c.status = Status{Text: msgEmptyQuery, Tone: ToneError}
		c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchInvalid, Comp: "ctrl"})
		return func() tea.Msg { return FocusQuery{} }
	}

	c.seq++
	c.inflight++
	c.hint = false
	c.status = Status{Text: msgSearching, Tone: ToneBusy}

	rid := uuid.NewString()
	seq := c.seq
	b, searchLog, events := c.backend, c.log, c.events

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchStart, Comp: "ctrl", RequestID: rid, Query: req.Query})
	logging.Info("search started", "query", req.Query, "rid", rid)

	return func() tea.Msg {
		ctx := backend.WithRequestID(context.Background(), rid)
		start := time.Now()
		resp, err := b.Find(ctx, req)
		msg := SearchCompleted{
			Seq:       seq,
			RequestID: rid,
			Request:   req,
			Response:  resp,
			Err:       err,
			Duration:  time.Since(start),
		}
		if searchLog != nil {
			if err := searchLog.RecordSearch(ctx, searchEntry(msg)); err != nil {
				events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindStoreError, Comp: "ctrl", RequestID: rid, Err: err.Error()})
				logging.Warn("search log write failed", "error", err)
			}
		}
		return msg
	}
}

// ApplySearch applies a finished search. The search control is
// re-enabled on every path. A hint command follows a non-empty success.
func (c *Controller) ApplySearch(msg SearchCompleted) tea.Cmd {
	if c.inflight > 0 {
		c.inflight--
	}

	ev := otel.Event{Comp: "ctrl", RequestID: msg.RequestID, Query: msg.Request.Query, Dur: msg.Duration}

	var apiErr *backend.APIError
	switch {
	case errors.As(msg.Err, &apiErr):
		c.status = Status{Text: apiErr.Message, Tone: ToneError}
		ev.Level, ev.Kind, ev.Err, ev.Status = otel.LevelWarn, otel.KindSearchError, apiErr.Message, apiErr.Status
		c.events.Emit(ev)
		return nil

	case msg.Err != nil:
		c.status = Status{Text: msgTransport, Tone: ToneError}
		ev.Level, ev.Kind, ev.Err = otel.LevelError, otel.KindSearchError, msg.Err.Error()
		c.events.Emit(ev)
		logging.Error("search failed", "query", msg.Request.Query, "error", msg.Err)
		return nil

	case msg.Response == nil:
		c.status = Status{Text: msgTransport, Tone: ToneError}
		ev.Level, ev.Kind, ev.Err = otel.LevelError, otel.KindSearchError, "empty response"
		c.events.Emit(ev)
		return nil
	}

	resp := msg.Response
	c.view = render.Build(*resp, c.cfg.Render)
	c.hasView = true

	if c.view.Empty {
		c.status = Status{Text: c.view.Status, Tone: ToneInfo}
		ev.Level, ev.Kind = otel.LevelInfo, otel.KindSearchEmpty
		c.events.Emit(ev)
		return nil
	}

	c.status = Status{Text: c.view.Status, Tone: ToneSuccess}
	c.adoptItem(resp)

	ev.Level, ev.Kind, ev.Count, ev.Item = otel.LevelInfo, otel.KindSearchComplete, len(resp.Results), c.chat.CurrentItem
	c.events.Emit(ev)
	logging.Info("search complete", "query", msg.Request.Query, "results", len(resp.Results), "ms", msg.Duration.Milliseconds())

	return c.ShowChatHint()
}

// adoptItem sets CurrentItem from the top result (falling back to the
// response item) unless one is already set.
func (c *Controller) adoptItem(resp *model.SearchResponse) {
	if c.chat.CurrentItem != "" {
		return
	}
	if len(resp.Results) > 0 {
		if t := render.Sanitize(resp.Results[0].DisplayTitle()); strings.TrimSpace(t) != "" {
			c.chat.CurrentItem = strings.TrimSpace(t)
			return
		}
	}
	c.chat.CurrentItem = strings.TrimSpace(render.Sanitize(resp.Item))
}

// ShowChatHint schedules the hint bubble. Returns nil when the hint was
// dismissed or the chat is already open.
func (c *Controller) ShowChatHint() tea.Cmd {
	if c.chat.HintDismissed || c.chatOpen {
		return nil
	}
	seq := c.seq
	return tea.Tick(c.cfg.HintDelay, func(time.Time) tea.Msg {
		return HintDue{Seq: seq}
	})
}

// ApplyHint shows the hint unless it was dismissed or the chat opened while
// the timer ran.
func (c *Controller) ApplyHint(msg HintDue) {
	if c.chat.HintDismissed || c.chatOpen || msg.Seq != c.seq {
		return
	}
	c.hint = true
	c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindHintShow, Comp: "ctrl"})
}

// DismissHint hides the hint for the rest of the session. Idempotent.
func (c *Controller) DismissHint() {
	c.hint = false
	if c.chat.HintDismissed {
		return
	}
	c.chat.HintDismissed = true
	c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindHintDismiss, Comp: "ctrl"})
}

func searchEntry(msg SearchCompleted) store.Search {
	e := store.Search{
		RequestID: msg.RequestID,
		Query:     msg.Request.Query,
		MinPrice:  msg.Request.MinPrice,
		MaxPrice:  msg.Request.MaxPrice,
		Duration:  msg.Duration,
	}
	if msg.Request.Reasoning != nil {
		e.Notes = *msg.Request.Reasoning
	}

	var apiErr *backend.APIError
	switch {
	case errors.As(msg.Err, &apiErr):
		e.Outcome, e.Err = store.OutcomeBackend, apiErr.Message
	case msg.Err != nil:
		e.Outcome, e.Err = store.OutcomeTransport, msg.Err.Error()
	case msg.Response == nil || len(msg.Response.Results) == 0:
		e.Outcome = store.OutcomeEmpty
	default:
		e.Outcome = store.OutcomeOK
		e.Results = len(msg.Response.Results)
		e.Source = msg.Response.SourceLabel()
		e.TopTitle = msg.Response.Results[0].DisplayTitle()
	}
	return e
}
