// Package otel is shopper's diagnostic channel.
//
// Every backend call, search, chat turn and hint is recorded as one Event
// and written as a JSONL line to <data dir>/shopper.events.jsonl. A
// RingBuffer keeps the newest events in memory for the ctrl+d overlay, and
// can fold api.* events back into per-request traces keyed by X-Request-ID.
package otel

import (
	"encoding/json"
	"time"
)

// Level is an event's severity. shopctl events filters on it.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind names what happened, as "<area>.<what>".
type EventKind string

const (
	// One per HTTP round trip, correlated by RequestID.
	KindAPIRequest  EventKind = "api.request"
	KindAPIResponse EventKind = "api.response"
	KindAPIError    EventKind = "api.error"

	// Controller search lifecycle.
	KindSearchStart    EventKind = "search.start"
	KindSearchInvalid  EventKind = "search.invalid"
	KindSearchComplete EventKind = "search.complete"
	KindSearchEmpty    EventKind = "search.empty"
	KindSearchError    EventKind = "search.error"

	// Chat panel, replies and the follow-up hint.
	KindChatSend    EventKind = "chat.send"
	KindChatSkip    EventKind = "chat.skip"
	KindChatReply   EventKind = "chat.reply"
	KindChatError   EventKind = "chat.error"
	KindChatToggle  EventKind = "chat.toggle"
	KindHintShow    EventKind = "chat.hint"
	KindHintDismiss EventKind = "chat.hint_dismiss"

	KindStoreError EventKind = "store.error"

	// Only emitted while TraceEnabled.
	KindKeyPress EventKind = "ui.key"

	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is one diagnostic record, written as a single JSONL line. Only Kind
// is required; Logger.Emit fills Time and SessionID.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "api", "ctrl", "ui", "main"
	SessionID string         `json:"session_id,omitempty"`
	RequestID string         `json:"rid,omitempty"` // X-Request-ID
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // set from Dur when encoding
	Count     int            `json:"count,omitempty"`
	Status    int            `json:"status,omitempty"`
	Path      string         `json:"path,omitempty"`
	Query     string         `json:"query,omitempty"`
	Item      string         `json:"item,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON writes Dur as fractional milliseconds.
func (e Event) MarshalJSON() ([]byte, error) {
	type wire Event
	w := wire(e)
	if e.Dur > 0 {
		w.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(w)
}
