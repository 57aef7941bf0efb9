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
)

const msgChatFailed = "Sorry, I couldn't reach the assistant. Please try again."

// ChatCompleted carries the outcome of one /chat call.
type ChatCompleted struct {
	RequestID string
	Response  *model.ChatResponse
	Err       error
	Duration  time.Duration
}

// SendChat echoes text into the conversation and sends it. It is a no-op,
// returning nil, while a send is in flight or when text is blank.
func (c *Controller) SendChat(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if c.chat.Sending || text == "" {
		c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindChatSkip, Comp: "ctrl"})
		return nil
	}

	c.chat.Sending = true
	userMsg := model.ChatMessage{Role: model.RoleUser, Content: text}
	c.chat.History = append(c.chat.History, userMsg)
	c.chatLog = append(c.chatLog, LogEntry{Role: model.RoleUser, Content: text})

	req := model.ChatRequest{
		Item:     model.StringPtr(c.chat.CurrentItem),
		Messages: append([]model.ChatMessage(nil), c.chat.History...),
	}
	rid := uuid.NewString()
	b := c.backend

	c.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindChatSend, Comp: "ctrl", RequestID: rid, Item: c.chat.CurrentItem, Count: len(req.Messages)})
	logging.Debug("chat send", "rid", rid, "turns", len(req.Messages))

	return func() tea.Msg {
		ctx := backend.WithRequestID(context.Background(), rid)
		start := time.Now()
		resp, err := b.Chat(ctx, req)
		return ChatCompleted{RequestID: rid, Response: resp, Err: err, Duration: time.Since(start)}
	}
}

// ApplyChat applies a finished chat call. Sending is cleared on every path.
// A failure is shown in the log but never added to History.
func (c *Controller) ApplyChat(msg ChatCompleted) {
	c.chat.Sending = false

	ev := otel.Event{Comp: "ctrl", RequestID: msg.RequestID, Dur: msg.Duration}

	if msg.Err != nil || msg.Response == nil {
		text := msgChatFailed
		var apiErr *backend.APIError
		if errors.As(msg.Err, &apiErr) {
			text = apiErr.Message
		}
		c.chatLog = append(c.chatLog, LogEntry{Role: model.RoleAssistant, Content: text, Failed: true})

		ev.Level, ev.Kind = otel.LevelWarn, otel.KindChatError
		if msg.Err != nil {
			ev.Err = msg.Err.Error()
			logging.Warn("chat failed", "rid", msg.RequestID, "error", msg.Err)
		}
		c.events.Emit(ev)
		return
	}

	reply := msg.Response.Reply
	c.chat.History = append(c.chat.History, model.ChatMessage{Role: model.RoleAssistant, Content: reply})
	c.chatLog = append(c.chatLog, LogEntry{Role: model.RoleAssistant, Content: reply})

	if c.chat.CurrentItem == "" {
		c.chat.CurrentItem = strings.TrimSpace(render.Sanitize(msg.Response.Item))
	}

	ev.Level, ev.Kind, ev.Item = otel.LevelInfo, otel.KindChatReply, c.chat.CurrentItem
	c.events.Emit(ev)
}

// ToggleChat shows or hides the chat panel. Opening it dismisses the hint.
func (c *Controller) ToggleChat() {
	c.chatOpen = !c.chatOpen
	state := "closed"
	if c.chatOpen {
		state = "open"
		c.DismissHint()
	}
	c.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindChatToggle, Comp: "ctrl", Msg: state})
}

// CloseChat hides the chat panel if it is open.
func (c *Controller) CloseChat() {
	if c.chatOpen {
		c.ToggleChat()
	}
}
