// Package mockapi serves a canned /find and /chat backend for development,
// demos and tests. Responses are deterministic functions of the request.
package mockapi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abelbrown/shopper/internal/logging"
	"github.com/abelbrown/shopper/internal/model"
)

// ErrNoQuery is the message returned for a blank search.
const ErrNoQuery = "Nothing found because you didn't type anything in to search for"

// Config tunes the mock.
type Config struct {
	// Latency is added before every /find and /chat response.
	Latency time.Duration
	// Empty makes /find return zero results for any query containing it.
	Empty string
}

type findRequest struct {
	Query    string   `json:"query"`
	Item     string   `json:"item"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Notes    *string  `json:"reasoning"`
}

type handler struct {
	cfg Config
}

// New returns the mock router.
func New(cfg Config) http.Handler {
	h := &handler{cfg: cfg}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(echoRequestID)
	r.Use(requestLog)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/find", h.find)
	r.Post("/chat", h.chat)
	return r
}

func (h *handler) find(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	h.wait(r)

	item := strings.TrimSpace(req.Query)
	if item == "" {
		item = strings.TrimSpace(req.Item)
	}
	if item == "" {
		// 200 with an error field, as the real service does
		writeJSON(w, http.StatusOK, map[string]string{"error": ErrNoQuery})
		return
	}

	source := "mock"
	resp := model.SearchResponse{
		Item:    item,
		Source:  &source,
		Filters: &model.Filters{MinPrice: req.MinPrice, MaxPrice: req.MaxPrice},
		Results: []model.RecommendationItem{},
	}
	if h.cfg.Empty == "" || !strings.Contains(strings.ToLower(item), strings.ToLower(h.cfg.Empty)) {
		resp.Results = Recommendations(item, req.MinPrice)
		resp.Reasoning = &model.Reasoning{
			Condition:   "If subscription models were acceptable",
			Alternative: item + " Pro Subscription",
			Text:        "A subscription plan could offer continuous upgrades, but one-time purchases better fit your constraints.",
		}
	}
	resp.Count = len(resp.Results)
	writeJSON(w, http.StatusOK, resp)
}

// Recommendations returns the three canned tiers for item. Prices derive
// from minPrice (default 100).
func Recommendations(item string, minPrice *float64) []model.RecommendationItem {
	base := 100.0
	if minPrice != nil && *minPrice > 0 {
		base = *minPrice
	}
	tiers := []struct {
		prefix  string
		factor  float64
		rating  float64
		reviews int
		summary string
		reason  string
	}{
		{"Premium", 1, 94, 2140, "High quality build with excellent long-term value.", "Best overall balance of quality, durability, and features."},
		{"Standard", 0.7, 88, 5310, "Reliable option that meets most user needs.", "Great value without unnecessary premium features."},
		{"Budget", 0.5, 81, 890, "Basic functionality at the lowest price.", "Best choice if cost is the top priority."},
	}

	out := make([]model.RecommendationItem, len(tiers))
	for i, t := range tiers {
		rating, reviews := t.rating, t.reviews
		link := fmt.Sprintf("https://shop.example/%s/%s", strings.ToLower(t.prefix), slug(item))
		out[i] = model.RecommendationItem{
			Title:       t.prefix + " " + item,
			Price:       model.NumberPrice(math.Floor(base * t.factor)),
			Currency:    "USD",
			Rating:      &rating,
			ReviewCount: &reviews,
			Summary:     t.summary,
			Reason:      t.reason,
			URL:         &link,
		}
	}
	return out
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No messages provided"})
		return
	}
	h.wait(r)

	var lastUser, firstUser string
	for _, m := range req.Messages {
		if m.Role != model.RoleUser {
			continue
		}
		if firstUser == "" {
			firstUser = m.Content
		}
		lastUser = m.Content
	}

	item := ""
	if req.Item != nil {
		item = strings.TrimSpace(*req.Item)
	}
	if item == "" {
		item = strings.TrimSpace(firstUser)
	}

	writeJSON(w, http.StatusOK, model.ChatResponse{
		Reply: reply(item, lastUser, len(req.Messages)),
		Item:  item,
	})
}

func reply(item, question string, turns int) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "price") || strings.Contains(q, "cheap") || strings.Contains(q, "cost"):
		return fmt.Sprintf("The Budget %s is the lowest-cost option; the Premium tier costs about twice as much.", item)
	case strings.Contains(q, "warranty") || strings.Contains(q, "return"):
		return fmt.Sprintf("Most %s listings include a one-year warranty and 30-day returns.", item)
	case turns > 1:
		return fmt.Sprintf("Good follow-up. For %s I would still lean towards the Premium tier unless budget is tight.", item)
	default:
		return fmt.Sprintf("Happy to help with %s. Ask about price, features or warranty.", item)
	}
}

func (h *handler) wait(r *http.Request) {
	if h.cfg.Latency <= 0 {
		return
	}
	select {
	case <-time.After(h.cfg.Latency):
	case <-r.Context().Done():
	}
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-Request-ID"); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		next.ServeHTTP(w, r)
	})
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Info("mock request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"ms", time.Since(start).Milliseconds(),
			"rid", r.Header.Get("X-Request-ID"),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
