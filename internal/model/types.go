// Package model defines the wire types exchanged with the recommendation
// backend.
//
// # Wire Format
//
// Both endpoints speak JSON. Absent optional values are sent as explicit
// null, never omitted and never zero:
//
//	POST /find  {"query":"headphones","min_price":50,"max_price":null,"reasoning":null}
//	POST /chat  {"item":"Premium headphones","messages":[{"role":"user","content":"..."}]}
//
// The backend is loosely typed. A price may arrive as a number or a string, a
// title may be called "name", a summary may be called "description", and
// reasoning may be a plain string or an object. The types here absorb those
// variations so the rest of the client sees one shape.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SearchRequest is the body of POST /find.
type SearchRequest struct {
	Query     string   `json:"query"`
	MinPrice  *float64 `json:"min_price"`
	MaxPrice  *float64 `json:"max_price"`
	Reasoning *string  `json:"reasoning"`
}

// Price is a backend price that may be a number or free text.
type Price struct {
	Amount  float64
	Text    string
	Numeric bool
	Present bool
}

// NumberPrice returns a numeric Price.
func NumberPrice(v float64) Price {
	return Price{Amount: v, Numeric: true, Present: true}
}

// TextPrice returns a free-text Price such as "$199" or "from 40 EUR".
func TextPrice(s string) Price {
	return Price{Text: s, Present: s != ""}
}

// UnmarshalJSON accepts a JSON number, a JSON string, or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		*p = TextPrice(strings.TrimSpace(s))
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	*p = NumberPrice(v)
	return nil
}

// MarshalJSON writes a number, a string, or null.
func (p Price) MarshalJSON() ([]byte, error) {
	switch {
	case !p.Present:
		return []byte("null"), nil
	case p.Numeric:
		return json.Marshal(p.Amount)
	default:
		return json.Marshal(p.Text)
	}
}

// RecommendationItem is one backend-ranked candidate. Rank is positional; a
// "rank" field sent by the backend is ignored.
type RecommendationItem struct {
	Title       string   `json:"title,omitempty"`
	Name        string   `json:"name,omitempty"`
	Price       Price    `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	MatchScore  *float64 `json:"score,omitempty"` // older backends send a 0..100 score instead of rating
	ReviewCount *int     `json:"review_count,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	URL         *string  `json:"url,omitempty"`
}

// DisplayTitle prefers title over name.
func (it RecommendationItem) DisplayTitle() string {
	if t := strings.TrimSpace(it.Title); t != "" {
		return t
	}
	return strings.TrimSpace(it.Name)
}

// DisplaySummary prefers summary over description.
func (it RecommendationItem) DisplaySummary() string {
	if s := strings.TrimSpace(it.Summary); s != "" {
		return s
	}
	return strings.TrimSpace(it.Description)
}

// ScoreSource is rating, else score, else nil.
func (it RecommendationItem) ScoreSource() *float64 {
	if it.Rating != nil {
		return it.Rating
	}
	return it.MatchScore
}

// Link returns the item URL or "".
func (it RecommendationItem) Link() string {
	if it.URL == nil {
		return ""
	}
	return strings.TrimSpace(*it.URL)
}

// Reasoning is the backend's explanation of its pick. The wire value is
// either a string or an object with condition/alternative/explanation.
type Reasoning struct {
	Text        string `json:"explanation,omitempty"`
	Condition   string `json:"condition,omitempty"`
	Alternative string `json:"alternative,omitempty"`
}

// UnmarshalJSON accepts a string, an object, or null.
func (r *Reasoning) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Reasoning{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("reasoning: %w", err)
		}
		*r = Reasoning{Text: s}
		return nil
	}
	type plain Reasoning
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("reasoning: %w", err)
	}
	*r = Reasoning(p)
	return nil
}

// IsZero reports whether there is nothing to show.
func (r *Reasoning) IsZero() bool {
	return r == nil || (r.Text == "" && r.Condition == "" && r.Alternative == "")
}

// Filters echoes the price range the backend applied.
type Filters struct {
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
}

// SearchResponse is the body returned by POST /find.
type SearchResponse struct {
	Results   []RecommendationItem `json:"results"`
	Item      string               `json:"item,omitempty"`
	Source    *string              `json:"source,omitempty"`
	Reasoning *Reasoning           `json:"reasoning,omitempty"`
	Error     string               `json:"error,omitempty"`
	Count     int                  `json:"count,omitempty"`
	Filters   *Filters             `json:"filters,omitempty"`
}

// SourceLabel returns the provenance label or "".
func (r SearchResponse) SourceLabel() string {
	if r.Source == nil {
		return ""
	}
	return strings.TrimSpace(*r.Source)
}

// ChatMessage is one turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Item     *string       `json:"item"`
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	Reply string `json:"reply"`
	Item  string `json:"item,omitempty"`
	Error string `json:"error,omitempty"`
}

// StringPtr returns nil for blank strings.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
