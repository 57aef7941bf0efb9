// Package render turns a search response into a View, the display model of
// ranked recommendation cards, and draws it for the terminal or as HTML.
//
// Build is pure: it never touches the network and holds no state, so the
// same response always yields the same View. Every backend string is cleaned
// here once (control sequences removed, embedded URLs stripped from prose)
// and both renditions draw from the cleaned values.
package render

import (
	"fmt"
	"math"

	"github.com/abelbrown/shopper/internal/model"
)

// EmptyMessage is the status shown when a search matched nothing.
const EmptyMessage = "No recommendations matched. Try a broader query or widen the price range."

// Options controls locale-dependent formatting.
type Options struct {
	Locale   string // BCP 47, e.g. "en-US"
	Currency string // ISO 4217 used when an item carries none
}

// Card is one rendered recommendation.
type Card struct {
	Rank    int
	Title   string
	Price   string
	Score   int // 0..100
	Rating  *float64
	Reviews *int
	Summary string
	Reason  string
	URL     string
}

// Badge is "★" for the top pick and "#N" otherwise.
func (c Card) Badge() string {
	if c.Rank == 1 {
		return "★"
	}
	return fmt.Sprintf("#%d", c.Rank)
}

// View is the display model for one search response.
type View struct {
	Cards []Card
	Empty bool

	// Status is the line shown after the search finished.
	Status string
	// Meta is "N results" plus provenance when known.
	Meta string

	Reasoning   string
	Condition   string
	Alternative string
}

// HasReasoning reports whether the reasoning panel has anything to show.
func (v View) HasReasoning() bool {
	return v.Reasoning != "" || v.Condition != "" || v.Alternative != ""
}

// Build converts a response into a View. Zero results is a valid, empty View.
func Build(resp model.SearchResponse, opts Options) View {
	if len(resp.Results) == 0 {
		return View{Empty: true, Status: EmptyMessage}
	}

	money := newMoneyFormatter(opts)
	cards := make([]Card, len(resp.Results))
	for i, it := range resp.Results {
		cards[i] = Card{
			Rank:    i + 1,
			Title:   cleanLine(it.DisplayTitle()),
			Price:   money.format(it.Price, it.Currency),
			Score:   Score(it.ScoreSource(), i),
			Rating:  it.Rating,
			Reviews: it.ReviewCount,
			Summary: cleanProse(it.DisplaySummary()),
			Reason:  cleanProse(it.Reason),
			URL:     cleanLine(it.Link()),
		}
		if cards[i].Title == "" {
			cards[i].Title = "Untitled option"
		}
	}

	v := View{
		Cards:  cards,
		Status: fmt.Sprintf("Found %s.", countLabel(len(cards))),
		Meta:   metaLine(len(cards), resp.SourceLabel()),
	}
	if r := resp.Reasoning; !r.IsZero() {
		v.Reasoning = cleanProse(r.Text)
		v.Condition = cleanProse(r.Condition)
		v.Alternative = cleanProse(r.Alternative)
	}
	return v
}

// Score maps a rating onto 0..100. Without a rating the score decays with
// rank: 90 for the first item, 5 less for each one after, never below 0.
func Score(rating *float64, index int) int {
	if rating != nil && !math.IsNaN(*rating) && !math.IsInf(*rating, 0) {
		return int(math.Round(clampFloat(*rating, 0, 100)))
	}
	return clamp(90-5*index, 0, 100)
}

func metaLine(n int, source string) string {
	meta := countLabel(n)
	if s := cleanLine(source); s != "" {
		meta += " · via " + s
	}
	return meta
}

func countLabel(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
