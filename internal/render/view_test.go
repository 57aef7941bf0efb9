package render

import (
	"strings"
	"testing"

	"github.com/abelbrown/shopper/internal/model"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func TestBuildEmpty(t *testing.T) {
	v := Build(model.SearchResponse{
		Reasoning: &model.Reasoning{Text: "stale"},
	}, Options{})

	if !v.Empty {
		t.Fatal("expected empty view")
	}
	if len(v.Cards) != 0 {
		t.Errorf("expected no cards, got %d", len(v.Cards))
	}
	if v.Status != EmptyMessage {
		t.Errorf("Status = %q", v.Status)
	}
	if v.HasReasoning() {
		t.Error("reasoning must be cleared on empty results")
	}
}

func TestBuildOrderAndRank(t *testing.T) {
	resp := model.SearchResponse{
		Results: []model.RecommendationItem{
			{Title: "Alpha"},
			{Name: "Bravo"},
			{Title: "Charlie"},
		},
		Source: sptr("catalog"),
	}
	v := Build(resp, Options{})

	if len(v.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(v.Cards))
	}
	for i, want := range []string{"Alpha", "Bravo", "Charlie"} {
		if v.Cards[i].Title != want {
			t.Errorf("card %d title = %q, want %q", i, v.Cards[i].Title, want)
		}
		if v.Cards[i].Rank != i+1 {
			t.Errorf("card %d rank = %d", i, v.Cards[i].Rank)
		}
	}
	if v.Meta != "3 results · via catalog" {
		t.Errorf("Meta = %q", v.Meta)
	}
	if v.Cards[0].Badge() != "★" || v.Cards[2].Badge() != "#3" {
		t.Errorf("badges = %q %q", v.Cards[0].Badge(), v.Cards[2].Badge())
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name   string
		rating *float64
		index  int
		want   int
	}{
		{"rating used", fptr(77), 0, 77},
		{"rating rounded", fptr(76.5), 3, 77},
		{"rating clamped high", fptr(140), 0, 100},
		{"rating clamped low", fptr(-3), 0, 0},
		{"rating beyond int range", fptr(1e19), 0, 100},
		{"huge rating", fptr(1e300), 0, 100},
		{"huge negative rating", fptr(-1e300), 0, 0},
		{"fallback first", nil, 0, 90},
		{"fallback third", nil, 2, 80},
		{"fallback floors at zero", nil, 30, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(tc.rating, tc.index); got != tc.want {
				t.Errorf("Score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBuildScoreFallbackPerIndex(t *testing.T) {
	v := Build(model.SearchResponse{Results: []model.RecommendationItem{
		{Title: "a"}, {Title: "b", Rating: fptr(77)}, {Title: "c"},
	}}, Options{})
	got := []int{v.Cards[0].Score, v.Cards[1].Score, v.Cards[2].Score}
	want := []int{90, 77, 80}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scores = %v, want %v", got, want)
			break
		}
	}
}

func TestBuildUsesBackendScoreWithoutRating(t *testing.T) {
	score := 94.0
	v := Build(model.SearchResponse{Results: []model.RecommendationItem{
		{Title: "a", MatchScore: &score},
		{Title: "b"},
	}}, Options{})
	if v.Cards[0].Score != 94 || v.Cards[1].Score != 85 {
		t.Errorf("scores = %d, %d; want 94, 85", v.Cards[0].Score, v.Cards[1].Score)
	}
}

func TestBuildSingleResultMeta(t *testing.T) {
	v := Build(model.SearchResponse{Results: []model.RecommendationItem{{Title: "only"}}}, Options{})
	if v.Meta != "1 result" {
		t.Errorf("Meta = %q", v.Meta)
	}
}

func TestBuildStripsURLsAndControlSequences(t *testing.T) {
	v := Build(model.SearchResponse{Results: []model.RecommendationItem{{
		Title:       "\x1b[31mRed\x1b[0m Lamp",
		Description: "Bright lamp, see https://example.com/lamp?ref=1 for details.",
		Reason:      "Cheaper than www.other.shop today",
	}}}, Options{})

	c := v.Cards[0]
	if c.Title != "Red Lamp" {
		t.Errorf("Title = %q", c.Title)
	}
	if strings.Contains(c.Summary, "http") || c.Summary != "Bright lamp, see for details." {
		t.Errorf("Summary = %q", c.Summary)
	}
	if c.Reason != "Cheaper than today" {
		t.Errorf("Reason = %q", c.Reason)
	}
}

func TestBuildReasoning(t *testing.T) {
	v := Build(model.SearchResponse{
		Results:   []model.RecommendationItem{{Title: "x"}},
		Reasoning: &model.Reasoning{Text: "Best value", Condition: "If budget allows", Alternative: "Pick Budget"},
	}, Options{})
	if v.Reasoning != "Best value" || v.Condition != "If budget allows" || v.Alternative != "Pick Budget" {
		t.Errorf("reasoning = %q / %q / %q", v.Reasoning, v.Condition, v.Alternative)
	}
}

func TestStripURLs(t *testing.T) {
	tests := []struct{ in, want string }{
		{"no links here", "no links here"},
		{"visit http://a.b/c now", "visit now"},
		{"(https://x.y)", ""},
		{"Read more at https://shop.example/x. Great pick.", "Read more at. Great pick."},
		{"see www.shop.example/a, or ask", "see, or ask"},
		{"  spaced \n out  ", "spaced out"},
	}
	for _, tc := range tests {
		if got := StripURLs(tc.in); got != tc.want {
			t.Errorf("StripURLs(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	us := Options{Locale: "en-US", Currency: "USD"}
	tests := []struct {
		name  string
		price model.Price
		code  string
		want  string
	}{
		{"usd", model.NumberPrice(12.5), "", "$12.50"},
		{"grouping", model.NumberPrice(1299), "USD", "$1,299.00"},
		{"euro symbol", model.NumberPrice(40), "EUR", "€40.00"},
		{"invalid code falls back", model.NumberPrice(9.99), "ZZ", "$9.99"},
		{"unknown code falls back", model.NumberPrice(5), "QQQ", "$5.00"},
		{"text kept", model.TextPrice("from $40"), "", "from $40"},
		{"absent", model.Price{}, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatPrice(tc.price, tc.code, us); got != tc.want {
				t.Errorf("FormatPrice = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildIsPure(t *testing.T) {
	resp := model.SearchResponse{Results: []model.RecommendationItem{{Title: "a", Price: model.NumberPrice(3)}}}
	a := Build(resp, Options{})
	b := Build(resp, Options{})
	if a.Cards[0] != b.Cards[0] || a.Meta != b.Meta {
		t.Error("Build should be deterministic")
	}
}
