package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/abelbrown/shopper/internal/model"
)

func TestTerminalRender(t *testing.T) {
	v := Build(model.SearchResponse{
		Results: []model.RecommendationItem{
			{Title: "Premium headphones", Price: model.NumberPrice(150), ReviewCount: iptr(12840), Reason: "Best noise cancelling"},
			{Title: "Budget headphones", Price: model.TextPrice("$45")},
		},
		Source: sptr("mock"),
	}, Options{Locale: "en-US"})

	out := ansi.Strip(NewTerminal(80).Render(v, nil))
	for _, want := range []string{
		"2 results · via mock",
		"★",
		"Premium headphones",
		"$150.00",
		"12,840 reviews",
		"Why this option:",
		"#2",
		"$45",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Premium") > strings.Index(out, "Budget") {
		t.Error("cards out of order")
	}
}

func TestTerminalRenderEmpty(t *testing.T) {
	out := ansi.Strip(NewTerminal(60).Render(Build(model.SearchResponse{}, Options{}), nil))
	if !strings.Contains(out, "No recommendations matched") {
		t.Errorf("empty output = %q", out)
	}
}

func TestTerminalAnimatedPercent(t *testing.T) {
	term := NewTerminal(80)
	c := Card{Rank: 2, Title: "x", Score: 80}
	if !strings.Contains(ansi.Strip(term.Card(c, 0)), "  0") {
		t.Error("bar at 0 should show 0")
	}
	if !strings.Contains(ansi.Strip(term.Card(c, 0.8)), " 80") {
		t.Error("bar at 0.8 should show 80")
	}
}

func TestTerminalStripsEscapes(t *testing.T) {
	v := Build(model.SearchResponse{Results: []model.RecommendationItem{
		{Title: "Lamp\x1b]0;pwned\x07", Summary: "\x1b[2Jclear"},
	}}, Options{})
	out := NewTerminal(80).Render(v, nil)
	if strings.Contains(out, "\x1b]0;") || strings.Contains(out, "\x1b[2J") {
		t.Errorf("escape sequence survived: %q", out)
	}
}

func iptr(v int) *int { return &v }
