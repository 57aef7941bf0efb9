package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

var (
	colorAccent = lipgloss.Color("62")  // Purple
	colorGold   = lipgloss.Color("220") // Top pick
	colorMuted  = lipgloss.Color("241") // Gray
	colorPrice  = lipgloss.Color("78")  // Green
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			MarginBottom(1)

	topCardStyle = cardStyle.BorderForeground(colorGold)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(colorAccent).
			Padding(0, 1).
			MarginRight(1)

	topBadgeStyle = badgeStyle.Foreground(lipgloss.Color("0")).Background(colorGold)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	priceStyle  = lipgloss.NewStyle().Foreground(colorPrice).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	reasonLabel = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	linkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(colorAccent).
			PaddingLeft(1).
			MarginBottom(1)
)

// Terminal draws Views with lipgloss. The zero value is not usable; call
// NewTerminal.
type Terminal struct {
	width int
	bar   progress.Model
}

// NewTerminal returns a renderer for the given total width.
func NewTerminal(width int) *Terminal {
	t := &Terminal{}
	t.SetWidth(width)
	return t
}

// SetWidth adapts the layout to a new terminal width.
func (t *Terminal) SetWidth(width int) {
	if width < 30 {
		width = 30
	}
	t.width = width
	t.bar = progress.New(
		progress.WithGradient("#5A56E0", "#EE6FF8"),
		progress.WithoutPercentage(),
		progress.WithWidth(clamp(width/3, 10, 40)),
	)
}

// Render draws the whole view. percents holds the animated score fraction
// (0..1) per card; missing entries draw the final score.
func (t *Terminal) Render(v View, percents []float64) string {
	var b strings.Builder

	if v.Empty {
		b.WriteString(mutedStyle.Render(v.Status))
		b.WriteString("\n")
		return b.String()
	}

	if v.Meta != "" {
		b.WriteString(mutedStyle.Render(v.Meta))
		b.WriteString("\n\n")
	}
	if v.HasReasoning() {
		b.WriteString(t.reasoningPanel(v))
		b.WriteString("\n")
	}
	for i, c := range v.Cards {
		pct := float64(c.Score) / 100
		if i < len(percents) {
			pct = percents[i]
		}
		b.WriteString(t.Card(c, pct))
		b.WriteString("\n")
	}
	return b.String()
}

// Card draws one card with its score bar at pct (0..1).
func (t *Terminal) Card(c Card, pct float64) string {
	inner := t.width - cardStyle.GetHorizontalFrameSize()

	badge := badgeStyle.Render(c.Badge())
	style := cardStyle
	if c.Rank == 1 {
		badge = topBadgeStyle.Render(c.Badge())
		style = topCardStyle
	}

	header := badge + titleStyle.Render(ansi.Truncate(c.Title, inner-lipgloss.Width(badge), "…"))
	lines := []string{header}

	var facts []string
	if c.Price != "" {
		facts = append(facts, priceStyle.Render(c.Price))
	}
	if c.Reviews != nil {
		facts = append(facts, mutedStyle.Render(humanize.Comma(int64(*c.Reviews))+" reviews"))
	}
	if len(facts) > 0 {
		lines = append(lines, strings.Join(facts, mutedStyle.Render(" · ")))
	}

	pct = clampFloat(pct, 0, 1)
	lines = append(lines, t.bar.ViewAs(pct)+" "+mutedStyle.Render(fmt.Sprintf("%3d", int(pct*100+0.5))))

	if c.Summary != "" {
		lines = append(lines, ansi.Wordwrap(c.Summary, inner, " -"))
	}
	if c.Reason != "" {
		lines = append(lines, reasonLabel.Render("Why this option:")+" "+ansi.Wordwrap(c.Reason, inner, " -"))
	}
	if c.URL != "" {
		lines = append(lines, linkStyle.Render(ansi.Truncate(c.URL, inner, "…")))
	}

	return style.Width(t.width - style.GetHorizontalBorderSize() - style.GetHorizontalMargins()).Render(strings.Join(lines, "\n"))
}

func (t *Terminal) reasoningPanel(v View) string {
	inner := t.width - panelStyle.GetHorizontalFrameSize()
	var lines []string
	if v.Condition != "" {
		lines = append(lines, reasonLabel.Render("If:")+" "+ansi.Wordwrap(v.Condition, inner, " -"))
	}
	if v.Reasoning != "" {
		lines = append(lines, ansi.Wordwrap(v.Reasoning, inner, " -"))
	}
	if v.Alternative != "" {
		lines = append(lines, reasonLabel.Render("Otherwise:")+" "+ansi.Wordwrap(v.Alternative, inner, " -"))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
