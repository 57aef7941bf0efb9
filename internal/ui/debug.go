package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abelbrown/shopper/internal/otel"
)

// DebugPanel adds a border row and a padding row above and below its content.
const debugPanelChrome = 4

const (
	debugRecentEvents   = 20
	debugRecentRequests = 5
	debugRecentErrors   = 3
)

// debugOverlay draws the ctrl+d panel: counters from the ring, the last few
// backend calls, any recent errors, then the newest events. Empty when
// there is no ring.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	var b debugLines
	b.section("Session Stats")
	b.counters(ring)
	b.blank()
	b.section("Backend Requests")
	b.requests(ring.Requests(debugRecentRequests))
	b.blank()
	if errs := ring.LastErrors(debugRecentErrors); len(errs) > 0 {
		b.section("Recent Errors")
		b.failures(errs)
		b.blank()
	}
	b.section("Recent Events")
	b.events(ring.Last(debugRecentEvents))

	return DebugPanel.Width(debugPanelWidth(width)).Render(b.fit(height - debugPanelChrome))
}

type debugLines []string

func (b *debugLines) add(format string, args ...any) {
	*b = append(*b, fmt.Sprintf(format, args...))
}

func (b *debugLines) blank() { *b = append(*b, "") }

func (b *debugLines) section(title string) {
	*b = append(*b, DebugHeaderStyle.Render(title))
}

func (b *debugLines) counters(ring *otel.RingBuffer) {
	s := ring.Stats()
	b.add("  Searches:   %d started, %d complete, %d empty, %d errors",
		s[otel.KindSearchStart], s[otel.KindSearchComplete], s[otel.KindSearchEmpty], s[otel.KindSearchError])
	b.add("  Chat:       %d sent, %d replies, %d errors, %d skipped",
		s[otel.KindChatSend], s[otel.KindChatReply], s[otel.KindChatError], s[otel.KindChatSkip])
	b.add("  Backend:    %d requests, %d responses, %d errors",
		s[otel.KindAPIRequest], s[otel.KindAPIResponse], s[otel.KindAPIError])
	b.add("  Buffer:     %d / %d events, %d seen", ring.Len(), ring.Cap(), ring.Total())
}

func (b *debugLines) requests(traces []otel.RequestTrace) {
	if len(traces) == 0 {
		b.add("  (none)")
		return
	}
	for _, tr := range traces {
		line := fmt.Sprintf("  %-8s  %-6s", truncateRunes(tr.RequestID, 8), tr.Path)
		switch {
		case !tr.Done:
			line += "  pending " + formatAge(time.Since(tr.Started))
		case tr.Err != "":
			line += fmt.Sprintf("  %3d  ERR:%s", tr.Status, truncateRunes(tr.Err, 40))
		default:
			line += fmt.Sprintf("  %3d  %s", tr.Status, formatAge(tr.Dur))
		}
		*b = append(*b, line)
	}
}

func (b *debugLines) failures(evs []otel.Event) {
	for _, e := range evs {
		line := fmt.Sprintf("  %6s  %-14s %s", formatAge(time.Since(e.Time)), e.Kind, truncateRunes(e.Err, 50))
		if e.Query != "" {
			line += "  q:" + truncateRunes(e.Query, 20)
		}
		*b = append(*b, line)
	}
}

func (b *debugLines) events(evs []otel.Event) {
	for _, e := range evs {
		var sb strings.Builder
		fmt.Fprintf(&sb, "  %6s  %-18s", formatAge(time.Since(e.Time)), e.Kind)
		if e.Status != 0 {
			fmt.Fprintf(&sb, "  %d", e.Status)
		}
		if e.Dur > 0 {
			sb.WriteString("  " + formatAge(e.Dur))
		}
		if e.Query != "" {
			sb.WriteString("  q:" + truncateRunes(e.Query, 24))
		}
		if e.Msg != "" {
			sb.WriteString("  " + truncateRunes(e.Msg, 40))
		}
		if e.Err != "" {
			sb.WriteString("  ERR:" + truncateRunes(e.Err, 30))
		}
		if e.RequestID != "" {
			sb.WriteString("  rid:" + truncateRunes(e.RequestID, 8))
		}
		*b = append(*b, sb.String())
	}
}

// fit keeps the first limit lines, at least one.
func (b debugLines) fit(limit int) string {
	limit = clamp(limit, 1, len(b))
	return strings.Join(b[:limit], "\n")
}

func debugPanelWidth(termWidth int) int {
	return clamp(termWidth-4, 20, 96)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return hi
	}
	return min(max(v, lo), hi)
}

// formatAge renders d compactly; negative values (clock skew) show as 0ms.
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}

// truncateRunes shortens s to n runes, ending in "…" when cut.
func truncateRunes(s string, n int) string {
	switch {
	case n <= 0:
		return ""
	case utf8.RuneCountInString(s) <= n:
		return s
	case n == 1:
		return string([]rune(s)[:1])
	}
	return string([]rune(s)[:n-1]) + "…"
}
