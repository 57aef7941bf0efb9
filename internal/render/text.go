package render

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"')\]]+`)

// StripURLs removes embedded links from prose and collapses the whitespace
// they leave behind.
func StripURLs(s string) string {
	if !urlPattern.MatchString(s) {
		return collapseSpace(s)
	}
	s = collapseSpace(urlPattern.ReplaceAllStringFunc(s, func(link string) string {
		// sentence punctuation after a link belongs to the prose
		return link[len(strings.TrimRight(link, ".,;:!?")):]
	}))
	// punctuation orphaned by a removed link: "see ( )" or "at ."
	s = strings.NewReplacer("( )", "", "()", "", " .", ".", " ,", ",", " :", ":").Replace(s)
	return collapseSpace(s)
}

// Sanitize removes terminal escape sequences and control characters.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			return -1
		}
		return r
	}, s)
}

func cleanLine(s string) string {
	return collapseSpace(Sanitize(s))
}

func cleanProse(s string) string {
	return StripURLs(Sanitize(s))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
