package render

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const pageCSS = `body{font-family:system-ui,sans-serif;max-width:46rem;margin:2rem auto;padding:0 1rem;color:#222}
.meta,.empty{color:#666}
.card{border:1px solid #ddd;border-radius:8px;padding:1rem;margin:1rem 0}
.card.top{border-color:#e0b000}
.badge{display:inline-block;background:#5a56e0;color:#fff;border-radius:4px;padding:0 .4rem;margin-right:.5rem}
.top .badge{background:#e0b000;color:#000}
.title{display:inline;font-size:1.1rem}
.price{font-weight:bold;color:#2a8a4a}
.score{background:#eee;border-radius:4px;height:.5rem;overflow:hidden}
.score-bar{background:linear-gradient(90deg,#5a56e0,#ee6ff8);height:100%}
.reasoning{border-left:3px solid #5a56e0;padding-left:.75rem}`

// HTML builds a complete document for v. Every backend string becomes a text
// node, so markup in a title or summary is shown literally.
func HTML(v View, heading string) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := el(atom.Html, "lang", "en")
	doc.AppendChild(root)

	head := el(atom.Head)
	head.AppendChild(el(atom.Meta, "charset", "utf-8"))
	head.AppendChild(withText(el(atom.Title), heading))
	head.AppendChild(withText(el(atom.Style), pageCSS))
	root.AppendChild(head)

	body := el(atom.Body)
	root.AppendChild(body)
	if heading != "" {
		body.AppendChild(withText(el(atom.H1), heading))
	}
	body.AppendChild(Results(v))
	return doc
}

// Results builds the <main> element holding the cards.
func Results(v View) *html.Node {
	main := el(atom.Main, "id", "results")

	if v.Empty {
		main.AppendChild(withText(el(atom.P, "class", "empty"), v.Status))
		return main
	}

	if v.Meta != "" {
		main.AppendChild(withText(el(atom.P, "class", "meta"), v.Meta))
	}
	if v.HasReasoning() {
		main.AppendChild(reasoningSection(v))
	}
	for _, c := range v.Cards {
		main.AppendChild(cardNode(c))
	}
	return main
}

// WriteHTML renders the document for v to w.
func WriteHTML(w io.Writer, v View, heading string) error {
	if err := html.Render(w, HTML(v, heading)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func cardNode(c Card) *html.Node {
	class := "card"
	if c.Rank == 1 {
		class = "card top"
	}
	art := el(atom.Article, "class", class, "data-rank", fmt.Sprint(c.Rank))

	header := el(atom.Header)
	header.AppendChild(withText(el(atom.Span, "class", "badge"), c.Badge()))
	header.AppendChild(withText(el(atom.H2, "class", "title"), c.Title))
	art.AppendChild(header)

	if c.Price != "" {
		art.AppendChild(withText(el(atom.P, "class", "price"), c.Price))
	}

	score := el(atom.Div, "class", "score", "title", fmt.Sprintf("Match score %d", c.Score))
	score.AppendChild(el(atom.Div, "class", "score-bar", "style", fmt.Sprintf("width: %d%%", c.Score)))
	art.AppendChild(score)
	art.AppendChild(withText(el(atom.Span, "class", "score-value"), fmt.Sprint(c.Score)))

	if c.Summary != "" {
		art.AppendChild(withText(el(atom.P, "class", "summary"), c.Summary))
	}
	if c.Reason != "" {
		p := el(atom.P, "class", "reason")
		p.AppendChild(withText(el(atom.Strong), "Why this option:"))
		p.AppendChild(text(" " + c.Reason))
		art.AppendChild(p)
	}
	if safeLink(c.URL) {
		art.AppendChild(withText(el(atom.A, "class", "link", "href", c.URL, "rel", "noopener noreferrer", "target", "_blank"), "View product"))
	}
	return art
}

func reasoningSection(v View) *html.Node {
	sec := el(atom.Section, "class", "reasoning")
	if v.Condition != "" {
		p := el(atom.P, "class", "condition")
		p.AppendChild(withText(el(atom.Strong), "If:"))
		p.AppendChild(text(" " + v.Condition))
		sec.AppendChild(p)
	}
	if v.Reasoning != "" {
		sec.AppendChild(withText(el(atom.P, "class", "explanation"), v.Reasoning))
	}
	if v.Alternative != "" {
		p := el(atom.P, "class", "alternative")
		p.AppendChild(withText(el(atom.Strong), "Otherwise:"))
		p.AppendChild(text(" " + v.Alternative))
		sec.AppendChild(p)
	}
	return sec
}

// safeLink admits absolute http and https URLs only.
func safeLink(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "http" || s == "https"
}

// el creates an element; attrs are key/value pairs.
func el(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}
