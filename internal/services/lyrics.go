package services

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/desertthunder/hamilmoji/internal/shared"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractLyrics reads a Genius song page and returns the lyrics text.
//
// Current pages split lyrics over several data-lyrics-container="true"
// elements; older pages use a single div.lyrics. Line breaks are kept, markup
// and annotation links are flattened to their text.
func ExtractLyrics(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse song page: %w", err)
	}

	containers := findAll(doc, isLyricsContainer)
	if len(containers) == 0 {
		containers = findAll(doc, isLegacyLyrics)
	}
	if len(containers) == 0 {
		return "", shared.ErrLyricsNotFound
	}

	parts := make([]string, 0, len(containers))
	for _, c := range containers {
		var b strings.Builder
		writeText(&b, c)
		if text := strings.TrimSpace(b.String()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isLyricsContainer(n *html.Node) bool {
	return n.Type == html.ElementNode && attr(n, "data-lyrics-container") == "true"
}

func isLegacyLyrics(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Div &&
		slices.Contains(strings.Fields(attr(n, "class")), "lyrics")
}

// findAll returns the outermost nodes matching fn, in document order.
func findAll(n *html.Node, fn func(*html.Node) bool) []*html.Node {
	if fn(n) {
		return []*html.Node{n}
	}
	var found []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		found = append(found, findAll(c, fn)...)
	}
	return found
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteString("\n")
			return
		case atom.Script, atom.Style:
			return
		}
		if attr(n, "data-exclude-from-selection") == "true" {
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}

	if n.Type == html.ElementNode && (n.DataAtom == atom.P || n.DataAtom == atom.Div) {
		if s := b.String(); s != "" && !strings.HasSuffix(s, "\n") {
			b.WriteString("\n")
		}
	}
}
