// Package links extracts the ordered candidate links of a wiki article
// according to the Getting to Philosophy rules: only prose paragraphs count,
// tables are ignored, and nothing inside a parenthetical clarifier, an
// italic run or a helper span is ever followed.
package links

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Selectors and attribute values understood by the extractor.
const (
	contentSelector   = ".mw-parser-output"
	fallbackSelector  = "body"
	tableSelector     = "table"
	paragraphSelector = "p"

	// wikiLinkRel is how the REST API tags intra-wiki anchors.
	wikiLinkRel = "mw:WikiLink"
	// articlePrefix marks intra-wiki hrefs in plain page HTML.
	articlePrefix = "/wiki/"
)

// skippedTags hold asides whose anchors are never candidates. Their text
// still counts toward parenthesis matching.
var skippedTags = map[string]struct{}{
	"i":     {},
	"span":  {},
	"table": {},
}

// Extract parses markup and returns candidate article references in reading
// order. Duplicates are preserved. A page without qualifying links yields an
// empty slice and no error.
func Extract(markup []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		content = doc.Find(fallbackSelector).First()
	}

	content.Find(tableSelector).Remove()

	refs := []string{}
	content.Find(paragraphSelector).Each(func(_ int, p *goquery.Selection) {
		for _, node := range p.Nodes {
			refs = append(refs, paragraphLinks(node)...)
		}
	})

	return refs, nil
}

// paragraphLinks returns the qualifying links of one paragraph. Anchors
// tagged as wiki links win; untagged article hrefs are the fallback.
func paragraphLinks(p *html.Node) []string {
	anchors := visibleAnchors(p)

	var tagged, untagged []string
	for _, a := range anchors {
		href, ok := attr(a, "href")
		if !ok || href == "" {
			continue
		}
		if hasToken(a, "rel", wikiLinkRel) {
			tagged = append(tagged, href)
			continue
		}
		if strings.HasPrefix(href, articlePrefix) {
			untagged = append(untagged, href)
		}
	}

	if len(tagged) > 0 {
		return tagged
	}
	return untagged
}

// anchor is an <a> element and the rune offset of the text preceding it.
type anchor struct {
	node   *html.Node
	offset int
	hidden bool
}

// walker flattens a paragraph into its text and the anchors found in it.
type walker struct {
	text    []rune
	anchors []anchor
}

// visibleAnchors returns, in document order, the anchors of p that start
// outside any clarifier span and outside any skipped subtree.
func visibleAnchors(p *html.Node) []*html.Node {
	w := &walker{}
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, false)
	}

	spans := clarifierSpans(w.text)

	var visible []*html.Node
	for _, a := range w.anchors {
		if a.hidden || insideAny(spans, a.offset) {
			continue
		}
		visible = append(visible, a.node)
	}
	return visible
}

func (w *walker) walk(n *html.Node, hidden bool) {
	switch n.Type {
	case html.TextNode:
		w.text = append(w.text, []rune(n.Data)...)
		return
	case html.ElementNode:
		if _, skip := skippedTags[n.Data]; skip {
			hidden = true
		}
		if n.Data == "a" {
			w.anchors = append(w.anchors, anchor{node: n, offset: len(w.text), hidden: hidden})
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, hidden)
	}
}

// span is an inclusive rune range [open, close] of a clarifier.
type span struct {
	open, close int
}

// clarifierSpans finds every parenthetical aside in text. An aside starts at
// a '(' preceded by whitespace and ends at its matching ')'. A '(' that is
// never closed starts nothing.
func clarifierSpans(text []rune) []span {
	var spans []span
	for i := 1; i < len(text); i++ {
		if text[i] != '(' || !unicode.IsSpace(text[i-1]) {
			continue
		}
		end := matchingClose(text, i)
		if end < 0 {
			continue
		}
		spans = append(spans, span{open: i, close: end})
		i = end
	}
	return spans
}

func matchingClose(text []rune, open int) int {
	depth := 0
	for j := open; j < len(text); j++ {
		switch text[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func insideAny(spans []span, offset int) bool {
	for _, s := range spans {
		if offset > s.open && offset <= s.close {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// hasToken reports whether the space-separated attribute key contains token.
func hasToken(n *html.Node, key, token string) bool {
	val, ok := attr(n, key)
	if !ok {
		return false
	}
	for _, field := range strings.Fields(val) {
		if field == token {
			return true
		}
	}
	return false
}
