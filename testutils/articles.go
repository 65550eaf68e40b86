package testutils

import (
	"strings"
)

// Article renders REST-style article HTML with one paragraph per entry of
// paragraphs. Each paragraph is a list of link titles.
func Article(paragraphs ...[]string) string {
	var b strings.Builder
	b.WriteString(`<html><body><section class="mw-parser-output">`)
	for _, titles := range paragraphs {
		b.WriteString("<p>See")
		for _, title := range titles {
			b.WriteString(` <a rel="mw:WikiLink" href="./`)
			b.WriteString(title)
			b.WriteString(`">`)
			b.WriteString(strings.ReplaceAll(title, "_", " "))
			b.WriteString("</a>")
		}
		b.WriteString(".</p>")
	}
	b.WriteString("</section></body></html>")
	return b.String()
}

// Links is shorthand for a single-paragraph Article.
func Links(titles ...string) string {
	return Article(titles)
}
