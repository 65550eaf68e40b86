// Package output handles what the user sees on the terminal: one line per
// hop while the game runs, a summary when it ends, and an optional table of
// the path taken.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/philosophy/internal/game"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// Path table column headers.
const (
	headerIndex   = "#"
	headerTitle   = "Title"
	headerAddress = "Address"
	headerNote    = "Note"

	noteBacktrack = "backtrack"
	noteMissing   = "missing"
)

// PrintErrorf prints an error message to stderr with formatting.
func PrintErrorf(format string, args ...any) {
	_, err := fmt.Fprintf(os.Stderr, format+"\n", args...)
	if err != nil {
		return
	}
}

// Printer writes game progress. Write errors are ignored, as with fmt.Println.
type Printer struct {
	out io.Writer
}

// NewPrinter returns a printer writing to out, or to stdout if out is nil.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Hop prints the canonical address reached by a hop.
func (p *Printer) Hop(h game.Hop) {
	_, _ = fmt.Fprintln(p.out, h.Key.String())
}

// Summary prints the outcome description and the hop count.
func (p *Printer) Summary(outcome game.Outcome, hops int) {
	_, _ = fmt.Fprintln(p.out, outcome.Description())
	_, _ = fmt.Fprintf(p.out, "%d hops.\n", hops)
}

// TableRenderer renders the path of a finished game as a table.
type TableRenderer struct {
	site wiki.Site
	out  io.Writer
}

// NewTableRenderer creates a renderer for articles of site.
func NewTableRenderer(site wiki.Site, out io.Writer) *TableRenderer {
	if out == nil {
		out = os.Stdout
	}
	return &TableRenderer{site: site, out: out}
}

// RenderPath renders the start page as row 0 followed by every hop.
func (r *TableRenderer) RenderPath(start wiki.Key, hops []game.Hop) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{headerIndex, headerTitle, headerAddress, headerNote})
	t.AppendRow(table.Row{0, r.site.Title(start), start.String(), ""})

	for _, h := range hops {
		t.AppendRow(table.Row{h.Index, r.site.Title(h.Key), h.Key.String(), note(h)})
	}

	t.Render()
}

func note(h game.Hop) string {
	switch {
	case h.Missing:
		return noteMissing
	case h.Backtrack:
		return noteBacktrack
	default:
		return ""
	}
}
