package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/philosophy/internal/game"
	"github.com/jonesrussell/philosophy/internal/output"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

func key(t *testing.T, title string) wiki.Key {
	t.Helper()

	k, err := wiki.English().Resolve(title)
	require.NoError(t, err)
	return k
}

func TestPrinter_HopsAndSummary(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := output.NewPrinter(&buf)

	p.Hop(game.Hop{Index: 1, Key: key(t, "Italy")})
	p.Hop(game.Hop{Index: 2, Key: key(t, "Philosophy")})
	p.Summary(game.Found, 2)

	assert.Equal(t, strings.Join([]string{
		"https://en.wikipedia.org/wiki/Italy",
		"https://en.wikipedia.org/wiki/Philosophy",
		"Target found successfully!",
		"2 hops.",
		"",
	}, "\n"), buf.String())
}

func TestPrinter_SummaryWithoutHops(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	output.NewPrinter(&buf).Summary(game.TargetMissing, 0)

	assert.Equal(t, "Destination page does not exist.\n0 hops.\n", buf.String())
}

func TestTableRenderer_RenderPath(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := output.NewTableRenderer(wiki.English(), &buf)

	r.RenderPath(key(t, "Start"), []game.Hop{
		{Index: 1, Key: key(t, "Dead_end")},
		{Index: 2, Key: key(t, "Start"), Backtrack: true},
		{Index: 3, Key: key(t, "Red_link"), Missing: true},
	})

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Borders, header and separator around four data rows.
	assert.Len(t, lines, 8)
	assert.Contains(t, strings.ToUpper(out), "TITLE")
	assert.Contains(t, out, "Dead_end")
	assert.Contains(t, out, "https://en.wikipedia.org/wiki/Red_link")
	assert.Contains(t, out, "backtrack")
	assert.Contains(t, out, "missing")
}
