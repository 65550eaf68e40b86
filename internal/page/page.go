// Package page models one fetched article as a replayable sequence of
// candidate links with a back-reference to the page that discovered it.
package page

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/philosophy/internal/links"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// ErrNoContent is returned when a page is constructed without markup.
var ErrNoContent = errors.New("page has no content")

// StepKind tags the result of NextLink.
type StepKind int

const (
	// StepLink carries the next unread link of the page.
	StepLink StepKind = iota
	// StepBacktrack carries the parent's key; the page is exhausted.
	StepBacktrack
	// StepExhausted means the page is exhausted and has nowhere to go back to.
	StepExhausted
)

// String returns the name of the step kind.
func (k StepKind) String() string {
	switch k {
	case StepLink:
		return "link"
	case StepBacktrack:
		return "backtrack"
	case StepExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// Step is the tagged result of NextLink. Ref is empty for StepExhausted.
// For StepBacktrack, Parent holds the parent's key and Ref its string form;
// the key is already canonical and must be used as is.
type Step struct {
	Kind   StepKind
	Ref    string
	Parent wiki.Key
}

// Page is one fetched article. The parent relation is a key, not a pointer:
// whoever memoizes pages owns them, and the parent key is only used to find
// the way back.
type Page struct {
	key       wiki.Key
	links     []string
	parent    wiki.Key
	hasParent bool
	cursor    int
}

// New extracts the links of markup once and returns the page. parent may be
// nil for a page nobody discovered.
func New(key wiki.Key, markup []byte, parent *Page) (*Page, error) {
	if len(markup) == 0 {
		return nil, fmt.Errorf("%s: %w", key, ErrNoContent)
	}

	extracted, err := links.Extract(markup)
	if err != nil {
		return nil, fmt.Errorf("%s: extract links: %w", key, err)
	}

	p := &Page{
		key:   key,
		links: extracted,
	}
	if parent != nil {
		p.parent = parent.key
		p.hasParent = true
	}
	return p, nil
}

// NextLink reads the link under the cursor and advances it. Once every link
// has been read it points back at the parent, and when there is no parent it
// reports exhaustion. Calling it twice never returns the same link position.
func (p *Page) NextLink() Step {
	if p.cursor < len(p.links) {
		ref := p.links[p.cursor]
		p.cursor++
		return Step{Kind: StepLink, Ref: ref}
	}

	if p.hasParent {
		return Step{Kind: StepBacktrack, Ref: p.parent.String(), Parent: p.parent}
	}

	return Step{Kind: StepExhausted}
}

// Key returns the canonical key of the page.
func (p *Page) Key() wiki.Key {
	return p.key
}

// Links returns a copy of the extracted links.
func (p *Page) Links() []string {
	out := make([]string, len(p.links))
	copy(out, p.links)
	return out
}

// Parent returns the key of the discovering page, if any.
func (p *Page) Parent() (wiki.Key, bool) {
	return p.parent, p.hasParent
}

// Cursor returns how many links have been read.
func (p *Page) Cursor() int {
	return p.cursor
}

// Exhausted reports whether every link has been read.
func (p *Page) Exhausted() bool {
	return p.cursor >= len(p.links)
}
