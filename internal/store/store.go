// Package store memoizes fetched articles for the lifetime of one game.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/page"
	"github.com/jonesrussell/philosophy/internal/transport"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// Entry is a memoized fetch result: a page, or a marker for an article the
// wiki does not have.
type Entry struct {
	Key  wiki.Key
	Page *page.Page
}

// Missing reports whether the wiki had no article for the key.
func (e *Entry) Missing() bool {
	return e.Page == nil
}

// Store resolves references and fetches each article at most once. It owns
// every page it returns. It is not safe for concurrent use.
type Store struct {
	site    wiki.Site
	fetcher transport.Fetcher
	entries map[wiki.Key]*Entry
	fetches int
	log     logger.Interface
}

// New creates an empty store.
func New(site wiki.Site, fetcher transport.Fetcher, log logger.Interface) *Store {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Store{
		site:    site,
		fetcher: fetcher,
		entries: make(map[wiki.Key]*Entry),
		log:     log.WithComponent("store"),
	}
}

// Site returns the wiki the store resolves against.
func (s *Store) Site() wiki.Site {
	return s.site
}

// Resolve normalizes ref to its canonical key.
func (s *Store) Resolve(ref string) (wiki.Key, error) {
	return s.site.Resolve(ref)
}

// Fetch returns the entry for ref. A memoized entry is returned as is and
// parent is ignored: a page keeps the parent that discovered it first.
// Any transport failure other than not-found is returned and nothing is
// memoized for the key.
func (s *Store) Fetch(ctx context.Context, ref string, parent *page.Page) (*Entry, error) {
	key, err := s.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", ref, err)
	}
	return s.fetchKey(ctx, key, parent)
}

// fetchKey is Fetch for a key that is already canonical.
func (s *Store) fetchKey(ctx context.Context, key wiki.Key, parent *page.Page) (*Entry, error) {
	if entry, ok := s.entries[key]; ok {
		s.log.Debug("Store hit", "key", key.String(), "missing", entry.Missing())
		return entry, nil
	}

	s.fetches++
	s.log.Debug("Fetching article", "key", key.String())

	markup, err := s.fetcher.Fetch(ctx, key)
	if errors.Is(err, transport.ErrNotFound) {
		s.log.Warn("Article does not exist", "key", key.String())
		entry := &Entry{Key: key}
		s.entries[key] = entry
		return entry, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	p, err := page.New(key, markup, parent)
	if err != nil {
		return nil, err
	}

	entry := &Entry{Key: key, Page: p}
	s.entries[key] = entry
	return entry, nil
}

// FetchNext fetches whatever p's next step points at: its next link, or its
// parent once p is exhausted. ok is false when p is exhausted and has no
// parent.
func (s *Store) FetchNext(ctx context.Context, p *page.Page) (*Entry, bool, error) {
	entry, kind, err := s.Move(ctx, p)
	if err != nil {
		return nil, false, err
	}
	return entry, kind != page.StepExhausted, nil
}

// Move is FetchNext reporting which kind of step was taken. The entry is
// nil for StepExhausted.
//
// Links that do not resolve to an article of the site are skipped. A
// backtrack goes to the parent by key, never through Resolve.
func (s *Store) Move(ctx context.Context, p *page.Page) (*Entry, page.StepKind, error) {
	var (
		step = p.NextLink()
		key  wiki.Key
	)
	for step.Kind == page.StepLink {
		resolved, err := s.Resolve(step.Ref)
		if err == nil {
			key = resolved
			break
		}
		s.log.Debug("Skipping unresolvable link", "page", p.Key().String(), "ref", step.Ref)
		step = p.NextLink()
	}

	switch step.Kind {
	case page.StepExhausted:
		return nil, step.Kind, nil
	case page.StepBacktrack:
		key = step.Parent
	}

	entry, err := s.fetchKey(ctx, key, p)
	if err != nil {
		return nil, step.Kind, err
	}
	return entry, step.Kind, nil
}

// Len returns the number of memoized keys.
func (s *Store) Len() int {
	return len(s.entries)
}

// Fetches returns how many transport calls the store has made.
func (s *Store) Fetches() int {
	return s.fetches
}
