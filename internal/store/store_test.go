package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/page"
	"github.com/jonesrussell/philosophy/internal/store"
	"github.com/jonesrussell/philosophy/internal/transport"
	"github.com/jonesrussell/philosophy/internal/wiki"
	"github.com/jonesrussell/philosophy/testutils"
)

func key(t *testing.T, title string) wiki.Key {
	t.Helper()

	k, err := wiki.English().Resolve(title)
	require.NoError(t, err)
	return k
}

func newStore(f transport.Fetcher) *store.Store {
	return store.New(wiki.English(), f, logger.NewNoOp())
}

func TestStore_AllAddressFormsShareOneFetch(t *testing.T) {
	t.Parallel()

	f := testutils.NewMockFetcher()
	f.OnArticle(key(t, "Ferrari"), testutils.Links("Enzo_Ferrari")).Once()
	s := newStore(f)
	ctx := context.Background()

	bare, err := s.Fetch(ctx, "Ferrari", nil)
	require.NoError(t, err)
	rooted, err := s.Fetch(ctx, "/wiki/Ferrari", nil)
	require.NoError(t, err)
	full, err := s.Fetch(ctx, "https://en.wikipedia.org/wiki/Ferrari", nil)
	require.NoError(t, err)

	assert.Same(t, bare, rooted)
	assert.Same(t, bare, full)
	assert.Same(t, bare.Page, full.Page)
	assert.Equal(t, 1, s.Fetches())
	assert.Equal(t, 1, s.Len())
	f.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestStore_MissingIsMemoized(t *testing.T) {
	t.Parallel()

	f := testutils.NewMockFetcher()
	f.OnMissing(key(t, "Nowhere")).Once()
	s := newStore(f)

	for range 3 {
		entry, err := s.Fetch(context.Background(), "Nowhere", nil)
		require.NoError(t, err)
		assert.True(t, entry.Missing())
		assert.Equal(t, key(t, "Nowhere"), entry.Key)
	}
	assert.Equal(t, 1, s.Fetches())
	f.AssertExpectations(t)
}

func TestStore_TransportFailureAborts(t *testing.T) {
	t.Parallel()

	boom := &transport.StatusError{URL: "https://en.wikipedia.org/w/rest.php/v1/page/Ferrari/html", StatusCode: 503}
	f := testutils.NewMockFetcher()
	f.OnError(key(t, "Ferrari"), boom).Twice()
	s := newStore(f)

	for range 2 {
		_, err := s.Fetch(context.Background(), "Ferrari", nil)
		require.ErrorIs(t, err, boom)
	}
	// Failures are not memoized.
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 2, s.Fetches())
}

func TestStore_EmptyMarkupAborts(t *testing.T) {
	t.Parallel()

	f := testutils.NewMockFetcher()
	f.OnArticle(key(t, "Blank"), "")
	s := newStore(f)

	_, err := s.Fetch(context.Background(), "Blank", nil)
	require.ErrorIs(t, err, page.ErrNoContent)
}

func TestStore_ResolveFailure(t *testing.T) {
	t.Parallel()

	f := testutils.NewMockFetcher()
	s := newStore(f)

	_, err := s.Fetch(context.Background(), "https://example.com/wiki/Ferrari", nil)
	require.ErrorIs(t, err, wiki.ErrForeignURL)
	f.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
}

func TestStore_FirstDiscovererIsParent(t *testing.T) {
	t.Parallel()

	f := testutils.NewMockFetcher()
	f.OnArticle(key(t, "A"), testutils.Links("C"))
	f.OnArticle(key(t, "B"), testutils.Links("C"))
	f.OnArticle(key(t, "C"), testutils.Links())
	s := newStore(f)
	ctx := context.Background()

	a, err := s.Fetch(ctx, "A", nil)
	require.NoError(t, err)
	b, err := s.Fetch(ctx, "B", nil)
	require.NoError(t, err)

	fromA, ok, err := s.FetchNext(ctx, a.Page)
	require.NoError(t, err)
	require.True(t, ok)
	fromB, ok, err := s.FetchNext(ctx, b.Page)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Same(t, fromA, fromB)
	parent, hasParent := fromB.Page.Parent()
	assert.True(t, hasParent)
	assert.Equal(t, a.Key, parent)
}

func TestStore_FetchNextBacktracksAndExhausts(t *testing.T) {
	t.Parallel()

	f := testutils.NewMockFetcher()
	f.OnArticle(key(t, "Root"), testutils.Links("Leaf")).Once()
	f.OnArticle(key(t, "Leaf"), testutils.Links()).Once()
	s := newStore(f)
	ctx := context.Background()

	root, err := s.Fetch(ctx, "Root", nil)
	require.NoError(t, err)

	leaf, ok, err := s.FetchNext(ctx, root.Page)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key(t, "Leaf"), leaf.Key)

	back, ok, err := s.FetchNext(ctx, leaf.Page)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, root, back)

	_, ok, err = s.FetchNext(ctx, root.Page)
	require.NoError(t, err)
	assert.False(t, ok)
	f.AssertExpectations(t)
}

func TestStore_FetchNextSkipsUnresolvableLinks(t *testing.T) {
	t.Parallel()

	markup := `<html><body><p><a rel="mw:WikiLink" href="./">empty</a> <a rel="mw:WikiLink" href="./Plato">Plato</a></p></body></html>`

	f := testutils.NewMockFetcher()
	f.OnArticle(key(t, "Socrates"), markup)
	f.OnArticle(key(t, "Plato"), testutils.Links())
	s := newStore(f)
	ctx := context.Background()

	start, err := s.Fetch(ctx, "Socrates", nil)
	require.NoError(t, err)

	next, ok, err := s.FetchNext(ctx, start.Page)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, key(t, "Plato"), next.Key)
	assert.Equal(t, 2, start.Page.Cursor())
}

func TestStore_BacktrackReturnsSameParent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  string
	}{
		{"question mark", "./What_Is_to_Be_Done%3F"},
		{"percent sign", "./100%25_(album)"},
		{"ampersand and hash", "./AT%26T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parentKey := key(t, tt.ref)
			f := testutils.NewMockFetcher()
			f.OnArticle(parentKey, testutils.Links("Leaf")).Once()
			f.OnArticle(key(t, "Leaf"), testutils.Links()).Once()
			s := newStore(f)
			ctx := context.Background()

			parent, err := s.Fetch(ctx, tt.ref, nil)
			require.NoError(t, err)

			leaf, ok, err := s.FetchNext(ctx, parent.Page)
			require.NoError(t, err)
			require.True(t, ok)

			back, kind, err := s.Move(ctx, leaf.Page)
			require.NoError(t, err)
			assert.Equal(t, page.StepBacktrack, kind)
			assert.Same(t, parent, back)
			assert.Equal(t, 2, s.Fetches())
			f.AssertExpectations(t)
		})
	}
}

func TestStore_MoveReportsBacktrackAfterSkippedLinks(t *testing.T) {
	t.Parallel()

	f := testutils.NewMockFetcher()
	f.OnArticle(key(t, "Root"), testutils.Links("Branch"))
	f.OnArticle(key(t, "Branch"), testutils.Links("Leaf", ""))
	f.OnArticle(key(t, "Leaf"), testutils.Links())
	s := newStore(f)
	ctx := context.Background()

	root, err := s.Fetch(ctx, "Root", nil)
	require.NoError(t, err)
	branch, _, err := s.Move(ctx, root.Page)
	require.NoError(t, err)
	_, kind, err := s.Move(ctx, branch.Page)
	require.NoError(t, err)
	require.Equal(t, page.StepLink, kind)

	// Only the unresolvable "./" link is left on Branch.
	require.False(t, branch.Page.Exhausted())
	back, kind, err := s.Move(ctx, branch.Page)
	require.NoError(t, err)
	assert.Equal(t, page.StepBacktrack, kind)
	assert.Same(t, root, back)

	_, kind, err = s.Move(ctx, root.Page)
	require.NoError(t, err)
	assert.Equal(t, page.StepExhausted, kind)
}
