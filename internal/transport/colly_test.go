package transport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/transport"
	"github.com/jonesrussell/philosophy/internal/wiki"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<html><body class="mw-parser-output"><p><a rel="mw:WikiLink" href="./Plato">Plato</a></p></body></html>`

type fakeWiki struct {
	server     *httptest.Server
	userAgents atomic.Value
	requests   atomic.Int32
}

func newFakeWiki(t *testing.T) *fakeWiki {
	t.Helper()

	fw := &fakeWiki{}
	mux := http.NewServeMux()
	mux.HandleFunc("/w/rest.php/v1/page/Socrates/html", func(w http.ResponseWriter, r *http.Request) {
		fw.requests.Add(1)
		fw.userAgents.Store(r.UserAgent())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	})
	mux.HandleFunc("/w/rest.php/v1/page/Forbidden/html", func(w http.ResponseWriter, _ *http.Request) {
		fw.requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/w/rest.php/v1/page/Broken/html", func(w http.ResponseWriter, _ *http.Request) {
		fw.requests.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fw.requests.Add(1)
		http.NotFound(w, nil)
	})

	fw.server = httptest.NewServer(mux)
	t.Cleanup(fw.server.Close)
	return fw
}

func (fw *fakeWiki) fetcher(t *testing.T, ctx context.Context) (*transport.CollyFetcher, wiki.Site) {
	t.Helper()

	site := wiki.NewSite(fw.server.URL, "", "")
	f, err := transport.NewCollyFetcher(ctx, transport.CollyConfig{
		Site:           site,
		UserAgent:      "philosophy-test/1.0",
		RequestTimeout: 5 * time.Second,
	}, logger.NewNoOp())
	require.NoError(t, err)
	return f, site
}

func resolve(t *testing.T, site wiki.Site, ref string) wiki.Key {
	t.Helper()

	key, err := site.Resolve(ref)
	require.NoError(t, err)
	return key
}

func TestCollyFetcher_OK(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t)
	f, site := fw.fetcher(t, context.Background())

	body, err := f.Fetch(context.Background(), resolve(t, site, "Socrates"))
	require.NoError(t, err)
	assert.Equal(t, articleHTML, string(body))
	assert.Equal(t, "philosophy-test/1.0", fw.userAgents.Load())
}

func TestCollyFetcher_RevisitsAreNotSuppressed(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t)
	f, site := fw.fetcher(t, context.Background())
	key := resolve(t, site, "Socrates")

	for range 2 {
		_, err := f.Fetch(context.Background(), key)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), fw.requests.Load())
}

func TestCollyFetcher_NotFound(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t)
	f, site := fw.fetcher(t, context.Background())

	_, err := f.Fetch(context.Background(), resolve(t, site, "Nowhere"))
	require.ErrorIs(t, err, transport.ErrNotFound)
}

func TestCollyFetcher_StatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref       string
		wantCode  int
		wantClass string
	}{
		{"Forbidden", http.StatusForbidden, transport.ClassClient},
		{"Broken", http.StatusServiceUnavailable, transport.ClassServer},
	}

	fw := newFakeWiki(t)
	f, site := fw.fetcher(t, context.Background())

	for _, tt := range tests {
		_, err := f.Fetch(context.Background(), resolve(t, site, tt.ref))

		var statusErr *transport.StatusError
		require.True(t, errors.As(err, &statusErr), tt.ref)
		assert.Equal(t, tt.wantCode, statusErr.StatusCode)
		assert.Equal(t, tt.wantClass, statusErr.Class())
		assert.Contains(t, statusErr.Error(), tt.wantClass+" error")
	}
}

func TestCollyFetcher_CancelledContext(t *testing.T) {
	t.Parallel()

	fw := newFakeWiki(t)
	f, site := fw.fetcher(t, context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, resolve(t, site, "Socrates"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), fw.requests.Load())
}

func TestStatusError_Class(t *testing.T) {
	t.Parallel()

	assert.Equal(t, transport.ClassClient, (&transport.StatusError{StatusCode: 429}).Class())
	assert.Equal(t, transport.ClassServer, (&transport.StatusError{StatusCode: 500}).Class())
	assert.Equal(t, transport.ClassUnexpected, (&transport.StatusError{StatusCode: 302}).Class())
}
