// Package transport fetches raw article markup. It is the only package that
// talks to the network, and it does so one request at a time.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonesrussell/philosophy/internal/wiki"
)

// ErrNotFound is returned when the wiki has no article for the key.
var ErrNotFound = errors.New("article not found")

// Status classes reported by StatusError.
const (
	ClassClient     = "client"
	ClassServer     = "server"
	ClassUnexpected = "unexpected"
)

// Fetcher returns the raw markup of an article.
type Fetcher interface {
	// Fetch returns the markup for key, ErrNotFound, or another error that
	// must end the run.
	Fetch(ctx context.Context, key wiki.Key) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, key wiki.Key) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, key wiki.Key) ([]byte, error) {
	return f(ctx, key)
}

// StatusError reports an HTTP status other than 200 or 404.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error fetching %s: %d %s",
		e.Class(), e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Class returns "client" for 4xx, "server" for 5xx and "unexpected" otherwise.
func (e *StatusError) Class() string {
	switch {
	case e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError:
		return ClassClient
	case e.StatusCode >= http.StatusInternalServerError && e.StatusCode < 600:
		return ClassServer
	default:
		return ClassUnexpected
	}
}

// classify maps a response status to the transport contract.
func classify(url string, statusCode int, body []byte) ([]byte, error) {
	switch statusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{URL: url, StatusCode: statusCode}
	}
}
