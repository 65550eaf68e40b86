// Package testutils provides shared testing utilities across the application.
package testutils

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/mock"

	"github.com/jonesrussell/philosophy/internal/transport"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// MockFetcher is a mock implementation of transport.Fetcher.
type MockFetcher struct {
	mock.Mock
}

// Ensure MockFetcher implements transport.Fetcher
var _ transport.Fetcher = (*MockFetcher)(nil)

// NewMockFetcher creates a new mock fetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

// Fetch mocks the fetch method
func (m *MockFetcher) Fetch(ctx context.Context, key wiki.Key) ([]byte, error) {
	args := m.Called(ctx, key)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	switch body := args.Get(0).(type) {
	case []byte:
		return body, nil
	case string:
		return []byte(body), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidResult, body)
	}
}

// OnArticle registers a successful response for key.
func (m *MockFetcher) OnArticle(key wiki.Key, markup string) *mock.Call {
	return m.On("Fetch", mock.Anything, key).Return(markup, nil)
}

// OnMissing registers a not-found response for key.
func (m *MockFetcher) OnMissing(key wiki.Key) *mock.Call {
	return m.On("Fetch", mock.Anything, key).Return(nil, transport.ErrNotFound)
}

// OnError registers a failing response for key.
func (m *MockFetcher) OnError(key wiki.Key, err error) *mock.Call {
	return m.On("Fetch", mock.Anything, key).Return(nil, err)
}
