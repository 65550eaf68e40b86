package transport

import (
	"context"
	"fmt"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// Collector defaults
const (
	DefaultUserAgent      = "philosophy/1.0 (Getting to Philosophy player)"
	DefaultRequestTimeout = 30 * time.Second
	// parallelism is fixed: the game never has more than one request in flight.
	parallelism = 1
)

// CollyConfig configures the colly-backed fetcher.
type CollyConfig struct {
	Site           wiki.Site
	UserAgent      string
	RequestTimeout time.Duration
	// Delay is the pause colly enforces between consecutive requests.
	Delay time.Duration
}

// CollyFetcher fetches article HTML from the wiki's REST API with a
// synchronous colly collector.
type CollyFetcher struct {
	site      wiki.Site
	collector *colly.Collector
	log       logger.Interface
}

// NewCollyFetcher builds the collector. ctx bounds every request made by the
// fetcher for its whole lifetime.
func NewCollyFetcher(ctx context.Context, cfg CollyConfig, log logger.Interface) (*CollyFetcher, error) {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(cfg.UserAgent),
		colly.ParseHTTPErrorResponse(),
		// The page store decides what gets fetched again, not colly.
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.RequestTimeout)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       cfg.Delay,
		Parallelism: parallelism,
	}); err != nil {
		return nil, fmt.Errorf("failed to set rate limit: %w", err)
	}

	return &CollyFetcher{
		site:      cfg.Site,
		collector: c,
		log:       log.WithComponent("transport"),
	}, nil
}

// Fetch implements Fetcher.
func (f *CollyFetcher) Fetch(ctx context.Context, key wiki.Key) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	apiURL := f.site.APIURL(key)

	var (
		statusCode int
		body       []byte
		visitErr   error
	)

	// Clones share the HTTP backend and its limit rules.
	c := f.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	start := time.Now()
	if err := c.Visit(apiURL); err != nil && visitErr == nil {
		visitErr = err
	}

	f.log.Debug("Request completed",
		"url", apiURL,
		"status", statusCode,
		"bytes", len(body),
		"duration", time.Since(start),
	)

	if visitErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", apiURL, visitErr)
	}

	return classify(apiURL, statusCode, body)
}
