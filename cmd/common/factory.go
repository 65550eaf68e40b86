package common

import (
	"context"
	"fmt"

	"github.com/jonesrussell/philosophy/internal/cache"
	"github.com/jonesrussell/philosophy/internal/config"
	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/store"
	"github.com/jonesrussell/philosophy/internal/transport"
)

// CreateFetcher builds the colly fetcher and, when a cache directory is
// configured, puts the disk cache in front of it.
func CreateFetcher(ctx context.Context, cfg config.Interface, log logger.Interface) (transport.Fetcher, error) {
	base, err := transport.NewCollyFetcher(ctx, cfg.CollyConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	if !cfg.GetCacheConfig().Enabled() {
		return base, nil
	}

	log.Debug("Disk cache enabled", "dir", cfg.GetCacheConfig().Dir)
	return transport.NewCached(base, cache.New(cfg.GetCacheConfig().Dir), log), nil
}

// CreateStore creates the fetcher and the page store in one call.
func CreateStore(ctx context.Context, deps CommandDeps) (*store.Store, error) {
	fetcher, err := CreateFetcher(ctx, deps.Config, deps.Logger)
	if err != nil {
		return nil, err
	}
	return store.New(deps.Config.GetWikiConfig().Site(), fetcher, deps.Logger), nil
}
