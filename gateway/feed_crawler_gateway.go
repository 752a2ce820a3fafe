package gateway

import (
	"context"

	"feedsearch/domain"
	"feedsearch/driver/crawler"
	"feedsearch/utils/errors"
)

// FeedCrawlerGateway builds a fresh crawler per call; each crawl owns its
// HTTP client and connection pool.
type FeedCrawlerGateway struct {
	cfg crawler.Config
}

func NewFeedCrawlerGateway(cfg crawler.Config) *FeedCrawlerGateway {
	return &FeedCrawlerGateway{cfg: cfg}
}

func (g *FeedCrawlerGateway) Crawl(ctx context.Context, seeds []string, tryAllPaths, crawlHosts bool) ([]*domain.Feed, *domain.CrawlStats, error) {
	feeds, stats, err := crawler.New(g.cfg).Crawl(ctx, seeds, crawler.Options{
		TryAllPaths:   tryAllPaths,
		CrawlHosts:    crawlHosts,
		FetchFavicons: true,
	})
	if err != nil {
		return nil, nil, errors.CrawlerError("crawl failed", err, map[string]interface{}{
			"seed_count": len(seeds),
		})
	}
	return feeds, stats, nil
}
