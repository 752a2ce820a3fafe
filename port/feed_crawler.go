package port

import (
	"context"

	"feedsearch/domain"
)

// FeedCrawler runs one bounded crawl over the seed URLs and returns the
// discovered feeds sorted by URL plus run stats.
type FeedCrawler interface {
	Crawl(ctx context.Context, seeds []string, tryAllPaths, crawlHosts bool) ([]*domain.Feed, *domain.CrawlStats, error)
}
