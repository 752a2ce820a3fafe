package gateway

import (
	"context"
	"log/slog"

	"feedsearch/domain"

	"github.com/getsentry/sentry-go"
)

// StoreDriver is the subset of the kvstore driver the gateway uses.
type StoreDriver interface {
	GetSite(ctx context.Context, host string) (*domain.SiteHost, error)
	GetSitePath(ctx context.Context, host, path string) (*domain.SitePath, error)
	ListSites(ctx context.Context) ([]*domain.SiteHost, error)
	SaveSite(ctx context.Context, site *domain.SiteHost, feeds []*domain.Feed, sitePath *domain.SitePath) error
}

// FeedStoreGateway implements the never-throw read policy over the store
// driver: failures are logged, captured, and turned into empty results so a
// broken store degrades the search instead of killing it.
type FeedStoreGateway struct {
	driver StoreDriver
	logger *slog.Logger
}

func NewFeedStoreGateway(driver StoreDriver, logger *slog.Logger) *FeedStoreGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedStoreGateway{driver: driver, logger: logger}
}

func (g *FeedStoreGateway) QuerySiteFeeds(ctx context.Context, host string) *domain.SiteHost {
	site, err := g.driver.GetSite(ctx, host)
	if err != nil {
		g.capture(ctx, err, "QuerySiteFeeds", "host", host)
		return nil
	}
	return site
}

func (g *FeedStoreGateway) QuerySitePath(ctx context.Context, host, path string) *domain.SitePath {
	sitePath, err := g.driver.GetSitePath(ctx, host, path)
	if err != nil {
		g.capture(ctx, err, "QuerySitePath", "host", host, "path", path)
		return nil
	}
	return sitePath
}

func (g *FeedStoreGateway) ListSites(ctx context.Context) []*domain.SiteHost {
	sites, err := g.driver.ListSites(ctx)
	if err != nil {
		g.capture(ctx, err, "ListSites")
		return []*domain.SiteHost{}
	}
	return sites
}

func (g *FeedStoreGateway) SaveSiteFeeds(ctx context.Context, site *domain.SiteHost, feeds []*domain.Feed, sitePath *domain.SitePath) {
	if err := g.driver.SaveSite(ctx, site, feeds, sitePath); err != nil {
		g.capture(ctx, err, "SaveSiteFeeds", "host", site.Host, "feed_count", len(feeds))
	}
}

func (g *FeedStoreGateway) capture(ctx context.Context, err error, operation string, args ...any) {
	g.logger.ErrorContext(ctx, "Store operation failed",
		append([]any{"operation", operation, "error", err}, args...)...)
	sentry.CaptureException(err)
}
