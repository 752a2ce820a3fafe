package port

import (
	"context"

	"feedsearch/domain"
)

// FeedStore is the memoization surface of the search. Reads never fail
// from the caller's perspective: store trouble degrades to empty results,
// and writes are best effort.
type FeedStore interface {
	// QuerySiteFeeds loads a site and its feeds; nil when unknown.
	QuerySiteFeeds(ctx context.Context, host string) *domain.SiteHost
	// QuerySitePath loads the memo for one query path; nil when unknown.
	QuerySitePath(ctx context.Context, host, path string) *domain.SitePath
	// ListSites returns every stored site, metadata only.
	ListSites(ctx context.Context) []*domain.SiteHost
	// SaveSiteFeeds persists the site, its feeds and the path memo.
	SaveSiteFeeds(ctx context.Context, site *domain.SiteHost, feeds []*domain.Feed, sitePath *domain.SitePath)
}
