// Package search_feed_usecase orchestrates one feed search: memoized site
// state, directory candidates, the crawl itself, scoring and persistence.
package search_feed_usecase

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"time"

	"feedsearch/domain"
	"feedsearch/logger"
	"feedsearch/port"
	"feedsearch/utils"
	"feedsearch/utils/errors"
)

type SearchOptions struct {
	// CheckAll probes the well-known feed paths on every seed origin.
	CheckAll bool
	// Force crawls even when the site was seen recently.
	Force bool
	// CheckDirectory consults the feed directory for extra seeds.
	CheckDirectory bool
	// SkipCrawl answers from the store only, unless Force is set.
	SkipCrawl bool
}

type SearchResult struct {
	Feeds        []*domain.Feed
	Stats        *domain.CrawlStats
	Crawled      bool
	SearchTimeMS int64
}

type SearchFeedUsecase struct {
	store      port.FeedStore
	directory  port.DirectoryClient
	crawler    port.FeedCrawler
	daysRecent int
	logger     *logger.ContextLogger
	now        func() time.Time
}

func NewSearchFeedUsecase(store port.FeedStore, directory port.DirectoryClient, crawler port.FeedCrawler, daysRecent int, contextLogger *logger.ContextLogger) *SearchFeedUsecase {
	if contextLogger == nil {
		contextLogger = logger.NewContextLogger(slog.Default())
	}
	return &SearchFeedUsecase{
		store:      store,
		directory:  directory,
		crawler:    crawler,
		daysRecent: daysRecent,
		logger:     contextLogger,
		now:        time.Now,
	}
}

// Execute runs the search state machine for one validated query URL.
func (u *SearchFeedUsecase) Execute(ctx context.Context, queryURL *url.URL, opts SearchOptions) (*SearchResult, error) {
	start := u.now()

	host := utils.RootHost(queryURL.Hostname())
	searchingPath := utils.HasPath(queryURL)
	path := utils.PathOrRoot(queryURL)

	ctx = logger.WithSearchHost(ctx, host)
	u.logger.WithContext(ctx).Info("Feed search started",
		"query", queryURL.String(),
		"searching_path", searchingPath,
		"force", opts.Force,
	)

	site := u.store.QuerySiteFeeds(ctx, host)
	if site == nil {
		site = domain.NewSiteHost(host)
	}

	// A recently crawled query path answers straight from the store.
	if searchingPath && len(site.Feeds) > 0 && !opts.Force {
		if memo := u.store.QuerySitePath(ctx, host, path); memo != nil &&
			utils.SeenRecentlyAt(memo.LastSeen, u.daysRecent, u.now()) {
			feeds := resolvePathFeeds(site, memo)
			u.logger.WithContext(ctx).Info("Feed search answered from path memo",
				"path", path, "feed_count", len(feeds))
			return &SearchResult{
				Feeds:        sortFeeds(feeds),
				SearchTimeMS: u.elapsedMS(start),
			}, nil
		}
	}

	siteRecent := utils.SeenRecentlyAt(site.LastSeen, u.daysRecent, u.now())

	var (
		stats     *domain.CrawlStats
		crawled   bool
		crawlList []*domain.Feed
	)
	if shouldRunCrawl(opts.Force, opts.SkipCrawl, searchingPath, siteRecent) {
		seeds := u.assembleSeeds(ctx, queryURL, site, host, siteRecent, searchingPath, opts)

		feeds, crawlStats, err := u.crawler.Crawl(ctx, seeds, opts.CheckAll, true)
		if err != nil {
			u.logger.LogError(ctx, "crawl", err)
			return nil, err
		}
		crawled = true
		stats = crawlStats
		crawlList = feeds
	}

	now := utils.ForceUTC(u.now())
	crawlList = u.absorbCrawledFeeds(site, crawlList, host, now)

	for _, feed := range site.Feeds {
		domain.ScoreFeed(feed, host)
	}

	searchTime := u.elapsedMS(start)
	if stats != nil {
		stats.SearchTime = searchTime
	}

	if crawled && stats.HasSuccess() {
		u.persist(ctx, site, crawlList, path, now, stats)
	}

	selection := site.FeedList()
	if searchingPath {
		selection = crawlList
	}

	if len(selection) == 0 && crawled && stats != nil && stats.NoResponse() {
		return nil, errors.NotFoundError("No Response from URL: "+queryURL.String(), map[string]interface{}{
			"host": host,
		})
	}

	u.logger.WithContext(ctx).Info("Feed search finished",
		"feed_count", len(selection),
		"crawled", crawled,
		"duration_ms", searchTime,
	)

	return &SearchResult{
		Feeds:        sortFeeds(selection),
		Stats:        stats,
		Crawled:      crawled,
		SearchTimeMS: searchTime,
	}, nil
}

// shouldRunCrawl is the crawl decision: force wins, then skip, then a path
// query always crawls, and a plain site query crawls only when stale.
func shouldRunCrawl(force, skip, searchingPath, siteRecent bool) bool {
	switch {
	case force:
		return true
	case skip:
		return false
	case searchingPath:
		return true
	default:
		return !siteRecent
	}
}

// assembleSeeds builds the crawl seed list: the query URL, fresh directory
// candidates when the site is stale, and the site's own stale feeds on a
// root query.
func (u *SearchFeedUsecase) assembleSeeds(ctx context.Context, queryURL *url.URL, site *domain.SiteHost, host string, siteRecent, searchingPath bool, opts SearchOptions) []string {
	seeds := []string{queryURL.String()}

	if opts.CheckDirectory && !siteRecent {
		existing := make(map[string]bool, len(site.Feeds))
		for feedURL := range site.Feeds {
			existing[feedURL] = true
		}
		candidates := u.directory.FetchFeedlyURLs(ctx, queryURL.String())
		validated := u.directory.ValidateFeedlyURLs(candidates, existing, host)
		seeds = append(seeds, validated...)
		u.logger.WithContext(ctx).Debug("Directory candidates validated",
			"candidates", len(candidates), "validated", len(validated))
	}

	if !searchingPath {
		for _, feed := range site.Feeds {
			if !utils.SeenRecentlyAt(feed.LastSeen, u.daysRecent, u.now()) {
				seeds = append(seeds, feed.URL)
			}
		}
	}

	return seeds
}

// absorbCrawledFeeds stamps and upserts crawl results into the site,
// merging conservatively with what was already known. Returns the valid
// records actually absorbed.
func (u *SearchFeedUsecase) absorbCrawledFeeds(site *domain.SiteHost, crawlList []*domain.Feed, host string, now time.Time) []*domain.Feed {
	absorbed := make([]*domain.Feed, 0, len(crawlList))
	for _, feed := range crawlList {
		seen := now
		feed.LastSeen = &seen
		feed.Host = host

		if existing, ok := site.Feeds[feed.URL]; ok {
			feed.Merge(existing)
		}
		if !feed.IsValid() {
			continue
		}
		site.Feeds[feed.URL] = feed
		absorbed = append(absorbed, feed)
	}
	return absorbed
}

func (u *SearchFeedUsecase) persist(ctx context.Context, site *domain.SiteHost, crawlList []*domain.Feed, path string, now time.Time, stats *domain.CrawlStats) {
	seen := now
	site.LastSeen = &seen

	sitePath := domain.NewSitePath(site.Host, path)
	sitePath.LastSeen = &seen
	sitePath.Feeds = make([]string, 0, len(crawlList))
	for _, feed := range crawlList {
		sitePath.Feeds = append(sitePath.Feeds, feed.URL)
	}

	dumpStart := u.now()
	u.store.SaveSiteFeeds(ctx, site, site.FeedList(), sitePath)
	stats.DumpTime = u.elapsedMS(dumpStart)
}

// resolvePathFeeds maps a path memo back to the site's feed records,
// dropping dangling references.
func resolvePathFeeds(site *domain.SiteHost, memo *domain.SitePath) []*domain.Feed {
	feeds := make([]*domain.Feed, 0, len(memo.Feeds))
	for _, feedURL := range memo.Feeds {
		if feed, ok := site.Feeds[feedURL]; ok {
			feeds = append(feeds, feed)
		}
	}
	return feeds
}

// sortFeeds orders by score descending with URL as a stable tiebreak.
func sortFeeds(feeds []*domain.Feed) []*domain.Feed {
	sort.Slice(feeds, func(i, j int) bool {
		if feeds[i].Score != feeds[j].Score {
			return feeds[i].Score > feeds[j].Score
		}
		return feeds[i].URL < feeds[j].URL
	})
	return feeds
}

func (u *SearchFeedUsecase) elapsedMS(since time.Time) int64 {
	return u.now().Sub(since).Milliseconds()
}
