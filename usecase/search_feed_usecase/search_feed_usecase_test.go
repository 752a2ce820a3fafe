package search_feed_usecase

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"feedsearch/domain"
	"feedsearch/driver/feedly"
	"feedsearch/logger"
	"feedsearch/utils/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	site *domain.SiteHost
	memo *domain.SitePath

	pathQueries int
	saveCalls   int
	savedSite   *domain.SiteHost
	savedFeeds  []*domain.Feed
	savedPath   *domain.SitePath
}

func (f *fakeStore) QuerySiteFeeds(ctx context.Context, host string) *domain.SiteHost {
	return f.site
}

func (f *fakeStore) QuerySitePath(ctx context.Context, host, path string) *domain.SitePath {
	f.pathQueries++
	return f.memo
}

func (f *fakeStore) ListSites(ctx context.Context) []*domain.SiteHost {
	return nil
}

func (f *fakeStore) SaveSiteFeeds(ctx context.Context, site *domain.SiteHost, feeds []*domain.Feed, sitePath *domain.SitePath) {
	f.saveCalls++
	f.savedSite = site
	f.savedFeeds = feeds
	f.savedPath = sitePath
}

type fakeDirectory struct {
	urls  []string
	calls int
}

func (f *fakeDirectory) FetchFeedlyURLs(ctx context.Context, query string) []string {
	f.calls++
	return f.urls
}

func (f *fakeDirectory) ValidateFeedlyURLs(candidates []string, existing map[string]bool, host string) []string {
	return feedly.ValidateURLs(candidates, existing, host)
}

type fakeCrawler struct {
	feeds []*domain.Feed
	stats *domain.CrawlStats
	err   error

	calls         int
	gotSeeds      []string
	gotTryAll     bool
	gotCrawlHosts bool
}

func (f *fakeCrawler) Crawl(ctx context.Context, seeds []string, tryAllPaths, crawlHosts bool) ([]*domain.Feed, *domain.CrawlStats, error) {
	f.calls++
	f.gotSeeds = seeds
	f.gotTryAll = tryAllPaths
	f.gotCrawlHosts = crawlHosts
	return f.feeds, f.stats, f.err
}

func testLogger() *logger.ContextLogger {
	return logger.NewContextLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newUsecase(store *fakeStore, directory *fakeDirectory, crawler *fakeCrawler) *SearchFeedUsecase {
	return NewSearchFeedUsecase(store, directory, crawler, 7, testLogger())
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	return parsed
}

func timePtr(t time.Time) *time.Time { return &t }

func successStats() *domain.CrawlStats {
	stats := domain.NewCrawlStats()
	stats.StatusCodes[200] = 3
	return stats
}

func TestShouldRunCrawl(t *testing.T) {
	tests := []struct {
		name                               string
		force, skip, searchingPath, recent bool
		want                               bool
	}{
		{"force wins over skip and recency", true, true, false, true, true},
		{"skip stops a stale site", false, true, false, false, false},
		{"skip stops a path search", false, true, true, false, false},
		{"path search crawls a recent site", false, false, true, true, true},
		{"stale site crawls", false, false, false, false, true},
		{"recent site does not", false, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRunCrawl(tt.force, tt.skip, tt.searchingPath, tt.recent))
		})
	}
}

func TestExecute_ColdQuery(t *testing.T) {
	store := &fakeStore{}
	crawler := &fakeCrawler{
		feeds: []*domain.Feed{{URL: "https://example.com/feed.xml", Title: "Ex"}},
		stats: successStats(),
	}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{CheckDirectory: true})
	require.NoError(t, err)

	require.Len(t, result.Feeds, 1)
	assert.Equal(t, "https://example.com/feed.xml", result.Feeds[0].URL)
	assert.Equal(t, "example.com", result.Feeds[0].Host)
	assert.NotNil(t, result.Feeds[0].LastSeen)
	assert.True(t, result.Crawled)
	assert.NotZero(t, result.Feeds[0].Score)

	// one site, one feed, one path memo persisted
	require.Equal(t, 1, store.saveCalls)
	assert.Equal(t, "example.com", store.savedSite.Host)
	assert.NotNil(t, store.savedSite.LastSeen)
	require.Len(t, store.savedFeeds, 1)
	assert.Equal(t, "/", store.savedPath.Path)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, store.savedPath.Feeds)
	assert.NotNil(t, store.savedPath.LastSeen)
}

func TestExecute_PathCacheHitIssuesNoHTTP(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.LastSeen = timePtr(time.Now().UTC().Add(-time.Hour))
	site.Feeds["https://example.com/blog/rss"] = &domain.Feed{URL: "https://example.com/blog/rss", Score: 10}
	site.Feeds["https://example.com/other"] = &domain.Feed{URL: "https://example.com/other"}

	store := &fakeStore{
		site: site,
		memo: &domain.SitePath{
			Host: "example.com", Path: "/blog",
			LastSeen: timePtr(time.Now().UTC().Add(-time.Minute)),
			Feeds:    []string{"https://example.com/blog/rss", "https://example.com/gone"},
		},
	}
	directory := &fakeDirectory{}
	crawler := &fakeCrawler{}
	uc := newUsecase(store, directory, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com/blog"), SearchOptions{CheckDirectory: true})
	require.NoError(t, err)

	// dangling memo references are dropped
	require.Len(t, result.Feeds, 1)
	assert.Equal(t, "https://example.com/blog/rss", result.Feeds[0].URL)
	assert.False(t, result.Crawled)

	assert.Zero(t, directory.calls)
	assert.Zero(t, crawler.calls)
	assert.Zero(t, store.saveCalls)
}

func TestExecute_ForceBypassesCacheAndRecency(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.LastSeen = timePtr(time.Now().UTC().Add(-time.Hour))
	store := &fakeStore{site: site}
	crawler := &fakeCrawler{
		feeds: []*domain.Feed{{URL: "https://example.com/feed.xml"}},
		stats: successStats(),
	}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{Force: true})
	require.NoError(t, err)

	assert.Equal(t, 1, crawler.calls)
	assert.Zero(t, store.pathQueries)
	assert.True(t, result.Crawled)
	assert.Equal(t, 1, store.saveCalls)
}

func TestExecute_SkipCrawlAnswersFromStore(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.Feeds["https://example.com/feed.xml"] = &domain.Feed{URL: "https://example.com/feed.xml"}
	store := &fakeStore{site: site}
	crawler := &fakeCrawler{}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{SkipCrawl: true})
	require.NoError(t, err)

	assert.Zero(t, crawler.calls)
	assert.False(t, result.Crawled)
	require.Len(t, result.Feeds, 1)
	assert.Zero(t, store.saveCalls)
}

func TestExecute_DirectorySeedsConstrainedToHost(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.Feeds["https://example.com/known.xml"] = &domain.Feed{
		URL:      "https://example.com/known.xml",
		LastSeen: timePtr(time.Now().UTC().Add(-time.Hour)),
	}
	store := &fakeStore{site: site}
	directory := &fakeDirectory{urls: []string{
		"https://other.com/rss",
		"https://example.com/atom.xml",
		"https://example.com/known.xml",
	}}
	crawler := &fakeCrawler{stats: successStats()}
	uc := newUsecase(store, directory, crawler)

	_, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{CheckDirectory: true})
	require.NoError(t, err)

	assert.Equal(t, 1, directory.calls)
	assert.Contains(t, crawler.gotSeeds, "https://example.com")
	assert.Contains(t, crawler.gotSeeds, "https://example.com/atom.xml")
	assert.NotContains(t, crawler.gotSeeds, "https://other.com/rss")
	assert.NotContains(t, crawler.gotSeeds, "https://example.com/known.xml")
}

func TestExecute_DirectorySkippedWhenSiteRecent(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.LastSeen = timePtr(time.Now().UTC().Add(-time.Hour))
	store := &fakeStore{site: site}
	directory := &fakeDirectory{urls: []string{"https://example.com/atom.xml"}}
	crawler := &fakeCrawler{stats: successStats()}
	uc := newUsecase(store, directory, crawler)

	// force makes the crawl run even though the site is recent
	_, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{Force: true, CheckDirectory: true})
	require.NoError(t, err)

	assert.Zero(t, directory.calls)
}

func TestExecute_StaleFeedsReseeded(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.Feeds["https://example.com/stale.xml"] = &domain.Feed{
		URL:      "https://example.com/stale.xml",
		LastSeen: timePtr(time.Now().UTC().AddDate(0, 0, -30)),
	}
	site.Feeds["https://example.com/fresh.xml"] = &domain.Feed{
		URL:      "https://example.com/fresh.xml",
		LastSeen: timePtr(time.Now().UTC().Add(-time.Hour)),
	}
	store := &fakeStore{site: site}
	crawler := &fakeCrawler{stats: successStats()}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	_, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{})
	require.NoError(t, err)

	assert.Contains(t, crawler.gotSeeds, "https://example.com/stale.xml")
	assert.NotContains(t, crawler.gotSeeds, "https://example.com/fresh.xml")
}

func TestExecute_NoResponseIsNotFound(t *testing.T) {
	store := &fakeStore{}
	crawler := &fakeCrawler{stats: domain.NewCrawlStats()}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	_, err := uc.Execute(context.Background(), mustURL(t, "https://unreachable.example"), SearchOptions{})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, "No Response from URL: https://unreachable.example", appErr.Message)
	assert.Zero(t, store.saveCalls)
}

func TestExecute_NoPersistWithout200(t *testing.T) {
	store := &fakeStore{}
	stats := domain.NewCrawlStats()
	stats.StatusCodes[404] = 2
	crawler := &fakeCrawler{
		feeds: []*domain.Feed{{URL: "https://example.com/feed.xml"}},
		stats: stats,
	}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{})
	require.NoError(t, err)

	assert.Zero(t, store.saveCalls)
	assert.Len(t, result.Feeds, 1)
}

func TestExecute_MergeKeepsKnownFavicon(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.Feeds["https://example.com/feed.xml"] = &domain.Feed{
		URL:      "https://example.com/feed.xml",
		Favicon:  "https://example.com/favicon.ico",
		SiteName: "Example",
	}
	store := &fakeStore{site: site}
	crawler := &fakeCrawler{
		feeds: []*domain.Feed{{URL: "https://example.com/feed.xml", Title: "Fresh title"}},
		stats: successStats(),
	}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{Force: true})
	require.NoError(t, err)

	require.Len(t, result.Feeds, 1)
	assert.Equal(t, "Fresh title", result.Feeds[0].Title)
	assert.Equal(t, "https://example.com/favicon.ico", result.Feeds[0].Favicon)
	assert.Equal(t, "Example", result.Feeds[0].SiteName)
}

func TestExecute_PathSearchReturnsOnlyCrawledFeeds(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	site.Feeds["https://example.com/main.xml"] = &domain.Feed{URL: "https://example.com/main.xml"}
	store := &fakeStore{site: site}
	crawler := &fakeCrawler{
		feeds: []*domain.Feed{{URL: "https://example.com/blog/rss"}},
		stats: successStats(),
	}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com/blog"), SearchOptions{})
	require.NoError(t, err)

	require.Len(t, result.Feeds, 1)
	assert.Equal(t, "https://example.com/blog/rss", result.Feeds[0].URL)

	// the site record still persists the whole feed set
	require.Equal(t, 1, store.saveCalls)
	assert.Len(t, store.savedFeeds, 2)
}

func TestExecute_CrawlerErrorPropagates(t *testing.T) {
	store := &fakeStore{}
	crawler := &fakeCrawler{err: errors.CrawlerError("crawl failed", nil, nil)}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	_, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCrawler, appErr.Code)
}

func TestExecute_SortedByScoreThenURL(t *testing.T) {
	store := &fakeStore{}
	crawler := &fakeCrawler{
		feeds: []*domain.Feed{
			{URL: "https://example.com/weak"},
			{URL: "https://example.com/atom.xml", Description: "d"},
		},
		stats: successStats(),
	}
	uc := newUsecase(store, &fakeDirectory{}, crawler)

	result, err := uc.Execute(context.Background(), mustURL(t, "https://example.com"), SearchOptions{})
	require.NoError(t, err)

	require.Len(t, result.Feeds, 2)
	assert.Equal(t, "https://example.com/atom.xml", result.Feeds[0].URL)
	assert.Greater(t, result.Feeds[0].Score, result.Feeds[1].Score)
}
