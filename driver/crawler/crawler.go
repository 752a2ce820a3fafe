// Package crawler discovers feeds by breadth-first crawling from a set of
// seed URLs. A Crawler instance serves one crawl and owns its HTTP client.
package crawler

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"feedsearch/domain"
	"feedsearch/utils"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// wellKnownPaths are probed on every seed origin when TryAllPaths is set.
var wellKnownPaths = []string{
	"/feed", "/rss", "/feed.xml", "/rss.xml", "/atom.xml",
	"/index.xml", "/feeds/posts/default",
}

type Config struct {
	UserAgent      string
	Concurrency    int
	RequestTimeout time.Duration
	TotalTimeout   time.Duration
	MaxDepth       int
	// AllowPrivateHosts disables the private-address guard. Tests crawl
	// loopback servers.
	AllowPrivateHosts bool
}

type Options struct {
	TryAllPaths   bool
	CrawlHosts    bool
	FetchFavicons bool
}

type Crawler struct {
	cfg    Config
	client *http.Client
	robots *robotsCache

	limiterMu sync.Mutex
	limiters  map[string]*rate.Limiter

	mu    sync.Mutex
	stats *domain.CrawlStats
	feeds map[string]*domain.Feed
	sites map[string]*siteMeta
	seen  map[string]bool
}

// siteMeta collects page-level metadata per origin, applied to the origin's
// feeds once the crawl settles.
type siteMeta struct {
	siteURL  string
	siteName string
	favicon  string
}

func New(cfg Config) *Crawler {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	return &Crawler{
		cfg:      cfg,
		client:   client,
		robots:   newRobotsCache(client, cfg.UserAgent),
		limiters: make(map[string]*rate.Limiter),
		stats:    domain.NewCrawlStats(),
		feeds:    make(map[string]*domain.Feed),
		sites:    make(map[string]*siteMeta),
		seen:     make(map[string]bool),
	}
}

// Crawl runs to completion and returns the discovered feeds sorted by URL
// plus the run stats. On total-timeout expiry it returns what it has.
func (c *Crawler) Crawl(ctx context.Context, seeds []string, opts Options) ([]*domain.Feed, *domain.CrawlStats, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TotalTimeout)
	defer cancel()

	frontier := c.assembleSeeds(seeds, opts)

	for depth := 0; depth <= c.cfg.MaxDepth && len(frontier) > 0; depth++ {
		if ctx.Err() != nil {
			break
		}

		var nextMu sync.Mutex
		next := make([]string, 0)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.cfg.Concurrency)
		for _, target := range frontier {
			if ctx.Err() != nil {
				break
			}
			target := target
			g.Go(func() error {
				discovered := c.visit(gctx, target, opts)
				if len(discovered) > 0 {
					nextMu.Lock()
					next = append(next, discovered...)
					nextMu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()

		frontier = c.claimUnseen(next)
	}

	c.applySiteMeta(ctx, opts)

	feeds := make([]*domain.Feed, 0, len(c.feeds))
	for _, feed := range c.feeds {
		feeds = append(feeds, feed)
	}
	sort.Slice(feeds, func(i, j int) bool { return feeds[i].URL < feeds[j].URL })
	return feeds, c.stats, nil
}

// assembleSeeds dedupes the seed list and expands it per the options:
// origins when CrawlHosts, well-known feed paths when TryAllPaths.
func (c *Crawler) assembleSeeds(seeds []string, opts Options) []string {
	expanded := make([]string, 0, len(seeds))
	origins := make(map[string]bool)

	for _, seed := range seeds {
		parsed, err := url.Parse(seed)
		if err != nil || parsed.Host == "" {
			continue
		}
		expanded = append(expanded, seed)
		origins[parsed.Scheme+"://"+parsed.Host] = true
	}

	for origin := range origins {
		if opts.CrawlHosts {
			expanded = append(expanded, origin+"/")
		}
		if opts.TryAllPaths {
			for _, path := range wellKnownPaths {
				expanded = append(expanded, origin+path)
			}
		}
	}

	return c.claimUnseen(expanded)
}

// claimUnseen marks URLs as seen and returns the ones claimed, preserving
// order.
func (c *Crawler) claimUnseen(urls []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	claimed := make([]string, 0, len(urls))
	for _, u := range urls {
		key := strings.TrimSuffix(u, "/")
		if c.seen[key] {
			continue
		}
		c.seen[key] = true
		c.stats.URLsSeen++
		claimed = append(claimed, u)
	}
	return claimed
}

// visit fetches one URL and classifies the response: feed documents are
// parsed and recorded, HTML pages are mined for metadata and links to
// crawl next.
func (c *Crawler) visit(ctx context.Context, target string, opts Options) []string {
	page, ok := c.fetch(ctx, target)
	if !ok || page.status != http.StatusOK {
		return nil
	}

	if isFeedContent(page.contentType, page.body) {
		feed := parseFeed(page)
		c.recordFeed(feed)
		return nil
	}

	if !strings.Contains(page.contentType, "html") {
		return nil
	}

	meta, links := discoverHTML(page)
	if meta != nil {
		c.recordSiteMeta(page.finalURL, meta)
	}
	return links
}

func (c *Crawler) recordFeed(feed *domain.Feed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.feeds[feed.URL]; ok {
		existing.Merge(feed)
		return
	}
	c.feeds[feed.URL] = feed
}

func (c *Crawler) recordSiteMeta(pageURL *url.URL, meta *siteMeta) {
	origin := pageURL.Scheme + "://" + pageURL.Host
	if meta.siteURL == "" {
		meta.siteURL = origin
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	existing, ok := c.sites[utils.RootHost(pageURL.Hostname())]
	if !ok {
		c.sites[utils.RootHost(pageURL.Hostname())] = meta
		return
	}
	if existing.siteName == "" {
		existing.siteName = meta.siteName
	}
	if existing.favicon == "" {
		existing.favicon = meta.favicon
	}
}

// applySiteMeta copies collected page metadata onto the feeds of the same
// root host, inlining favicons when requested.
func (c *Crawler) applySiteMeta(ctx context.Context, opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()

	dataURIs := make(map[string]string)
	for _, feed := range c.feeds {
		parsed, err := url.Parse(feed.URL)
		if err != nil {
			continue
		}
		meta, ok := c.sites[utils.RootHost(parsed.Hostname())]
		if !ok {
			continue
		}

		if feed.SiteURL == "" {
			feed.SiteURL = meta.siteURL
		}
		if feed.SiteName == "" {
			feed.SiteName = meta.siteName
		}
		if feed.Favicon == "" {
			feed.Favicon = meta.favicon
		}
		if opts.FetchFavicons && feed.Favicon != "" && feed.FaviconDataURI == "" {
			uri, cached := dataURIs[feed.Favicon]
			if !cached {
				uri = c.fetchFaviconDataURI(ctx, feed.Favicon)
				dataURIs[feed.Favicon] = uri
			}
			feed.FaviconDataURI = uri
		}
	}
}

func (c *Crawler) limiter(host string) *rate.Limiter {
	c.limiterMu.Lock()
	defer c.limiterMu.Unlock()
	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(10), 5)
		c.limiters[host] = limiter
	}
	return limiter
}
