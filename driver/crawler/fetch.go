package crawler

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"sync"

	"feedsearch/utils"

	"github.com/temoto/robotstxt"
)

const (
	maxBodyBytes    = 4 << 20
	maxFaviconBytes = 512 << 10
)

type page struct {
	finalURL    *url.URL
	status      int
	contentType string
	body        []byte
}

// fetch retrieves one URL, honoring robots.txt and the per-host rate
// limiter. The second return is false when no HTTP exchange happened.
func (c *Crawler) fetch(ctx context.Context, target string) (*page, bool) {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return nil, false
	}
	if !c.cfg.AllowPrivateHosts && utils.BlockedCrawlHost(parsed.Hostname()) {
		return nil, false
	}

	if !c.robots.allowed(ctx, parsed) {
		c.mu.Lock()
		c.stats.RobotsBlocked++
		c.mu.Unlock()
		return nil, false
	}

	if err := c.limiter(parsed.Host).Wait(ctx); err != nil {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	c.mu.Lock()
	c.stats.Requests++
	c.mu.Unlock()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	c.mu.Lock()
	c.stats.StatusCodes[resp.StatusCode]++
	c.mu.Unlock()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false
	}

	return &page{
		finalURL:    resp.Request.URL,
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, true
}

// fetchFaviconDataURI inlines a favicon as a base64 data URI. Failures
// produce an empty string; favicons are best effort.
func (c *Crawler) fetchFaviconDataURI(ctx context.Context, faviconURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, faviconURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFaviconBytes))
	if err != nil || len(body) == 0 {
		return ""
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/x-icon"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)
}

// robotsCache caches one robots.txt ruling per origin. Unreachable or
// malformed robots files allow everything.
type robotsCache struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

func newRobotsCache(client *http.Client, userAgent string) *robotsCache {
	return &robotsCache{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

func (r *robotsCache) allowed(ctx context.Context, target *url.URL) bool {
	origin := target.Scheme + "://" + target.Host

	r.mu.Lock()
	group, ok := r.groups[origin]
	r.mu.Unlock()

	if !ok {
		group = r.load(ctx, origin)
		r.mu.Lock()
		r.groups[origin] = group
		r.mu.Unlock()
	}

	if group == nil {
		return true
	}
	return group.Test(target.Path)
}

func (r *robotsCache) load(ctx context.Context, origin string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(r.userAgent)
}
