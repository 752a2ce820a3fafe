// Package feedly queries the Feedly cloud directory for feeds matching a
// site and filters the answers down to usable crawl candidates.
package feedly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedsearch/utils"
)

const (
	defaultBaseURL = "https://cloud.feedly.com/v3/search/feeds"

	// Directory entries that have not updated inside this window are
	// treated as dead and skipped.
	stalenessWindow = 12 * 7 * 24 * time.Hour
)

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	FeedID string `json:"feedId"`
	// LastUpdated is a millisecond Unix timestamp.
	LastUpdated int64 `json:"lastUpdated"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	now        func() time.Time
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		userAgent:  userAgent,
		now:        time.Now,
	}
}

// SearchFeeds asks the directory for feeds matching the query and returns
// their URLs in directory order. Fresh entries only; a non-200 answer is an
// empty result, not an error.
func (c *Client) SearchFeeds(ctx context.Context, query string) ([]string, error) {
	endpoint := c.baseURL + "?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode directory response: %w", err)
	}

	cutoff := c.now().UTC().Add(-stalenessWindow)
	urls := make([]string, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		if result.LastUpdated == 0 {
			continue
		}
		seconds := utils.TruncateInteger(result.LastUpdated, 10)
		if time.Unix(seconds, 0).UTC().Before(cutoff) {
			continue
		}

		candidate := feedIDToURL(result.FeedID)
		if candidate == "" {
			continue
		}
		urls = append(urls, candidate)
	}
	return urls, nil
}

// feedIDToURL strips the directory's feed/ prefix and keeps only entries
// that parse as absolute URLs.
func feedIDToURL(feedID string) string {
	raw := strings.TrimPrefix(feedID, "feed/")
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.String()
}

// ValidateURLs keeps the candidates that belong to the queried root host
// and are not already known, collapsing duplicates in order.
func ValidateURLs(candidates []string, existing map[string]bool, host string) []string {
	seen := make(map[string]bool, len(candidates))
	valid := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if seen[candidate] || existing[candidate] {
			continue
		}
		parsed, err := url.Parse(candidate)
		if err != nil || utils.RootHost(parsed.Hostname()) != host {
			continue
		}
		seen[candidate] = true
		valid = append(valid, candidate)
	}
	return valid
}
