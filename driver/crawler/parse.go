package crawler

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"feedsearch/domain"
	"feedsearch/utils"

	"github.com/mmcdole/gofeed"
)

var (
	linkTagRe = regexp.MustCompile(`(?is)<(?:\w+:)?link\b[^>]*>`)
	relHubRe  = regexp.MustCompile(`(?i)rel=["']?hub["']?`)
	relSelfRe = regexp.MustCompile(`(?i)rel=["']?self["']?`)
	hrefRe    = regexp.MustCompile(`(?i)href=["']([^"']+)["']`)
)

// isFeedContent decides whether a response is a syndication document, by
// content type first and body sniff second. Misconfigured servers serve
// feeds as text/html, so the sniff runs regardless of type.
func isFeedContent(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "rss") || strings.Contains(ct, "atom") ||
		strings.Contains(ct, "feed+json") || strings.Contains(ct, "rdf") {
		return true
	}

	head := body
	if len(head) > 1024 {
		head = head[:1024]
	}
	sniff := strings.ToLower(string(bytes.TrimSpace(head)))
	switch {
	case strings.HasPrefix(sniff, "<rss"), strings.HasPrefix(sniff, "<feed"),
		strings.HasPrefix(sniff, "<rdf"):
		return true
	case strings.HasPrefix(sniff, "<?xml"):
		return strings.Contains(sniff, "<rss") || strings.Contains(sniff, "<feed") ||
			strings.Contains(sniff, "<rdf")
	case strings.Contains(ct, "json"):
		return bytes.Contains(head, []byte("jsonfeed.org"))
	}
	return false
}

// parseFeed turns a fetched feed document into a Feed record. A document
// that looked like a feed but failed to parse is kept with bozo set.
func parseFeed(p *page) *domain.Feed {
	feed := &domain.Feed{
		URL:           p.finalURL.String(),
		ContentType:   p.contentType,
		ContentLength: len(p.body),
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(p.body))
	if err != nil {
		feed.Bozo = 1
		return feed
	}

	feed.Title = parsed.Title
	feed.Description = parsed.Description
	feed.SiteURL = parsed.Link
	feed.Version = versionTag(parsed.FeedType, parsed.FeedVersion)
	feed.ItemCount = len(parsed.Items)
	feed.SelfURL = parsed.FeedLink

	feed.Hubs = extractHubs(p.body)
	if feed.SelfURL == "" {
		feed.SelfURL = extractSelfLink(p.body)
	}
	feed.IsPush = len(feed.Hubs) > 0 && feed.SelfURL != ""
	feed.IsPodcast = isPodcast(parsed)

	newest, oldest := itemDateSpan(parsed.Items)
	feed.Velocity = velocity(len(parsed.Items), newest, oldest)
	feed.LastUpdated = lastUpdated(parsed, newest)

	return feed
}

// versionTag renders gofeed's type/version pair as a compact tag such as
// rss20, atom10 or json11.
func versionTag(feedType, version string) string {
	version = strings.TrimPrefix(version, "https://jsonfeed.org/version/")
	version = strings.ReplaceAll(version, ".", "")
	if version == "" {
		return feedType
	}
	return feedType + version
}

func extractHubs(body []byte) []string {
	var hubs []string
	for _, tag := range linkTagRe.FindAllString(string(body), -1) {
		if !relHubRe.MatchString(tag) {
			continue
		}
		if match := hrefRe.FindStringSubmatch(tag); match != nil {
			hubs = append(hubs, match[1])
		}
	}
	return hubs
}

func extractSelfLink(body []byte) string {
	for _, tag := range linkTagRe.FindAllString(string(body), -1) {
		if !relSelfRe.MatchString(tag) {
			continue
		}
		if match := hrefRe.FindStringSubmatch(tag); match != nil {
			return match[1]
		}
	}
	return ""
}

func isPodcast(parsed *gofeed.Feed) bool {
	if parsed.ITunesExt != nil {
		return true
	}
	for _, item := range parsed.Items {
		for _, enclosure := range item.Enclosures {
			if strings.HasPrefix(enclosure.Type, "audio/") {
				return true
			}
		}
	}
	return false
}

func itemDateSpan(items []*gofeed.Item) (newest, oldest *time.Time) {
	for _, item := range items {
		date := item.PublishedParsed
		if date == nil {
			date = item.UpdatedParsed
		}
		if date == nil {
			continue
		}
		if newest == nil || date.After(*newest) {
			newest = date
		}
		if oldest == nil || date.Before(*oldest) {
			oldest = date
		}
	}
	return newest, oldest
}

// velocity is the publish rate in items per day over the item date span.
func velocity(itemCount int, newest, oldest *time.Time) float64 {
	if itemCount < 2 || newest == nil || oldest == nil {
		return 0
	}
	spanDays := newest.Sub(*oldest).Hours() / 24
	if spanDays <= 0 {
		return 0
	}
	return float64(itemCount) / spanDays
}

func lastUpdated(parsed *gofeed.Feed, newestItem *time.Time) *time.Time {
	candidate := parsed.UpdatedParsed
	if candidate == nil {
		candidate = parsed.PublishedParsed
	}
	if candidate == nil {
		candidate = newestItem
	}
	if candidate == nil {
		return nil
	}
	utc := utils.ForceUTC(*candidate)
	return &utc
}
