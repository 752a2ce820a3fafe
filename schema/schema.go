// Package schema projects internal records into the stable client-facing
// JSON shapes. The projection is one-way: the KV store adapter owns its own
// encoding and the two encoders share the domain field set.
package schema

import (
	"time"

	"feedsearch/domain"
)

// FeedFieldNames is the stable external field set for a feed object.
var FeedFieldNames = []string{
	"url", "site_url", "self_url", "title", "description", "site_name",
	"favicon", "favicon_data_uri", "hubs", "is_push", "is_podcast",
	"content_type", "content_length", "version", "bozo", "velocity",
	"item_count", "score", "last_updated", "last_seen",
}

// Projection controls which fields of the external shape are emitted.
// Only wins over Exclude when both are set.
type Projection struct {
	Only    []string
	Exclude []string
}

// Fields resolves the projection into the concrete field list.
func (p Projection) Fields() []string {
	if len(p.Only) > 0 {
		return p.Only
	}
	if len(p.Exclude) == 0 {
		return FeedFieldNames
	}
	excluded := make(map[string]bool, len(p.Exclude))
	for _, name := range p.Exclude {
		excluded[name] = true
	}
	fields := make([]string, 0, len(FeedFieldNames))
	for _, name := range FeedFieldNames {
		if !excluded[name] {
			fields = append(fields, name)
		}
	}
	return fields
}

// nullableString maps empty strings to explicit JSON nulls.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339)
}

func feedFieldValue(feed *domain.Feed, name string) any {
	switch name {
	case "url":
		return nullableString(feed.URL)
	case "site_url":
		return nullableString(feed.SiteURL)
	case "self_url":
		return nullableString(feed.SelfURL)
	case "title":
		return nullableString(feed.Title)
	case "description":
		return nullableString(feed.Description)
	case "site_name":
		return nullableString(feed.SiteName)
	case "favicon":
		return nullableString(feed.Favicon)
	case "favicon_data_uri":
		return nullableString(feed.FaviconDataURI)
	case "hubs":
		if feed.Hubs == nil {
			return []string{}
		}
		return feed.Hubs
	case "is_push":
		return feed.IsPush
	case "is_podcast":
		return feed.IsPodcast
	case "content_type":
		return nullableString(feed.ContentType)
	case "content_length":
		return feed.ContentLength
	case "version":
		return nullableString(feed.Version)
	case "bozo":
		return feed.Bozo
	case "velocity":
		return feed.Velocity
	case "item_count":
		return feed.ItemCount
	case "score":
		return feed.Score
	case "last_updated":
		return nullableTime(feed.LastUpdated)
	case "last_seen":
		return nullableTime(feed.LastSeen)
	}
	return nil
}

// ProjectFeed projects a feed into its external JSON shape.
func ProjectFeed(feed *domain.Feed, projection Projection) map[string]any {
	out := make(map[string]any)
	for _, name := range projection.Fields() {
		out[name] = feedFieldValue(feed, name)
	}
	return out
}

// ProjectFeeds projects a list of feeds, preserving order.
func ProjectFeeds(feeds []*domain.Feed, projection Projection) []map[string]any {
	out := make([]map[string]any, 0, len(feeds))
	for _, feed := range feeds {
		out = append(out, ProjectFeed(feed, projection))
	}
	return out
}

// ProjectSite projects a site host with its nested feeds.
func ProjectSite(site *domain.SiteHost, projection Projection) map[string]any {
	return map[string]any{
		"host":      site.Host,
		"last_seen": nullableTime(site.LastSeen),
		"feeds":     ProjectFeeds(site.FeedList(), projection),
	}
}

// SiteSummary is the list entry shape for the sites index.
type SiteSummary struct {
	Host     string     `json:"host"`
	LastSeen *time.Time `json:"last_seen"`
}
