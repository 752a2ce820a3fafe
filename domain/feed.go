package domain

import "time"

// Feed is a discovered syndication document at a site. Identity is
// (Host, URL); the URL string is unique across the whole store.
type Feed struct {
	URL            string     `json:"url"`
	SiteURL        string     `json:"site_url,omitempty"`
	SelfURL        string     `json:"self_url,omitempty"`
	Title          string     `json:"title,omitempty"`
	Description    string     `json:"description,omitempty"`
	SiteName       string     `json:"site_name,omitempty"`
	Favicon        string     `json:"favicon,omitempty"`
	FaviconDataURI string     `json:"favicon_data_uri,omitempty"`
	Hubs           []string   `json:"hubs,omitempty"`
	IsPush         bool       `json:"is_push,omitempty"`
	IsPodcast      bool       `json:"is_podcast,omitempty"`
	ContentType    string     `json:"content_type,omitempty"`
	ContentLength  int        `json:"content_length,omitempty"`
	Version        string     `json:"version,omitempty"`
	Bozo           int        `json:"bozo,omitempty"`
	Velocity       float64    `json:"velocity,omitempty"`
	ItemCount      int        `json:"item_count,omitempty"`
	Score          int        `json:"score,omitempty"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
	LastSeen       *time.Time `json:"last_seen,omitempty"`
	Host           string     `json:"host,omitempty"`
}

// IsValid reports whether the feed record is complete enough to keep.
func (f *Feed) IsValid() bool {
	return f.URL != ""
}

// Merge fills missing fields from a matching feed that may not have been
// fetched on this crawl. The data URI is only carried over when it belongs
// to the same favicon URL.
func (f *Feed) Merge(other *Feed) {
	if other == nil {
		return
	}
	if f.Favicon == "" && other.Favicon != "" {
		f.Favicon = other.Favicon
	}
	if f.FaviconDataURI == "" && other.FaviconDataURI != "" {
		if f.Favicon == other.Favicon {
			f.FaviconDataURI = other.FaviconDataURI
		}
	}
	if f.SiteURL == "" && other.SiteURL != "" {
		f.SiteURL = other.SiteURL
	}
	if f.SiteName == "" && other.SiteName != "" {
		f.SiteName = other.SiteName
	}
}

// SiteHost is the stored metadata for a root host. Feeds is a lookup keyed
// by the exact feed URL string, populated from the store partition at load
// time.
type SiteHost struct {
	Host     string           `json:"host"`
	LastSeen *time.Time       `json:"last_seen,omitempty"`
	Feeds    map[string]*Feed `json:"feeds,omitempty"`
}

// NewSiteHost creates an empty SiteHost for the given root host.
func NewSiteHost(host string) *SiteHost {
	return &SiteHost{
		Host:  host,
		Feeds: make(map[string]*Feed),
	}
}

// LoadFeeds populates the feed lookup from a list of feed records.
func (s *SiteHost) LoadFeeds(feeds []*Feed) {
	s.Feeds = make(map[string]*Feed, len(feeds))
	for _, feed := range feeds {
		s.Feeds[feed.URL] = feed
	}
}

// FeedList returns the feeds of the site in unspecified order.
func (s *SiteHost) FeedList() []*Feed {
	feeds := make([]*Feed, 0, len(s.Feeds))
	for _, feed := range s.Feeds {
		feeds = append(feeds, feed)
	}
	return feeds
}

// SitePath memoizes which feeds were found when a specific query path of a
// host was crawled. Feeds holds feed URL strings that reference Feed
// records under the same host; lookups must tolerate dangling references.
type SitePath struct {
	Host     string     `json:"host"`
	Path     string     `json:"path"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
	Feeds    []string   `json:"feeds,omitempty"`
}

// NewSitePath creates an empty SitePath for the given host and path.
func NewSitePath(host, path string) *SitePath {
	return &SitePath{Host: host, Path: path}
}
