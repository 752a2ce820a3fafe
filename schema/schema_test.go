package schema

import (
	"strings"
	"testing"
	"time"

	"feedsearch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeed() *domain.Feed {
	updated := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	seen := time.Date(2023, 6, 15, 8, 30, 0, 0, time.UTC)
	return &domain.Feed{
		URL:            "https://example.com/feed.xml",
		SiteURL:        "https://example.com",
		Title:          "Example Feed",
		Description:    "All the examples",
		Favicon:        "https://example.com/favicon.ico",
		FaviconDataURI: "data:image/png;base64,AAAA",
		Hubs:           []string{"https://pubsubhubbub.appspot.com/"},
		IsPush:         true,
		ContentType:    "application/rss+xml",
		ContentLength:  2048,
		Version:        "rss20",
		Velocity:       1.5,
		ItemCount:      10,
		Score:          28,
		LastUpdated:    &updated,
		LastSeen:       &seen,
		Host:           "example.com",
	}
}

func TestProjectFeed_AllFields(t *testing.T) {
	out := ProjectFeed(sampleFeed(), Projection{})

	assert.Len(t, out, len(FeedFieldNames))
	assert.Equal(t, "https://example.com/feed.xml", out["url"])
	assert.Equal(t, true, out["is_push"])
	assert.Equal(t, 1.5, out["velocity"])
	assert.Equal(t, "2023-06-01T12:00:00Z", out["last_updated"])
	// host is internal denormalization, not part of the external shape
	assert.NotContains(t, out, "host")
}

func TestProjectFeed_EmptyStringsAreNull(t *testing.T) {
	out := ProjectFeed(&domain.Feed{URL: "https://example.com/feed.xml"}, Projection{})

	assert.Nil(t, out["title"])
	assert.Nil(t, out["description"])
	assert.Nil(t, out["last_seen"])
	assert.Equal(t, []string{}, out["hubs"])
}

func TestProjectFeed_Only(t *testing.T) {
	out := ProjectFeed(sampleFeed(), Projection{Only: []string{"url"}})

	assert.Len(t, out, 1)
	assert.Equal(t, "https://example.com/feed.xml", out["url"])
}

func TestProjectFeed_Exclude(t *testing.T) {
	out := ProjectFeed(sampleFeed(), Projection{Exclude: []string{"favicon_data_uri"}})

	assert.NotContains(t, out, "favicon_data_uri")
	assert.Contains(t, out, "favicon")
	assert.Len(t, out, len(FeedFieldNames)-1)
}

func TestProjectSite(t *testing.T) {
	seen := time.Date(2023, 6, 15, 8, 30, 0, 0, time.UTC)
	site := domain.NewSiteHost("example.com")
	site.LastSeen = &seen
	site.Feeds["https://example.com/feed.xml"] = sampleFeed()

	out := ProjectSite(site, Projection{})

	assert.Equal(t, "example.com", out["host"])
	assert.Equal(t, "2023-06-15T08:30:00Z", out["last_seen"])
	feeds := out["feeds"].([]map[string]any)
	require.Len(t, feeds, 1)
	assert.Equal(t, "https://example.com/feed.xml", feeds[0]["url"])
}

func TestRenderOPML(t *testing.T) {
	feeds := []*domain.Feed{
		sampleFeed(),
		{URL: "https://example.com/untitled.xml"},
	}

	out, err := RenderOPML(feeds, time.Date(2023, 6, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	body := string(out)
	assert.True(t, strings.HasPrefix(body, xmlHeaderPrefix))
	assert.Contains(t, body, `version="1.0"`)
	assert.Contains(t, body, `xmlUrl="https://example.com/feed.xml"`)
	assert.Contains(t, body, `htmlUrl="https://example.com"`)
	assert.Contains(t, body, `text="Example Feed"`)
	// untitled feeds fall back to their URL
	assert.Contains(t, body, `text="https://example.com/untitled.xml"`)
}

const xmlHeaderPrefix = "<?xml"
