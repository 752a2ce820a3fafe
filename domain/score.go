package domain

import (
	"net/url"
	"strings"
)

// scoreKeywords are feed-ish URL fragments with their bonus, higher for the
// more specific formats. Every matching keyword contributes.
var scoreKeywords = []struct {
	token string
	bonus int
}{
	{"atom", 10},
	{"rss", 8},
	{".xml", 6},
	{"feed", 4},
	{"rdf", 2},
}

var sectionPaths = []string{"/home", "/top", "/most", "/magazine"}

// ScoreFeed assigns a quality score to a feed relative to the queried root
// host. The function is pure apart from writing feed.Score: the same feed
// and host always produce the same value.
func ScoreFeed(feed *Feed, queryHost string) {
	score := 0
	urlStr := strings.ToLower(feed.URL)

	parsed, err := url.Parse(feed.URL)
	if err != nil {
		parsed = &url.URL{}
	}

	if queryHost != "" && !strings.Contains(parsed.Host, queryHost) {
		score -= 20
	}

	// Deeply nested feeds are less likely to cover the whole site. The
	// root slash counts as the first path part.
	parts := 1
	if trimmed := strings.Trim(parsed.Path, "/"); trimmed != "" {
		parts += len(strings.Split(trimmed, "/"))
	}
	if parts > 2 {
		score -= (parts - 2) * 2
	}

	if feed.Bozo != 0 {
		score -= 20
	}
	if feed.Description == "" {
		score -= 10
	}
	if strings.Contains(urlStr, "georss") {
		score -= 10
	}
	if strings.Contains(urlStr, "alt") {
		score -= 7
	}
	if strings.Contains(urlStr, "feedburner") {
		score -= 10
	}

	if parsed.Scheme == "https" {
		score += 10
	}
	if feed.IsPush {
		score += 10
	}
	if strings.Contains(urlStr, "index") {
		score += 30
	}

	if strings.Contains(urlStr, "comments") || strings.Contains(strings.ToLower(feed.Title), "comments") {
		score -= 15
	} else {
		score += int(feed.Velocity)
	}

	for _, section := range sectionPaths {
		if strings.Contains(urlStr, section) {
			score += 10
			break
		}
	}

	for _, kw := range scoreKeywords {
		if strings.Contains(urlStr, kw.token) {
			score += kw.bonus
		}
	}

	feed.Score = score
}
