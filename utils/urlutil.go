package utils

import (
	"net/url"
	"regexp"
	"strings"

	"feedsearch/utils/errors"
)

// urlShapeRegex is a permissive check that the query at least looks like a
// URL: an optional scheme followed by two dot-separated labels of two or
// more alphanumerics each.
var urlShapeRegex = regexp.MustCompile(`(?i)^(?:(?:https?|feed)://)?(?:[\w\-]+\.)*[a-z0-9]{2,}[\w\-]*\.[a-z0-9]{2,}`)

var (
	subdomainRegex = regexp.MustCompile(`(?i)^(feeds?|www|rss|api)\.`)
	schemeRegex    = regexp.MustCompile(`(?i)^[a-z]{2,5}://`)
	feedSchemeRe   = regexp.MustCompile(`(?i)^feed://`)
	httpSchemeRe   = regexp.MustCompile(`(?i)^https?://`)
)

// ValidateQueryURL parses a raw search query into an absolute URL.
// Returns a BadRequest AppError for empty or URL-unlike input.
func ValidateQueryURL(query string, forceHTTPS bool) (*url.URL, *errors.AppError) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.BadRequestError("No URL in Request", nil)
	}

	// Leading :/ runs are stripped before shape checking and coercion.
	query = strings.TrimLeft(query, ":/")

	if !urlShapeRegex.MatchString(query) {
		return nil, errors.BadRequestError("Invalid URL: "+query, map[string]interface{}{
			"query": query,
		})
	}

	coerced, err := CoerceURL(query, forceHTTPS)
	if err != nil || coerced.Scheme == "" || coerced.Host == "" {
		return nil, errors.BadRequestError("Invalid URL: "+query, map[string]interface{}{
			"query": query,
		})
	}

	return coerced, nil
}

// CoerceURL coerces a URL string to a valid absolute form. Schemeless input
// gets http (or https when forceHTTPS is set); the feed:// pseudo-scheme is
// replaced. Applying CoerceURL to its own output is a no-op.
func CoerceURL(raw string, forceHTTPS bool) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	scheme := "http"
	if forceHTTPS {
		scheme = "https"
	}

	s = feedSchemeRe.ReplaceAllString(s, "")

	if !httpSchemeRe.MatchString(s) {
		s = strings.TrimLeft(s, ":/")
		s = scheme + "://" + s
	} else if forceHTTPS && strings.HasPrefix(strings.ToLower(s), "http://") {
		s = "https://" + s[len("http://"):]
	}

	return url.Parse(s)
}

// RootHost strips a single leading feed-ish subdomain label (feeds, feed,
// www, rss, api) from a host with at least three dot-separated labels.
// Idempotent: applying it twice yields the same host.
func RootHost(host string) string {
	if len(strings.Split(host, ".")) > 2 {
		return subdomainRegex.ReplaceAllString(host, "")
	}
	return host
}

// RemoveScheme strips a leading scheme from a URL string.
func RemoveScheme(rawURL string) string {
	return schemeRegex.ReplaceAllString(strings.TrimSpace(rawURL), "")
}

// HasPath reports whether the URL has a non-root path component.
func HasPath(u *url.URL) bool {
	return strings.Trim(u.Path, "/") != ""
}

// PathOrRoot returns the URL path, or "/" when the URL has none.
func PathOrRoot(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
