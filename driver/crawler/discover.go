package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"feedsearch/utils"

	"github.com/PuerkitoBio/goquery"
)

var feedTypeHints = []string{"rss", "atom", "feed+json", "json"}

var anchorHints = []string{"rss", "atom", "feed", ".xml"}

// discoverHTML mines an HTML page for site metadata and candidate feed
// links. Anchor candidates stay on the page's root host; alternate links
// are trusted wherever they point.
func discoverHTML(p *page) (*siteMeta, []string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.body))
	if err != nil {
		return nil, nil
	}

	meta := &siteMeta{
		siteURL: p.finalURL.Scheme + "://" + p.finalURL.Host,
	}
	if name, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		meta.siteName = name
	} else {
		meta.siteName = strings.TrimSpace(doc.Find("title").First().Text())
	}
	meta.favicon = findFavicon(doc, p.finalURL)

	seen := make(map[string]bool)
	var links []string
	add := func(href string) {
		resolved := resolveRef(p.finalURL, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	}

	doc.Find(`link[rel="alternate"]`).Each(func(_ int, sel *goquery.Selection) {
		linkType, _ := sel.Attr("type")
		if !containsAny(strings.ToLower(linkType), feedTypeHints) {
			return
		}
		if href, ok := sel.Attr("href"); ok {
			add(href)
		}
	})

	pageHost := utils.RootHost(p.finalURL.Hostname())
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !containsAny(strings.ToLower(href), anchorHints) {
			return
		}
		resolved := resolveRef(p.finalURL, href)
		if resolved == "" {
			return
		}
		parsed, err := url.Parse(resolved)
		if err != nil || utils.RootHost(parsed.Hostname()) != pageHost {
			return
		}
		add(resolved)
	})

	return meta, links
}

func findFavicon(doc *goquery.Document, base *url.URL) string {
	selectors := []string{
		`link[rel="icon"]`,
		`link[rel="shortcut icon"]`,
		`link[rel="apple-touch-icon"]`,
	}
	for _, selector := range selectors {
		if href, ok := doc.Find(selector).First().Attr("href"); ok && href != "" {
			if resolved := resolveRef(base, href); resolved != "" {
				return resolved
			}
		}
	}
	return base.Scheme + "://" + base.Host + "/favicon.ico"
}

// resolveRef resolves a possibly relative href against the page URL,
// keeping only http(s) results.
func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

func containsAny(s string, hints []string) bool {
	for _, hint := range hints {
		if strings.Contains(s, hint) {
			return true
		}
	}
	return false
}
