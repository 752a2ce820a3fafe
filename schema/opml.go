package schema

import (
	"encoding/xml"
	"time"

	"feedsearch/domain"
)

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title       string `xml:"title"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Type    string `xml:"type,attr"`
	Text    string `xml:"text,attr"`
	Title   string `xml:"title,attr,omitempty"`
	XMLURL  string `xml:"xmlUrl,attr"`
	HTMLURL string `xml:"htmlUrl,attr,omitempty"`
}

// RenderOPML serializes feeds as an OPML subscription list.
func RenderOPML(feeds []*domain.Feed, now time.Time) ([]byte, error) {
	doc := opmlDocument{
		Version: "1.0",
		Head: opmlHead{
			Title:       "Feeds",
			DateCreated: now.UTC().Format(time.RFC1123Z),
		},
	}

	for _, feed := range feeds {
		title := feed.Title
		if title == "" {
			title = feed.URL
		}
		doc.Body.Outlines = append(doc.Body.Outlines, opmlOutline{
			Type:    "rss",
			Text:    title,
			Title:   title,
			XMLURL:  feed.URL,
			HTMLURL: feed.SiteURL,
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
