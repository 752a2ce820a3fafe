package kvstore

import (
	"encoding/json"
	"time"

	"feedsearch/domain"
)

// siteItem is the metadata record of a site partition. Feeds live in their
// own items, so the map never round-trips through here.
type siteItem struct {
	Host     string     `json:"host"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

func encodeSite(site *domain.SiteHost) ([]byte, error) {
	return json.Marshal(siteItem{Host: site.Host, LastSeen: site.LastSeen})
}

func decodeSite(item []byte) (*domain.SiteHost, error) {
	var decoded siteItem
	if err := json.Unmarshal(item, &decoded); err != nil {
		return nil, err
	}
	site := domain.NewSiteHost(decoded.Host)
	site.LastSeen = decoded.LastSeen
	return site, nil
}

// encodeFeed dumps a feed with the owning host denormalized in. The feed's
// omitempty tags keep absent fields out of the stored item.
func encodeFeed(feed *domain.Feed, host string) ([]byte, error) {
	stored := *feed
	stored.Host = host
	return json.Marshal(&stored)
}

func decodeFeed(item []byte) (*domain.Feed, error) {
	feed := &domain.Feed{}
	if err := json.Unmarshal(item, feed); err != nil {
		return nil, err
	}
	return feed, nil
}
