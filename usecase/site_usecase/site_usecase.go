// Package site_usecase exposes the stored sites: the index of hosts and
// one site's full record with nested feeds.
package site_usecase

import (
	"context"
	"sort"

	"feedsearch/domain"
	"feedsearch/port"
)

type SiteUsecase struct {
	store port.FeedStore
}

func NewSiteUsecase(store port.FeedStore) *SiteUsecase {
	return &SiteUsecase{store: store}
}

// ListSites returns every stored site ordered by host.
func (u *SiteUsecase) ListSites(ctx context.Context) []*domain.SiteHost {
	sites := u.store.ListSites(ctx)
	sort.Slice(sites, func(i, j int) bool { return sites[i].Host < sites[j].Host })
	return sites
}

// GetSite returns one site with its feeds, or ErrSiteNotFound.
func (u *SiteUsecase) GetSite(ctx context.Context, host string) (*domain.SiteHost, error) {
	site := u.store.QuerySiteFeeds(ctx, host)
	if site == nil {
		return nil, domain.ErrSiteNotFound
	}
	return site, nil
}
