package site_usecase

import (
	"context"
	"testing"

	"feedsearch/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	site  *domain.SiteHost
	sites []*domain.SiteHost
}

func (s *stubStore) QuerySiteFeeds(ctx context.Context, host string) *domain.SiteHost {
	return s.site
}

func (s *stubStore) QuerySitePath(ctx context.Context, host, path string) *domain.SitePath {
	return nil
}

func (s *stubStore) ListSites(ctx context.Context) []*domain.SiteHost {
	return s.sites
}

func (s *stubStore) SaveSiteFeeds(ctx context.Context, site *domain.SiteHost, feeds []*domain.Feed, sitePath *domain.SitePath) {
}

func TestListSites_SortedByHost(t *testing.T) {
	uc := NewSiteUsecase(&stubStore{sites: []*domain.SiteHost{
		domain.NewSiteHost("zeta.com"),
		domain.NewSiteHost("alpha.com"),
	}})

	sites := uc.ListSites(context.Background())
	require.Len(t, sites, 2)
	assert.Equal(t, "alpha.com", sites[0].Host)
	assert.Equal(t, "zeta.com", sites[1].Host)
}

func TestGetSite_Unknown(t *testing.T) {
	uc := NewSiteUsecase(&stubStore{})

	_, err := uc.GetSite(context.Background(), "nosite.com")
	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
}

func TestGetSite_Known(t *testing.T) {
	site := domain.NewSiteHost("example.com")
	uc := NewSiteUsecase(&stubStore{site: site})

	got, err := uc.GetSite(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Same(t, site, got)
}
