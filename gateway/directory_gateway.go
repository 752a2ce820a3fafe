package gateway

import (
	"context"
	"log/slog"

	"feedsearch/driver/feedly"
)

// FeedlyDriver is the subset of the feedly client the gateway uses.
type FeedlyDriver interface {
	SearchFeeds(ctx context.Context, query string) ([]string, error)
}

// DirectoryGateway degrades directory trouble to an empty candidate list;
// the directory is an enrichment, never a hard dependency.
type DirectoryGateway struct {
	driver FeedlyDriver
	logger *slog.Logger
}

func NewDirectoryGateway(driver FeedlyDriver, logger *slog.Logger) *DirectoryGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryGateway{driver: driver, logger: logger}
}

func (g *DirectoryGateway) FetchFeedlyURLs(ctx context.Context, query string) []string {
	urls, err := g.driver.SearchFeeds(ctx, query)
	if err != nil {
		g.logger.WarnContext(ctx, "Directory lookup failed", "query", query, "error", err)
		return nil
	}
	return urls
}

func (g *DirectoryGateway) ValidateFeedlyURLs(candidates []string, existing map[string]bool, host string) []string {
	return feedly.ValidateURLs(candidates, existing, host)
}
