package port

import "context"

// DirectoryClient looks up feed URLs for a site in an external feed
// directory. Lookup trouble degrades to an empty candidate list.
type DirectoryClient interface {
	FetchFeedlyURLs(ctx context.Context, query string) []string
	ValidateFeedlyURLs(candidates []string, existing map[string]bool, host string) []string
}
