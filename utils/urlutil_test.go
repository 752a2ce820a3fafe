package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateQueryURL(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		forceHTTPS bool
		want       string
		wantErr    bool
	}{
		{"bare host", "example.com", false, "http://example.com", false},
		{"host with path", "example.com/blog", false, "http://example.com/blog", false},
		{"existing scheme kept", "https://example.com", false, "https://example.com", false},
		{"feed scheme replaced", "feed://example.com/rss", false, "http://example.com/rss", false},
		{"https coercion", "example.com", true, "https://example.com", false},
		{"https coercion upgrades http", "http://example.com", true, "https://example.com", false},
		{"leading slashes stripped", "//example.com", false, "http://example.com", false},
		{"subdomain host", "feeds.example.com", false, "http://feeds.example.com", false},
		{"empty", "", false, "", true},
		{"whitespace only", "   ", false, "", true},
		{"not a url", "not_a_url", false, "", true},
		{"single label", "localhost", false, "", true},
		{"short labels", "a.b", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateQueryURL(tt.query, tt.forceHTTPS)
			if tt.wantErr {
				require.NotNil(t, err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidateQueryURL_EmptyMessage(t *testing.T) {
	_, err := ValidateQueryURL("", false)
	require.NotNil(t, err)
	assert.Equal(t, "No URL in Request", err.Message)
}

func TestCoerceURL_Idempotent(t *testing.T) {
	inputs := []string{"example.com", "example.com/blog", "https://example.com/feed.xml"}

	for _, input := range inputs {
		once, err := CoerceURL(input, false)
		require.NoError(t, err)
		twice, err := CoerceURL(once.String(), false)
		require.NoError(t, err)
		assert.Equal(t, once.String(), twice.String())
	}
}

func TestRootHost(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.example.com", "example.com"},
		{"feeds.example.com", "example.com"},
		{"feed.example.com", "example.com"},
		{"rss.example.com", "example.com"},
		{"api.example.com", "example.com"},
		{"WWW.example.com", "example.com"},
		{"example.com", "example.com"},
		{"www.com", "www.com"},
		{"blog.example.com", "blog.example.com"},
		{"feeds.bbci.co.uk", "bbci.co.uk"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			assert.Equal(t, tt.want, RootHost(tt.host))
		})
	}
}

func TestRootHost_Idempotent(t *testing.T) {
	hosts := []string{"www.example.com", "feeds.example.com", "example.com", "www.com"}
	for _, host := range hosts {
		once := RootHost(host)
		assert.Equal(t, once, RootHost(once))
	}
}

func TestRemoveScheme(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://example.com/feed", "example.com/feed"},
		{"https://example.com", "example.com"},
		{"feed://example.com", "example.com"},
		{"HTTPS://example.com", "example.com"},
		{"example.com", "example.com"},
		{" https://example.com ", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveScheme(tt.url))
		})
	}
}

func TestHasPath(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://a.com", false},
		{"https://a.com/", false},
		{"https://a.com/x", true},
		{"https://a.com/x/", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, HasPath(u))
		})
	}
}

func TestPathOrRoot(t *testing.T) {
	u, err := url.Parse("https://a.com")
	require.NoError(t, err)
	assert.Equal(t, "/", PathOrRoot(u))

	u, err = url.Parse("https://a.com/blog")
	require.NoError(t, err)
	assert.Equal(t, "/blog", PathOrRoot(u))
}
