package utils

import (
	"net"
	"strings"
)

// BlockedCrawlHost reports whether a hostname must not be fetched by the
// crawler. Seeds come from user queries and from directory responses, so
// loopback, link-local and private ranges are refused to keep the crawler
// from reaching internal services.
func BlockedCrawlHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".local") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}
