package kvstore

// Key layout of the single table. A site partition holds one metadata item
// plus one item per feed; query paths live in their own partition so the
// site range query never sweeps them.
const (
	sitePKPrefix     = "SITE#"
	sitePathPKPrefix = "SITEPATH#"
	feedSKPrefix     = "FEED#"
	pathSKPrefix     = "PATH#"
	metadataSK       = "#METADATA#"

	// feedSKUpper sorts after every FEED# key ('$' > '#') and closes the
	// site range query.
	feedSKUpper = "FEED$"
)

func sitePK(host string) string { return sitePKPrefix + host }

func sitePathPK(host string) string { return sitePathPKPrefix + host }

func feedSK(url string) string { return feedSKPrefix + url }

func pathSK(path string) string { return pathSKPrefix + path }
