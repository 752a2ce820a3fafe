package domain

// CrawlStats summarizes one crawl run. SearchTime and DumpTime are filled
// in by the orchestrator, not the crawler.
type CrawlStats struct {
	StatusCodes   map[int]int `json:"status_codes"`
	URLsSeen      int         `json:"urls_seen"`
	Requests      int         `json:"requests"`
	RobotsBlocked int         `json:"robots_blocked"`
	SearchTime    int64       `json:"search_time,omitempty"`
	DumpTime      int64       `json:"dump_time,omitempty"`
}

func NewCrawlStats() *CrawlStats {
	return &CrawlStats{StatusCodes: make(map[int]int)}
}

// HasSuccess reports whether at least one fetch answered 200.
func (s *CrawlStats) HasSuccess() bool {
	return s != nil && s.StatusCodes[200] > 0
}

// NoResponse reports whether the crawl got no HTTP answer at all.
func (s *CrawlStats) NoResponse() bool {
	return s != nil && len(s.StatusCodes) == 0
}
