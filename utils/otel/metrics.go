package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all OTel metric instruments for feedsearch.
var Metrics *FeedsearchMetrics

// FeedsearchMetrics contains all metric instruments.
type FeedsearchMetrics struct {
	SearchesTotal  metric.Int64Counter
	CrawlsTotal    metric.Int64Counter
	CacheHitsTotal metric.Int64Counter
	ErrorsTotal    metric.Int64Counter
	SearchDuration metric.Float64Histogram
	FeedsFound     metric.Int64Histogram
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("feedsearch")

	searchesTotal, err := meter.Int64Counter("feedsearch_searches_total",
		metric.WithDescription("Total number of feed searches handled"),
	)
	if err != nil {
		return err
	}

	crawlsTotal, err := meter.Int64Counter("feedsearch_crawls_total",
		metric.WithDescription("Total number of searches that ran a crawl"),
	)
	if err != nil {
		return err
	}

	cacheHitsTotal, err := meter.Int64Counter("feedsearch_cache_hits_total",
		metric.WithDescription("Total number of searches answered from the store"),
	)
	if err != nil {
		return err
	}

	errorsTotal, err := meter.Int64Counter("feedsearch_errors_total",
		metric.WithDescription("Total number of failed searches"),
	)
	if err != nil {
		return err
	}

	searchDuration, err := meter.Float64Histogram("feedsearch_search_duration_ms",
		metric.WithDescription("Search duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	feedsFound, err := meter.Int64Histogram("feedsearch_feeds_found",
		metric.WithDescription("Number of feeds returned per search"),
	)
	if err != nil {
		return err
	}

	Metrics = &FeedsearchMetrics{
		SearchesTotal:  searchesTotal,
		CrawlsTotal:    crawlsTotal,
		CacheHitsTotal: cacheHitsTotal,
		ErrorsTotal:    errorsTotal,
		SearchDuration: searchDuration,
		FeedsFound:     feedsFound,
	}

	return nil
}
