package rest

import (
	"net/http"
	"time"

	"feedsearch/di"
	"feedsearch/domain"
	"feedsearch/logger"
	"feedsearch/schema"
	"feedsearch/usecase/search_feed_usecase"
	"feedsearch/utils"
	"feedsearch/utils/errors"
	"feedsearch/utils/otel"

	"github.com/labstack/echo/v4"
)

// searchStatsResponse is the wrapped shape returned when stats=true.
type searchStatsResponse struct {
	Feeds        []map[string]any   `json:"feeds"`
	SearchTimeMS int64              `json:"search_time_ms"`
	CrawlStats   *domain.CrawlStats `json:"crawl_stats"`
}

func handleSearch(container *di.ApplicationComponents) echo.HandlerFunc {
	return func(c echo.Context) error {
		rawQuery := c.QueryParam("url")
		ctx := logger.WithSearchQuery(c.Request().Context(), rawQuery)

		queryURL, validationErr := utils.ValidateQueryURL(rawQuery, true)
		if validationErr != nil {
			return handleError(c, validationErr, "search")
		}

		opts := search_feed_usecase.SearchOptions{
			CheckAll:       parseBool(c.QueryParam("checkall")),
			Force:          parseBool(c.QueryParam("force")),
			CheckDirectory: parseBoolDefault(c.QueryParam("feedly"), true),
			SkipCrawl:      parseBool(c.QueryParam("skip_crawl")),
		}
		wantStats := parseBool(c.QueryParam("stats"))
		wantOPML := parseBool(c.QueryParam("opml"))
		includeInfo := parseBoolDefault(c.QueryParam("info"), true)
		includeFavicon := parseBool(c.QueryParam("favicon"))
		// accepted for API compatibility; the feed array is always the result
		_ = parseBool(c.QueryParam("result"))

		result, err := container.SearchFeedUsecase.Execute(ctx, queryURL, opts)
		if err != nil {
			return handleError(c, err, "search")
		}
		recordSearchMetrics(c, result)

		if wantOPML {
			body, err := schema.RenderOPML(result.Feeds, time.Now().UTC())
			if err != nil {
				return handleError(c, errors.SerializationError("failed to render OPML", err, nil), "search")
			}
			return c.Blob(http.StatusOK, "text/xml", body)
		}

		projection := schema.Projection{}
		if !includeInfo {
			projection.Only = []string{"url"}
		} else if !includeFavicon {
			projection.Exclude = []string{"favicon_data_uri"}
		}
		feeds := schema.ProjectFeeds(result.Feeds, projection)

		if wantStats {
			return c.JSON(http.StatusOK, searchStatsResponse{
				Feeds:        feeds,
				SearchTimeMS: result.SearchTimeMS,
				CrawlStats:   result.Stats,
			})
		}
		return c.JSON(http.StatusOK, feeds)
	}
}

func recordSearchMetrics(c echo.Context, result *search_feed_usecase.SearchResult) {
	if otel.Metrics == nil {
		return
	}
	ctx := c.Request().Context()
	otel.Metrics.SearchesTotal.Add(ctx, 1)
	if result.Crawled {
		otel.Metrics.CrawlsTotal.Add(ctx, 1)
	} else {
		otel.Metrics.CacheHitsTotal.Add(ctx, 1)
	}
	otel.Metrics.SearchDuration.Record(ctx, float64(result.SearchTimeMS))
	otel.Metrics.FeedsFound.Record(ctx, int64(len(result.Feeds)))
}
