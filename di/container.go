package di

import (
	"log/slog"

	"feedsearch/config"
	"feedsearch/driver/crawler"
	"feedsearch/driver/feedly"
	"feedsearch/driver/kvstore"
	"feedsearch/gateway"
	"feedsearch/logger"
	"feedsearch/usecase/search_feed_usecase"
	"feedsearch/usecase/site_usecase"
)

type ApplicationComponents struct {
	SearchFeedUsecase *search_feed_usecase.SearchFeedUsecase
	SiteUsecase       *site_usecase.SiteUsecase
	Store             *kvstore.Store
}

func NewApplicationComponents(db kvstore.DB, cfg *config.Config, log *slog.Logger) *ApplicationComponents {
	store := kvstore.NewStore(db, cfg.Search.TableName)

	storeGateway := gateway.NewFeedStoreGateway(store, log)
	directoryGateway := gateway.NewDirectoryGateway(
		feedly.NewClient(cfg.Search.UserAgent, cfg.Search.DirectoryTimeout), log)
	crawlerGateway := gateway.NewFeedCrawlerGateway(crawler.Config{
		UserAgent:      cfg.Search.UserAgent,
		Concurrency:    cfg.Search.CrawlConcurrency,
		RequestTimeout: cfg.Search.CrawlRequestTimeout,
		TotalTimeout:   cfg.Search.CrawlTotalTimeout,
		MaxDepth:       cfg.Search.CrawlMaxDepth,
	})

	searchFeedUsecase := search_feed_usecase.NewSearchFeedUsecase(
		storeGateway, directoryGateway, crawlerGateway,
		cfg.Search.DaysCheckedRecently, logger.NewContextLogger(log))
	siteUsecase := site_usecase.NewSiteUsecase(storeGateway)

	return &ApplicationComponents{
		SearchFeedUsecase: searchFeedUsecase,
		SiteUsecase:       siteUsecase,
		Store:             store,
	}
}
