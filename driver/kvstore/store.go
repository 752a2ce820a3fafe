// Package kvstore persists sites, feeds and query paths in a single
// PostgreSQL table keyed by (pk, sk) with the record itself as jsonb.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"feedsearch/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pageSize = 1000

// DB is the subset of pgxpool.Pool the store uses. pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
}

type Store struct {
	db    DB
	table string
}

func NewStore(db DB, table string) *Store {
	return &Store{db: db, table: table}
}

// NewPool connects a pgx pool from a connection string and verifies it.
func NewPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the table and its inverted index if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			pk   TEXT NOT NULL,
			sk   TEXT NOT NULL,
			item JSONB NOT NULL,
			PRIMARY KEY (pk, sk)
		)`, s.table)
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}

	idx := fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %s_inverted_idx ON %s (sk, pk)`,
		s.table, s.table,
	)
	if _, err := s.db.Exec(ctx, idx); err != nil {
		return fmt.Errorf("create index on %s: %w", s.table, err)
	}
	return nil
}

// GetSite loads a site partition: the metadata item plus every feed item,
// in one range query paginated by sort key. Returns nil when the site has
// never been stored.
func (s *Store) GetSite(ctx context.Context, host string) (*domain.SiteHost, error) {
	query := fmt.Sprintf(`
		SELECT sk, item FROM %s
		WHERE pk = $1 AND sk BETWEEN $2 AND $3 AND sk > $4
		ORDER BY sk
		LIMIT $5`, s.table)

	var site *domain.SiteHost
	feeds := make([]*domain.Feed, 0)

	lastSK := ""
	for {
		rows, err := s.db.Query(ctx, query, sitePK(host), metadataSK, feedSKUpper, lastSK, pageSize)
		if err != nil {
			return nil, fmt.Errorf("query site %s: %w", host, err)
		}

		count := 0
		for rows.Next() {
			var sk string
			var item []byte
			if err := rows.Scan(&sk, &item); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan site %s: %w", host, err)
			}
			count++
			lastSK = sk

			if sk == metadataSK {
				decoded, err := decodeSite(item)
				if err != nil {
					rows.Close()
					return nil, fmt.Errorf("decode site %s: %w", host, err)
				}
				site = decoded
				continue
			}

			feed, err := decodeFeed(item)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("decode feed %s of %s: %w", sk, host, err)
			}
			feeds = append(feeds, feed)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("read site %s: %w", host, err)
		}
		rows.Close()

		if count < pageSize {
			break
		}
	}

	if site == nil {
		if len(feeds) == 0 {
			return nil, nil
		}
		// feeds without a metadata item mean a partial write; keep them
		site = domain.NewSiteHost(host)
	}
	site.LoadFeeds(feeds)
	return site, nil
}

// GetSitePath loads the memo for one query path. Returns nil when absent.
func (s *Store) GetSitePath(ctx context.Context, host, path string) (*domain.SitePath, error) {
	query := fmt.Sprintf(`SELECT item FROM %s WHERE pk = $1 AND sk = $2`, s.table)

	var item []byte
	err := s.db.QueryRow(ctx, query, sitePathPK(host), pathSK(path)).Scan(&item)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query site path %s%s: %w", host, path, err)
	}

	sitePath := &domain.SitePath{}
	if err := json.Unmarshal(item, sitePath); err != nil {
		return nil, fmt.Errorf("decode site path %s%s: %w", host, path, err)
	}
	return sitePath, nil
}

// ListSites scans the inverted index for every site metadata item.
func (s *Store) ListSites(ctx context.Context) ([]*domain.SiteHost, error) {
	query := fmt.Sprintf(`
		SELECT pk, item FROM %s
		WHERE sk = $1 AND pk > $2
		ORDER BY pk
		LIMIT $3`, s.table)

	sites := make([]*domain.SiteHost, 0)
	lastPK := ""
	for {
		rows, err := s.db.Query(ctx, query, metadataSK, lastPK, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list sites: %w", err)
		}

		count := 0
		for rows.Next() {
			var pk string
			var item []byte
			if err := rows.Scan(&pk, &item); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan sites: %w", err)
			}
			count++
			lastPK = pk

			site, err := decodeSite(item)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("decode site %s: %w", pk, err)
			}
			if site.Host == "" {
				site.Host = strings.TrimPrefix(pk, sitePKPrefix)
			}
			sites = append(sites, site)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("read sites: %w", err)
		}
		rows.Close()

		if count < pageSize {
			break
		}
	}
	return sites, nil
}

// SaveSite upserts the site metadata, the path memo and every feed in one
// batch round trip. Feed items carry the host so the inverted index can
// resolve them without a second lookup.
func (s *Store) SaveSite(ctx context.Context, site *domain.SiteHost, feeds []*domain.Feed, sitePath *domain.SitePath) error {
	upsert := fmt.Sprintf(`
		INSERT INTO %s (pk, sk, item) VALUES ($1, $2, $3)
		ON CONFLICT (pk, sk) DO UPDATE SET item = EXCLUDED.item`, s.table)

	batch := &pgx.Batch{}

	siteItem, err := encodeSite(site)
	if err != nil {
		return fmt.Errorf("encode site %s: %w", site.Host, err)
	}
	batch.Queue(upsert, sitePK(site.Host), metadataSK, siteItem)

	if sitePath != nil {
		pathItem, err := json.Marshal(sitePath)
		if err != nil {
			return fmt.Errorf("encode site path %s%s: %w", sitePath.Host, sitePath.Path, err)
		}
		batch.Queue(upsert, sitePathPK(sitePath.Host), pathSK(sitePath.Path), pathItem)
	}

	for _, feed := range feeds {
		feedItem, err := encodeFeed(feed, site.Host)
		if err != nil {
			return fmt.Errorf("encode feed %s: %w", feed.URL, err)
		}
		batch.Queue(upsert, sitePK(site.Host), feedSK(feed.URL), feedItem)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save site %s: %w", site.Host, err)
		}
	}
	return nil
}

// Ping reports store reachability for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
