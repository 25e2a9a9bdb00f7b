// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// article.go provides a Valkey-backed read cache for published articles.
// Article detail reads vastly outnumber writes; a short TTL plus explicit
// invalidation on every lifecycle mutation keeps readers off the database
// without serving stale moderation state for long.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"smokefree/internal/models"
)

const (
	// articleKeyPrefix is the Valkey key prefix for cached articles.
	articleKeyPrefix = "article:"

	// DefaultArticleTTL is how long an article stays cached.
	DefaultArticleTTL = 5 * time.Minute
)

// ArticleCache manages per-article JSON caching in Valkey. All operations
// degrade gracefully: a cache failure is logged and treated as a miss.
type ArticleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewArticleCache creates a new article cache backed by the given Valkey client.
func NewArticleCache(client *redis.Client, ttl time.Duration) *ArticleCache {
	if ttl == 0 {
		ttl = DefaultArticleTTL
	}
	return &ArticleCache{client: client, ttl: ttl}
}

func articleKey(id int64) string {
	return articleKeyPrefix + strconv.FormatInt(id, 10)
}

// Get retrieves a cached article. Returns nil, false on miss.
func (ac *ArticleCache) Get(ctx context.Context, id int64) (*models.Article, bool) {
	val, err := ac.client.Get(ctx, articleKey(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("article cache get error", "id", id, "error", err)
		return nil, false
	}
	var a models.Article
	if err := json.Unmarshal(val, &a); err != nil {
		slog.Warn("article cache decode error", "id", id, "error", err)
		return nil, false
	}
	slog.Debug("article cache hit", "id", id)
	return &a, true
}

// Set stores an article with the configured TTL.
func (ac *ArticleCache) Set(ctx context.Context, a *models.Article) {
	val, err := json.Marshal(a)
	if err != nil {
		slog.Warn("article cache encode error", "id", a.ID, "error", err)
		return
	}
	if err := ac.client.Set(ctx, articleKey(a.ID), val, ac.ttl).Err(); err != nil {
		slog.Warn("article cache set error", "id", a.ID, "error", err)
	}
}

// Invalidate removes a single article from the cache. Called after every
// lifecycle mutation so readers never see a stale status.
func (ac *ArticleCache) Invalidate(ctx context.Context, id int64) {
	if err := ac.client.Del(ctx, articleKey(id)).Err(); err != nil {
		slog.Warn("article cache invalidate error", "id", id, "error", err)
	}
	slog.Debug("article cache invalidated", "id", id)
}

// InvalidateAll removes every cached article by scanning for the prefix.
// Used after bulk administrative changes.
func (ac *ArticleCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := ac.client.Scan(ctx, cursor, articleKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("article cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := ac.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("article cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("article cache fully cleared", "deleted", deleted)
	}
}
