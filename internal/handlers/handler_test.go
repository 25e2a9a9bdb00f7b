// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests run against the full router and are skipped when PostgreSQL or
// Valkey are unavailable.
package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"smokefree/internal/cache"
	"smokefree/internal/database"
	"smokefree/internal/handlers"
	"smokefree/internal/knowledge"
	"smokefree/internal/models"
	"smokefree/internal/router"
	"smokefree/internal/store"
	"smokefree/internal/token"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "smokefree")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "smokefree")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "article:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests plus the
// fully wired router.
type testEnv struct {
	DB         *sql.DB
	Users      *store.UserStore
	Articles   *store.ArticleStore
	Comments   *store.CommentStore
	Ratings    *store.RatingStore
	Categories *store.CategoryStore
	Tokens     *token.Manager
	Router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	userStore := store.NewUserStore(db)
	articleStore := store.NewArticleStore(db)
	commentStore := store.NewCommentStore(db)
	ratingStore := store.NewRatingStore(db)
	categoryStore := store.NewCategoryStore(db)
	txManager := store.NewTxManager(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lifecycle := knowledge.NewLifecycle(articleStore, userStore, categoryStore, logger)
	moderator := knowledge.NewModerator(commentStore, articleStore, userStore)
	aggregator := knowledge.NewAggregator(ratingStore, articleStore, userStore, txManager)

	articleCache := cache.NewArticleCache(vk, 1*time.Minute)
	tokens := token.NewManager(token.Config{Secret: "test-secret", Issuer: "smokefree-test", TTL: time.Hour})

	r := router.New(router.Deps{
		Tokens:     tokens,
		Articles:   handlers.NewArticles(lifecycle, articleStore, articleCache),
		Comments:   handlers.NewComments(moderator, commentStore),
		Ratings:    handlers.NewRatings(aggregator, ratingStore, articleCache),
		Categories: handlers.NewCategories(categoryStore),
		Users:      handlers.NewUsers(userStore),
	})

	return &testEnv{
		DB:         db,
		Users:      userStore,
		Articles:   articleStore,
		Comments:   commentStore,
		Ratings:    ratingStore,
		Categories: categoryStore,
		Tokens:     tokens,
		Router:     r,
	}
}

// do performs a request against the router, attaching a bearer token when
// userID is non-zero, and decodes the response envelope.
func (e *testEnv) do(t *testing.T, method, path string, userID int64, body any) (int, envelope) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if userID != 0 {
		tok, err := e.Tokens.Issue(userID)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
		}
	}
	return w.Code, env
}

// envelope mirrors the response wrapper for decoding in tests.
type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// decodeData unmarshals the envelope's data field into out.
func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}

// Fixtures use random names so tests stay independent on a shared database.

func createPoster(t *testing.T, e *testEnv) *models.User {
	t.Helper()
	u, err := e.Users.Create(context.Background(), &models.User{
		Nickname:            "poster-" + uuid.NewString()[:8],
		MemberLevel:         "FREE_USER",
		CanCreatePosts:      true,
		PostPermissionLevel: models.PostPermissionFull,
	})
	if err != nil {
		t.Fatalf("create poster: %v", err)
	}
	return u
}

func createReader(t *testing.T, e *testEnv) *models.User {
	t.Helper()
	u, err := e.Users.Create(context.Background(), &models.User{
		Nickname:    "reader-" + uuid.NewString()[:8],
		MemberLevel: "FREE_USER",
	})
	if err != nil {
		t.Fatalf("create reader: %v", err)
	}
	return u
}

func createCategory(t *testing.T, e *testEnv) *models.Category {
	t.Helper()
	c, err := e.Categories.Create(context.Background(), &models.Category{
		Name: "cat-" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// createPublishedArticle walks a fresh article through audit and publish.
func createPublishedArticle(t *testing.T, e *testEnv, categoryID, authorID int64) *models.Article {
	t.Helper()
	a, err := e.Articles.Create(context.Background(), &models.Article{
		Title:       "article-" + uuid.NewString()[:8],
		Body:        "body",
		CategoryID:  categoryID,
		AuthorID:    authorID,
		Status:      models.ArticleStatusPublished,
		AuditStatus: models.AuditStatusApproved,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	return a
}
