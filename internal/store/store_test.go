// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Store tests are integration tests that require a running PostgreSQL
// instance; they skip when the database is unreachable. Fixtures use random
// nicknames and category names so tests stay independent on a shared
// database.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"smokefree/internal/database"
	"smokefree/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "smokefree")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "smokefree")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not available: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	u, err := NewUserStore(db).Create(context.Background(), &models.User{
		Nickname:            "user-" + uuid.NewString()[:8],
		MemberLevel:         "FREE_USER",
		CanCreatePosts:      true,
		PostPermissionLevel: models.PostPermissionFull,
	})
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

func createTestCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(context.Background(), &models.Category{
		Name: "cat-" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return c
}

func createTestArticle(t *testing.T, db *sql.DB, categoryID, authorID int64) *models.Article {
	t.Helper()
	a, err := NewArticleStore(db).Create(context.Background(), &models.Article{
		Title:       "article-" + uuid.NewString()[:8],
		Body:        "body",
		CategoryID:  categoryID,
		AuthorID:    authorID,
		Status:      models.ArticleStatusDraft,
		AuditStatus: models.AuditStatusPending,
	})
	if err != nil {
		t.Fatalf("create test article: %v", err)
	}
	return a
}
