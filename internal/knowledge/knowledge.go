// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package knowledge implements the content lifecycle and engagement core of
// the knowledge base: the article publication state machine, comment
// moderation and threading, and the denormalized rating aggregate. Every
// mutating operation consults the permission gate before touching state and
// returns typed errors from internal/apperr.
package knowledge

import (
	"context"
	"time"

	"smokefree/internal/models"
)

// ArticleStore is the article persistence surface the services need.
// *store.ArticleStore satisfies it.
type ArticleStore interface {
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	FindByID(ctx context.Context, id int64) (*models.Article, error)
	Update(ctx context.Context, a *models.Article) error
	IncrementViewCount(ctx context.Context, id int64) error
	AddLikeCount(ctx context.Context, id int64, delta int) error
	AddDislikeCount(ctx context.Context, id int64, delta int) error
	UpdateRatingStats(ctx context.Context, id int64, score float64, count int) error
}

// CommentStore is the comment persistence surface. *store.CommentStore
// satisfies it.
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	Update(ctx context.Context, c *models.Comment) error
	ListVisibleByArticle(ctx context.Context, articleID int64) ([]models.Comment, error)
	AddLikeCount(ctx context.Context, id int64, delta int) error
}

// RatingStore is the rating persistence surface. *store.RatingStore
// satisfies it.
type RatingStore interface {
	Create(ctx context.Context, r *models.Rating) (*models.Rating, error)
	FindByID(ctx context.Context, id int64) (*models.Rating, error)
	FindByArticleAndUser(ctx context.Context, articleID, userID int64) (*models.Rating, error)
	Update(ctx context.Context, r *models.Rating) error
	Delete(ctx context.Context, id int64) error
	ValuesByArticle(ctx context.Context, articleID int64) ([]int, error)
}

// UserStore resolves acting users for permission checks. *store.UserStore
// satisfies it.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// CategoryStore resolves category references. *store.CategoryStore
// satisfies it.
type CategoryStore interface {
	FindByID(ctx context.Context, id int64) (*models.Category, error)
}

// TxRunner executes a function inside a single storage transaction.
// *store.TxManager satisfies it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// nowFunc is injectable time for tests. Services default to time.Now.
type nowFunc func() time.Time
