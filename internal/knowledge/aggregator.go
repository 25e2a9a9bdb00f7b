// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package knowledge

import (
	"context"
	"math"

	"smokefree/internal/apperr"
	"smokefree/internal/models"
)

// Aggregator maintains per-article ratings and the denormalized average on
// the article row. Every mutation runs inside one transaction together with
// the recomputation, so the stored aggregate never drifts from the rating
// rows.
type Aggregator struct {
	ratings  RatingStore
	articles ArticleStore
	users    UserStore
	tx       TxRunner
}

func NewAggregator(ratings RatingStore, articles ArticleStore, users UserStore, tx TxRunner) *Aggregator {
	return &Aggregator{ratings: ratings, articles: articles, users: users, tx: tx}
}

// CreateRatingInput carries a new rating.
type CreateRatingInput struct {
	ArticleID int64
	UserID    int64
	Value     int
	Comment   *string
}

// Create records a user's rating for an article. A user rates an article at
// most once; a second attempt is an invalid state, not an update.
func (g *Aggregator) Create(ctx context.Context, in CreateRatingInput) (*models.Rating, error) {
	if !models.ValidRatingValue(in.Value) {
		return nil, apperr.Validation("rating must be between %d and %d", models.RatingMin, models.RatingMax)
	}
	var created *models.Rating
	err := g.tx.RunInTx(ctx, func(ctx context.Context) error {
		article, err := g.articles.FindByID(ctx, in.ArticleID)
		if err != nil {
			return err
		}
		if article == nil {
			return apperr.NotFound("article %d not found", in.ArticleID)
		}
		user, err := g.users.FindByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("user %d not found", in.UserID)
		}
		existing, err := g.ratings.FindByArticleAndUser(ctx, in.ArticleID, in.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.InvalidState("user %d has already rated article %d", in.UserID, in.ArticleID)
		}
		created, err = g.ratings.Create(ctx, &models.Rating{
			ArticleID: in.ArticleID,
			UserID:    in.UserID,
			Rating:    in.Value,
			Comment:   in.Comment,
		})
		if err != nil {
			return err
		}
		return g.recompute(ctx, in.ArticleID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update changes the value (and comment) of a user's own rating.
func (g *Aggregator) Update(ctx context.Context, ratingID, userID int64, value int, comment *string) (*models.Rating, error) {
	if !models.ValidRatingValue(value) {
		return nil, apperr.Validation("rating must be between %d and %d", models.RatingMin, models.RatingMax)
	}
	var updated *models.Rating
	err := g.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := g.ratings.FindByID(ctx, ratingID)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.NotFound("rating %d not found", ratingID)
		}
		if r.UserID != userID {
			return apperr.Forbidden("user %d does not own rating %d", userID, ratingID)
		}
		r.Rating = value
		if comment != nil {
			r.Comment = comment
		}
		if err := g.ratings.Update(ctx, r); err != nil {
			return err
		}
		updated = r
		return g.recompute(ctx, r.ArticleID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the caller's rating for an article.
func (g *Aggregator) Delete(ctx context.Context, articleID, userID int64) error {
	return g.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := g.ratings.FindByArticleAndUser(ctx, articleID, userID)
		if err != nil {
			return err
		}
		if r == nil {
			return apperr.NotFound("user %d has no rating for article %d", userID, articleID)
		}
		if err := g.ratings.Delete(ctx, r.ID); err != nil {
			return err
		}
		return g.recompute(ctx, articleID)
	})
}

// Get returns the caller's rating for an article, or not_found.
func (g *Aggregator) Get(ctx context.Context, articleID, userID int64) (*models.Rating, error) {
	r, err := g.ratings.FindByArticleAndUser(ctx, articleID, userID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperr.NotFound("user %d has no rating for article %d", userID, articleID)
	}
	return r, nil
}

// Average computes the current mean rating for an article from the rating
// rows, rounded half-up to two decimals. No ratings yields zero.
func (g *Aggregator) Average(ctx context.Context, articleID int64) (float64, error) {
	values, err := g.ratings.ValuesByArticle(ctx, articleID)
	if err != nil {
		return 0, err
	}
	return roundedMean(values), nil
}

// Distribution counts ratings per value, zero-filled across the whole scale.
func (g *Aggregator) Distribution(ctx context.Context, articleID int64) (map[int]int, error) {
	values, err := g.ratings.ValuesByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	dist := make(map[int]int, models.RatingMax)
	for v := models.RatingMin; v <= models.RatingMax; v++ {
		dist[v] = 0
	}
	for _, v := range values {
		if models.ValidRatingValue(v) {
			dist[v]++
		}
	}
	return dist, nil
}

// Recompute rebuilds the denormalized aggregate from the rating rows. The
// recomputation is idempotent; running it twice writes the same result.
func (g *Aggregator) Recompute(ctx context.Context, articleID int64) error {
	return g.tx.RunInTx(ctx, func(ctx context.Context) error {
		return g.recompute(ctx, articleID)
	})
}

func (g *Aggregator) recompute(ctx context.Context, articleID int64) error {
	values, err := g.ratings.ValuesByArticle(ctx, articleID)
	if err != nil {
		return err
	}
	return g.articles.UpdateRatingStats(ctx, articleID, roundedMean(values), len(values))
}

// roundedMean is the mean rounded half-up to two decimal places.
func roundedMean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return math.Floor(mean*100+0.5) / 100
}
