// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"smokefree/internal/models"
)

const ratingColumns = `
	id, article_id, user_id, rating, comment, created_at, updated_at`

// RatingStore handles all rating-related database operations. The schema
// carries a unique index on (article_id, user_id) as defense in depth behind
// the aggregator's check-then-insert.
type RatingStore struct {
	db *sql.DB
}

// NewRatingStore creates a new RatingStore with the given database connection.
func NewRatingStore(db *sql.DB) *RatingStore {
	return &RatingStore{db: db}
}

func scanRating(row articleScanner) (*models.Rating, error) {
	r := &models.Rating{}
	err := row.Scan(&r.ID, &r.ArticleID, &r.UserID, &r.Rating, &r.Comment,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create inserts a new rating and returns it with generated fields.
func (s *RatingStore) Create(ctx context.Context, r *models.Rating) (*models.Rating, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO ratings (article_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING`+ratingColumns,
		r.ArticleID, r.UserID, r.Rating, r.Comment,
	)
	created, err := scanRating(row)
	if err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}
	return created, nil
}

// FindByID retrieves a rating by id. Returns nil if not found.
func (s *RatingStore) FindByID(ctx context.Context, id int64) (*models.Rating, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT`+ratingColumns+` FROM ratings WHERE id = $1`, id)
	r, err := scanRating(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find rating by id: %w", err)
	}
	return r, nil
}

// FindByArticleAndUser retrieves the single rating a user gave an article.
// Returns nil if the user has not rated it.
func (s *RatingStore) FindByArticleAndUser(ctx context.Context, articleID, userID int64) (*models.Rating, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT`+ratingColumns+` FROM ratings WHERE article_id = $1 AND user_id = $2`,
		articleID, userID)
	r, err := scanRating(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find rating by article and user: %w", err)
	}
	return r, nil
}

// Update persists the rating's value and comment.
func (s *RatingStore) Update(ctx context.Context, r *models.Rating) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE ratings SET rating = $1, comment = $2, updated_at = NOW() WHERE id = $3`,
		r.Rating, r.Comment, r.ID)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	return nil
}

// Delete removes a rating by id.
func (s *RatingStore) Delete(ctx context.Context, id int64) error {
	_, err := querier(ctx, s.db).ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	return nil
}

// ValuesByArticle returns every rating value for the article. The aggregate
// recompute is always a full scan of this set, never an incremental update.
func (s *RatingStore) ValuesByArticle(ctx context.Context, articleID int64) ([]int, error) {
	rows, err := querier(ctx, s.db).QueryContext(ctx,
		`SELECT rating FROM ratings WHERE article_id = $1`, articleID)
	if err != nil {
		return nil, fmt.Errorf("rating values by article: %w", err)
	}
	defer rows.Close()

	var values []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan rating value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// ListByArticle returns one page of ratings for the article, newest first,
// with the total count.
func (s *RatingStore) ListByArticle(ctx context.Context, articleID int64, page, size int) ([]models.Rating, int, error) {
	q := querier(ctx, s.db)

	var total int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ratings WHERE article_id = $1`, articleID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count ratings: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT`+ratingColumns+`
		FROM ratings
		WHERE article_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, articleID, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var items []models.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rating: %w", err)
		}
		items = append(items, *r)
	}
	return items, total, rows.Err()
}
