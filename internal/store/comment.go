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

const commentColumns = `
	id, article_id, user_id, parent_id, body, status, like_count, is_helpful,
	hidden_reason, hidden_by, hidden_at,
	is_deleted, deleted_by, deleted_at,
	created_at, updated_at`

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

func scanComment(row articleScanner) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(
		&c.ID, &c.ArticleID, &c.UserID, &c.ParentID, &c.Body,
		&c.Status, &c.LikeCount, &c.IsHelpful,
		&c.HiddenReason, &c.HiddenBy, &c.HiddenAt,
		&c.IsDeleted, &c.DeletedBy, &c.DeletedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new comment and returns it with generated fields.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO comments (article_id, user_id, parent_id, body, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING`+commentColumns,
		c.ArticleID, c.UserID, c.ParentID, c.Body, c.Status,
	)
	created, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

// FindByID retrieves a comment by id. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT`+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Update persists every mutable field of the comment.
func (s *CommentStore) Update(ctx context.Context, c *models.Comment) error {
	_, err := querier(ctx, s.db).ExecContext(ctx, `
		UPDATE comments SET
			body = $1, status = $2, like_count = $3, is_helpful = $4,
			hidden_reason = $5, hidden_by = $6, hidden_at = $7,
			is_deleted = $8, deleted_by = $9, deleted_at = $10,
			updated_at = NOW()
		WHERE id = $11
	`, c.Body, c.Status, c.LikeCount, c.IsHelpful,
		c.HiddenReason, c.HiddenBy, c.HiddenAt,
		c.IsDeleted, c.DeletedBy, c.DeletedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// ListVisibleByArticle returns every visible comment of the article, oldest
// first. The reply tree is assembled in memory from this single result set.
func (s *CommentStore) ListVisibleByArticle(ctx context.Context, articleID int64) ([]models.Comment, error) {
	rows, err := querier(ctx, s.db).QueryContext(ctx, `
		SELECT`+commentColumns+`
		FROM comments
		WHERE article_id = $1 AND status = 'active' AND is_deleted = FALSE
		ORDER BY created_at ASC, id ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list visible comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListByArticle returns one page of visible comments for the article, newest
// first, with the total count.
func (s *CommentStore) ListByArticle(ctx context.Context, articleID int64, page, size int) ([]models.Comment, int, error) {
	q := querier(ctx, s.db)

	var total int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments
		WHERE article_id = $1 AND status = 'active' AND is_deleted = FALSE
	`, articleID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT`+commentColumns+`
		FROM comments
		WHERE article_id = $1 AND status = 'active' AND is_deleted = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, articleID, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// AddLikeCount adjusts the like counter by delta, floored at zero.
func (s *CommentStore) AddLikeCount(ctx context.Context, id int64, delta int) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE comments SET like_count = GREATEST(like_count + $1, 0), updated_at = NOW() WHERE id = $2`,
		delta, id)
	if err != nil {
		return fmt.Errorf("add comment like count: %w", err)
	}
	return nil
}
