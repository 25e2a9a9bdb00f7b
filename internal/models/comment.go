// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// CommentStatus represents the moderation state of a comment.
// Soft deletion is orthogonal, tracked by the IsDeleted flag.
type CommentStatus string

const (
	CommentStatusActive CommentStatus = "active"
	CommentStatusHidden CommentStatus = "hidden"
)

// Comment is a reader comment on an article. Comments form a reply tree
// through ParentID; a parent always belongs to the same article and a
// comment is never re-parented.
type Comment struct {
	ID        int64  `json:"id"`
	ArticleID int64  `json:"article_id"`
	UserID    int64  `json:"user_id"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	Body      string `json:"body"`

	Status    CommentStatus `json:"status"`
	LikeCount int           `json:"like_count"`
	IsHelpful bool          `json:"is_helpful"`

	HiddenReason *string    `json:"hidden_reason,omitempty"`
	HiddenBy     *int64     `json:"hidden_by,omitempty"`
	HiddenAt     *time.Time `json:"hidden_at,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedBy *int64     `json:"deleted_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsVisible reports whether readers may see the comment:
// not soft-deleted and not hidden by a moderator.
func (c *Comment) IsVisible() bool {
	return !c.IsDeleted && c.Status == CommentStatusActive
}

// CommentNode is a comment with its visible replies attached, as returned
// by the tree assembly. Replies are ordered oldest first.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}
