// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and the pure state rules of the knowledge base: article/comment status
// machines, audit outcomes, and user permission facts.
package models

import "time"

// ArticleStatus represents the publication state of a knowledge article.
type ArticleStatus string

const (
	ArticleStatusDraft          ArticleStatus = "draft"
	ArticleStatusPendingPublish ArticleStatus = "pending"
	ArticleStatusPublished      ArticleStatus = "published"
	ArticleStatusBanned         ArticleStatus = "banned"
)

// AuditStatus is the editorial review outcome, orthogonal to ArticleStatus.
type AuditStatus string

const (
	AuditStatusPending  AuditStatus = "pending"
	AuditStatusApproved AuditStatus = "approved"
	AuditStatusRejected AuditStatus = "rejected"
)

// articleTransitions is the explicit status transition table. Any move not
// listed here is rejected. A status may always "move" to itself (idempotent
// re-saves of the same state).
var articleTransitions = map[ArticleStatus][]ArticleStatus{
	ArticleStatusDraft:          {ArticleStatusPendingPublish, ArticleStatusBanned},
	ArticleStatusPendingPublish: {ArticleStatusPublished, ArticleStatusDraft, ArticleStatusBanned},
	ArticleStatusPublished:      {ArticleStatusDraft, ArticleStatusBanned},
	ArticleStatusBanned:         {ArticleStatusPendingPublish, ArticleStatusDraft},
}

// CanTransitionTo reports whether the status machine allows moving from s
// to next.
func (s ArticleStatus) CanTransitionTo(next ArticleStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range articleTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the known article statuses.
func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleStatusDraft, ArticleStatusPendingPublish, ArticleStatusPublished, ArticleStatusBanned:
		return true
	}
	return false
}

// Valid reports whether a is one of the known audit statuses.
func (a AuditStatus) Valid() bool {
	switch a {
	case AuditStatusPending, AuditStatusApproved, AuditStatusRejected:
		return true
	}
	return false
}

// Article is a knowledge-base document with a visibility/audit lifecycle
// and denormalized engagement statistics.
type Article struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Body       string        `json:"body"`
	Source     *string       `json:"source,omitempty"`
	CategoryID int64         `json:"category_id"`
	AuthorID   int64         `json:"author_id"`

	Status      ArticleStatus `json:"status"`
	AuditStatus AuditStatus   `json:"audit_status"`

	ViewCount    int     `json:"view_count"`
	LikeCount    int     `json:"like_count"`
	DislikeCount int     `json:"dislike_count"`
	RatingScore  float64 `json:"rating_score"`
	RatingCount  int     `json:"rating_count"`

	AuditComment *string    `json:"audit_comment,omitempty"`
	AuditedBy    *int64     `json:"audited_by,omitempty"`
	AuditedAt    *time.Time `json:"audited_at,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedBy *int64     `json:"deleted_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	BannedReason *string    `json:"banned_reason,omitempty"`
	BannedBy     *int64     `json:"banned_by,omitempty"`
	BannedAt     *time.Time `json:"banned_at,omitempty"`

	PublishTime  *time.Time `json:"publish_time,omitempty"`
	LastEditBy   *int64     `json:"last_edit_by,omitempty"`
	LastEditTime *time.Time `json:"last_edit_time,omitempty"`
	EditCount    int        `json:"edit_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsVisible reports whether readers may see the article:
// not soft-deleted and published.
func (a *Article) IsVisible() bool {
	return !a.IsDeleted && a.Status == ArticleStatusPublished
}

// IsPublished reports whether the article is live and passed review.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished && a.AuditStatus == AuditStatusApproved
}

// NeedsAudit reports whether the article awaits an editorial decision.
func (a *Article) NeedsAudit() bool {
	return a.AuditStatus == AuditStatusPending
}

// IsBanned reports whether the article was taken down by an admin.
func (a *Article) IsBanned() bool {
	return a.Status == ArticleStatusBanned
}
