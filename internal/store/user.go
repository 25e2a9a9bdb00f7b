// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"smokefree/internal/models"
)

const userColumns = `
	id, nickname, phone, email, password_hash,
	member_level, is_premium_member,
	can_create_posts, post_permission_level,
	post_permission_granted_by, post_permission_granted_at, post_permission_expires_at,
	forum_banned, ban_reason, ban_start_time, ban_end_time,
	ban_count, last_ban_time, warning_count,
	created_at, updated_at`

// UserStore handles the user rows the knowledge subsystem reads for
// permission decisions and mutates for forum administration.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(row articleScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Nickname, &u.Phone, &u.Email, &u.PasswordHash,
		&u.MemberLevel, &u.IsPremiumMember,
		&u.CanCreatePosts, &u.PostPermissionLevel,
		&u.PostPermissionGrantedBy, &u.PostPermissionGrantedAt, &u.PostPermissionExpiresAt,
		&u.ForumBanned, &u.BanReason, &u.BanStartTime, &u.BanEndTime,
		&u.BanCount, &u.LastBanTime, &u.WarningCount,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a user. Used by seeding and tests; account registration is
// owned by the auth service, not this backend.
func (s *UserStore) Create(ctx context.Context, u *models.User) (*models.User, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx, `
		INSERT INTO users (nickname, phone, email, password_hash,
		                   member_level, is_premium_member,
		                   can_create_posts, post_permission_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+userColumns,
		u.Nickname, u.Phone, u.Email, u.PasswordHash,
		u.MemberLevel, u.IsPremiumMember,
		u.CanCreatePosts, u.PostPermissionLevel,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// FindByID retrieves a user by id. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row := querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT`+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Ban marks the user forum-banned until endTime (nil = indefinite) and bumps
// the ban counter.
func (s *UserStore) Ban(ctx context.Context, id int64, reason string, endTime *time.Time) error {
	_, err := querier(ctx, s.db).ExecContext(ctx, `
		UPDATE users SET
			forum_banned = TRUE, ban_reason = $1,
			ban_start_time = NOW(), ban_end_time = $2,
			ban_count = ban_count + 1, last_ban_time = NOW(),
			updated_at = NOW()
		WHERE id = $3
	`, reason, endTime, id)
	if err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	return nil
}

// Unban clears the ban flag and its metadata.
func (s *UserStore) Unban(ctx context.Context, id int64) error {
	_, err := querier(ctx, s.db).ExecContext(ctx, `
		UPDATE users SET
			forum_banned = FALSE, ban_reason = NULL,
			ban_start_time = NULL, ban_end_time = NULL,
			updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("unban user: %w", err)
	}
	return nil
}

// Warn increments the user's warning counter.
func (s *UserStore) Warn(ctx context.Context, id int64) error {
	_, err := querier(ctx, s.db).ExecContext(ctx,
		`UPDATE users SET warning_count = warning_count + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("warn user: %w", err)
	}
	return nil
}

// GrantPostPermission enables posting at the given level, recording the
// granting actor and an optional expiry.
func (s *UserStore) GrantPostPermission(ctx context.Context, id int64, level models.PostPermissionLevel, grantedBy int64, expiresAt *time.Time) error {
	_, err := querier(ctx, s.db).ExecContext(ctx, `
		UPDATE users SET
			can_create_posts = TRUE, post_permission_level = $1,
			post_permission_granted_by = $2, post_permission_granted_at = NOW(),
			post_permission_expires_at = $3, updated_at = NOW()
		WHERE id = $4
	`, level, grantedBy, expiresAt, id)
	if err != nil {
		return fmt.Errorf("grant post permission: %w", err)
	}
	return nil
}

// RevokePostPermission removes posting rights and clears the grant metadata.
func (s *UserStore) RevokePostPermission(ctx context.Context, id int64) error {
	_, err := querier(ctx, s.db).ExecContext(ctx, `
		UPDATE users SET
			can_create_posts = FALSE, post_permission_level = 'none',
			post_permission_granted_by = NULL, post_permission_granted_at = NULL,
			post_permission_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("revoke post permission: %w", err)
	}
	return nil
}
