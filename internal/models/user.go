// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostPermissionLevel grades how much forum content a user may create.
type PostPermissionLevel string

const (
	PostPermissionNone    PostPermissionLevel = "none"
	PostPermissionLimited PostPermissionLevel = "limited"
	PostPermissionFull    PostPermissionLevel = "full"
)

// AccessLevel gates premium knowledge content.
type AccessLevel string

const (
	AccessFree    AccessLevel = "free"
	AccessMember  AccessLevel = "member"
	AccessPremium AccessLevel = "premium"
)

// User carries the account fields the knowledge subsystem needs: identity,
// membership tier, and the forum permission/ban facts evaluated by the
// permission gate. Ban and permission expiries are checked lazily at read
// time, never swept by a background job.
type User struct {
	ID           int64   `json:"id"`
	Nickname     string  `json:"nickname"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	PasswordHash string  `json:"-"`

	MemberLevel     string `json:"member_level"`
	IsPremiumMember bool   `json:"is_premium_member"`

	CanCreatePosts          bool                `json:"can_create_posts"`
	PostPermissionLevel     PostPermissionLevel `json:"post_permission_level"`
	PostPermissionGrantedBy *int64              `json:"post_permission_granted_by,omitempty"`
	PostPermissionGrantedAt *time.Time          `json:"post_permission_granted_at,omitempty"`
	PostPermissionExpiresAt *time.Time          `json:"post_permission_expires_at,omitempty"`

	ForumBanned  bool       `json:"forum_banned"`
	BanReason    *string    `json:"ban_reason,omitempty"`
	BanStartTime *time.Time `json:"ban_start_time,omitempty"`
	BanEndTime   *time.Time `json:"ban_end_time,omitempty"`
	BanCount     int        `json:"ban_count"`
	LastBanTime  *time.Time `json:"last_ban_time,omitempty"`
	WarningCount int        `json:"warning_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
