// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package permission is the pure policy evaluator for forum actions.
// All checks take an explicit evaluation time so ban and permission
// expiries are re-evaluated on every call; nothing here mutates state.
// Clearing an expired ban flag is the job of an explicit unban operation.
package permission

import (
	"time"

	"smokefree/internal/models"
)

// Role names derived for display purposes only. Gating decisions use the
// boolean checks below, never the role set.
const (
	RolePoster        = "POSTER"
	RoleAdmin         = "ADMIN"
	RoleFreeUser      = "FREE_USER"
	RoleMember        = "MEMBER"
	RolePremiumMember = "PREMIUM_MEMBER"
)

// IsBanned reports whether a forum ban is in effect at now. A ban with a
// past end time reads as expired even though the flag is still set.
func IsBanned(u *models.User, now time.Time) bool {
	if u == nil || !u.ForumBanned {
		return false
	}
	if u.BanEndTime != nil && now.After(*u.BanEndTime) {
		return false
	}
	return true
}

// CanCreate reports whether the user may create articles and comments:
// posting rights granted, not banned, and the grant not expired.
func CanCreate(u *models.User, now time.Time) bool {
	if u == nil || !u.CanCreatePosts {
		return false
	}
	if IsBanned(u, now) {
		return false
	}
	if u.PostPermissionExpiresAt != nil && now.After(*u.PostPermissionExpiresAt) {
		return false
	}
	return true
}

// CanModerate reports whether the user holds moderation/audit rights.
// Posting rights double as moderation rights in this system.
func CanModerate(u *models.User) bool {
	return u != nil && u.CanCreatePosts
}

// CanAccessContent reports whether the user's membership tier satisfies the
// required access level.
func CanAccessContent(u *models.User, required models.AccessLevel) bool {
	if u == nil {
		return false
	}
	switch required {
	case models.AccessFree:
		return true
	case models.AccessMember:
		return u.MemberLevel == "member" || u.IsPremiumMember
	case models.AccessPremium:
		return u.IsPremiumMember
	}
	return false
}

// Roles derives the descriptive role set from stored flags.
func Roles(u *models.User) []string {
	if u == nil {
		return nil
	}

	var roles []string
	if u.CanCreatePosts {
		roles = append(roles, RolePoster)
	}

	switch {
	case u.IsPremiumMember:
		roles = append(roles, RolePremiumMember)
	case u.MemberLevel == "member":
		roles = append(roles, RoleMember)
	default:
		roles = append(roles, RoleFreeUser)
	}

	if CanModerate(u) {
		roles = append(roles, RoleAdmin)
	}
	return roles
}

// PermissionExpired reports whether a granted posting permission has lapsed.
// A nil expiry means the grant is permanent.
func PermissionExpired(u *models.User, now time.Time) bool {
	if u == nil {
		return true
	}
	if u.PostPermissionExpiresAt == nil {
		return false
	}
	return now.After(*u.PostPermissionExpiresAt)
}
