// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"smokefree/internal/apperr"
	"smokefree/internal/models"
	"smokefree/internal/permission"
	"smokefree/internal/store"
)

// Users serves the admin surface for account moderation: bans, warnings
// and posting-permission grants. Every mutation requires moderation rights
// on the acting user; role lookups are open to any authenticated caller.
type Users struct {
	users *store.UserStore
}

func NewUsers(users *store.UserStore) *Users {
	return &Users{users: users}
}

// requireModerator resolves the acting user and checks moderation rights.
func (h *Users) requireModerator(r *http.Request) error {
	userID, ok := actor(r)
	if !ok {
		return apperr.Forbidden("moderation requires an authenticated user")
	}
	u, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		return apperr.Internal(err, "load user %d", userID)
	}
	if u == nil || !permission.CanModerate(u) {
		return apperr.Forbidden("user %d may not moderate accounts", userID)
	}
	return nil
}

func (h *Users) mustFind(r *http.Request) (*models.User, error) {
	id, ok := urlID(r, "id")
	if !ok {
		return nil, apperr.Validation("invalid user id")
	}
	u, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		return nil, apperr.Internal(err, "load user %d", id)
	}
	if u == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return u, nil
}

func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.requireModerator(r); err != nil {
		respondError(w, r, err)
		return
	}
	u, err := h.mustFind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, u)
}

type banUserRequest struct {
	Reason  string     `json:"reason"`
	EndTime *time.Time `json:"end_time"`
}

// Ban places a forum ban on the account. A nil end time bans indefinitely;
// expiry of timed bans is evaluated lazily on the read path.
func (h *Users) Ban(w http.ResponseWriter, r *http.Request) {
	if err := h.requireModerator(r); err != nil {
		respondError(w, r, err)
		return
	}
	u, err := h.mustFind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req banUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	if msg := validateReason(req.Reason); msg != "" {
		respondBadRequest(w, msg)
		return
	}
	if err := h.users.Ban(r.Context(), u.ID, req.Reason, req.EndTime); err != nil {
		respondError(w, r, apperr.Internal(err, "ban user %d", u.ID))
		return
	}
	respondOK(w, nil)
}

func (h *Users) Unban(w http.ResponseWriter, r *http.Request) {
	if err := h.requireModerator(r); err != nil {
		respondError(w, r, err)
		return
	}
	u, err := h.mustFind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !u.ForumBanned {
		respondError(w, r, apperr.InvalidState("user %d is not banned", u.ID))
		return
	}
	if err := h.users.Unban(r.Context(), u.ID); err != nil {
		respondError(w, r, apperr.Internal(err, "unban user %d", u.ID))
		return
	}
	respondOK(w, nil)
}

func (h *Users) Warn(w http.ResponseWriter, r *http.Request) {
	if err := h.requireModerator(r); err != nil {
		respondError(w, r, err)
		return
	}
	u, err := h.mustFind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.users.Warn(r.Context(), u.ID); err != nil {
		respondError(w, r, apperr.Internal(err, "warn user %d", u.ID))
		return
	}
	respondOK(w, nil)
}

type grantPermissionRequest struct {
	Level     string     `json:"level"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (h *Users) GrantPermission(w http.ResponseWriter, r *http.Request) {
	if err := h.requireModerator(r); err != nil {
		respondError(w, r, err)
		return
	}
	u, err := h.mustFind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req grantPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid JSON body.")
		return
	}
	level := models.PostPermissionLevel(req.Level)
	switch level {
	case models.PostPermissionLimited, models.PostPermissionFull:
	default:
		respondBadRequest(w, "Unknown permission level.")
		return
	}
	grantedBy, _ := actor(r)
	if err := h.users.GrantPostPermission(r.Context(), u.ID, level, grantedBy, req.ExpiresAt); err != nil {
		respondError(w, r, apperr.Internal(err, "grant permission to user %d", u.ID))
		return
	}
	respondOK(w, nil)
}

func (h *Users) RevokePermission(w http.ResponseWriter, r *http.Request) {
	if err := h.requireModerator(r); err != nil {
		respondError(w, r, err)
		return
	}
	u, err := h.mustFind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.users.RevokePostPermission(r.Context(), u.ID); err != nil {
		respondError(w, r, apperr.Internal(err, "revoke permission from user %d", u.ID))
		return
	}
	respondOK(w, nil)
}

// Roles reports the descriptive role set derived from the stored flags.
func (h *Users) Roles(w http.ResponseWriter, r *http.Request) {
	u, err := h.mustFind(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, permission.Roles(u))
}
