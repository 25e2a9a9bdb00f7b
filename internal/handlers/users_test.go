// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"smokefree/internal/models"
)

func TestUserBanUnban(t *testing.T) {
	e := newTestEnv(t)
	admin := createPoster(t, e)
	target := createReader(t, e)

	code, env := e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/ban", target.ID), admin.ID, map[string]any{
		"reason": "abusive comments",
	})
	if code != http.StatusOK {
		t.Fatalf("ban: got %d (%s), want 200", code, env.Message)
	}
	u, err := e.Users.FindByID(context.Background(), target.ID)
	if err != nil || u == nil {
		t.Fatalf("reload user: %v", err)
	}
	if !u.ForumBanned || u.BanReason == nil || *u.BanReason != "abusive comments" {
		t.Error("ban not recorded")
	}

	code, _ = e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/unban", target.ID), admin.ID, nil)
	if code != http.StatusOK {
		t.Fatalf("unban: got %d, want 200", code)
	}
	u, _ = e.Users.FindByID(context.Background(), target.ID)
	if u.ForumBanned {
		t.Error("unban did not clear the flag")
	}
	if u.BanCount != 1 {
		t.Errorf("ban count: got %d, want 1", u.BanCount)
	}
}

func TestUserUnbanNotBanned(t *testing.T) {
	e := newTestEnv(t)
	admin := createPoster(t, e)
	target := createReader(t, e)

	code, _ := e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/unban", target.ID), admin.ID, nil)
	if code != http.StatusConflict {
		t.Fatalf("unban without ban: got %d, want 409", code)
	}
}

func TestUserModerationForbiddenForReader(t *testing.T) {
	e := newTestEnv(t)
	reader := createReader(t, e)
	target := createReader(t, e)

	code, _ := e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/ban", target.ID), reader.ID, map[string]any{
		"reason": "nope",
	})
	if code != http.StatusForbidden {
		t.Fatalf("got %d, want 403", code)
	}
}

func TestUserWarn(t *testing.T) {
	e := newTestEnv(t)
	admin := createPoster(t, e)
	target := createReader(t, e)

	for i := 0; i < 2; i++ {
		code, _ := e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/warn", target.ID), admin.ID, nil)
		if code != http.StatusOK {
			t.Fatalf("warn #%d: got %d, want 200", i+1, code)
		}
	}
	u, _ := e.Users.FindByID(context.Background(), target.ID)
	if u.WarningCount != 2 {
		t.Errorf("warning count: got %d, want 2", u.WarningCount)
	}
}

func TestUserPermissionGrantRevoke(t *testing.T) {
	e := newTestEnv(t)
	admin := createPoster(t, e)
	target := createReader(t, e)

	code, _ := e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/permissions/grant", target.ID), admin.ID, map[string]any{
		"level": "limited",
	})
	if code != http.StatusOK {
		t.Fatalf("grant: got %d, want 200", code)
	}
	u, _ := e.Users.FindByID(context.Background(), target.ID)
	if !u.CanCreatePosts || u.PostPermissionLevel != models.PostPermissionLimited {
		t.Error("grant not recorded")
	}
	if u.PostPermissionGrantedBy == nil || *u.PostPermissionGrantedBy != admin.ID {
		t.Error("granting admin not recorded")
	}

	code, _ = e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/permissions/grant", target.ID), admin.ID, map[string]any{
		"level": "supreme",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("bogus level: got %d, want 400", code)
	}

	code, _ = e.do(t, "POST", fmt.Sprintf("/api/v1/users/%d/permissions/revoke", target.ID), admin.ID, nil)
	if code != http.StatusOK {
		t.Fatalf("revoke: got %d, want 200", code)
	}
	u, _ = e.Users.FindByID(context.Background(), target.ID)
	if u.CanCreatePosts || u.PostPermissionLevel != models.PostPermissionNone {
		t.Error("revoke not recorded")
	}
}

func TestUserRoles(t *testing.T) {
	e := newTestEnv(t)
	admin := createPoster(t, e)

	code, env := e.do(t, "GET", fmt.Sprintf("/api/v1/users/%d/roles", admin.ID), admin.ID, nil)
	if code != http.StatusOK {
		t.Fatalf("roles: got %d (%s), want 200", code, env.Message)
	}
	var roles []string
	decodeData(t, env, &roles)
	want := map[string]bool{"POSTER": false, "ADMIN": false}
	for _, r := range roles {
		if _, ok := want[r]; ok {
			want[r] = true
		}
	}
	for role, seen := range want {
		if !seen {
			t.Errorf("missing role %s in %v", role, roles)
		}
	}
}

func TestUserNotFound(t *testing.T) {
	e := newTestEnv(t)
	admin := createPoster(t, e)

	code, _ := e.do(t, "GET", "/api/v1/users/999999999", admin.ID, nil)
	if code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", code)
	}
}
