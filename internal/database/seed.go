// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// defaultCategories is the initial knowledge-base taxonomy.
var defaultCategories = []struct {
	name      string
	sortOrder int
}{
	{"Getting Started", 10},
	{"Withdrawal & Cravings", 20},
	{"Health Recovery", 30},
	{"Staying Smoke-Free", 40},
	{"Success Stories", 50},
}

// Seed populates the database with initial development data: a default
// admin account with full posting rights and the base category taxonomy.
// Seeding is idempotent; a non-empty users table is left untouched.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (nickname, email, password_hash, member_level,
		                   can_create_posts, post_permission_level)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, "Admin", "admin@smokefree.local", string(hash), "ADMIN", true, "full")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range defaultCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, sort_order)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, c.name, c.sortOrder)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.name, err)
		}
	}

	slog.Info("database seeded with default admin user and categories",
		"email", "admin@smokefree.local",
		"password", "admin",
	)

	return nil
}
