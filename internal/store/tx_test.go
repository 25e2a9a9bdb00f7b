// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"smokefree/internal/models"
)

func TestRunInTxCommit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)
	cat := createTestCategory(t, db)
	articles := NewArticleStore(db)
	ratings := NewRatingStore(db)
	tm := NewTxManager(db)

	article := createTestArticle(t, db, cat.ID, user.ID)

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := ratings.Create(ctx, &models.Rating{
			ArticleID: article.ID, UserID: user.ID, Rating: 4,
		}); err != nil {
			return err
		}
		return articles.UpdateRatingStats(ctx, article.ID, 4, 1)
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	got, err := articles.FindByID(ctx, article.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.RatingScore != 4 || got.RatingCount != 1 {
		t.Errorf("aggregate = %v/%d, want 4/1", got.RatingScore, got.RatingCount)
	}
}

func TestRunInTxRollbackOnError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)
	cat := createTestCategory(t, db)
	ratings := NewRatingStore(db)
	tm := NewTxManager(db)

	article := createTestArticle(t, db, cat.ID, user.ID)
	boom := errors.New("boom")

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := ratings.Create(ctx, &models.Rating{
			ArticleID: article.ID, UserID: user.ID, Rating: 4,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunInTx err = %v, want boom", err)
	}

	// The rating written before the error must be gone.
	r, err := ratings.FindByArticleAndUser(ctx, article.ID, user.ID)
	if err != nil {
		t.Fatalf("FindByArticleAndUser: %v", err)
	}
	if r != nil {
		t.Error("expected rollback to discard the rating")
	}
}

func TestRunInTxReadsSeeUncommittedWrites(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)
	cat := createTestCategory(t, db)
	ratings := NewRatingStore(db)
	tm := NewTxManager(db)

	article := createTestArticle(t, db, cat.ID, user.ID)

	err := tm.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := ratings.Create(ctx, &models.Rating{
			ArticleID: article.ID, UserID: user.ID, Rating: 5,
		}); err != nil {
			return err
		}
		// Reads with the same context join the transaction and see the
		// write before commit.
		r, err := ratings.FindByArticleAndUser(ctx, article.ID, user.ID)
		if err != nil {
			return err
		}
		if r == nil {
			t.Error("expected in-transaction read to see the write")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}
}
