// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package knowledge

import (
	"context"
	"testing"

	"smokefree/internal/apperr"
	"smokefree/internal/models"
)

type aggregatorFixture struct {
	ratings  *fakeRatings
	articles *fakeArticles
	users    *fakeUsers
	svc      *Aggregator
}

func newAggregatorFixture(users ...models.User) *aggregatorFixture {
	f := &aggregatorFixture{
		ratings:  newFakeRatings(),
		articles: newFakeArticles(),
		users:    newFakeUsers(users...),
	}
	f.svc = NewAggregator(f.ratings, f.articles, f.users, fakeTx{})
	return f
}

func (f *aggregatorFixture) seedArticle() models.Article {
	return f.articles.put(models.Article{
		Title: "t", Body: "b", CategoryID: 1, AuthorID: 1,
		Status: models.ArticleStatusPublished, AuditStatus: models.AuditStatusApproved,
	})
}

func TestAggregatorCreate(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1), reader(2))
	a := f.seedArticle()

	r, err := f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 4})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Rating != 4 {
		t.Errorf("rating = %d, want 4", r.Rating)
	}

	got, _ := f.articles.FindByID(ctx, a.ID)
	if got.RatingCount != 1 || got.RatingScore != 4 {
		t.Errorf("aggregate = %v/%d, want 4/1", got.RatingScore, got.RatingCount)
	}

	// The second rating from another user updates the mean.
	if _, err := f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 2, Value: 5}); err != nil {
		t.Fatalf("second Create: %v", err)
	}
	got, _ = f.articles.FindByID(ctx, a.ID)
	if got.RatingCount != 2 || got.RatingScore != 4.5 {
		t.Errorf("aggregate = %v/%d, want 4.5/2", got.RatingScore, got.RatingCount)
	}
}

func TestAggregatorDuplicateRating(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1))
	a := f.seedArticle()

	if _, err := f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 3}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 5})
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("duplicate: kind = %s, want invalid_state", apperr.KindOf(err))
	}
	// The failed attempt must not disturb the aggregate.
	got, _ := f.articles.FindByID(ctx, a.ID)
	if got.RatingCount != 1 || got.RatingScore != 3 {
		t.Errorf("aggregate = %v/%d, want 3/1", got.RatingScore, got.RatingCount)
	}
}

func TestAggregatorValidation(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1))
	a := f.seedArticle()

	tests := []struct {
		name string
		in   CreateRatingInput
		kind apperr.Kind
	}{
		{"below min", CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 0}, apperr.KindValidation},
		{"above max", CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 6}, apperr.KindValidation},
		{"unknown article", CreateRatingInput{ArticleID: 999, UserID: 1, Value: 3}, apperr.KindNotFound},
		{"unknown user", CreateRatingInput{ArticleID: a.ID, UserID: 42, Value: 3}, apperr.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperr.KindOf(err); got != tt.kind {
				t.Errorf("kind = %s, want %s", got, tt.kind)
			}
		})
	}
}

func TestAggregatorUpdate(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1), reader(2))
	a := f.seedArticle()
	r, _ := f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 2})

	if _, err := f.svc.Update(ctx, r.ID, 2, 5, nil); apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("update by stranger: kind = %s, want forbidden", apperr.KindOf(err))
	}

	updated, err := f.svc.Update(ctx, r.ID, 1, 5, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("rating = %d, want 5", updated.Rating)
	}
	got, _ := f.articles.FindByID(ctx, a.ID)
	if got.RatingScore != 5 {
		t.Errorf("aggregate = %v, want 5", got.RatingScore)
	}
}

func TestAggregatorDelete(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1), reader(2))
	a := f.seedArticle()
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 2})
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 2, Value: 4})

	if err := f.svc.Delete(ctx, a.ID, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := f.articles.FindByID(ctx, a.ID)
	if got.RatingCount != 1 || got.RatingScore != 4 {
		t.Errorf("aggregate = %v/%d, want 4/1", got.RatingScore, got.RatingCount)
	}

	if err := f.svc.Delete(ctx, a.ID, 1); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("second delete: kind = %s, want not_found", apperr.KindOf(err))
	}
}

func TestAggregatorAverageRounding(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1), reader(2), reader(3))
	a := f.seedArticle()
	// 4, 4, 5: mean 4.333... rounds down; 13/3 = 4.33.
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 4})
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 2, Value: 4})
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 3, Value: 5})

	avg, err := f.svc.Average(ctx, a.ID)
	if err != nil {
		t.Fatalf("Average: %v", err)
	}
	if avg != 4.33 {
		t.Errorf("average = %v, want 4.33", avg)
	}
}

func TestRoundedMean(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"no ratings", nil, 0},
		{"single", []int{3}, 3},
		{"exact half rounds up", []int{1, 2}, 1.5},
		{"third rounds down", []int{4, 4, 5}, 4.33},
		{"two thirds rounds up", []int{4, 5, 5}, 4.67},
		{"repeating half", []int{1, 1, 2, 2, 2, 2, 2, 2}, 1.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roundedMean(tt.values); got != tt.want {
				t.Errorf("roundedMean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestAggregatorDistribution(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1), reader(2), reader(3))
	a := f.seedArticle()
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 5})
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 2, Value: 5})
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 3, Value: 2})

	dist, err := f.svc.Distribution(ctx, a.ID)
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}
	want := map[int]int{1: 0, 2: 1, 3: 0, 4: 0, 5: 2}
	for v, n := range want {
		if dist[v] != n {
			t.Errorf("dist[%d] = %d, want %d", v, dist[v], n)
		}
	}
	if len(dist) != 5 {
		t.Errorf("distribution has %d buckets, want 5 zero-filled", len(dist))
	}
}

func TestAggregatorRecomputeIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(reader(1))
	a := f.seedArticle()
	f.svc.Create(ctx, CreateRatingInput{ArticleID: a.ID, UserID: 1, Value: 3})

	if err := f.svc.Recompute(ctx, a.ID); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if err := f.svc.Recompute(ctx, a.ID); err != nil {
		t.Fatalf("second Recompute: %v", err)
	}
	got, _ := f.articles.FindByID(ctx, a.ID)
	if got.RatingCount != 1 || got.RatingScore != 3 {
		t.Errorf("aggregate = %v/%d, want 3/1", got.RatingScore, got.RatingCount)
	}
}
