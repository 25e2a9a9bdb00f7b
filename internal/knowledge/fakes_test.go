// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package knowledge

import (
	"context"
	"time"

	"smokefree/internal/models"
)

// In-memory store fakes. They copy values in and out so service code only
// observes state it explicitly wrote through Update.

type fakeArticles struct {
	byID   map[int64]models.Article
	nextID int64
}

func newFakeArticles() *fakeArticles {
	return &fakeArticles{byID: map[int64]models.Article{}, nextID: 1}
}

func (f *fakeArticles) put(a models.Article) models.Article {
	if a.ID == 0 {
		a.ID = f.nextID
		f.nextID++
	} else if a.ID >= f.nextID {
		f.nextID = a.ID + 1
	}
	f.byID[a.ID] = a
	return a
}

func (f *fakeArticles) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	stored := f.put(*a)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.byID[stored.ID] = stored
	return &stored, nil
}

func (f *fakeArticles) FindByID(_ context.Context, id int64) (*models.Article, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (f *fakeArticles) Update(_ context.Context, a *models.Article) error {
	f.byID[a.ID] = *a
	return nil
}

func (f *fakeArticles) IncrementViewCount(_ context.Context, id int64) error {
	a := f.byID[id]
	a.ViewCount++
	f.byID[id] = a
	return nil
}

func (f *fakeArticles) AddLikeCount(_ context.Context, id int64, delta int) error {
	a := f.byID[id]
	if a.LikeCount += delta; a.LikeCount < 0 {
		a.LikeCount = 0
	}
	f.byID[id] = a
	return nil
}

func (f *fakeArticles) AddDislikeCount(_ context.Context, id int64, delta int) error {
	a := f.byID[id]
	if a.DislikeCount += delta; a.DislikeCount < 0 {
		a.DislikeCount = 0
	}
	f.byID[id] = a
	return nil
}

func (f *fakeArticles) UpdateRatingStats(_ context.Context, id int64, score float64, count int) error {
	a := f.byID[id]
	a.RatingScore = score
	a.RatingCount = count
	f.byID[id] = a
	return nil
}

type fakeComments struct {
	byID   map[int64]models.Comment
	nextID int64
}

func newFakeComments() *fakeComments {
	return &fakeComments{byID: map[int64]models.Comment{}, nextID: 1}
}

func (f *fakeComments) put(c models.Comment) models.Comment {
	if c.ID == 0 {
		c.ID = f.nextID
		f.nextID++
	} else if c.ID >= f.nextID {
		f.nextID = c.ID + 1
	}
	f.byID[c.ID] = c
	return c
}

func (f *fakeComments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	stored := *c
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	stored = f.put(stored)
	return &stored, nil
}

func (f *fakeComments) FindByID(_ context.Context, id int64) (*models.Comment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeComments) Update(_ context.Context, c *models.Comment) error {
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeComments) ListVisibleByArticle(_ context.Context, articleID int64) ([]models.Comment, error) {
	var out []models.Comment
	for id := int64(1); id < f.nextID; id++ {
		c, ok := f.byID[id]
		if ok && c.ArticleID == articleID && c.IsVisible() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeComments) AddLikeCount(_ context.Context, id int64, delta int) error {
	c := f.byID[id]
	if c.LikeCount += delta; c.LikeCount < 0 {
		c.LikeCount = 0
	}
	f.byID[id] = c
	return nil
}

type fakeRatings struct {
	byID   map[int64]models.Rating
	nextID int64
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{byID: map[int64]models.Rating{}, nextID: 1}
}

func (f *fakeRatings) Create(_ context.Context, r *models.Rating) (*models.Rating, error) {
	stored := *r
	stored.ID = f.nextID
	f.nextID++
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.byID[stored.ID] = stored
	return &stored, nil
}

func (f *fakeRatings) FindByID(_ context.Context, id int64) (*models.Rating, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeRatings) FindByArticleAndUser(_ context.Context, articleID, userID int64) (*models.Rating, error) {
	for id := int64(1); id < f.nextID; id++ {
		r, ok := f.byID[id]
		if ok && r.ArticleID == articleID && r.UserID == userID {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRatings) Update(_ context.Context, r *models.Rating) error {
	f.byID[r.ID] = *r
	return nil
}

func (f *fakeRatings) Delete(_ context.Context, id int64) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRatings) ValuesByArticle(_ context.Context, articleID int64) ([]int, error) {
	var out []int
	for id := int64(1); id < f.nextID; id++ {
		r, ok := f.byID[id]
		if ok && r.ArticleID == articleID {
			out = append(out, r.Rating)
		}
	}
	return out, nil
}

type fakeUsers struct {
	byID map[int64]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type fakeCategories struct {
	byID map[int64]models.Category
}

func newFakeCategories(ids ...int64) *fakeCategories {
	f := &fakeCategories{byID: map[int64]models.Category{}}
	for _, id := range ids {
		f.byID[id] = models.Category{ID: id, Name: "category"}
	}
	return f
}

func (f *fakeCategories) FindByID(_ context.Context, id int64) (*models.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// fakeTx runs the function directly; the fakes have no transaction notion.
type fakeTx struct{}

func (fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
