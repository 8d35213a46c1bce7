package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Post
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Post)}
}

func (f *fakeRepo) Create(ctx context.Context, item Post) error {
	for _, existing := range f.items {
		if existing.Slug == item.Slug {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Post, error) {
	item, ok := f.items[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	if slug, ok := set["slug"].(string); ok {
		item.Slug = slug
	}
	if title, ok := set["title"].(string); ok {
		item.Title = title
	}
	if published, ok := set["is_published"].(bool); ok {
		item.IsPublished = published
	}
	if at, ok := set["published_at"].(time.Time); ok {
		item.PublishedAt = &at
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Post, error) {
	item, ok := f.items[id]
	if !ok {
		return Post{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) ListPublished(ctx context.Context, limit, offset int64) ([]Post, error) {
	out := make([]Post, 0)
	for _, item := range f.items {
		if item.IsPublished {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountPublished(ctx context.Context) (int64, error) {
	items, _ := f.ListPublished(ctx, 0, 0)
	return int64(len(items)), nil
}

func (f *fakeRepo) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	for _, item := range f.items {
		if item.Slug == slug && item.IsPublished {
			return item, nil
		}
	}
	return Post{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) ListAdmin(ctx context.Context, limit, offset int64) ([]Post, error) {
	out := make([]Post, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) CountAdmin(ctx context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func boolPtr(v bool) *bool { return &v }

func draftRequest() UpsertRequest {
	return UpsertRequest{
		Title:   "Annual Results 2026",
		Excerpt: "Group revenue up year over year.",
		Body:    "The holding reports consolidated results for the fiscal year.",
	}
}

func TestCreateDraftHasNoPublishedAt(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	item, err := svc.Create(context.Background(), draftRequest())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.Slug != "annual-results-2026" {
		t.Fatalf("slug = %q", item.Slug)
	}
	if item.PublishedAt != nil {
		t.Fatal("draft should not carry published_at")
	}
}

func TestPublishStampsOnce(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	item, err := svc.Create(context.Background(), draftRequest())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	req := draftRequest()
	req.IsPublished = boolPtr(true)
	published, err := svc.Update(context.Background(), item.ID, req)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if published.PublishedAt == nil {
		t.Fatal("publishing should stamp published_at")
	}
	first := *published.PublishedAt

	again, err := svc.Update(context.Background(), item.ID, req)
	if err != nil {
		t.Fatalf("second Update error: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(first) {
		t.Fatal("published_at must not change on re-save")
	}
}

func TestUpdateMissingPost(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	if _, err := svc.Update(context.Background(), "missing", draftRequest()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
