package projects

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Project
	slugs map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Project), slugs: make(map[string]string)}
}

func (f *fakeRepo) Create(ctx context.Context, item Project) error {
	if _, exists := f.slugs[item.Slug]; exists {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	f.items[item.ID] = item
	f.slugs[item.Slug] = item.ID
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Project, error) {
	item, ok := f.items[id]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	if slug, ok := set["slug"].(string); ok {
		if owner, exists := f.slugs[slug]; exists && owner != id {
			return Project{}, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
		delete(f.slugs, item.Slug)
		item.Slug = slug
		f.slugs[slug] = id
	}
	if title, ok := set["title"].(string); ok {
		item.Title = title
	}
	if published, ok := set["is_published"].(bool); ok {
		item.IsPublished = published
	}
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	item, ok := f.items[id]
	if !ok {
		return false, nil
	}
	delete(f.slugs, item.Slug)
	delete(f.items, id)
	return true, nil
}

func (f *fakeRepo) ListPublic(ctx context.Context, filter PublicListFilter) ([]Project, error) {
	out := make([]Project, 0)
	for _, item := range f.items {
		if !item.IsPublished {
			continue
		}
		if filter.Sector != "" && item.Sector != filter.Sector {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	id, ok := f.slugs[slug]
	if !ok {
		return Project{}, mongo.ErrNoDocuments
	}
	item := f.items[id]
	if !item.IsPublished {
		return Project{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (f *fakeRepo) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, error) {
	out := make([]Project, 0)
	for _, item := range f.items {
		if filter.Sector != "" && item.Sector != filter.Sector {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) CountAdmin(ctx context.Context, filter AdminListFilter) (int64, error) {
	items, _ := f.ListAdmin(ctx, filter, 0, 0)
	return int64(len(items)), nil
}

func boolPtr(v bool) *bool { return &v }

func validRequest() UpsertRequest {
	return UpsertRequest{
		Title:       "Green Energy Holding",
		Sector:      "Energy",
		Summary:     "Renewable generation assets.",
		Description: "Wind and solar assets across three markets.",
	}
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	item, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if item.Slug != "green-energy-holding" {
		t.Fatalf("slug = %q, want green-energy-holding", item.Slug)
	}
	if item.IsPublished {
		t.Fatal("new project should default to unpublished")
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	if _, err := svc.Create(context.Background(), validRequest()); err != nil {
		t.Fatalf("first create error: %v", err)
	}
	if _, err := svc.Create(context.Background(), validRequest()); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists, got %v", err)
	}
}

func TestGetPublishedBySlugHidesDrafts(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	item, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := svc.GetPublishedBySlug(context.Background(), item.Slug); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected draft to be hidden, got %v", err)
	}

	req := validRequest()
	req.IsPublished = boolPtr(true)
	if _, err := svc.Update(context.Background(), item.ID, req); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	got, err := svc.GetPublishedBySlug(context.Background(), item.Slug)
	if err != nil {
		t.Fatalf("GetPublishedBySlug error: %v", err)
	}
	if got.ID != item.ID {
		t.Fatalf("got wrong project: %s", got.ID)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
