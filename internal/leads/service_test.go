package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items map[string]Lead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Lead)}
}

func (f *fakeRepo) Create(ctx context.Context, lead Lead) error {
	f.items[lead.ID] = lead
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, error) {
	out := make([]Lead, 0)
	for _, lead := range f.items {
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		if filter.Source != "" && lead.Source != filter.Source {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, _ := f.List(ctx, filter, 0, 0)
	return int64(len(items)), nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Lead, error) {
	lead, ok := f.items[id]
	if !ok {
		return Lead{}, mongo.ErrNoDocuments
	}
	return lead, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status string, now time.Time) (Lead, error) {
	lead, ok := f.items[id]
	if !ok {
		return Lead{}, mongo.ErrNoDocuments
	}
	lead.Status = status
	lead.UpdatedAt = now
	f.items[id] = lead
	return lead, nil
}

func testService(repo Repository) *Service {
	return NewService(repo, time.UTC, nil)
}

func TestCreateDefaultsToWebsiteSource(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	lead, err := svc.Create(context.Background(), CreateRequest{
		Name:    "  Jane Doe ",
		Phone:   "+4915112345678",
		Subject: "Project inquiry",
		Message: "Interested in the renewables portfolio.",
		Email:   "Jane@Example.COM",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if lead.Source != SourceWebsite {
		t.Fatalf("source = %s, want website", lead.Source)
	}
	if lead.Status != StatusNew {
		t.Fatalf("status = %s, want new", lead.Status)
	}
	if lead.Name != "Jane Doe" {
		t.Fatalf("name not trimmed: %q", lead.Name)
	}
	if lead.Email != "jane@example.com" {
		t.Fatalf("email not normalized: %q", lead.Email)
	}
	if _, ok := repo.items[lead.ID]; !ok {
		t.Fatal("lead not persisted")
	}
}

func TestCreateRejectsUnknownSource(t *testing.T) {
	svc := testService(newFakeRepo())
	_, err := svc.Create(context.Background(), CreateRequest{
		Name:    "Jane",
		Phone:   "+4915112345678",
		Subject: "Hi",
		Message: "Hello",
		Source:  "carrier-pigeon",
	})
	if !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(repo)

	lead, err := svc.Create(context.Background(), CreateRequest{
		Name:    "Jane",
		Phone:   "+4915112345678",
		Subject: "Hi",
		Message: "Hello",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), lead.ID, "Qualified")
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != StatusQualified {
		t.Fatalf("status = %s, want qualified", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), lead.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "missing", StatusClosed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAdminValidatesFilter(t *testing.T) {
	svc := testService(newFakeRepo())
	if _, _, err := svc.ListAdmin(context.Background(), ListFilter{Status: "bogus"}, 20, 0); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, _, err := svc.ListAdmin(context.Background(), ListFilter{Source: "bogus"}, 20, 0); !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}
