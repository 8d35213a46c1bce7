package news

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("post not found")
	ErrSlugExists  = errors.New("slug already exists")
	ErrInvalidSlug = errors.New("invalid slug")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Post, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}

	isPublished := false
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	now := time.Now().In(s.location)
	item := Post{
		ID:          primitive.NewObjectID().Hex(),
		Slug:        slug,
		Title:       strings.TrimSpace(req.Title),
		Excerpt:     strings.TrimSpace(req.Excerpt),
		Body:        strings.TrimSpace(req.Body),
		IsPublished: isPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if isPublished {
		item.PublishedAt = &now
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Post{}, ErrSlugExists
		}
		return Post{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Post, error) {
	id = strings.TrimSpace(id)
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Post{}, ErrInvalidSlug
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}

	isPublished := false
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}

	now := time.Now().In(s.location)
	set := bson.M{
		"slug":         slug,
		"title":        strings.TrimSpace(req.Title),
		"excerpt":      strings.TrimSpace(req.Excerpt),
		"body":         strings.TrimSpace(req.Body),
		"is_published": isPublished,
		"updated_at":   now,
	}
	// First publication stamps published_at; it is never rewound.
	if isPublished && current.PublishedAt == nil {
		set["published_at"] = now
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Post{}, ErrSlugExists
		}
		return Post{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListPublished(ctx context.Context, limit, offset int64) ([]Post, int64, error) {
	items, err := s.repo.ListPublished(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountPublished(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return item, nil
}

func (s *Service) ListAdmin(ctx context.Context, limit, offset int64) ([]Post, int64, error) {
	items, err := s.repo.ListAdmin(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAdmin(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func normalizeSlug(slug, title string) string {
	raw := strings.TrimSpace(slug)
	if raw == "" {
		raw = strings.TrimSpace(title)
	}
	return utils.Slugify(raw)
}
