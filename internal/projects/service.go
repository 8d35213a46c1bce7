package projects

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
	ErrNotFound    = errors.New("project not found")
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

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Project, error) {
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Project{}, ErrInvalidSlug
	}

	isPublished := false
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	now := time.Now().In(s.location)
	item := Project{
		ID:          primitive.NewObjectID().Hex(),
		Slug:        slug,
		Title:       strings.TrimSpace(req.Title),
		Sector:      strings.TrimSpace(req.Sector),
		Summary:     strings.TrimSpace(req.Summary),
		Description: strings.TrimSpace(req.Description),
		Highlights:  trimList(req.Highlights),
		IsPublished: isPublished,
		SortOrder:   sortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Project{}, ErrSlugExists
		}
		return Project{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Project, error) {
	id = strings.TrimSpace(id)
	slug := normalizeSlug(req.Slug, req.Title)
	if slug == "" {
		return Project{}, ErrInvalidSlug
	}

	isPublished := false
	if req.IsPublished != nil {
		isPublished = *req.IsPublished
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	set := bson.M{
		"slug":         slug,
		"title":        strings.TrimSpace(req.Title),
		"sector":       strings.TrimSpace(req.Sector),
		"summary":      strings.TrimSpace(req.Summary),
		"description":  strings.TrimSpace(req.Description),
		"highlights":   trimList(req.Highlights),
		"is_published": isPublished,
		"sort_order":   sortOrder,
		"updated_at":   time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Project{}, ErrSlugExists
		}
		return Project{}, err
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

func (s *Service) ListPublic(ctx context.Context, filter PublicListFilter) ([]Project, error) {
	filter.Sector = strings.TrimSpace(filter.Sector)
	return s.repo.ListPublic(ctx, filter)
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Project, error) {
	item, err := s.repo.GetPublishedBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return item, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]Project, int64, error) {
	filter.Sector = strings.TrimSpace(filter.Sector)
	items, err := s.repo.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAdmin(ctx, filter)
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

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
