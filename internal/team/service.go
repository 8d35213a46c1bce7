package team

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("team member not found")

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

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Member, error) {
	isVisible := true
	if req.IsVisible != nil {
		isVisible = *req.IsVisible
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	now := time.Now().In(s.location)
	item := Member{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		Title:     strings.TrimSpace(req.Title),
		Bio:       strings.TrimSpace(req.Bio),
		PhotoURL:  strings.TrimSpace(req.PhotoURL),
		IsVisible: isVisible,
		SortOrder: sortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return Member{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Member, error) {
	isVisible := true
	if req.IsVisible != nil {
		isVisible = *req.IsVisible
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	set := bson.M{
		"name":       strings.TrimSpace(req.Name),
		"title":      strings.TrimSpace(req.Title),
		"bio":        strings.TrimSpace(req.Bio),
		"photo_url":  strings.TrimSpace(req.PhotoURL),
		"is_visible": isVisible,
		"sort_order": sortOrder,
		"updated_at": time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
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

func (s *Service) ListVisible(ctx context.Context) ([]Member, error) {
	return s.repo.ListVisible(ctx)
}

func (s *Service) ListAdmin(ctx context.Context) ([]Member, error) {
	return s.repo.ListAdmin(ctx)
}
