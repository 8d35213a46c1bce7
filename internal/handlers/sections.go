package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/httpx"
	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type upsertSectionRequest struct {
	Label     string `json:"label" validate:"required,max=120"`
	IsVisible *bool  `json:"isVisible" validate:"required"`
	SortOrder *int   `json:"sortOrder" validate:"omitempty,gte=0"`
}

// Sections returns the front-end section toggles. The public site reads
// this once per page load to decide which blocks to render.
func (s *Server) Sections(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})
	cursor, err := s.Cols.SiteSections.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("sections list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := make([]models.SiteSection, 0)
	for cursor.Next(ctx) {
		var sec models.SiteSection
		if err := cursor.Decode(&sec); err != nil {
			log.Error("sections list: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
		items = append(items, sec)
	}
	if err := cursor.Err(); err != nil {
		log.Error("sections list: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AdminUpsertSection creates or updates the toggle for one section key.
func (s *Server) AdminUpsertSection(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	key := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "key")))
	if key == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing key", nil)
		return
	}

	var req upsertSectionRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin section upsert: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin section upsert: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(true)
	update := bson.M{
		"$set": bson.M{
			"label":     strings.TrimSpace(req.Label),
			"isVisible": *req.IsVisible,
			"sortOrder": sortOrder,
			"updatedAt": time.Now().In(s.Cfg.Timezone),
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID().Hex(),
			"key": key,
		},
	}

	var updated models.SiteSection
	if err := s.Cols.SiteSections.FindOneAndUpdate(ctx, bson.M{"key": key}, update, opts).Decode(&updated); err != nil {
		log.Error("admin section upsert: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin section upsert: ok", slog.String("key", key), slog.Bool("visible", updated.IsVisible))
	transport.WriteJSON(w, http.StatusOK, updated)
}
