package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/httpx"
	"github.com/mkof14/digital-invest-sub001/internal/middleware"
	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type upsertDocumentRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Category    string `json:"category" validate:"required,max=80"`
	StorageKey  string `json:"storageKey"`
	ContentType string `json:"contentType" validate:"required"`
	SizeBytes   int64  `json:"sizeBytes" validate:"gte=0"`
	IsPublic    *bool  `json:"isPublic"`
}

// Documents lists the investor documents flagged public.
func (s *Server) Documents(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	query := bson.M{"isPublic": true}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		query["category"] = category
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := s.findDocuments(ctx, query)
	if err != nil {
		log.Error("documents list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("documents list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) AdminListDocuments(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	query := bson.M{}
	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		query["category"] = category
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := s.findDocuments(ctx, query)
	if err != nil {
		log.Error("admin documents list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin documents list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AdminCreateDocument registers document metadata. The binary itself lives
// in object storage under StorageKey; when the client has not uploaded yet
// a fresh key is minted for it to use.
func (s *Server) AdminCreateDocument(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	var req upsertDocumentRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin document create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin document create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	storageKey := strings.TrimSpace(req.StorageKey)
	if storageKey == "" {
		storageKey = "documents/" + uuid.NewString()
	}

	isPublic := false
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	uploadedBy := ""
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		uploadedBy = identity.UserID
	}

	now := time.Now().In(s.Cfg.Timezone)
	doc := models.Document{
		ID:          primitive.NewObjectID().Hex(),
		Title:       strings.TrimSpace(req.Title),
		Category:    strings.TrimSpace(req.Category),
		StorageKey:  storageKey,
		ContentType: strings.TrimSpace(req.ContentType),
		SizeBytes:   req.SizeBytes,
		IsPublic:    isPublic,
		UploadedBy:  uploadedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.Cols.Documents.InsertOne(ctx, doc); err != nil {
		log.Error("admin document create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin document create: ok", slog.String("document_id", doc.ID))
	transport.WriteJSON(w, http.StatusCreated, doc)
}

func (s *Server) AdminUpdateDocument(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req upsertDocumentRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin document update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin document update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	isPublic := false
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	set := bson.M{
		"title":       strings.TrimSpace(req.Title),
		"category":    strings.TrimSpace(req.Category),
		"contentType": strings.TrimSpace(req.ContentType),
		"sizeBytes":   req.SizeBytes,
		"isPublic":    isPublic,
		"updatedAt":   time.Now().In(s.Cfg.Timezone),
	}
	if key := strings.TrimSpace(req.StorageKey); key != "" {
		set["storageKey"] = key
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Document
	err := s.Cols.Documents.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("admin document update: not found", slog.String("document_id", id))
			transport.WriteError(w, http.StatusNotFound, "document not found", nil)
			return
		}
		log.Error("admin document update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin document update: ok", slog.String("document_id", id))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) AdminDeleteDocument(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.Cols.Documents.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error("admin document delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.DeletedCount == 0 {
		log.Warn("admin document delete: not found", slog.String("document_id", id))
		transport.WriteError(w, http.StatusNotFound, "document not found", nil)
		return
	}

	log.Info("admin document delete: ok", slog.String("document_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) findDocuments(ctx context.Context, query bson.M) ([]models.Document, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "category", Value: 1},
			{Key: "createdAt", Value: -1},
		})

	cursor, err := s.Cols.Documents.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Document, 0)
	for cursor.Next(ctx) {
		var doc models.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
