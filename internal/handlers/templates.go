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

type upsertTemplateRequest struct {
	Subject  string `json:"subject" validate:"required,max=200"`
	HTMLBody string `json:"htmlBody" validate:"required"`
}

func (s *Server) AdminListTemplates(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.Cols.EmailTemplates.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("admin templates list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := make([]models.EmailTemplate, 0)
	for cursor.Next(ctx) {
		var tmpl models.EmailTemplate
		if err := cursor.Decode(&tmpl); err != nil {
			log.Error("admin templates list: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
		items = append(items, tmpl)
	}
	if err := cursor.Err(); err != nil {
		log.Error("admin templates list: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin templates list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AdminUpsertTemplate stores an override for a built-in email template,
// keyed by name. Outgoing mail picks the override up on the next send; a
// broken override falls back to the built-in body at render time.
func (s *Server) AdminUpsertTemplate(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name")))
	if name == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing name", nil)
		return
	}

	var req upsertTemplateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin template upsert: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin template upsert: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().In(s.Cfg.Timezone)
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetUpsert(true)
	update := bson.M{
		"$set": bson.M{
			"subject":   strings.TrimSpace(req.Subject),
			"htmlBody":  req.HTMLBody,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"name":      name,
			"createdAt": now,
		},
	}

	var updated models.EmailTemplate
	if err := s.Cols.EmailTemplates.FindOneAndUpdate(ctx, bson.M{"name": name}, update, opts).Decode(&updated); err != nil {
		log.Error("admin template upsert: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin template upsert: ok", slog.String("name", name))
	transport.WriteJSON(w, http.StatusOK, updated)
}

// AdminDeleteTemplate removes an override so sends revert to the built-in
// template.
func (s *Server) AdminDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name")))
	if name == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing name", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.Cols.EmailTemplates.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		log.Error("admin template delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.DeletedCount == 0 {
		log.Warn("admin template delete: not found", slog.String("name", name))
		transport.WriteError(w, http.StatusNotFound, "template not found", nil)
		return
	}

	log.Info("admin template delete: ok", slog.String("name", name))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
