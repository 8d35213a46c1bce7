package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/httpx"
	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/schedule"
	"github.com/mkof14/digital-invest-sub001/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type upsertWindowRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" validate:"required,dayofweek"`
	StartTime string `json:"startTime" validate:"required,clock"`
	EndTime   string `json:"endTime" validate:"required,clock"`
	IsActive  *bool  `json:"isActive"`
}

// windowInterval rejects windows whose end does not lie after the start.
// Midnight-crossing intervals are not representable; they would otherwise
// be stored and silently yield no slots.
func windowInterval(req upsertWindowRequest) (int, int, bool) {
	startMin, err := schedule.ParseClockToMinutes(req.StartTime)
	if err != nil {
		return 0, 0, false
	}
	endMin, err := schedule.ParseClockToMinutes(req.EndTime)
	if err != nil {
		return 0, 0, false
	}
	if endMin <= startMin {
		return 0, 0, false
	}
	return startMin, endMin, true
}

func (s *Server) AdminListWindows(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{
			{Key: "dayOfWeek", Value: 1},
			{Key: "startTime", Value: 1},
		})

	cursor, err := s.Cols.AvailabilityWindows.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("admin windows list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := make([]models.AvailabilityWindow, 0)
	for cursor.Next(ctx) {
		var win models.AvailabilityWindow
		if err := cursor.Decode(&win); err != nil {
			log.Error("admin windows list: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
		items = append(items, win)
	}
	if err := cursor.Err(); err != nil {
		log.Error("admin windows list: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin windows list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) AdminCreateWindow(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	var req upsertWindowRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin window create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin window create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}
	if _, _, ok := windowInterval(req); !ok {
		log.Warn("admin window create: end not after start")
		transport.WriteError(w, http.StatusBadRequest, "endTime must be after startTime", nil)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now().In(s.Cfg.Timezone)
	win := models.AvailabilityWindow{
		ID:        primitive.NewObjectID().Hex(),
		DayOfWeek: *req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.Cols.AvailabilityWindows.InsertOne(ctx, win); err != nil {
		log.Error("admin window create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	s.invalidateAllAvailability(ctx)

	log.Info("admin window create: ok", slog.String("window_id", win.ID), slog.Int("day", win.DayOfWeek))
	transport.WriteJSON(w, http.StatusCreated, win)
}

func (s *Server) AdminUpdateWindow(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req upsertWindowRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin window update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin window update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}
	if _, _, ok := windowInterval(req); !ok {
		log.Warn("admin window update: end not after start")
		transport.WriteError(w, http.StatusBadRequest, "endTime must be after startTime", nil)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"dayOfWeek": *req.DayOfWeek,
		"startTime": req.StartTime,
		"endTime":   req.EndTime,
		"isActive":  isActive,
		"updatedAt": time.Now().In(s.Cfg.Timezone),
	}}

	var updated models.AvailabilityWindow
	err := s.Cols.AvailabilityWindows.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("admin window update: not found", slog.String("window_id", id))
			transport.WriteError(w, http.StatusNotFound, "window not found", nil)
			return
		}
		log.Error("admin window update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	s.invalidateAllAvailability(ctx)

	log.Info("admin window update: ok", slog.String("window_id", id))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) AdminDeleteWindow(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := s.Cols.AvailabilityWindows.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error("admin window delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.DeletedCount == 0 {
		log.Warn("admin window delete: not found", slog.String("window_id", id))
		transport.WriteError(w, http.StatusNotFound, "window not found", nil)
		return
	}

	s.invalidateAllAvailability(ctx)

	log.Info("admin window delete: ok", slog.String("window_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
