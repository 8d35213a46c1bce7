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

type createBookingRequest struct {
	Date  string `json:"date" validate:"required,date"`
	Time  string `json:"time" validate:"required,clock"`
	Name  string `json:"name" validate:"required,min=2,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
	Topic string `json:"topic" validate:"omitempty,max=500"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// CreateBooking reserves a free slot. The unique partial index on
// (date,time) is the authority against double booking; losing the race
// surfaces as a duplicate key and maps to 409.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	var req createBookingRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("booking create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("booking create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	now := time.Now().In(s.Cfg.Timezone)
	past, err := schedule.IsSlotPast(req.Date, req.Time, s.Cfg.Timezone, now)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid date or time", nil)
		return
	}
	if past {
		log.Warn("booking create: slot in the past", slog.String("date", req.Date), slog.String("time", req.Time))
		transport.WriteError(w, http.StatusBadRequest, "slot is in the past", nil)
		return
	}

	windows, err := s.loadWindows(ctx)
	if err != nil {
		log.Error("booking create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	bookedStarts, err := s.loadBookedStarts(ctx, req.Date)
	if err != nil {
		log.Error("booking create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	offered, err := schedule.IsSlotOffered(req.Date, req.Time, windows, bookedStarts, s.Cfg.Timezone)
	if err != nil {
		log.Error("booking create: slot check failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "availability configuration error", nil)
		return
	}
	if !offered {
		log.Warn("booking create: slot not available", slog.String("date", req.Date), slog.String("time", req.Time))
		transport.WriteError(w, http.StatusConflict, "slot is not available", nil)
		return
	}

	startMin, err := schedule.ParseClockToMinutes(req.Time)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid time format", nil)
		return
	}

	booking := models.Booking{
		ID:        primitive.NewObjectID().Hex(),
		Date:      req.Date,
		Time:      req.Time,
		EndTime:   schedule.MinutesToClock(startMin + schedule.SlotMinutes),
		Status:    models.BookingStatusPending,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Topic:     strings.TrimSpace(req.Topic),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.Cols.Bookings.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn("booking create: slot taken concurrently", slog.String("date", req.Date), slog.String("time", req.Time))
			transport.WriteError(w, http.StatusConflict, "slot is not available", nil)
			return
		}
		log.Error("booking create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	s.invalidateAvailability(ctx, booking.Date)

	if s.Mailer != nil {
		go func(b models.Booking) {
			sendCtx, sendCancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer sendCancel()
			if _, err := s.Mailer.SendBookingConfirmation(sendCtx, b); err != nil {
				s.Log.Error("booking create: confirmation email failed",
					slog.String("booking_id", b.ID),
					slog.String("error", err.Error()))
			}
		}(booking)
	}

	log.Info("booking create: ok",
		slog.String("booking_id", booking.ID),
		slog.String("date", booking.Date),
		slog.String("time", booking.Time))
	transport.WriteJSON(w, http.StatusCreated, booking)
}

// LookupBooking lets a visitor retrieve their booking by reference id. The
// email must match; it doubles as the access check since there are no
// visitor accounts.
func (s *Server) LookupBooking(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
	if id == "" || email == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id or email", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := s.Cols.Bookings.FindOne(ctx, bson.M{"_id": id, "email": email}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("booking lookup: not found", slog.String("booking_id", id))
			transport.WriteError(w, http.StatusNotFound, "booking not found", nil)
			return
		}
		log.Error("booking lookup: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("booking lookup: ok", slog.String("booking_id", id))
	transport.WriteJSON(w, http.StatusOK, booking)
}

func (s *Server) AdminListBookings(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	query := bson.M{}
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		if _, err := schedule.ParseDate(date, s.Cfg.Timezone); err != nil {
			transport.WriteError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", nil)
			return
		}
		query["date"] = date
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		switch status {
		case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled:
			query["status"] = status
		default:
			transport.WriteError(w, http.StatusBadRequest, "invalid status", nil)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{
			{Key: "date", Value: -1},
			{Key: "time", Value: 1},
		}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.Cols.Bookings.Find(ctx, query, opts)
	if err != nil {
		log.Error("admin bookings list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := make([]models.Booking, 0)
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			log.Error("admin bookings list: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
		items = append(items, b)
	}
	if err := cursor.Err(); err != nil {
		log.Error("admin bookings list: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	total, err := s.Cols.Bookings.CountDocuments(ctx, query)
	if err != nil {
		log.Error("admin bookings list: count error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin bookings list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

// AdminUpdateBookingStatus moves a booking between pending, confirmed and
// cancelled. Cancelling frees the slot, so the availability cache for that
// date is dropped.
func (s *Server) AdminUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req updateBookingStatusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin booking status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin booking status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"status":    req.Status,
		"updatedAt": time.Now().In(s.Cfg.Timezone),
	}}

	var updated models.Booking
	err := s.Cols.Bookings.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("admin booking status: not found", slog.String("booking_id", id))
			transport.WriteError(w, http.StatusNotFound, "booking not found", nil)
			return
		}
		log.Error("admin booking status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	s.invalidateAvailability(ctx, updated.Date)

	log.Info("admin booking status: ok",
		slog.String("booking_id", id),
		slog.String("status", updated.Status))
	transport.WriteJSON(w, http.StatusOK, updated)
}
