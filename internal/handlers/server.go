package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/cache"
	"github.com/mkof14/digital-invest-sub001/internal/config"
	"github.com/mkof14/digital-invest-sub001/internal/db"
	"github.com/mkof14/digital-invest-sub001/internal/middleware"
	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/validation"
)

// BookingMailer delivers the confirmation email after a slot is reserved.
// Delivery happens off the request path; a failed send never fails the
// booking.
type BookingMailer interface {
	SendBookingConfirmation(ctx context.Context, booking models.Booking) (string, error)
}

type Server struct {
	Cfg    *config.Config
	Cols   *db.Collections
	Val    *validation.Validator
	Log    *slog.Logger
	Cache  cache.Cache
	Tokens *auth.Manager
	Mailer BookingMailer
}

func NewServer(cfg *config.Config, cols *db.Collections, val *validation.Validator, log *slog.Logger, c cache.Cache, tokens *auth.Manager, mailer BookingMailer) *Server {
	return &Server{
		Cfg:    cfg,
		Cols:   cols,
		Val:    val,
		Log:    log,
		Cache:  c,
		Tokens: tokens,
		Mailer: mailer,
	}
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
