package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/schedule"
	"github.com/mkof14/digital-invest-sub001/internal/transport"

	"go.mongodb.org/mongo-driver/bson"
)

type availabilityResponse struct {
	Date  string          `json:"date"`
	Slots []schedule.Slot `json:"slots"`
}

// Availability returns the free consultation slots for ?date=YYYY-MM-DD.
// Past dates yield an empty list; for today, slots whose start has already
// passed are dropped.
func (s *Server) Availability(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing date", nil)
		return
	}
	if _, err := schedule.ParseDate(dateStr, s.Cfg.Timezone); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", nil)
		return
	}

	cacheKey := availabilityCachePrefix + dateStr
	if s.writeCached(w, r, cacheKey) {
		log.Info("availability: cache hit", slog.String("date", dateStr))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	now := time.Now().In(s.Cfg.Timezone)
	past, err := schedule.IsDatePast(dateStr, s.Cfg.Timezone, now)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", nil)
		return
	}
	if past {
		log.Info("availability: past date", slog.String("date", dateStr))
		transport.WriteJSON(w, http.StatusOK, availabilityResponse{Date: dateStr, Slots: []schedule.Slot{}})
		return
	}

	slots, err := s.computeAvailability(ctx, dateStr, now)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidWindow) {
			log.Error("availability: bad window configuration", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "availability configuration error", nil)
			return
		}
		log.Error("availability: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	resp := availabilityResponse{Date: dateStr, Slots: slots}
	s.storeCached(ctx, cacheKey, resp)

	log.Info("availability: ok", slog.String("date", dateStr), slog.Int("slots", len(slots)))
	transport.WriteJSON(w, http.StatusOK, resp)
}

// computeAvailability loads windows and live bookings for the date and runs
// the slot calculation. Callers have already rejected past dates.
func (s *Server) computeAvailability(ctx context.Context, dateStr string, now time.Time) ([]schedule.Slot, error) {
	windows, err := s.loadWindows(ctx)
	if err != nil {
		return nil, err
	}

	bookedStarts, err := s.loadBookedStarts(ctx, dateStr)
	if err != nil {
		return nil, err
	}

	slots, err := schedule.AvailableSlots(dateStr, windows, bookedStarts, s.Cfg.Timezone)
	if err != nil {
		return nil, err
	}

	today := now.Format("2006-01-02")
	if dateStr == today {
		slots, err = schedule.FilterPastSlots(dateStr, slots, s.Cfg.Timezone, now)
		if err != nil {
			return nil, err
		}
	}
	return slots, nil
}

func (s *Server) loadWindows(ctx context.Context) ([]schedule.Window, error) {
	cursor, err := s.Cols.AvailabilityWindows.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	windows := make([]schedule.Window, 0)
	for cursor.Next(ctx) {
		var w models.AvailabilityWindow
		if err := cursor.Decode(&w); err != nil {
			return nil, err
		}
		windows = append(windows, schedule.Window{
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			IsActive:  w.IsActive,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return windows, nil
}

func (s *Server) loadBookedStarts(ctx context.Context, dateStr string) (map[string]bool, error) {
	cursor, err := s.Cols.Bookings.Find(ctx, bson.M{"date": dateStr})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return bookedStartsFrom(bookings), nil
}

// bookedStartsFrom collects the start times of bookings that still occupy
// a slot. Cancelled bookings do not count; their slot is free again.
func bookedStartsFrom(bookings []models.Booking) map[string]bool {
	starts := make(map[string]bool)
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		starts[b.Time] = true
	}
	return starts
}
