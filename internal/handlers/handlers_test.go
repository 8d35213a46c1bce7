package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/config"
	"github.com/mkof14/digital-invest-sub001/internal/models"
)

func testServer() *Server {
	return &Server{
		Cfg: &config.Config{},
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestWindowInterval(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		ok    bool
	}{
		{"full hour", "09:00", "10:00", true},
		{"single slot", "09:00", "09:30", true},
		{"end equals start", "09:00", "09:00", false},
		{"end before start", "22:00", "02:00", false},
		{"malformed start", "9am", "10:00", false},
		{"malformed end", "09:00", "25:00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := upsertWindowRequest{StartTime: tc.start, EndTime: tc.end}
			_, _, ok := windowInterval(req)
			if ok != tc.ok {
				t.Fatalf("windowInterval(%q, %q) ok = %v, want %v", tc.start, tc.end, ok, tc.ok)
			}
		})
	}
}

func TestLogoutExpiresCookies(t *testing.T) {
	s := testServer()

	r := httptest.NewRequest(http.MethodPost, "/api/admin/auth/logout", nil)
	w := httptest.NewRecorder()
	s.Logout(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 cookies, got %d", len(cookies))
	}
	for _, c := range cookies {
		if c.MaxAge >= 0 {
			t.Errorf("cookie %s should be expired, MaxAge = %d", c.Name, c.MaxAge)
		}
		if c.Value != "" {
			t.Errorf("cookie %s should be cleared", c.Name)
		}
	}
}

func TestBookedStartsFromExcludesCancelled(t *testing.T) {
	bookings := []models.Booking{
		{Time: "09:00", Status: models.BookingStatusPending},
		{Time: "09:30", Status: models.BookingStatusCancelled},
		{Time: "10:00", Status: models.BookingStatusConfirmed},
	}

	starts := bookedStartsFrom(bookings)
	if !starts["09:00"] || !starts["10:00"] {
		t.Fatalf("pending/confirmed starts must block their slots, got %v", starts)
	}
	if starts["09:30"] {
		t.Fatal("cancelled booking at 09:30 must not block the slot")
	}
	if len(starts) != 2 {
		t.Fatalf("expected 2 blocked starts, got %v", starts)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s := testServer()
	s.Tokens = &auth.Manager{
		Secret:     []byte("test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
		Issuer:     "digital-invest",
	}

	access, err := s.Tokens.NewAccessToken("user-1", "admin")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/admin/auth/refresh", nil)
	r.AddCookie(&http.Cookie{Name: RefreshCookie, Value: access})
	w := httptest.NewRecorder()
	s.Refresh(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for access token in refresh cookie", w.Code)
	}
}

func TestMeWithoutIdentity(t *testing.T) {
	s := testServer()

	r := httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	w := httptest.NewRecorder()
	s.Me(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
