package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const availabilityCachePrefix = "availability:"

// writeCached serves a cached JSON payload when present. Cache errors are
// logged and treated as misses.
func (s *Server) writeCached(w http.ResponseWriter, r *http.Request, key string) bool {
	payload, found, err := s.Cache.Get(r.Context(), key)
	if err != nil {
		s.logWithRequest(r).Warn("cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	if !found {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
	return true
}

func (s *Server) storeCached(ctx context.Context, key string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := time.Duration(s.Cfg.CacheTTLSeconds) * time.Second
	if err := s.Cache.Set(ctx, key, payload, ttl); err != nil {
		s.Log.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// invalidateAvailability drops the cached slot list for one date after a
// booking or window change touches it.
func (s *Server) invalidateAvailability(ctx context.Context, date string) {
	if err := s.Cache.DeletePrefix(ctx, availabilityCachePrefix+date); err != nil {
		s.Log.Warn("cache invalidate failed", slog.String("date", date), slog.String("error", err.Error()))
	}
}

func (s *Server) invalidateAllAvailability(ctx context.Context) {
	if err := s.Cache.DeletePrefix(ctx, availabilityCachePrefix); err != nil {
		s.Log.Warn("cache invalidate failed", slog.String("error", err.Error()))
	}
}
