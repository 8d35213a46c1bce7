package middleware

import (
	"net/http"
	"strconv"
	"time"
)

const preflightMaxAge = 10 * time.Minute

// CORS admits the single configured front-end origin with credentials.
// The preflight header allow-list includes the back-office key headers
// (X-Admin-Key, X-Setup-Key) so the admin UI can send them cross-origin.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	maxAge := strconv.Itoa(int(preflightMaxAge.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if origin := r.Header.Get("Origin"); origin != "" && origin == allowedOrigin {
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Key, X-Setup-Key")
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
