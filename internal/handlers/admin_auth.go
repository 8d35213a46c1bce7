package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/httpx"
	"github.com/mkof14/digital-invest-sub001/internal/middleware"
	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/transport"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const RefreshCookie = "di_refresh"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) setAuthCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    access,
		Path:     "/",
		MaxAge:   s.Cfg.AccessTTLMinutes * 60,
		HttpOnly: true,
		Secure:   s.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    refresh,
		Path:     "/api/admin/auth",
		MaxAge:   s.Cfg.RefreshTTLMinutes * 60,
		HttpOnly: true,
		Secure:   s.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/api/admin/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login authenticates a back-office account and issues the cookie pair.
// Unknown usernames and wrong passwords produce the same response.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	var req loginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	username := strings.ToLower(strings.TrimSpace(req.Username))

	var user models.User
	err := s.Cols.Users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("admin login: unknown username", slog.String("username", username))
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		log.Error("admin login: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		log.Warn("admin login: wrong password", slog.String("username", username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	access, err := s.Tokens.NewAccessToken(user.ID, user.Role)
	if err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refresh, err := s.Tokens.NewRefreshToken(user.ID, user.Role)
	if err != nil {
		log.Error("admin login: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	s.setAuthCookies(w, access, refresh)

	log.Info("admin login: ok", slog.String("user_id", user.ID), slog.String("role", user.Role))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Refresh rotates the cookie pair from a valid refresh token. The role is
// re-read from the database so a demotion takes effect at the next refresh
// rather than at token expiry.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	cookie, err := r.Cookie(RefreshCookie)
	if err != nil || cookie.Value == "" {
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	claims, err := s.Tokens.Parse(cookie.Value)
	if err != nil {
		log.Warn("admin refresh: invalid token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		log.Warn("admin refresh: wrong token type")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := s.Cols.Users.FindOne(ctx, bson.M{"_id": claims.Subject}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("admin refresh: account gone", slog.String("user_id", claims.Subject))
			s.clearAuthCookies(w)
			transport.WriteError(w, http.StatusUnauthorized, "account not found", nil)
			return
		}
		log.Error("admin refresh: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	access, err := s.Tokens.NewAccessToken(user.ID, user.Role)
	if err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refresh, err := s.Tokens.NewRefreshToken(user.ID, user.Role)
	if err != nil {
		log.Error("admin refresh: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	s.setAuthCookies(w, access, refresh)

	log.Info("admin refresh: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookies(w)
	s.logWithRequest(r).Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the identity resolved by the auth middleware, the shape the
// back-office shell renders its navigation from.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"id":   identity.UserID,
		"role": identity.Role,
	})
}
