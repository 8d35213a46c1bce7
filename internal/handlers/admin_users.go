package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/httpx"
	"github.com/mkof14/digital-invest-sub001/internal/middleware"
	"github.com/mkof14/digital-invest-sub001/internal/models"
	"github.com/mkof14/digital-invest-sub001/internal/roles"
	"github.com/mkof14/digital-invest-sub001/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type setupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=10,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=10,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required"`
}

type updateUserRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func userView(u models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

// Setup bootstraps the first back-office account. It is gated by a shared
// setup key and refuses to run once any account exists, so it cannot be
// used to mint extra super admins later.
func (s *Server) Setup(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	if s.Cfg.AdminSetupKey == "" {
		transport.WriteError(w, http.StatusServiceUnavailable, "setup not configured", nil)
		return
	}
	key := r.Header.Get("X-Setup-Key")
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.Cfg.AdminSetupKey)) != 1 {
		log.Warn("admin setup: bad setup key")
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req setupRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin setup: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin setup: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	count, err := s.Cols.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Error("admin setup: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if count > 0 {
		log.Warn("admin setup: already initialized")
		transport.WriteError(w, http.StatusConflict, "already initialized", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("admin setup: hash error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	now := time.Now().In(s.Cfg.Timezone)
	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         roles.SuperAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.Cols.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			transport.WriteError(w, http.StatusConflict, "username already exists", nil)
			return
		}
		log.Error("admin setup: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin setup: ok", slog.String("user_id", user.ID))
	transport.WriteJSON(w, http.StatusCreated, userView(user))
}

func (s *Server) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cursor, err := s.Cols.Users.Find(ctx, bson.M{}, opts)
	if err != nil {
		log.Error("admin users list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	defer cursor.Close(ctx)

	items := make([]map[string]interface{}, 0)
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			log.Error("admin users list: decode error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
		items = append(items, userView(u))
	}
	if err := cursor.Err(); err != nil {
		log.Error("admin users list: cursor error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin users list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// AdminCreateUser creates an account with a role the acting admin is
// allowed to hand out. An admin can mint anything below super_admin; only
// a super_admin can mint another super_admin.
func (s *Server) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createUserRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin user create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin user create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}

	if !roles.IsValid(req.Role) {
		transport.WriteError(w, http.StatusBadRequest, "unknown role", nil)
		return
	}
	if !roles.CanAssignRole(actor.Role, req.Role) {
		log.Warn("admin user create: role not assignable",
			slog.String("actor_role", actor.Role),
			slog.String("target_role", req.Role))
		transport.WriteError(w, http.StatusForbidden, "cannot assign this role", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("admin user create: hash error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	now := time.Now().In(s.Cfg.Timezone)
	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := s.Cols.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn("admin user create: username exists", slog.String("username", user.Username))
			transport.WriteError(w, http.StatusConflict, "username already exists", nil)
			return
		}
		log.Error("admin user create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin user create: ok",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
		slog.String("actor_id", actor.UserID))
	transport.WriteJSON(w, http.StatusCreated, userView(user))
}

// AdminUpdateUserRole changes an account's role. The actor must be allowed
// to touch the account at its current role and to hand out the new one.
func (s *Server) AdminUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req updateUserRoleRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin user role: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := s.Val.Struct(req); err != nil {
		log.Warn("admin user role: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(s.Val.ValidationErrors(err)))
		return
	}
	if !roles.IsValid(req.Role) {
		transport.WriteError(w, http.StatusBadRequest, "unknown role", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var target models.User
	if err := s.Cols.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("admin user role: not found", slog.String("user_id", id))
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("admin user role: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if !roles.CanModifyUser(actor.Role, target.Role) {
		log.Warn("admin user role: cannot modify target",
			slog.String("actor_role", actor.Role),
			slog.String("target_role", target.Role))
		transport.WriteError(w, http.StatusForbidden, "cannot modify this user", nil)
		return
	}
	if !roles.CanAssignRole(actor.Role, req.Role) {
		log.Warn("admin user role: role not assignable",
			slog.String("actor_role", actor.Role),
			slog.String("target_role", req.Role))
		transport.WriteError(w, http.StatusForbidden, "cannot assign this role", nil)
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"role":      req.Role,
		"updatedAt": time.Now().In(s.Cfg.Timezone),
	}}

	var updated models.User
	if err := s.Cols.Users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		log.Error("admin user role: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin user role: ok",
		slog.String("user_id", id),
		slog.String("role", updated.Role),
		slog.String("actor_id", actor.UserID))
	transport.WriteJSON(w, http.StatusOK, userView(updated))
}

func (s *Server) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	log := s.logWithRequest(r)

	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}
	if id == actor.UserID {
		transport.WriteError(w, http.StatusBadRequest, "cannot delete your own account", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var target models.User
	if err := s.Cols.Users.FindOne(ctx, bson.M{"_id": id}).Decode(&target); err != nil {
		if err == mongo.ErrNoDocuments {
			log.Warn("admin user delete: not found", slog.String("user_id", id))
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("admin user delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if !roles.CanModifyUser(actor.Role, target.Role) {
		log.Warn("admin user delete: cannot modify target",
			slog.String("actor_role", actor.Role),
			slog.String("target_role", target.Role))
		transport.WriteError(w, http.StatusForbidden, "cannot modify this user", nil)
		return
	}

	if _, err := s.Cols.Users.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		log.Error("admin user delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin user delete: ok",
		slog.String("user_id", id),
		slog.String("actor_id", actor.UserID))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
