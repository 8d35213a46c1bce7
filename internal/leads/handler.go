package leads

import (
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/httpx"
	"github.com/mkof14/digital-invest-sub001/internal/middleware"
	"github.com/mkof14/digital-invest-sub001/internal/transport"
	"github.com/mkof14/digital-invest-sub001/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("leads create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("leads create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidSource) {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"source": "oneof"})
			return
		}
		log.Error("leads create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	go func(created Lead) {
		notifyCtx, notifyCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer notifyCancel()
		if err := h.service.NotifyNewLead(notifyCtx, created); err != nil {
			h.log.Warn("leads create: notification failed",
				slog.String("lead_id", created.ID),
				slog.String("error", err.Error()),
			)
		}

		if err := h.service.NotifyLeadConfirmation(notifyCtx, created); err != nil {
			h.log.Warn("leads create: confirmation email failed",
				slog.String("lead_id", created.ID),
				slog.String("email", created.Email),
				slog.String("error", err.Error()),
			)
		}
	}(lead)

	log.Info("leads create: ok", slog.String("lead_id", lead.ID), slog.String("source", lead.Source))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "inquiry submitted",
		"id":      lead.ID,
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin leads list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Source: strings.TrimSpace(r.URL.Query().Get("source")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		if errors.Is(err, ErrInvalidSource) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"source": "oneof"})
			return
		}
		log.Error("admin leads list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin leads list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) AdminGetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin leads get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.GetAdminByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin leads get: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
			return
		}
		log.Error("admin leads get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin leads get: ok", slog.String("lead_id", id))
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin leads status: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req AdminStatusUpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin leads status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin leads status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin leads status: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
			return
		}
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"status": "oneof"})
			return
		}
		log.Error("admin leads status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin leads status: ok", slog.String("lead_id", id), slog.String("status", lead.Status))
	transport.WriteJSON(w, http.StatusOK, lead)
}

// AdminExportCSV streams the filtered leads as a CSV download for the
// back-office export button.
func (h *Handler) AdminExportCSV(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	filter := ListFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Source: strings.TrimSpace(r.URL.Query().Get("source")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	items, _, err := h.service.ListAdmin(ctx, filter, 10000, 0)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrInvalidSource) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", nil)
			return
		}
		log.Error("admin leads export: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "name", "organization", "email", "phone", "subject", "status", "source", "created_at"})
	for _, lead := range items {
		_ = cw.Write([]string{
			lead.ID,
			lead.Name,
			lead.Organization,
			lead.Email,
			lead.Phone,
			lead.Subject,
			lead.Status,
			lead.Source,
			lead.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Warn("admin leads export: write error", slog.String("error", err.Error()))
		return
	}

	log.Info("admin leads export: ok", slog.Int("count", len(items)))
}
