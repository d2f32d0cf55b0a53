package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"facility-security-api/internal/model"
	"facility-security-api/internal/service"
)

type AccessLogHandler struct {
	service *service.AccessLogService
}

func NewAccessLogHandler(service *service.AccessLogService) *AccessLogHandler {
	return &AccessLogHandler{service: service}
}

func (h *AccessLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateAccessLogRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	entry, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *AccessLogHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	entries, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *AccessLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "log_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *AccessLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "log_id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

func (h *AccessLogHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	entries, err := h.service.ListForUser(r.Context(), chi.URLParam(r, "user_id"), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
