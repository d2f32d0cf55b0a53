package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"facility-security-api/internal/model"
	"facility-security-api/internal/service"
)

type AreaHandler struct {
	service *service.AreaService
}

func NewAreaHandler(service *service.AreaService) *AreaHandler {
	return &AreaHandler{service: service}
}

func (h *AreaHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	area, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, area)
}

func (h *AreaHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	areas, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, areas)
}

func (h *AreaHandler) Get(w http.ResponseWriter, r *http.Request) {
	area, err := h.service.Get(r.Context(), chi.URLParam(r, "area_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, area)
}

func (h *AreaHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UpdateAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	area, err := h.service.Update(r.Context(), chi.URLParam(r, "area_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, area)
}

func (h *AreaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "area_id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

func (h *AreaHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	err := h.service.GrantAccess(r.Context(), chi.URLParam(r, "area_id"), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

func (h *AreaHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	err := h.service.RevokeAccess(r.Context(), chi.URLParam(r, "area_id"), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}
