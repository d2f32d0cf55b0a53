package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"facility-security-api/internal/model"
	"facility-security-api/internal/service"
)

type ResourceHandler struct {
	service *service.ResourceService
}

func NewResourceHandler(service *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.CreateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	res, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	resources, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resources)
}

func (h *ResourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Get(r.Context(), chi.URLParam(r, "resource_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.UpdateResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	res, err := h.service.Update(r.Context(), chi.URLParam(r, "resource_id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "resource_id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}
