package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"facility-security-api/internal/middleware"
	"facility-security-api/internal/model"
	"facility-security-api/internal/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login implements POST /token. The first-party client submits a classic
// password-grant form body: username and password fields.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if err := r.ParseForm(); err != nil {
		badRequest(w, "invalid form body")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		badRequest(w, "username and password are required")
		return
	}

	pair, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// Refresh implements POST /refresh-token: rotate the presented refresh token
// into a fresh pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := decodeRefreshToken(w, r)
	if !ok {
		return
	}

	pair, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// Logout implements POST /logout: revoke the refresh token, issue nothing.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := decodeRefreshToken(w, r)
	if !ok {
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

// Me implements GET /users/me for any authenticated caller.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, user.Profile())
}

func decodeRefreshToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	defer r.Body.Close()

	var payload model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		badRequest(w, "invalid JSON body")
		return "", false
	}

	token := strings.TrimSpace(payload.RefreshToken)
	if token == "" {
		badRequest(w, "refresh_token is required")
		return "", false
	}

	return token, true
}
