package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"facility-security-api/internal/model"
	"facility-security-api/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto stable HTTP codes. Authentication
// failures never reveal which part of the credentials was wrong.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusBadRequest
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "Incorrect username or password"
	case errors.Is(err, model.ErrInvalidToken), errors.Is(err, model.ErrTokenRevoked):
		status = http.StatusUnauthorized
		body.Code = "INVALID_TOKEN"
		body.Message = "Invalid refresh token"
	case errors.Is(err, model.ErrTokenExpired):
		status = http.StatusUnauthorized
		body.Code = "TOKEN_EXPIRED"
		body.Message = "Refresh token expired"
	case errors.Is(err, model.ErrAccountDisabled):
		status = http.StatusUnauthorized
		body.Code = "ACCOUNT_DISABLED"
		body.Message = "Account is disabled"
	case errors.Is(err, model.ErrUnauthenticated):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication required"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Insufficient role"
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrTokenNotFound),
		errors.Is(err, model.ErrResourceNotFound),
		errors.Is(err, model.ErrAreaNotFound),
		errors.Is(err, model.ErrAccessLogNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = err.Error()
	case errors.Is(err, model.ErrUsernameTaken), errors.Is(err, model.ErrEmailTaken):
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = err.Error()
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
		body.Code = "VALIDATION_ERROR"
		body.Message = err.Error()
	default:
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}

func badRequest(w http.ResponseWriter, message string) {
	writeError(w, apierror.New("BAD_REQUEST", message, "", http.StatusBadRequest))
}

// pagination reads skip/limit query parameters with the collaborator's
// defaults (skip=0, limit=100).
func pagination(r *http.Request) (int, int) {
	skip := 0
	limit := 100

	if raw := r.URL.Query().Get("skip"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			skip = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 1000 {
			limit = v
		}
	}

	return skip, limit
}
