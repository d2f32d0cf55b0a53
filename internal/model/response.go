package model

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// OKResponse is the acknowledgement body for operations that return no entity,
// e.g. logout and deletes.
type OKResponse struct {
	OK bool `json:"ok"`
}
