package json

import (
	"net/http"
	"strconv"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg string) error {
	return Write(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg,
	})
}

func WriteNotFoundError(w http.ResponseWriter) error {
	return WriteError(w, http.StatusNotFound, "The requested resource was not found.")
}

func WriteMethodNotAllowedError(w http.ResponseWriter) error {
	return WriteError(w, http.StatusMethodNotAllowed, "The requested method is not supported for this resource.")
}

func WriteInternalError(w http.ResponseWriter) error {
	return WriteError(w, http.StatusInternalServerError, "An unexpected error occurred")
}

func WriteRateLimitError(w http.ResponseWriter, retryAfter int) error {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	return WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
}
