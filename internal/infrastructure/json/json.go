package json

import (
	"encoding/json"
	"net/http"
)

const contentType = "application/json"

// Write encodes data as the response body. HEAD requests get headers only.
func Write(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteHead writes the JSON headers and status without a body.
func WriteHead(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
}
