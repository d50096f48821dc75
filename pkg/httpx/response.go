package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error shape used by every non-verification endpoint.
type ErrorBody struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody with the given status code.
func WriteError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, ErrorBody{Code: code, Description: description})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Anything touching access codes goes through here.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
