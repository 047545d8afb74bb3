package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/AnshRaj112/serenify-engagement/internal/middleware"
)

type successResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// unauthorized is shared with RequireAuth so both paths send the same body.
func unauthorized(w http.ResponseWriter) {
	middleware.WriteUnauthorized(w)
}
