// internal/api/handler/response.go
package handler

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"github.com/a-h/templ"
)

// Error wraps error messages for consistent JSON responses
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// WriteJSON sends a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// WriteError sends a JSON error response with the given status code
func WriteError(w http.ResponseWriter, err error, status int) {
	log.Printf("Error: %v", err)
	WriteJSON(w, Error{
		Status:  status,
		Message: err.Error(),
	}, status)
}

// WriteHTML renders c and sends it with the given status code. Nothing is
// written until rendering succeeds.
func WriteHTML(w http.ResponseWriter, r *http.Request, c templ.Component, status int) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		log.Printf("Error rendering page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing page: %v", err)
	}
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
