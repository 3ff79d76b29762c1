// internal/api/handler/websocket.go
package handler

import (
	"log"
	"net/http"

	"panthers-signup/internal/realtime"
)

type WebSocketHandler struct {
	hub *realtime.Hub
}

func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// HandleConnection subscribes the caller to listing notifications.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.Serve(w, r); err != nil {
		log.Printf("Error upgrading websocket: %v", err)
	}
}
