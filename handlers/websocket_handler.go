package handlers

import (
	"log/slog"
	"net/http"

	"github.com/frbcapl/league-system/live"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The dashboards are served from a separate origin; lock this down
		// to the frontend host when the deployment settles.
		return true
	},
}

type WebSocketHandler struct {
	hub *live.Hub
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// ServeWs upgrades the connection and subscribes the client to the lifecycle
// events of one division.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")
	if division == "" {
		http.Error(w, "Missing division", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("failed to upgrade websocket connection",
			slog.String("division", division), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, division)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
