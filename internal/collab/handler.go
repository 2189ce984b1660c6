package collab

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// ServeWS upgrades the request and attaches it to a room until the
// connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID string, originPatterns []string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h, conn, roomID, uuid.NewString())
	if !h.Register(client) {
		conn.Close(websocket.StatusGoingAway, "relay shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
