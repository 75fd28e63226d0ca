package httptransport

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsSnapshot struct {
	Type string        `json:"type"`
	Jobs []*entity.Job `json:"jobs"`
}

type wsEvent struct {
	Type string `json:"type"`
	entity.Event
}

// HandleWS upgrades the connection, sends a full job-list snapshot and then
// streams job events for the connection's lifetime. The subscription is
// taken before the snapshot, so a client never sees a gap between the two.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	sub := h.hub.Subscribe()
	defer func() {
		sub.Close()
		conn.Close()
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(wsSnapshot{Type: "snapshot", Jobs: h.store.List()}); err != nil {
		return
	}

	// drain client frames so closes are noticed; clients send nothing else
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sub.Close()
				return
			}
		}
	}()

	for ev := range sub.C() {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(wsEvent{Type: "job_update", Event: ev}); err != nil {
			return
		}
	}
}
