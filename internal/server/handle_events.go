package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/feudhost/feudhost/internal/feud"
)

// handleRoomEvents streams a room's messages as Server-Sent Events for
// clients that cannot hold a WebSocket open. Read-only: SSE consumers
// cannot publish, so a spectator view is all this supports.
func handleRoomEvents(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if !rooms.Exists(code) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		handle := rooms.Exchange().Open(code)
		defer handle.Close()

		ch := make(chan []byte, 16)
		handle.OnMessage(func(msg feud.Message) {
			data, err := json.Marshal(msg)
			if err != nil {
				return
			}
			select {
			case ch <- data:
			default:
			}
		})

		// Ask the host for a snapshot so the stream opens with state.
		handle.Send(feud.RequestSyncMessage())

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
