package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/feudhost/feudhost/internal/bus"
	"github.com/feudhost/feudhost/internal/feud"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
	wsSendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Room codes are the access control; the socket carries no cookies.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleRoomWS bridges a WebSocket connection onto the room's message
// exchange. Every frame the client sends is published to the room, and
// every room message is pushed down the socket. Slow clients lose
// messages rather than stalling the room; the heartbeat repairs them.
func handleRoomWS(logger *slog.Logger, rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if !rooms.Exists(code) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "code", code, "error", err)
			return
		}

		handle := rooms.Exchange().Open(code)
		send := make(chan []byte, wsSendBuffer)
		handle.OnMessage(func(msg feud.Message) {
			data, err := json.Marshal(msg)
			if err != nil {
				return
			}
			select {
			case send <- data:
			default:
			}
		})

		go writePump(conn, send)
		readPump(logger, conn, handle, code)
	}
}

func writePump(conn *websocket.Conn, send <-chan []byte) {
	ping := time.NewTicker(wsPingPeriod)
	defer func() {
		ping.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(logger *slog.Logger, conn *websocket.Conn, handle *bus.Handle, code string) {
	defer func() {
		handle.Close()
		conn.Close()
	}()

	conn.SetReadLimit(64 << 10)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read ended", "code", code, "error", err)
			}
			return
		}

		var msg feud.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("dropping malformed frame", "code", code, "error", err)
			continue
		}
		handle.Send(msg)
	}
}
