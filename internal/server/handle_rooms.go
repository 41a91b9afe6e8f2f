package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/feudhost/feudhost/internal/feud"
	"github.com/feudhost/feudhost/internal/host"
)

// CreateRoomRequest is the request body for POST /api/rooms.
type CreateRoomRequest struct {
	BoardID string `json:"boardId"`
}

// RoomResponse is returned when a room is opened.
type RoomResponse struct {
	RoomCode string `json:"roomCode"`
	JoinURL  string `json:"joinUrl"`
}

// HostStateResponse is the host's unredacted view of a room. Unlike the
// synced state pushed to players, it includes unrevealed answer text.
type HostStateResponse struct {
	RoomCode        string         `json:"roomCode"`
	Board           feud.Game      `json:"board"`
	GameState       feud.State     `json:"gameState"`
	CurrentQuestion int            `json:"currentQuestionIndex"`
	TeamScores      map[string]int `json:"teamScores"`
	TeamStrikes     map[string]int `json:"teamStrikes"`
	RoundPoints     int            `json:"roundPoints"`
	Strikes         int            `json:"strikes"`
	ActiveTeamID    string         `json:"activeTeamId"`
	BuzzedPlayerID  string         `json:"buzzedPlayerId"`
	Players         []feud.Player  `json:"players"`
}

// RevealRequest is the request body for POST /api/rooms/{code}/reveal.
type RevealRequest struct {
	AnswerID string `json:"answerId"`
}

// AwardRequest is the request body for POST /api/rooms/{code}/award.
type AwardRequest struct {
	TeamID string `json:"teamId"`
}

func hostStateResponse(s feud.Session) HostStateResponse {
	return HostStateResponse{
		RoomCode:        s.RoomCode,
		Board:           s.Game,
		GameState:       s.State,
		CurrentQuestion: s.CurrentQuestion,
		TeamScores:      s.TeamScores,
		TeamStrikes:     s.TeamStrikes,
		RoundPoints:     s.RoundPoints,
		Strikes:         s.Strikes,
		ActiveTeamID:    s.ActiveTeamID,
		BuzzedPlayerID:  s.BuzzedPlayerID,
		Players:         s.Players,
	}
}

// roomForHost resolves {code} and checks that the requesting user owns
// the room. Writes the error response itself when it returns nil.
func roomForHost(w http.ResponseWriter, r *http.Request, rooms *RoomManager) *host.Session {
	code := chi.URLParam(r, "code")
	h, ownerID, ok := rooms.Get(code)
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return nil
	}
	if ownerID != userFrom(r).ID {
		writeError(w, http.StatusForbidden, "not your room")
		return nil
	}
	return h
}

func handleCreateRoom(store Store, rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user := userFrom(r)
		board, err := store.GetBoard(r.Context(), user.ID, req.BoardID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		h := rooms.Create(user.ID, board)
		writeJSON(w, http.StatusCreated, RoomResponse{
			RoomCode: h.RoomCode(),
			JoinURL:  joinURL(rooms.publicURL, h.RoomCode()),
		})
	}
}

func handleGetRoom(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := roomForHost(w, r, rooms)
		if h == nil {
			return
		}
		writeJSON(w, http.StatusOK, hostStateResponse(h.Snapshot()))
	}
}

func handleStartRoom(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := roomForHost(w, r, rooms)
		if h == nil {
			return
		}
		h.Start()
		writeJSON(w, http.StatusOK, hostStateResponse(h.Snapshot()))
	}
}

func handleRevealAnswer(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := roomForHost(w, r, rooms)
		if h == nil {
			return
		}
		var req RevealRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.Reveal(req.AnswerID)
		writeJSON(w, http.StatusOK, hostStateResponse(h.Snapshot()))
	}
}

func handleStrike(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := roomForHost(w, r, rooms)
		if h == nil {
			return
		}
		h.Strike()
		writeJSON(w, http.StatusOK, hostStateResponse(h.Snapshot()))
	}
}

func handleAwardPoints(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := roomForHost(w, r, rooms)
		if h == nil {
			return
		}
		var req AwardRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		h.AwardPoints(req.TeamID)
		writeJSON(w, http.StatusOK, hostStateResponse(h.Snapshot()))
	}
}

func handleNextQuestion(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := roomForHost(w, r, rooms)
		if h == nil {
			return
		}
		h.NextQuestion()
		writeJSON(w, http.StatusOK, hostStateResponse(h.Snapshot()))
	}
}

func handleCloseRoom(rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := roomForHost(w, r, rooms)
		if h == nil {
			return
		}
		rooms.Close(h.RoomCode())
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleRoomQR renders the join URL for a room as a PNG QR code. Open to
// anyone who knows the code, same as the code itself.
func handleRoomQR(logger *slog.Logger, rooms *RoomManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		if !rooms.Exists(code) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}

		png, err := qrcode.Encode(joinURL(rooms.publicURL, code), qrcode.Medium, 256)
		if err != nil {
			logger.Error("qr encoding failed", "code", code, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	}
}

func joinURL(publicURL, code string) string {
	return fmt.Sprintf("%s/join/%s", publicURL, code)
}
