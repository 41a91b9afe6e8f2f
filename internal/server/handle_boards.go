package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/feudhost/feudhost/internal/feud"
)

// BoardRequest is the request body for creating or updating a board.
type BoardRequest struct {
	Title         string            `json:"title"`
	Questions     []feud.Question   `json:"questions"`
	Teams         []feud.TeamConfig `json:"teams"`
	StrikePenalty int               `json:"strikePenalty"`
}

// BoardListResponse wraps the boards owned by the current user.
type BoardListResponse struct {
	Boards []feud.Game `json:"boards"`
}

func validateBoard(req BoardRequest) string {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required"
	}
	if len(req.Questions) == 0 {
		return "at least one question is required"
	}
	for _, q := range req.Questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return "every question needs a prompt"
		}
		if len(q.Answers) == 0 {
			return "every question needs at least one answer"
		}
	}
	if len(req.Teams) < 2 {
		return "at least two teams are required"
	}
	return ""
}

// boardFromRequest fills in ids for any entity the client left blank so
// that boards pasted from the generator round-trip cleanly.
func boardFromRequest(req BoardRequest, ownerID, boardID string) feud.Game {
	g := feud.Game{
		ID:            boardID,
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(req.Title),
		Questions:     req.Questions,
		Teams:         req.Teams,
		StrikePenalty: req.StrikePenalty,
		CreatedAt:     time.Now().UTC(),
	}
	if g.StrikePenalty <= 0 {
		g.StrikePenalty = feud.DefaultStrikePenalty
	}
	for i := range g.Questions {
		if g.Questions[i].ID == "" {
			g.Questions[i].ID = uuid.NewString()
		}
		for j := range g.Questions[i].Answers {
			if g.Questions[i].Answers[j].ID == "" {
				g.Questions[i].Answers[j].ID = uuid.NewString()
			}
			g.Questions[i].Answers[j].Revealed = false
		}
	}
	for i := range g.Teams {
		if g.Teams[i].ID == "" {
			g.Teams[i].ID = uuid.NewString()
		}
	}
	return g
}

func handleListBoards(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boards, err := store.ListBoards(r.Context(), userFrom(r).ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if boards == nil {
			boards = []feud.Game{}
		}
		writeJSON(w, http.StatusOK, BoardListResponse{Boards: boards})
	}
}

func handleCreateBoard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BoardRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := validateBoard(req); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		g := boardFromRequest(req, userFrom(r).ID, uuid.NewString())
		if err := store.PutBoard(r.Context(), g); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func handleGetBoard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := store.GetBoard(r.Context(), userFrom(r).ID, chi.URLParam(r, "boardID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleUpdateBoard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID := chi.URLParam(r, "boardID")
		owner := userFrom(r).ID

		if _, err := store.GetBoard(r.Context(), owner, boardID); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "board not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var req BoardRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := validateBoard(req); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		g := boardFromRequest(req, owner, boardID)
		if err := store.PutBoard(r.Context(), g); err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func handleDeleteBoard(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.DeleteBoard(r.Context(), userFrom(r).ID, chi.URLParam(r, "boardID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "board not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
