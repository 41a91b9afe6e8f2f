package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/feudhost/feudhost/internal/generate"
)

// GenerateRequest is the request body for POST /api/boards/generate.
type GenerateRequest struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
}

// handleGenerateBoard asks the generator for a fresh board. The result is
// returned to the client for editing and is not persisted until the client
// saves it through POST /api/boards.
func handleGenerateBoard(logger *slog.Logger, gen generate.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gen == nil {
			writeError(w, http.StatusServiceUnavailable, "board generation is not configured")
			return
		}

		var req GenerateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Topic = strings.TrimSpace(req.Topic)
		if req.Topic == "" {
			writeError(w, http.StatusBadRequest, "topic is required")
			return
		}

		g, err := gen.Generate(r.Context(), req.Topic, req.Language)
		if err != nil {
			logger.Error("board generation failed", "topic", req.Topic, "error", err)
			writeError(w, http.StatusBadGateway, "board generation failed")
			return
		}

		g.OwnerID = userFrom(r).ID
		writeJSON(w, http.StatusOK, g)
	}
}
