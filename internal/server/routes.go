package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/feudhost/feudhost/internal/generate"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, rooms *RoomManager, gen generate.Generator, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("FeudHost API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Auth, cookie sessions.
	r.Post("/api/auth/register", handleRegister(store))
	r.Post("/api/auth/login", handleLogin(store))
	r.Post("/api/auth/logout", handleLogout(store))
	r.Get("/api/auth/me", handleMe(store))

	// Boards are owned by the signed-in user.
	r.Route("/api/boards", func(r chi.Router) {
		r.Use(authMiddleware(store))
		r.Get("/", handleListBoards(store))
		r.Post("/", handleCreateBoard(store))
		r.Post("/generate", handleGenerateBoard(logger, gen))
		r.Get("/{boardID}", handleGetBoard(store))
		r.Put("/{boardID}", handleUpdateBoard(store))
		r.Delete("/{boardID}", handleDeleteBoard(store))
	})

	// Room host controls require the owner's session; the join
	// surfaces (websocket, events, qr) only need the room code.
	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/{code}/ws", handleRoomWS(logger, rooms))
		r.Get("/{code}/events", handleRoomEvents(rooms))
		r.Get("/{code}/qr", handleRoomQR(logger, rooms))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(store))
			r.Post("/", handleCreateRoom(store, rooms))
			r.Get("/{code}", handleGetRoom(rooms))
			r.Post("/{code}/start", handleStartRoom(rooms))
			r.Post("/{code}/reveal", handleRevealAnswer(rooms))
			r.Post("/{code}/strike", handleStrike(rooms))
			r.Post("/{code}/award", handleAwardPoints(rooms))
			r.Post("/{code}/next", handleNextQuestion(rooms))
			r.Delete("/{code}", handleCloseRoom(rooms))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
