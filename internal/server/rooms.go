package server

import (
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/feudhost/feudhost/internal/bus"
	"github.com/feudhost/feudhost/internal/feud"
	"github.com/feudhost/feudhost/internal/host"
)

type room struct {
	host    *host.Session
	ownerID string
}

// RoomManager tracks the live rooms on this process, keyed by room code.
// Each room is a host session attached to the shared message exchange.
type RoomManager struct {
	logger    *slog.Logger
	clock     clockwork.Clock
	exchange  *bus.Exchange
	publicURL string

	mu    sync.Mutex
	rooms map[string]*room
}

func NewRoomManager(exchange *bus.Exchange, publicURL string, logger *slog.Logger, clock clockwork.Clock) *RoomManager {
	return &RoomManager{
		logger:    logger,
		clock:     clock,
		exchange:  exchange,
		publicURL: publicURL,
		rooms:     make(map[string]*room),
	}
}

// Exchange exposes the underlying message exchange so transports (the
// WebSocket bridge, the SSE stream) can open their own handles.
func (m *RoomManager) Exchange() *bus.Exchange {
	return m.exchange
}

// Create opens a room hosting the given board and returns its session.
func (m *RoomManager) Create(ownerID string, game feud.Game) *host.Session {
	h := host.New(m.exchange, game, m.logger, m.clock)

	m.mu.Lock()
	m.rooms[h.RoomCode()] = &room{host: h, ownerID: ownerID}
	m.mu.Unlock()

	m.logger.Info("room opened", "code", h.RoomCode(), "board", game.ID)
	return h
}

// Get returns the host session for a room code along with the owning
// user's id.
func (m *RoomManager) Get(code string) (*host.Session, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	if !ok {
		return nil, "", false
	}
	return r.host, r.ownerID, true
}

// Exists reports whether a room with the given code is open.
func (m *RoomManager) Exists(code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rooms[code]
	return ok
}

// Close shuts down a room and removes it from the registry.
func (m *RoomManager) Close(code string) bool {
	m.mu.Lock()
	r, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()

	if !ok {
		return false
	}
	r.host.Close()
	m.logger.Info("room closed", "code", code)
	return true
}

// CloseAll shuts down every open room. Called on server shutdown.
func (m *RoomManager) CloseAll() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[string]*room)
	m.mu.Unlock()

	for code, r := range rooms {
		r.host.Close()
		m.logger.Info("room closed", "code", code)
	}
}
