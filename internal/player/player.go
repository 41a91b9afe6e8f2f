// Package player runs the client side of a game room: a read-only
// projection of host state plus the local buzz-eligibility state machine.
package player

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/feudhost/feudhost/internal/bus"
	"github.com/feudhost/feudhost/internal/feud"
)

// Status is the local buzz-eligibility state.
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusReady   Status = "READY"
	StatusBuzzed  Status = "BUZZED"
)

// StrikeOverlayDuration is how long the strike overlay stays on screen.
const StrikeOverlayDuration = 1200 * time.Millisecond

// Config is the player's identity and profile when entering a room.
type Config struct {
	ID        string
	Name      string
	Emoji     string
	Accessory string
	TeamID    string

	// Haptic, when set, fires a local cue the moment a buzz is sent.
	Haptic func()
}

// Session is one player's view of a room. It never mutates host state
// directly: it sends JOIN / UPDATE_PROFILE / BUZZ and waits for the host's
// next broadcast.
type Session struct {
	logger *slog.Logger
	clock  clockwork.Clock
	handle *bus.Handle
	cfg    Config

	mu         sync.Mutex
	status     Status
	latest     *feud.SyncedState
	overlay    int
	overlayGen int

	closeOnce sync.Once
}

// Join subscribes to the room and announces the player. The session
// starts in WAITING and becomes READY once a broadcast shows the host
// playing.
func Join(exchange *bus.Exchange, roomCode string, cfg Config, logger *slog.Logger, clock clockwork.Clock) *Session {
	s := &Session{
		logger: logger.With("room", roomCode, "player_id", cfg.ID),
		clock:  clock,
		handle: exchange.Open(roomCode),
		cfg:    cfg,
		status: StatusWaiting,
	}
	s.handle.OnMessage(s.onMessage)
	s.handle.Send(feud.JoinMessage(feud.JoinPayload{
		Name:      cfg.Name,
		ID:        cfg.ID,
		Emoji:     cfg.Emoji,
		TeamID:    cfg.TeamID,
		Accessory: cfg.Accessory,
	}))
	return s
}

// Status reports the current buzz-eligibility state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// State returns the last synced-state broadcast received, or nil before
// the first one arrives.
func (s *Session) State() *feud.SyncedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// StrikeOverlay reports the strike count currently shown by the transient
// overlay, zero when hidden.
func (s *Session) StrikeOverlay() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay
}

// Buzz attempts to take the buzzer. Pressing while not READY is a no-op.
// A successful press moves to BUZZED, sends BUZZ, and fires the haptic
// cue; whether the lock was actually won shows up in the host's next
// broadcast.
func (s *Session) Buzz() bool {
	s.mu.Lock()
	if s.status != StatusReady {
		s.mu.Unlock()
		return false
	}
	s.status = StatusBuzzed
	s.mu.Unlock()

	s.handle.Send(feud.BuzzMessage(s.cfg.ID))
	if s.cfg.Haptic != nil {
		s.cfg.Haptic()
	}
	return true
}

// UpdateProfile swaps the player's avatar and accessory and tells the
// host.
func (s *Session) UpdateProfile(emoji, accessory string) {
	s.mu.Lock()
	s.cfg.Emoji = emoji
	s.cfg.Accessory = accessory
	s.mu.Unlock()

	s.handle.Send(feud.UpdateProfileMessage(feud.UpdateProfilePayload{
		ID:        s.cfg.ID,
		Emoji:     emoji,
		Accessory: accessory,
	}))
}

// Close releases the room subscription. Idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.handle.Close()
	})
}

func (s *Session) onMessage(msg feud.Message) {
	switch msg.Kind {
	case feud.KindResetBuzzer:
		s.mu.Lock()
		s.status = StatusReady
		s.mu.Unlock()

	case feud.KindStrikeAnimation:
		s.showOverlay(msg.StrikeAnimation.Count)

	case feud.KindGameUpdate:
		update := msg.GameUpdate
		s.mu.Lock()
		s.latest = update
		if update.GameState == feud.StatePlaying && s.status == StatusWaiting {
			s.status = StatusReady
		}
		if update.BuzzedPlayerID != "" && update.BuzzedPlayerID != s.cfg.ID {
			// Someone else holds the lock.
			s.status = StatusWaiting
		}
		s.mu.Unlock()

	default:
		// Host-bound and unknown kinds are ignored.
	}
}

func (s *Session) showOverlay(count int) {
	s.mu.Lock()
	s.overlay = count
	s.overlayGen++
	gen := s.overlayGen
	s.mu.Unlock()

	s.clock.AfterFunc(StrikeOverlayDuration, func() {
		s.mu.Lock()
		if s.overlayGen == gen {
			s.overlay = 0
		}
		s.mu.Unlock()
	})
}
