// Package host runs the authoritative side of a game room. The host
// session is the single writer of game state: players only ever observe
// its broadcasts and request mutations implicitly by buzzing.
package host

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/feudhost/feudhost/internal/bus"
	"github.com/feudhost/feudhost/internal/feud"
)

// HeartbeatInterval is how often the full state is re-broadcast regardless
// of mutations. The heartbeat is the protocol's only consistency-repair
// mechanism: the bus offers no durable delivery, so late joiners converge
// on the next beat.
const HeartbeatInterval = 4 * time.Second

// Session owns a feud.Session and its room bus handle. The mutex stands in
// for the original single-tab event loop: every mutation and every inbound
// message runs to completion before the next one starts.
type Session struct {
	logger *slog.Logger
	clock  clockwork.Clock
	handle *bus.Handle

	mu    sync.Mutex
	state *feud.Session

	stop     chan struct{}
	stopOnce sync.Once
}

// New opens a fresh room for the board, starts the heartbeat, and
// broadcasts the initial lobby state.
func New(exchange *bus.Exchange, game feud.Game, logger *slog.Logger, clock clockwork.Clock) *Session {
	code := feud.NewRoomCode()
	s := &Session{
		logger: logger.With("room", code),
		clock:  clock,
		handle: exchange.Open(code),
		state:  feud.NewSession(game, code),
		stop:   make(chan struct{}),
	}
	s.handle.OnMessage(s.onMessage)
	go s.heartbeat()
	s.Broadcast()
	return s
}

// RoomCode returns the 6-digit code players use to find this room.
func (s *Session) RoomCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RoomCode
}

// Broadcast publishes the current synced-state projection to the room.
// It is side-effect-free on state and safe to call at any time.
//
// All mutation methods publish while still holding the mutex. Sends never
// block, and keeping the lock until the broadcast is enqueued means
// concurrent mutations publish their GAME_UPDATEs in mutation order.
func (s *Session) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
}

// Start moves the room from the lobby onto the board.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Start()
	s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
}

// Reveal flips the matching answer face-up and credits the active team
// live. Unknown or already-revealed answers are a no-op.
func (s *Session) Reveal(answerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points, ok := s.state.Reveal(answerID)
	if ok {
		s.logger.Debug("answer revealed", "answer_id", answerID, "points", points)
	}
	s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
}

// Strike records a wrong answer against the active team, fires the strike
// overlay on every player, and frees the buzzer.
func (s *Session) Strike() {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := s.state.Strike()
	s.logger.Debug("strike", "count", count)
	s.handle.Send(feud.StrikeAnimationMessage(count))
	s.handle.Send(feud.ResetBuzzerMessage())
	s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
}

// AwardPoints hands the round pot to the named team and resets the turn.
func (s *Session) AwardPoints(teamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.AwardPoints(teamID) {
		s.logger.Debug("round awarded", "team_id", teamID)
	}
	s.handle.Send(feud.ResetBuzzerMessage())
	s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
}

// NextQuestion advances the board, or transitions to the summary screen
// when already on the last question.
func (s *Session) NextQuestion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.NextQuestion() {
		s.logger.Info("game finished")
	} else {
		s.handle.Send(feud.ResetBuzzerMessage())
	}
	s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
}

// Snapshot returns a deep copy of the authoritative session for the host
// screen, unrevealed answers included.
func (s *Session) Snapshot() feud.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *s.state
	clone.TeamScores = make(map[string]int, len(s.state.TeamScores))
	for id, score := range s.state.TeamScores {
		clone.TeamScores[id] = score
	}
	clone.TeamStrikes = make(map[string]int, len(s.state.TeamStrikes))
	for id, strikes := range s.state.TeamStrikes {
		clone.TeamStrikes[id] = strikes
	}
	clone.Players = append([]feud.Player(nil), s.state.Players...)
	clone.Game.Teams = append([]feud.TeamConfig(nil), s.state.Game.Teams...)
	clone.Game.Questions = make([]feud.Question, len(s.state.Game.Questions))
	for i, q := range s.state.Game.Questions {
		q.Answers = append([]feud.Answer(nil), q.Answers...)
		clone.Game.Questions[i] = q
	}
	return clone
}

// Close stops the heartbeat and releases the bus subscription. The host
// session is the exclusive owner of its handle; nobody else closes it.
func (s *Session) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.handle.Close()
	})
}

func (s *Session) onMessage(msg feud.Message) {
	switch msg.Kind {
	case feud.KindRequestSync:
		s.Broadcast()

	case feud.KindJoin:
		s.mu.Lock()
		joined := s.state.Join(feud.Player{
			ID:        msg.Join.ID,
			Name:      msg.Join.Name,
			Emoji:     msg.Join.Emoji,
			Accessory: msg.Join.Accessory,
			TeamID:    msg.Join.TeamID,
		})
		if joined {
			s.logger.Info("player joined", "player_id", msg.Join.ID, "name", msg.Join.Name, "team_id", msg.Join.TeamID)
		}
		s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
		s.mu.Unlock()

	case feud.KindUpdateProfile:
		s.mu.Lock()
		s.state.UpdateProfile(msg.UpdateProfile.ID, msg.UpdateProfile.Emoji, msg.UpdateProfile.Accessory)
		s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
		s.mu.Unlock()

	case feud.KindBuzz:
		s.mu.Lock()
		if s.state.Buzz(msg.Buzz.PlayerID) {
			s.logger.Debug("buzzer locked", "player_id", msg.Buzz.PlayerID)
		}
		s.handle.Send(feud.GameUpdateMessage(s.state.Synced()))
		s.mu.Unlock()

	default:
		// Player-bound and unknown kinds are ignored.
	}
}

func (s *Session) heartbeat() {
	ticker := s.clock.NewTicker(HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.Chan():
			select {
			case <-s.stop:
				return
			default:
			}
			s.Broadcast()
		}
	}
}
