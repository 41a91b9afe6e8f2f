package player_test

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/feudhost/feudhost/internal/bus"
	"github.com/feudhost/feudhost/internal/feud"
	"github.com/feudhost/feudhost/internal/player"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeHost stands in for the authoritative side of the room: it records
// everything the player sends and lets tests push broadcasts by hand.
type fakeHost struct {
	handle *bus.Handle
	inbox  chan feud.Message
}

func newFakeHost(e *bus.Exchange, code string) *fakeHost {
	f := &fakeHost{
		handle: e.Open(code),
		inbox:  make(chan feud.Message, 64),
	}
	f.handle.OnMessage(func(msg feud.Message) { f.inbox <- msg })
	return f
}

func (f *fakeHost) expect(t *testing.T, kind feud.Kind) feud.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-f.inbox:
			if msg.Kind == kind {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

func playingState(buzzed string) feud.SyncedState {
	return feud.SyncedState{
		GameState:      feud.StatePlaying,
		BuzzedPlayerID: buzzed,
		TotalQuestions: 1,
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestJoinAnnouncesPlayer(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	s := player.Join(e, "123456", player.Config{
		ID: "p1", Name: "Ana", Emoji: "🙂", TeamID: "red", Accessory: "crown",
	}, discardLogger(), clockwork.NewFakeClock())
	defer s.Close()

	msg := h.expect(t, feud.KindJoin)
	if msg.Join.ID != "p1" || msg.Join.Name != "Ana" || msg.Join.TeamID != "red" {
		t.Errorf("join payload = %+v", msg.Join)
	}
	if s.Status() != player.StatusWaiting {
		t.Errorf("status = %q, want WAITING before first broadcast", s.Status())
	}
}

func TestBecomesReadyWhenHostIsPlaying(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	s := player.Join(e, "123456", player.Config{ID: "p1"}, discardLogger(), clockwork.NewFakeClock())
	defer s.Close()

	h.handle.Send(feud.GameUpdateMessage(playingState("")))

	waitUntil(t, func() bool { return s.Status() == player.StatusReady })
	if s.State() == nil {
		t.Fatal("State() still nil after broadcast")
	}
}

func TestBuzzOnlyWhenReady(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	var haptics atomic.Int32
	s := player.Join(e, "123456", player.Config{
		ID:     "p1",
		Haptic: func() { haptics.Add(1) },
	}, discardLogger(), clockwork.NewFakeClock())
	defer s.Close()

	if s.Buzz() {
		t.Fatal("buzz accepted while WAITING")
	}

	h.handle.Send(feud.GameUpdateMessage(playingState("")))
	waitUntil(t, func() bool { return s.Status() == player.StatusReady })

	if !s.Buzz() {
		t.Fatal("buzz rejected while READY")
	}
	if s.Status() != player.StatusBuzzed {
		t.Errorf("status = %q, want BUZZED", s.Status())
	}

	msg := h.expect(t, feud.KindBuzz)
	if msg.Buzz.PlayerID != "p1" {
		t.Errorf("buzz payload = %+v", msg.Buzz)
	}
	if haptics.Load() != 1 {
		t.Errorf("haptic fired %d times, want 1", haptics.Load())
	}

	// Still locked out: no second buzz until the host resets.
	if s.Buzz() {
		t.Error("buzz accepted while already BUZZED")
	}
}

func TestSomeoneElsesBuzzForcesWaiting(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	s := player.Join(e, "123456", player.Config{ID: "p1"}, discardLogger(), clockwork.NewFakeClock())
	defer s.Close()

	h.handle.Send(feud.GameUpdateMessage(playingState("")))
	waitUntil(t, func() bool { return s.Status() == player.StatusReady })

	h.handle.Send(feud.GameUpdateMessage(playingState("p2")))
	waitUntil(t, func() bool { return s.Status() == player.StatusWaiting })
}

func TestResetBuzzerAlwaysReadies(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	s := player.Join(e, "123456", player.Config{ID: "p1"}, discardLogger(), clockwork.NewFakeClock())
	defer s.Close()

	// RESET_BUZZER re-arms even a player who never saw a broadcast.
	h.handle.Send(feud.ResetBuzzerMessage())
	waitUntil(t, func() bool { return s.Status() == player.StatusReady })
}

func TestStrikeOverlayShowsAndExpires(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	clock := clockwork.NewFakeClock()
	s := player.Join(e, "123456", player.Config{ID: "p1"}, discardLogger(), clock)
	defer s.Close()

	h.handle.Send(feud.StrikeAnimationMessage(2))
	waitUntil(t, func() bool { return s.StrikeOverlay() == 2 })

	clock.Advance(player.StrikeOverlayDuration)
	waitUntil(t, func() bool { return s.StrikeOverlay() == 0 })
}

func TestStrikeOverlayRetriggerExtends(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	clock := clockwork.NewFakeClock()
	s := player.Join(e, "123456", player.Config{ID: "p1"}, discardLogger(), clock)
	defer s.Close()

	h.handle.Send(feud.StrikeAnimationMessage(1))
	waitUntil(t, func() bool { return s.StrikeOverlay() == 1 })

	clock.Advance(player.StrikeOverlayDuration / 2)
	h.handle.Send(feud.StrikeAnimationMessage(2))
	waitUntil(t, func() bool { return s.StrikeOverlay() == 2 })

	// The first strike's timer firing must not clear the newer overlay.
	clock.Advance(player.StrikeOverlayDuration / 2)
	time.Sleep(10 * time.Millisecond)
	if got := s.StrikeOverlay(); got != 2 {
		t.Fatalf("overlay = %d, want 2 (stale timer cleared it)", got)
	}

	clock.Advance(player.StrikeOverlayDuration / 2)
	waitUntil(t, func() bool { return s.StrikeOverlay() == 0 })
}

func TestUpdateProfileNotifiesHost(t *testing.T) {
	e := bus.NewExchange()
	h := newFakeHost(e, "123456")
	defer h.handle.Close()

	s := player.Join(e, "123456", player.Config{ID: "p1", Emoji: "🙂"}, discardLogger(), clockwork.NewFakeClock())
	defer s.Close()

	s.UpdateProfile("🎉", "crown")

	msg := h.expect(t, feud.KindUpdateProfile)
	if msg.UpdateProfile.ID != "p1" || msg.UpdateProfile.Emoji != "🎉" || msg.UpdateProfile.Accessory != "crown" {
		t.Errorf("payload = %+v", msg.UpdateProfile)
	}
}
