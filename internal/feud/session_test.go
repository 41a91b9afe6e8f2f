package feud_test

import (
	"testing"

	"github.com/feudhost/feudhost/internal/feud"
)

func testGame() feud.Game {
	return feud.Game{
		ID:    "g1",
		Title: "Office Trivia",
		Questions: []feud.Question{
			{
				ID:     "q1",
				Prompt: "Name something you find on a desk",
				Answers: []feud.Answer{
					{ID: "a1", Text: "Keyboard", Points: 40},
					{ID: "a2", Text: "Coffee mug", Points: 30},
					{ID: "a3", Text: "Stapler", Points: 20},
					{ID: "a4", Text: "Plant", Points: 10},
				},
			},
			{
				ID:     "q2",
				Prompt: "Name a reason to call in sick",
				Answers: []feud.Answer{
					{ID: "b1", Text: "Flu", Points: 60},
					{ID: "b2", Text: "Dentist", Points: 40},
				},
			},
		},
		Teams: []feud.TeamConfig{
			{ID: "red", Name: "Red", Color: "#f00"},
			{ID: "blue", Name: "Blue", Color: "#00f"},
		},
		StrikePenalty: feud.DefaultStrikePenalty,
	}
}

func newPlayingSession(t *testing.T) *feud.Session {
	t.Helper()
	s := feud.NewSession(testGame(), "123456")
	s.Start()
	return s
}

func TestNewSessionStartsInLobby(t *testing.T) {
	s := feud.NewSession(testGame(), "123456")

	if s.State != feud.StateLobby {
		t.Fatalf("state = %q, want %q", s.State, feud.StateLobby)
	}
	if s.RoomCode != "123456" {
		t.Errorf("room code = %q, want 123456", s.RoomCode)
	}
	for _, team := range []string{"red", "blue"} {
		if got, ok := s.TeamScores[team]; !ok || got != 0 {
			t.Errorf("TeamScores[%q] = %d, %v; want 0, true", team, got, ok)
		}
		if got, ok := s.TeamStrikes[team]; !ok || got != 0 {
			t.Errorf("TeamStrikes[%q] = %d, %v; want 0, true", team, got, ok)
		}
	}
}

func TestStartOnlyLeavesLobby(t *testing.T) {
	s := feud.NewSession(testGame(), "123456")
	s.Start()
	if s.State != feud.StatePlaying {
		t.Fatalf("state = %q, want %q", s.State, feud.StatePlaying)
	}

	// Starting a finished game must not resurrect it.
	s.State = feud.StateSummary
	s.Start()
	if s.State != feud.StateSummary {
		t.Errorf("state = %q, want %q", s.State, feud.StateSummary)
	}
}

func TestRevealAddsToPot(t *testing.T) {
	s := newPlayingSession(t)

	points, ok := s.Reveal("a1")
	if !ok || points != 40 {
		t.Fatalf("Reveal = %d, %v; want 40, true", points, ok)
	}
	if s.RoundPoints != 40 {
		t.Errorf("RoundPoints = %d, want 40", s.RoundPoints)
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	s := newPlayingSession(t)

	s.Reveal("a1")
	if _, ok := s.Reveal("a1"); ok {
		t.Fatal("second reveal of same answer reported ok")
	}
	if s.RoundPoints != 40 {
		t.Errorf("RoundPoints = %d, want 40 (no double count)", s.RoundPoints)
	}
}

func TestRevealUnknownAnswerIsNoop(t *testing.T) {
	s := newPlayingSession(t)

	if _, ok := s.Reveal("nope"); ok {
		t.Fatal("reveal of unknown answer reported ok")
	}
	if s.RoundPoints != 0 {
		t.Errorf("RoundPoints = %d, want 0", s.RoundPoints)
	}
}

func TestRevealCreditsActiveTeamLive(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"})
	s.Buzz("p1")

	s.Reveal("a3") // 20
	s.Reveal("a2") // 30

	if got := s.TeamScores["red"]; got != 50 {
		t.Errorf("red score = %d, want 50 (credited on each reveal)", got)
	}
	if s.RoundPoints != 50 {
		t.Errorf("RoundPoints = %d, want 50", s.RoundPoints)
	}
}

func TestStrikeThirdDeductsPenaltyAndResets(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"})
	s.TeamScores["red"] = 40

	for want := 1; want <= 2; want++ {
		s.Buzz("p1")
		if got := s.Strike(); got != want {
			t.Fatalf("strike %d returned count %d", want, got)
		}
	}
	if got := s.TeamScores["red"]; got != 40 {
		t.Fatalf("score changed before third strike: %d", got)
	}

	s.Buzz("p1")
	if got := s.Strike(); got != 3 {
		t.Fatalf("third strike returned count %d, want 3", got)
	}
	if got := s.TeamScores["red"]; got != 15 {
		t.Errorf("red score = %d, want 15 (40 - 25)", got)
	}
	if got := s.TeamStrikes["red"]; got != 0 {
		t.Errorf("strike counter = %d, want 0 after reset", got)
	}
}

func TestStrikePenaltyFloorsAtZero(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"})
	s.TeamScores["red"] = 10

	for i := 0; i < 3; i++ {
		s.Buzz("p1")
		s.Strike()
	}
	if got := s.TeamScores["red"]; got != 0 {
		t.Errorf("red score = %d, want 0 (never negative)", got)
	}
}

func TestStrikeWithoutActiveTeam(t *testing.T) {
	s := newPlayingSession(t)

	if got := s.Strike(); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
	for team, strikes := range s.TeamStrikes {
		if strikes != 0 {
			t.Errorf("TeamStrikes[%q] = %d, want 0", team, strikes)
		}
	}
}

func TestStrikeClearsBuzzerLock(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"})
	s.Buzz("p1")

	s.Strike()

	if s.BuzzedPlayerID != "" || s.ActiveTeamID != "" {
		t.Errorf("lock not cleared: buzzed=%q active=%q", s.BuzzedPlayerID, s.ActiveTeamID)
	}
	if !s.Buzz("p1") {
		t.Error("buzzer should be free again after a strike")
	}
}

func TestAwardPointsHandsPotAndResetsStrikes(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"})
	s.Buzz("p1")
	s.Strike()
	s.Reveal("a1")

	if !s.AwardPoints("blue") {
		t.Fatal("award to known team returned false")
	}
	if got := s.TeamScores["blue"]; got != 40 {
		t.Errorf("blue score = %d, want 40", got)
	}
	if s.RoundPoints != 0 {
		t.Errorf("RoundPoints = %d, want 0", s.RoundPoints)
	}
	for team, strikes := range s.TeamStrikes {
		if strikes != 0 {
			t.Errorf("TeamStrikes[%q] = %d, want 0 after award", team, strikes)
		}
	}
}

func TestAwardPointsUnknownTeamIsNoop(t *testing.T) {
	s := newPlayingSession(t)
	s.Reveal("a1")

	if s.AwardPoints("green") {
		t.Fatal("award to unknown team returned true")
	}
	if s.RoundPoints != 40 {
		t.Errorf("RoundPoints = %d, want 40 (pot untouched)", s.RoundPoints)
	}
}

func TestNextQuestionResetsRoundState(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"})
	s.Buzz("p1")
	s.Strike()
	s.Buzz("p1")
	s.Reveal("a1")

	if finished := s.NextQuestion(); finished {
		t.Fatal("finished on first of two questions")
	}
	if s.CurrentQuestion != 1 {
		t.Errorf("CurrentQuestion = %d, want 1", s.CurrentQuestion)
	}
	if s.RoundPoints != 0 || s.Strikes != 0 || s.BuzzedPlayerID != "" || s.ActiveTeamID != "" {
		t.Error("round state not reset on advance")
	}
	if got := s.TeamStrikes["red"]; got != 0 {
		t.Errorf("TeamStrikes[red] = %d, want 0", got)
	}
}

func TestNextQuestionOnLastEndsGame(t *testing.T) {
	s := newPlayingSession(t)
	s.NextQuestion()

	if finished := s.NextQuestion(); !finished {
		t.Fatal("last question did not finish the game")
	}
	if s.State != feud.StateSummary {
		t.Errorf("state = %q, want %q", s.State, feud.StateSummary)
	}
}

func TestQuestionNilPastEnd(t *testing.T) {
	s := newPlayingSession(t)
	s.NextQuestion()
	s.NextQuestion()
	s.CurrentQuestion = len(s.Game.Questions)

	if q := s.Question(); q != nil {
		t.Errorf("Question() = %+v, want nil past the board", q)
	}
}

func TestJoinDeduplicatesByID(t *testing.T) {
	s := newPlayingSession(t)

	if !s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"}) {
		t.Fatal("first join returned false")
	}
	if s.Join(feud.Player{ID: "p1", Name: "Ana again", TeamID: "blue"}) {
		t.Fatal("duplicate join returned true")
	}
	if len(s.Players) != 1 {
		t.Errorf("roster size = %d, want 1", len(s.Players))
	}
	if s.Players[0].Name != "Ana" {
		t.Errorf("duplicate join overwrote roster entry: %q", s.Players[0].Name)
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", Emoji: "🙂", TeamID: "red"})

	if !s.UpdateProfile("p1", "🎉", "crown") {
		t.Fatal("update for known player returned false")
	}
	if s.Players[0].Emoji != "🎉" || s.Players[0].Accessory != "crown" {
		t.Errorf("profile not updated: %+v", s.Players[0])
	}
	if s.UpdateProfile("ghost", "👻", "") {
		t.Error("update for unknown player returned true")
	}
}

func TestBuzzFirstWins(t *testing.T) {
	s := newPlayingSession(t)
	s.Join(feud.Player{ID: "p1", Name: "Ana", TeamID: "red"})
	s.Join(feud.Player{ID: "p2", Name: "Ben", TeamID: "blue"})

	if !s.Buzz("p1") {
		t.Fatal("first buzz rejected")
	}
	if s.Buzz("p2") {
		t.Fatal("second buzz accepted while lock held")
	}
	if s.BuzzedPlayerID != "p1" || s.ActiveTeamID != "red" {
		t.Errorf("lock = %q/%q, want p1/red", s.BuzzedPlayerID, s.ActiveTeamID)
	}
}

func TestBuzzFromUnknownPlayerTakesLock(t *testing.T) {
	s := newPlayingSession(t)

	// A buzz can arrive before the join that announced the player.
	if !s.Buzz("in-flight") {
		t.Fatal("buzz from unknown player rejected")
	}
	if s.BuzzedPlayerID != "in-flight" {
		t.Errorf("BuzzedPlayerID = %q", s.BuzzedPlayerID)
	}
	if s.ActiveTeamID != "" {
		t.Errorf("ActiveTeamID = %q, want empty for unknown player", s.ActiveTeamID)
	}
}
