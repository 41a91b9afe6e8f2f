package feud

// Session is the single mutable aggregate for one hosted game. The host
// session owns it exclusively and serializes every mutation; none of the
// methods below are safe for unsynchronized concurrent use.
//
// All mutations on missing entities (answer ids, team ids, player ids that
// the roster does not know) are no-ops rather than errors.
type Session struct {
	Game            Game
	State           State
	CurrentQuestion int
	TeamScores      map[string]int
	TeamStrikes     map[string]int
	RoundPoints     int
	Strikes         int
	ActiveTeamID    string
	BuzzedPlayerID  string
	RoomCode        string
	Players         []Player
}

// NewSession creates a lobby-state session for the given board.
func NewSession(game Game, roomCode string) *Session {
	scores := make(map[string]int, len(game.Teams))
	strikes := make(map[string]int, len(game.Teams))
	for _, t := range game.Teams {
		scores[t.ID] = 0
		strikes[t.ID] = 0
	}
	return &Session{
		Game:        game,
		State:       StateLobby,
		TeamScores:  scores,
		TeamStrikes: strikes,
		RoomCode:    roomCode,
	}
}

// Start moves the session from the lobby onto the board. There is no
// precondition on player count.
func (s *Session) Start() {
	if s.State == StateLobby {
		s.State = StatePlaying
	}
}

// Question returns the current question, or nil past the end of the board.
func (s *Session) Question() *Question {
	if s.CurrentQuestion < 0 || s.CurrentQuestion >= len(s.Game.Questions) {
		return nil
	}
	return &s.Game.Questions[s.CurrentQuestion]
}

// Reveal marks the matching answer on the current question revealed and adds
// its points to the round pot. If a team is active, that team is credited
// immediately: points accrue live, not only on award. Revealing an unknown
// or already-revealed answer is a no-op; reveal is idempotent.
func (s *Session) Reveal(answerID string) (points int, ok bool) {
	q := s.Question()
	if q == nil {
		return 0, false
	}
	for i := range q.Answers {
		a := &q.Answers[i]
		if a.ID != answerID {
			continue
		}
		if a.Revealed {
			return 0, false
		}
		a.Revealed = true
		s.RoundPoints += a.Points
		if s.ActiveTeamID != "" {
			s.TeamScores[s.ActiveTeamID] += a.Points
		}
		return a.Points, true
	}
	return 0, false
}

// Strike records a wrong answer against the active team and returns the
// strike count to animate. On the third consecutive strike the configured
// penalty is deducted from the team's score (floored at zero) and the
// counter resets. With no active team the strike is shown with count 1 but
// carries no penalty logic. Either way the buzzer lock and active team are
// cleared; the caller must broadcast RESET_BUZZER.
func (s *Session) Strike() (count int) {
	count = 1
	if s.ActiveTeamID != "" {
		c := s.TeamStrikes[s.ActiveTeamID] + 1
		count = c
		if c == 3 {
			score := s.TeamScores[s.ActiveTeamID] - s.Game.StrikePenalty
			if score < 0 {
				score = 0
			}
			s.TeamScores[s.ActiveTeamID] = score
			c = 0
		}
		s.TeamStrikes[s.ActiveTeamID] = c
	}
	s.Strikes = count
	s.BuzzedPlayerID = ""
	s.ActiveTeamID = ""
	return count
}

// AwardPoints hands the round pot to the named team and resets the turn:
// every team's strike counter goes to zero, the pot empties, and the buzzer
// lock clears. Unknown team ids are a no-op.
func (s *Session) AwardPoints(teamID string) bool {
	if _, known := s.TeamScores[teamID]; !known {
		return false
	}
	s.TeamScores[teamID] += s.RoundPoints
	for id := range s.TeamStrikes {
		s.TeamStrikes[id] = 0
	}
	s.RoundPoints = 0
	s.Strikes = 0
	s.ActiveTeamID = ""
	s.BuzzedPlayerID = ""
	return true
}

// NextQuestion advances the board, resetting per-question round state.
// On the last question it transitions to the terminal summary state
// instead; the returned flag reports which happened.
func (s *Session) NextQuestion() (finished bool) {
	if s.CurrentQuestion >= len(s.Game.Questions)-1 {
		s.State = StateSummary
		return true
	}
	s.CurrentQuestion++
	for id := range s.TeamStrikes {
		s.TeamStrikes[id] = 0
	}
	s.RoundPoints = 0
	s.Strikes = 0
	s.ActiveTeamID = ""
	s.BuzzedPlayerID = ""
	return false
}

// Join adds a player to the roster. Duplicate ids are ignored.
func (s *Session) Join(p Player) bool {
	for _, existing := range s.Players {
		if existing.ID == p.ID {
			return false
		}
	}
	p.PointsContributed = 0
	s.Players = append(s.Players, p)
	return true
}

// UpdateProfile overwrites the named player's avatar and accessory.
// Unknown player ids are a no-op.
func (s *Session) UpdateProfile(playerID, emoji, accessory string) bool {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			s.Players[i].Emoji = emoji
			s.Players[i].Accessory = accessory
			return true
		}
	}
	return false
}

// Buzz locks the buzzer for the named player if it is free: first buzz
// wins and the lock holds until RESET_BUZZER, an award, or a strike. The
// active team follows the buzzing player's team when the roster knows the
// player; a buzz from an unknown player (a JOIN still in flight) still
// takes the lock but leaves the active team untouched.
func (s *Session) Buzz(playerID string) bool {
	if s.BuzzedPlayerID != "" {
		return false
	}
	s.BuzzedPlayerID = playerID
	for _, p := range s.Players {
		if p.ID == playerID {
			s.ActiveTeamID = p.TeamID
			break
		}
	}
	return true
}
