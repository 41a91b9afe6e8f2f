package feud

// SyncedAnswer is the player-visible view of one answer slot. Text and
// points are present only once the answer is revealed; this is the
// confidentiality boundary that keeps players from reading the board early.
type SyncedAnswer struct {
	Index    int     `json:"index"`
	Revealed bool    `json:"revealed"`
	Text     *string `json:"text,omitempty"`
	Points   *int    `json:"points,omitempty"`
}

// SyncedPlayer is the roster entry players see: identity and avatar only.
type SyncedPlayer struct {
	ID        string `json:"id"`
	Emoji     string `json:"emoji"`
	Accessory string `json:"accessory,omitempty"`
}

// SyncedState is the full state broadcast to the room on every mutation
// and on each heartbeat. Whatever broadcast arrives last wins; clients may
// always ask for a fresh one with REQUEST_SYNC.
type SyncedState struct {
	Prompt         string         `json:"prompt"`
	Answers        []SyncedAnswer `json:"answers"`
	TeamScores     map[string]int `json:"teamScores"`
	TeamStrikes    map[string]int `json:"teamStrikes"`
	Teams          []TeamConfig   `json:"teams"`
	Players        []SyncedPlayer `json:"players"`
	RoundPoints    int            `json:"roundPoints"`
	Strikes        int            `json:"strikes"`
	QuestionIndex  int            `json:"currentQuestionIndex"`
	TotalQuestions int            `json:"totalQuestions"`
	GameState      State          `json:"gameState"`
	BuzzedPlayerID string         `json:"buzzedPlayerId"`
	StrikePenalty  int            `json:"strikePenalty"`
}

// Synced projects the session into its player-visible shape. Maps and
// slices are copied so the snapshot stays stable after later mutations.
func (s *Session) Synced() SyncedState {
	out := SyncedState{
		TeamScores:     make(map[string]int, len(s.TeamScores)),
		TeamStrikes:    make(map[string]int, len(s.TeamStrikes)),
		Teams:          append([]TeamConfig(nil), s.Game.Teams...),
		Players:        make([]SyncedPlayer, 0, len(s.Players)),
		RoundPoints:    s.RoundPoints,
		Strikes:        s.Strikes,
		QuestionIndex:  s.CurrentQuestion,
		TotalQuestions: len(s.Game.Questions),
		GameState:      s.State,
		BuzzedPlayerID: s.BuzzedPlayerID,
		StrikePenalty:  s.Game.StrikePenalty,
	}
	for id, score := range s.TeamScores {
		out.TeamScores[id] = score
	}
	for id, strikes := range s.TeamStrikes {
		out.TeamStrikes[id] = strikes
	}
	for _, p := range s.Players {
		out.Players = append(out.Players, SyncedPlayer{
			ID:        p.ID,
			Emoji:     p.Emoji,
			Accessory: p.Accessory,
		})
	}
	if q := s.Question(); q != nil {
		out.Prompt = q.Prompt
		out.Answers = make([]SyncedAnswer, len(q.Answers))
		for i, a := range q.Answers {
			sa := SyncedAnswer{Index: i, Revealed: a.Revealed}
			if a.Revealed {
				text, points := a.Text, a.Points
				sa.Text = &text
				sa.Points = &points
			}
			out.Answers[i] = sa
		}
	}
	return out
}
