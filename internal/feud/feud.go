// Package feud defines the core domain types and the host-authoritative
// session state machine.
package feud

import "time"

// Answer is one survey answer on the board. Once revealed it never
// un-reveals within a session.
type Answer struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Points   int    `json:"points"`
	Revealed bool   `json:"revealed"`
}

// Question is a prompt with its answers in display order. Display order is
// reveal-priority order, not necessarily point order.
type Question struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Answers []Answer `json:"answers"`
}

// TeamConfig is the static identity of a competing team.
type TeamConfig struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Game is the static board definition. Immutable during play except for
// the per-answer revealed flags.
type Game struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"ownerId,omitempty"`
	Title         string       `json:"title"`
	Questions     []Question   `json:"questions"`
	Teams         []TeamConfig `json:"teams"`
	StrikePenalty int          `json:"strikePenalty"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// DefaultStrikePenalty is deducted on a team's third consecutive strike
// unless the board overrides it.
const DefaultStrikePenalty = 25

// Player is a joined participant. Players are never removed during a
// session; disconnection is not detected.
type Player struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Emoji             string `json:"emoji"`
	Accessory         string `json:"accessory,omitempty"`
	TeamID            string `json:"teamId"`
	PointsContributed int    `json:"pointsContributed"`
}

// State is the host session lifecycle state.
type State string

const (
	StateLobby   State = "LOBBY"
	StatePlaying State = "PLAYING"
	StateSummary State = "SUMMARY"
)
