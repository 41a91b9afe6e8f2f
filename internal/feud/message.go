package feud

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the wire message union.
type Kind string

const (
	KindJoin            Kind = "JOIN"
	KindUpdateProfile   Kind = "UPDATE_PROFILE"
	KindBuzz            Kind = "BUZZ"
	KindGameUpdate      Kind = "GAME_UPDATE"
	KindStrikeAnimation Kind = "STRIKE_ANIMATION"
	KindRequestSync     Kind = "REQUEST_SYNC"
	KindResetBuzzer     Kind = "RESET_BUZZER"
)

// JoinPayload announces a player entering the room.
type JoinPayload struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Emoji     string `json:"emoji"`
	TeamID    string `json:"teamId"`
	Accessory string `json:"accessory,omitempty"`
}

// UpdateProfilePayload swaps a player's avatar and accessory.
type UpdateProfilePayload struct {
	ID        string `json:"id"`
	Emoji     string `json:"emoji"`
	Accessory string `json:"accessory"`
}

// BuzzPayload is a player's attempt to take the buzzer lock.
type BuzzPayload struct {
	PlayerID string `json:"playerId"`
}

// StrikeAnimationPayload drives the transient strike overlay on players.
type StrikeAnimationPayload struct {
	Count int `json:"count"`
}

// Message is the closed union of everything that crosses the room bus.
// Exactly one payload pointer is set, matching Kind; REQUEST_SYNC and
// RESET_BUZZER carry none. Receivers must treat kinds they do not know as
// a no-op, never as an error.
type Message struct {
	Kind            Kind
	Join            *JoinPayload
	UpdateProfile   *UpdateProfilePayload
	Buzz            *BuzzPayload
	GameUpdate      *SyncedState
	StrikeAnimation *StrikeAnimationPayload
}

func JoinMessage(p JoinPayload) Message {
	return Message{Kind: KindJoin, Join: &p}
}

func UpdateProfileMessage(p UpdateProfilePayload) Message {
	return Message{Kind: KindUpdateProfile, UpdateProfile: &p}
}

func BuzzMessage(playerID string) Message {
	return Message{Kind: KindBuzz, Buzz: &BuzzPayload{PlayerID: playerID}}
}

func GameUpdateMessage(state SyncedState) Message {
	return Message{Kind: KindGameUpdate, GameUpdate: &state}
}

func StrikeAnimationMessage(count int) Message {
	return Message{Kind: KindStrikeAnimation, StrikeAnimation: &StrikeAnimationPayload{Count: count}}
}

func RequestSyncMessage() Message { return Message{Kind: KindRequestSync} }

func ResetBuzzerMessage() Message { return Message{Kind: KindResetBuzzer} }

// envelope is the JSON wire shape: {"type": ..., "payload": ...}.
type envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	env := envelope{Type: m.Kind}

	var payload any
	switch m.Kind {
	case KindJoin:
		payload = m.Join
	case KindUpdateProfile:
		payload = m.UpdateProfile
	case KindBuzz:
		payload = m.Buzz
	case KindGameUpdate:
		payload = m.GameUpdate
	case KindStrikeAnimation:
		payload = m.StrikeAnimation
	case KindRequestSync, KindResetBuzzer:
		// No payload.
	default:
		return nil, fmt.Errorf("marshaling unknown message kind %q", m.Kind)
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s payload: %w", m.Kind, err)
		}
		env.Payload = data
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes the envelope. Unknown types decode successfully
// with the kind preserved and every payload nil, so dispatch falls through
// to the default no-op case instead of failing.
func (m *Message) UnmarshalJSON(data []byte) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	*m = Message{Kind: env.Type}
	switch env.Type {
	case KindJoin:
		m.Join = &JoinPayload{}
		return unmarshalPayload(env, m.Join)
	case KindUpdateProfile:
		m.UpdateProfile = &UpdateProfilePayload{}
		return unmarshalPayload(env, m.UpdateProfile)
	case KindBuzz:
		m.Buzz = &BuzzPayload{}
		return unmarshalPayload(env, m.Buzz)
	case KindGameUpdate:
		m.GameUpdate = &SyncedState{}
		return unmarshalPayload(env, m.GameUpdate)
	case KindStrikeAnimation:
		m.StrikeAnimation = &StrikeAnimationPayload{}
		return unmarshalPayload(env, m.StrikeAnimation)
	default:
		return nil
	}
}

func unmarshalPayload(env envelope, dest any) error {
	if len(env.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Payload, dest); err != nil {
		return fmt.Errorf("unmarshaling %s payload: %w", env.Type, err)
	}
	return nil
}
