package feud_test

import (
	"encoding/json"
	"testing"

	"github.com/feudhost/feudhost/internal/feud"
)

func TestMessageEnvelopeShape(t *testing.T) {
	data, err := json.Marshal(feud.BuzzMessage("p1"))
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}

	var env struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshaling envelope: %v", err)
	}
	if env.Type != "BUZZ" {
		t.Errorf("type = %q, want BUZZ", env.Type)
	}
	if string(env.Payload) != `{"playerId":"p1"}` {
		t.Errorf("payload = %s", env.Payload)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	msgs := []feud.Message{
		feud.JoinMessage(feud.JoinPayload{ID: "p1", Name: "Ana", Emoji: "🙂", TeamID: "red"}),
		feud.UpdateProfileMessage(feud.UpdateProfilePayload{ID: "p1", Emoji: "🎉", Accessory: "crown"}),
		feud.BuzzMessage("p1"),
		feud.StrikeAnimationMessage(2),
		feud.RequestSyncMessage(),
		feud.ResetBuzzerMessage(),
	}

	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("%s: marshaling: %v", msg.Kind, err)
		}
		var got feud.Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("%s: unmarshaling: %v", msg.Kind, err)
		}
		if got.Kind != msg.Kind {
			t.Errorf("kind = %q, want %q", got.Kind, msg.Kind)
		}
	}
}

func TestGameUpdateCarriesState(t *testing.T) {
	s := newPlayingSession(t)
	s.Reveal("a1")

	data, err := json.Marshal(feud.GameUpdateMessage(s.Synced()))
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}

	var got feud.Message
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshaling: %v", err)
	}
	if got.GameUpdate == nil {
		t.Fatal("GameUpdate payload is nil")
	}
	if got.GameUpdate.RoundPoints != 40 {
		t.Errorf("round points = %d, want 40", got.GameUpdate.RoundPoints)
	}
}

func TestUnknownKindDecodesAsNoop(t *testing.T) {
	var msg feud.Message
	err := json.Unmarshal([]byte(`{"type":"DANCE_PARTY","payload":{"moves":3}}`), &msg)
	if err != nil {
		t.Fatalf("unknown kind must not fail decoding: %v", err)
	}
	if msg.Kind != "DANCE_PARTY" {
		t.Errorf("kind = %q, want preserved", msg.Kind)
	}
	if msg.Join != nil || msg.Buzz != nil || msg.GameUpdate != nil {
		t.Error("unknown kind populated a payload")
	}
}

func TestMarshalUnknownKindFails(t *testing.T) {
	if _, err := json.Marshal(feud.Message{Kind: "DANCE_PARTY"}); err == nil {
		t.Fatal("marshaling an unknown kind should fail")
	}
}
