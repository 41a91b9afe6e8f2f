package feud_test

import (
	"testing"

	"github.com/feudhost/feudhost/internal/feud"
)

func TestNewRoomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := feud.NewRoomCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		if code[0] == '0' {
			t.Fatalf("code %q has a leading zero", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit %q", code, c)
			}
		}
	}
}
