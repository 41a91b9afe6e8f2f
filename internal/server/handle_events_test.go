package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestEventsStreamDeliversState(t *testing.T) {
	r, _ := setupRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	cookies := registerUser(t, r, "host@example.com")
	room := openRoom(t, r, cookies)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/rooms/"+room.RoomCode+"/events", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("opening stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// The stream's own REQUEST_SYNC makes the host broadcast, so the
	// first data line carries a GAME_UPDATE.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			if !strings.Contains(line, `"GAME_UPDATE"`) {
				t.Fatalf("first event = %q, want a GAME_UPDATE", line)
			}
			return
		}
	}
	t.Fatalf("stream ended without an event: %v", scanner.Err())
}

func TestEventsUnknownRoom(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/rooms/000000/events", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("events returned %d, want 404", w.Code)
	}
}
