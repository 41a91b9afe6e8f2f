package server

import (
	"net/http"
	"testing"
)

func TestRegisterAndMe(t *testing.T) {
	r, _ := setupRouter(t)
	cookies := registerUser(t, r, "host@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", w.Code, w.Body)
	}

	var user User
	decodeJSON(t, w, &user)
	if user.Email != "host@example.com" || user.Name != "Test Host" {
		t.Errorf("user = %+v", user)
	}
	if user.ID == "" {
		t.Error("user id missing")
	}
}

func TestMeWithoutSession(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me returned %d, want 401", w.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "host@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
		Name:     "Second",
		Email:    "host@example.com",
		Password: "another pass",
	}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register returned %d, want 409", w.Code)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", RegisterRequest{
		Name:     "Host",
		Email:    "host@example.com",
		Password: "short",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("register returned %d, want 400", w.Code)
	}
}

func TestLogin(t *testing.T) {
	r, _ := setupRouter(t)
	registerUser(t, r, "host@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "Host@Example.com",
		Password: "correct horse",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatal("login set no cookie")
	}

	bad := doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "host@example.com",
		Password: "wrong horse",
	}, nil)
	if bad.Code != http.StatusUnauthorized {
		t.Fatalf("bad login returned %d, want 401", bad.Code)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever!",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("login returned %d, want 401", w.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r, _ := setupRouter(t)
	cookies := registerUser(t, r, "host@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/logout", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("logout returned %d", w.Code)
	}

	after := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, cookies)
	if after.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout returned %d, want 401", after.Code)
	}
}
