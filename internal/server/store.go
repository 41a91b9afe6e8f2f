package server

import (
	"context"
	"errors"

	"github.com/feudhost/feudhost/internal/feud"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User is the public view of an account, never including the password hash.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Store interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (user User, passwordHash string, err error)
	CreateSession(ctx context.Context, userID string) (sessionID string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	UserFromSession(ctx context.Context, sessionID string) (User, error)

	ListBoards(ctx context.Context, ownerID string) ([]feud.Game, error)
	GetBoard(ctx context.Context, ownerID, boardID string) (feud.Game, error)
	PutBoard(ctx context.Context, g feud.Game) error
	DeleteBoard(ctx context.Context, ownerID, boardID string) error
}
