package server

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/feudhost/feudhost/internal/feud"
)

// userDoc is the persisted shape of an account. The password hash lives
// only here; it is stripped before anything leaves the store.
type userDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// DocStore implements Store on SQLite using per-model tables with JSONB
// data columns. The schema is managed by the migrations package.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func (s *DocStore) CreateUser(ctx context.Context, name, email, passwordHash string) (User, error) {
	doc := userDoc{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return User{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, data) VALUES (?, ?, jsonb(?))`,
		doc.ID, doc.Email, string(data),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return User{ID: doc.ID, Name: doc.Name, Email: doc.Email}, nil
}

func (s *DocStore) UserByEmail(ctx context.Context, email string) (User, string, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM users WHERE email = ?`, email,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	var doc userDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return User{}, "", err
	}
	return User{ID: doc.ID, Name: doc.Name, Email: doc.Email}, doc.PasswordHash, nil
}

func (s *DocStore) CreateSession(ctx context.Context, userID string) (string, error) {
	sessionID := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_sessions (id, user_id, created_at) VALUES (?, ?, ?)`,
		sessionID, userID, nowUTC(),
	)
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (s *DocStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_sessions WHERE id = ?`, sessionID,
	)
	return err
}

func (s *DocStore) UserFromSession(ctx context.Context, sessionID string) (User, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT json(u.data)
		FROM user_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	var doc userDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return User{}, err
	}
	return User{ID: doc.ID, Name: doc.Name, Email: doc.Email}, nil
}

func (s *DocStore) ListBoards(ctx context.Context, ownerID string) ([]feud.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM boards WHERE owner_id = ? ORDER BY id`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []feud.Game
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var g feud.Game
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, err
		}
		boards = append(boards, g)
	}
	return boards, rows.Err()
}

func (s *DocStore) GetBoard(ctx context.Context, ownerID, boardID string) (feud.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM boards WHERE id = ? AND owner_id = ?`,
		boardID, ownerID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return feud.Game{}, ErrNotFound
	}
	if err != nil {
		return feud.Game{}, err
	}
	var g feud.Game
	if err := json.Unmarshal([]byte(data), &g); err != nil {
		return feud.Game{}, err
	}
	return g, nil
}

func (s *DocStore) PutBoard(ctx context.Context, g feud.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO boards (id, owner_id, title, data) VALUES (?, ?, ?, jsonb(?))
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, data = excluded.data
		WHERE boards.owner_id = excluded.owner_id
	`, g.ID, g.OwnerID, g.Title, string(data))
	return err
}

func (s *DocStore) DeleteBoard(ctx context.Context, ownerID, boardID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM boards WHERE id = ? AND owner_id = ?`, boardID, ownerID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
