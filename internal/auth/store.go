package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Sessions defines the session operations used by the HTTP layer.
type Sessions interface {
	// Create issues a new session token for the user. The plaintext token
	// goes into the cookie; only its hash is stored.
	Create(userID string) (string, error)
	// Lookup resolves a session token to a Principal.
	Lookup(token string) (*Principal, error)
	Destroy(token string) error
	// PruneExpired deletes expired sessions and returns how many went.
	PruneExpired() (int64, error)
}

// NewSessions creates a session store with the given time-to-live.
func NewSessions(db *sql.DB, ttl time.Duration) Sessions {
	return &store{
		db:  db,
		ttl: ttl,
	}
}

// hashToken returns the hex-encoded SHA-256 of the plaintext token, so a
// leaked sessions table cannot be replayed.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func (s *store) Create(userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	expiresAt := time.Now().Add(s.ttl).Unix()

	_, err := s.db.Exec(
		"INSERT INTO sessions (token_hash, user_id, expires_at) VALUES (?, ?, ?)",
		hashToken(token), userID, expiresAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	log.Debug("Session created", "userID", userID)
	return token, nil
}

func (s *store) Lookup(token string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p Principal
	var expiresAt int64
	err := s.db.QueryRow(`
		SELECT u.id, u.email, s.expires_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = ?`, hashToken(token),
	).Scan(&p.UserID, &p.Email, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if time.Now().Unix() > expiresAt {
		return nil, ErrInvalidSession
	}
	return &p, nil
}

func (s *store) Destroy(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM sessions WHERE token_hash = ?", hashToken(token))
	return err
}

func (s *store) PruneExpired() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
