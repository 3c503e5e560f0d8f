package auth

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// store handles all database operations for sessions.
type store struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
}

var ErrInvalidSession = errors.New("invalid or expired session")

// Principal is the resolved identity every authenticated handler receives.
// It is always passed explicitly through the request context, never held
// in any global.
type Principal struct {
	UserID string
	Email  string
}

// CookieName is the session cookie set on login.
const CookieName = "matchpoint_session"
