package player

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/matchpoint-club/matchpoint/internal/team"
)

// store handles all database operations for players.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Sentinel errors returned by the store. Handlers map these to HTTP statuses.
var (
	ErrNotFound   = errors.New("player not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrHasPartner = errors.New("player already has a partner")
	ErrInvalidOTP = errors.New("invalid or expired reset code")
)

// User represents a registered player.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Phone        *string `json:"phone,omitempty"`
	PasswordHash string  `json:"-"`
	PartnerID    *string `json:"partner_id,omitempty"`
	LadderID     string  `json:"ladder_id"`
	Verified     bool    `json:"verified"`
	NotifyEmail  bool    `json:"notify_email"`
	NotifySMS    bool    `json:"notify_sms"`
	CreatedAt    int64   `json:"created_at"`
}

// TeamID returns the user's current team identity, recomputed from the
// partner link on every call.
func (u *User) TeamID() string {
	partner := ""
	if u.PartnerID != nil {
		partner = *u.PartnerID
	}
	return team.ID(u.ID, partner)
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	NotifyEmail *bool   `json:"notify_email,omitempty"`
	NotifySMS   *bool   `json:"notify_sms,omitempty"`
}
