package match

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// store handles all database operations for matches.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	ErrNotFound      = errors.New("match not found")
	ErrForbidden     = errors.New("not a member of this match")
	ErrConflict      = errors.New("an open match already exists for this team pair")
	ErrAlreadyScored = errors.New("match already has a recorded result")
	ErrBadScore      = errors.New("scores do not fit the ladder's match format")
)

// ConflictError carries the existing match so the caller can offer a
// reschedule instead of a duplicate confirm.
type ConflictError struct {
	Existing *Match
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("open match already exists at %s", time.Unix(e.Existing.StartAt, 0).UTC().Format(time.RFC3339))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// Match represents a scheduled match between two teams.
type Match struct {
	ID            string  `json:"id"`
	StartAt       int64   `json:"start_at"`
	Team1ID       string  `json:"team1_id"`
	Team2ID       string  `json:"team2_id"`
	LadderID      string  `json:"ladder_id"`
	Confirmed     bool    `json:"confirmed"`
	Completed     bool    `json:"completed"`
	Team1Score    *int    `json:"team1_score,omitempty"`
	Team2Score    *int    `json:"team2_score,omitempty"`
	DetailedScore *string `json:"detailed_score,omitempty"`
	CreatedAt     int64   `json:"created_at"`
}
