package ladder

import (
	"database/sql"
	"errors"
	"sync"
)

// store handles all database operations for ladders.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var ErrNotFound = errors.New("ladder not found")

// Ladder is an independent competition instance.
type Ladder struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Number  int    `json:"number"`
	EndDate int64  `json:"end_date"`
	// Match format for score entry.
	SetsToWin   int  `json:"sets_to_win"`
	GamesPerSet int  `json:"games_per_set"`
	Tiebreak    bool `json:"tiebreak"`
}

// Standing is one team's aggregated results within a ladder.
type Standing struct {
	TeamID        string `json:"team_id"`
	MatchesPlayed int    `json:"matches_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	SetsWon       int    `json:"sets_won"`
	SetsLost      int    `json:"sets_lost"`
}
