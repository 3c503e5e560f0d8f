package match

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/matchpoint-club/matchpoint/internal/team"
)

// New creates a new MatchStore.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

const matchColumns = `id, start_at, team1_id, team2_id, ladder_id, confirmed, completed, team1_score, team2_score, detailed_score, created_at`

// sortPair puts a team pair into canonical order.
func sortPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// scanMatch is a helper to scan a single match row.
func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var confirmed, completed int
	err := scanner.Scan(
		&m.ID,
		&m.StartAt,
		&m.Team1ID,
		&m.Team2ID,
		&m.LadderID,
		&confirmed,
		&completed,
		&m.Team1Score,
		&m.Team2Score,
		&m.DetailedScore,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Confirmed = confirmed != 0
	m.Completed = completed != 0
	return &m, nil
}

func (s *store) Confirm(startAt int64, teamA, teamB, ladderID string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t1, t2 := sortPair(teamA, teamB)

	// Duplicate check is read-then-write; the store mutex closes the window
	// between the check and the insert.
	row := s.db.QueryRow(
		"SELECT "+matchColumns+" FROM matches WHERE team1_id = ? AND team2_id = ? AND ladder_id = ? AND confirmed = 1 AND completed = 0",
		t1, t2, ladderID,
	)
	existing, err := scanMatch(row)
	if err == nil {
		return nil, &ConflictError{Existing: existing}
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check for existing match: %w", err)
	}

	m := &Match{
		ID:        uuid.New().String(),
		StartAt:   startAt,
		Team1ID:   t1,
		Team2ID:   t2,
		LadderID:  ladderID,
		Confirmed: true,
		CreatedAt: time.Now().Unix(),
	}
	_, err = s.db.Exec(
		"INSERT INTO matches (id, start_at, team1_id, team2_id, ladder_id, confirmed, completed, created_at) VALUES (?, ?, ?, ?, ?, 1, 0, ?)",
		m.ID, m.StartAt, m.Team1ID, m.Team2ID, m.LadderID, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}

	log.Info("Match confirmed", "matchID", m.ID, "team1", t1, "team2", t2, "startAt", startAt)
	return m, nil
}

func (s *store) Get(id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+matchColumns+" FROM matches WHERE id = ?", id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

// memberOf checks that the acting user belongs to one of the two teams.
func memberOf(m *Match, userID string) bool {
	return team.Contains(m.Team1ID, userID) || team.Contains(m.Team2ID, userID)
}

func (s *store) Reschedule(id string, newStart int64, actorUserID string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+matchColumns+" FROM matches WHERE id = ?", id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if !memberOf(m, actorUserID) {
		return nil, ErrForbidden
	}

	if _, err := s.db.Exec("UPDATE matches SET start_at = ? WHERE id = ?", newStart, id); err != nil {
		return nil, fmt.Errorf("failed to reschedule match: %w", err)
	}
	m.StartAt = newStart
	log.Info("Match rescheduled", "matchID", id, "startAt", newStart)
	return m, nil
}

func (s *store) Cancel(id string, actorUserID string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+matchColumns+" FROM matches WHERE id = ?", id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	if !memberOf(m, actorUserID) {
		return nil, ErrForbidden
	}

	if _, err := s.db.Exec("DELETE FROM matches WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to cancel match: %w", err)
	}
	log.Info("Match cancelled", "matchID", id)
	return m, nil
}

func (s *store) Score(id string, team1Score, team2Score int, detailedScore string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow("SELECT "+matchColumns+" FROM matches WHERE id = ?", id)
	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	// A recorded result is final.
	if m.Completed {
		return nil, ErrAlreadyScored
	}

	var setsToWin int
	if err := s.db.QueryRow("SELECT sets_to_win FROM ladders WHERE id = ?", m.LadderID).Scan(&setsToWin); err != nil {
		return nil, fmt.Errorf("failed to load ladder format: %w", err)
	}
	winner, loser := team1Score, team2Score
	if team2Score > team1Score {
		winner, loser = team2Score, team1Score
	}
	if loser < 0 || winner != setsToWin || loser >= setsToWin {
		return nil, ErrBadScore
	}

	var detailed *string
	if detailedScore != "" {
		detailed = &detailedScore
	}
	_, err = s.db.Exec(
		"UPDATE matches SET team1_score = ?, team2_score = ?, detailed_score = ?, completed = 1 WHERE id = ?",
		team1Score, team2Score, detailed, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	row = s.db.QueryRow("SELECT "+matchColumns+" FROM matches WHERE id = ?", id)
	m, err = scanMatch(row)
	if err != nil {
		return nil, fmt.Errorf("failed to reload match: %w", err)
	}
	log.Info("Match result recorded", "matchID", id, "team1Score", team1Score, "team2Score", team2Score)
	return m, nil
}

func (s *store) ForTeam(teamID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT "+matchColumns+" FROM matches WHERE team1_id = ? OR team2_id = ? ORDER BY start_at",
		teamID, teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list team matches: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (s *store) ForLadderWeek(ladderID string, weekStart int64) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weekEnd := weekStart + 7*24*3600
	rows, err := s.db.Query(
		"SELECT "+matchColumns+" FROM matches WHERE ladder_id = ? AND start_at >= ? AND start_at < ? ORDER BY start_at",
		ladderID, weekStart, weekEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (s *store) OpenForLadder(ladderID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT "+matchColumns+" FROM matches WHERE ladder_id = ? AND completed = 0 ORDER BY start_at",
		ladderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list open matches: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]Match, error) {
	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}
