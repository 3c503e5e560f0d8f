package ladder

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
)

// New creates a new LadderStore.
func New(db *sql.DB) LadderStore {
	return &store{
		db: db,
	}
}

func scanLadder(scanner interface{ Scan(...any) error }) (*Ladder, error) {
	var l Ladder
	var tiebreak int
	err := scanner.Scan(&l.ID, &l.Name, &l.Number, &l.EndDate, &l.SetsToWin, &l.GamesPerSet, &tiebreak)
	if err != nil {
		return nil, err
	}
	l.Tiebreak = tiebreak != 0
	return &l, nil
}

const ladderColumns = `id, name, number, end_date, sets_to_win, games_per_set, tiebreak`

func (s *store) List() ([]Ladder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT " + ladderColumns + " FROM ladders ORDER BY number")
	if err != nil {
		return nil, fmt.Errorf("failed to list ladders: %w", err)
	}
	defer rows.Close()

	var ladders []Ladder
	for rows.Next() {
		l, err := scanLadder(rows)
		if err != nil {
			log.Error("Failed to scan ladder row", "error", err)
			continue
		}
		ladders = append(ladders, *l)
	}
	return ladders, rows.Err()
}

func (s *store) Get(id string) (*Ladder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+ladderColumns+" FROM ladders WHERE id = ?", id)
	l, err := scanLadder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ladder: %w", err)
	}
	return l, nil
}

func (s *store) Create(l Ladder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT INTO ladders (id, name, number, end_date, sets_to_win, games_per_set, tiebreak) VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.Name, l.Number, l.EndDate, l.SetsToWin, l.GamesPerSet, boolToInt(l.Tiebreak),
	)
	if err != nil {
		return fmt.Errorf("failed to create ladder: %w", err)
	}
	log.Info("Ladder created", "ladderID", l.ID, "name", l.Name)
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *store) Standings(ladderID string) ([]Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT team1_id, team2_id, team1_score, team2_score FROM matches WHERE ladder_id = ? AND completed = 1",
		ladderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed matches: %w", err)
	}
	defer rows.Close()

	byTeam := map[string]*Standing{}
	get := func(teamID string) *Standing {
		if st, ok := byTeam[teamID]; ok {
			return st
		}
		st := &Standing{TeamID: teamID}
		byTeam[teamID] = st
		return st
	}

	for rows.Next() {
		var t1, t2 string
		var s1, s2 sql.NullInt64
		if err := rows.Scan(&t1, &t2, &s1, &s2); err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		if !s1.Valid || !s2.Valid {
			continue
		}
		a, b := get(t1), get(t2)
		a.MatchesPlayed++
		b.MatchesPlayed++
		a.SetsWon += int(s1.Int64)
		a.SetsLost += int(s2.Int64)
		b.SetsWon += int(s2.Int64)
		b.SetsLost += int(s1.Int64)
		if s1.Int64 > s2.Int64 {
			a.Wins++
			b.Losses++
		} else {
			b.Wins++
			a.Losses++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	standings := make([]Standing, 0, len(byTeam))
	for _, st := range byTeam {
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].TeamID < standings[j].TeamID
	})
	return standings, nil
}

func (s *store) Switch(userIDs []string, newLadderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(1) FROM ladders WHERE id = ?", newLadderID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check ladder: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if _, err := tx.Exec("UPDATE users SET ladder_id = ? WHERE id = ?", newLadderID, userID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to move user: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM availability WHERE user_id = ?", userID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to wipe availability: %w", err)
		}
		if _, err := tx.Exec(
			"DELETE FROM matches WHERE team1_id LIKE '%' || ? || '%' OR team2_id LIKE '%' || ? || '%'",
			userID, userID,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to wipe matches: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Ladder switch completed", "users", len(userIDs), "ladderID", newLadderID)
	return nil
}
