package availability

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new availability Store.
func New(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

func (s *store) Week(userID, partnerID string, weekStart int64) (*WeekView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := &WeekView{
		MySlots:        []int64{},
		MyUnavailable:  []int64{},
		PartnerSlots:   []int64{},
		PartnerUnavail: []int64{},
	}

	rows, err := s.db.Query(
		"SELECT user_id, start_at, state FROM availability WHERE week_start = ? AND user_id IN (?, ?)",
		weekStart, userID, partnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load week: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var owner string
		var startAt int64
		var state State
		if err := rows.Scan(&owner, &startAt, &state); err != nil {
			log.Error("Failed to scan availability row", "error", err)
			continue
		}
		switch {
		case owner == userID && state == Available:
			view.MySlots = append(view.MySlots, startAt)
		case owner == userID:
			view.MyUnavailable = append(view.MyUnavailable, startAt)
		case state == Available:
			view.PartnerSlots = append(view.PartnerSlots, startAt)
		default:
			view.PartnerUnavail = append(view.PartnerUnavail, startAt)
		}
	}
	return view, rows.Err()
}

func (s *store) ForUsers(userIDs []string, weekStart int64) (map[string]map[int64]SlotState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]map[int64]SlotState, len(userIDs))
	for _, id := range userIDs {
		result[id] = map[int64]SlotState{}
	}
	if len(userIDs) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, 0, len(userIDs)+1)
	args = append(args, weekStart)
	for _, id := range userIDs {
		args = append(args, id)
	}

	rows, err := s.db.Query(
		"SELECT user_id, start_at, state, set_by_user_id FROM availability WHERE week_start = ? AND user_id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot Slot
		if err := rows.Scan(&slot.UserID, &slot.StartAt, &slot.State, &slot.SetBy); err != nil {
			log.Error("Failed to scan availability row", "error", err)
			continue
		}
		result[slot.UserID][slot.StartAt] = SlotState{State: slot.State, SetBy: slot.SetBy}
	}
	return result, rows.Err()
}

// weekSeconds is the span covered by one week_start key.
const weekSeconds = 7 * 24 * 3600

// inWeek reports whether the slot falls inside the week starting at weekStart.
func inWeek(slot, weekStart int64) bool {
	return slot >= weekStart && slot < weekStart+weekSeconds
}

func (s *store) SetSlot(userID string, weekStart, slot int64, st SlotState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.State == Unset {
		_, err := s.db.Exec("DELETE FROM availability WHERE user_id = ? AND start_at = ?", userID, slot)
		if err != nil {
			return fmt.Errorf("failed to clear slot: %w", err)
		}
		return nil
	}
	if st.State != Available && st.State != NotAvailable {
		return ErrBadEntry
	}
	if !inWeek(slot, weekStart) {
		return ErrBadEntry
	}
	setBy := st.SetBy
	if setBy == "" {
		setBy = userID
	}
	_, err := s.db.Exec(`
		INSERT INTO availability (user_id, start_at, week_start, state, set_by_user_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, start_at) DO UPDATE SET
			state = excluded.state,
			set_by_user_id = excluded.set_by_user_id
	`, userID, slot, weekStart, st.State, setBy)
	if err != nil {
		return fmt.Errorf("failed to set slot: %w", err)
	}
	return nil
}

func (s *store) ClearSlot(userID string, slot int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM availability WHERE user_id = ? AND start_at = ?", userID, slot)
	if err != nil {
		return fmt.Errorf("failed to clear slot: %w", err)
	}
	return nil
}

func (s *store) ReplaceWeek(userID, partnerID string, weekStart int64, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.UserID != userID && e.UserID != partnerID {
			return ErrBadEntry
		}
		// Writes to the partner's calendar must carry the author's id so a
		// later save or takeover can tell them apart from self-set rows.
		if e.UserID != userID && e.SetBy != userID {
			return ErrBadEntry
		}
		if e.State != Available && e.State != NotAvailable {
			return ErrBadEntry
		}
		// A slot outside the week would be stored under the wrong week key
		// and vanish from every weekly read.
		if !inWeek(e.StartAt, weekStart) {
			return ErrBadEntry
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	// Remove everything this user previously wrote for the week: their own
	// rows and any partner rows tagged with their id. Partner self-set rows
	// are untouched and win any insert conflict below.
	_, err = tx.Exec(
		"DELETE FROM availability WHERE week_start = ? AND (user_id = ? OR (user_id = ? AND set_by_user_id = ?))",
		weekStart, userID, partnerID, userID,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear week: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO availability (user_id, start_at, week_start, state, set_by_user_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, start_at) DO NOTHING
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.UserID, e.StartAt, weekStart, e.State, e.SetBy); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert availability: %w", err)
		}
	}

	return tx.Commit()
}

func (s *store) ProxySave(actorID, targetUserID string, weekStart int64, touched Overlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	setBy := actorID
	if actorID == targetUserID {
		setBy = targetUserID
	}

	for slot := range touched {
		if !inWeek(slot, weekStart) {
			return ErrBadEntry
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	delStmt, err := tx.Prepare(
		"DELETE FROM availability WHERE user_id = ? AND start_at = ? AND set_by_user_id != ?",
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer delStmt.Close()

	insStmt, err := tx.Prepare(`
		INSERT INTO availability (user_id, start_at, week_start, state, set_by_user_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, start_at) DO NOTHING
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer insStmt.Close()

	for slot, state := range touched {
		// Only rows someone else wrote are replaced. A self-set row keeps
		// both its state and its provenance: the delete skips it and the
		// insert loses the conflict.
		if _, err := delStmt.Exec(targetUserID, slot, targetUserID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to clear proxy rows: %w", err)
		}
		if state == Unset {
			continue
		}
		if _, err := insStmt.Exec(targetUserID, slot, weekStart, state, setBy); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert proxy row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Proxy availability saved", "actorID", actorID, "targetID", targetUserID, "slots", len(touched))
	return nil
}

func (s *store) Takeover(userID string, weekStart int64, slots map[int64]State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for slot, state := range slots {
		if state != Unset && !inWeek(slot, weekStart) {
			return ErrBadEntry
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for slot, state := range slots {
		if state == Unset {
			if _, err := tx.Exec("DELETE FROM availability WHERE user_id = ? AND start_at = ?", userID, slot); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to clear slot: %w", err)
			}
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO availability (user_id, start_at, week_start, state, set_by_user_id)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(user_id, start_at) DO UPDATE SET
				state = excluded.state,
				set_by_user_id = excluded.set_by_user_id
		`, userID, slot, weekStart, state, userID)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to take over slot: %w", err)
		}
	}

	return tx.Commit()
}

func (s *store) PruneBefore(cutoff int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM availability WHERE start_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune availability: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Info("Pruned past availability", "rows", n)
	}
	return n, nil
}
