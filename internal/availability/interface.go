package availability

// Store defines the interface for interacting with availability data.
type Store interface {
	// Week returns the calendar view of a user's week, split into own and
	// partner-set slots.
	Week(userID, partnerID string, weekStart int64) (*WeekView, error)
	// ForUsers returns every user's slot states for the week, keyed by
	// user id then slot start. Input to the reconciliation engine.
	ForUsers(userIDs []string, weekStart int64) (map[string]map[int64]SlotState, error)
	// SetSlot upserts one slot with its state and provenance. Setting
	// Unset clears the row instead.
	SetSlot(userID string, weekStart, slot int64, st SlotState) error
	// ClearSlot removes one slot row.
	ClearSlot(userID string, slot int64) error
	// ReplaceWeek atomically replaces the week's rows written by the user:
	// their own rows plus any partner rows they set. Rows the partner set
	// for themselves are left alone.
	ReplaceWeek(userID, partnerID string, weekStart int64, entries []Entry) error
	// ProxySave flushes a proxy-editing overlay for another user. It only
	// removes rows that were set by someone other than the target, so a
	// slot the target set for themselves always survives.
	ProxySave(actorID, targetUserID string, weekStart int64, touched Overlay) error
	// Takeover reclaims proxy-set slots as the owner's own, overwriting
	// their state and provenance.
	Takeover(userID string, weekStart int64, slots map[int64]State) error
	// PruneBefore deletes rows for slots that start before the cutoff.
	PruneBefore(cutoff int64) (int64, error)
}
