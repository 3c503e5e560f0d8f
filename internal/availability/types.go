package availability

import (
	"database/sql"
	"errors"
	"sync"
)

// store handles all database operations for availability.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

var ErrBadEntry = errors.New("invalid availability entry")

// State is the persisted availability state of a slot. Absence of a row
// means the slot is unset.
type State string

const (
	Unset        State = ""
	Available    State = "AVAILABLE"
	NotAvailable State = "NOT_AVAILABLE"
)

// Slot is a persisted availability row.
type Slot struct {
	UserID    string `json:"user_id"`
	StartAt   int64  `json:"start_at"`
	WeekStart int64  `json:"week_start"`
	State     State  `json:"state"`
	SetBy     string `json:"set_by_user_id"`
}

// SlotState is the tri-state plus provenance view of a single slot.
// A zero SlotState means unset.
type SlotState struct {
	State State  `json:"state"`
	SetBy string `json:"set_by,omitempty"`
}

// SelfSet reports whether the slot was written by its owner.
func (s SlotState) SelfSet(owner string) bool {
	return s.State != Unset && s.SetBy == owner
}

// Entry is one slot write within a weekly save.
type Entry struct {
	UserID  string `json:"user_id"`
	StartAt int64  `json:"start_at"`
	State   State  `json:"state"`
	SetBy   string `json:"set_by"`
}

// WeekView splits a user's week into own and partner-set slots for the
// calendar response.
type WeekView struct {
	MySlots        []int64 `json:"mySlots"`
	MyUnavailable  []int64 `json:"myUnavailable"`
	PartnerSlots   []int64 `json:"partnerSlots"`
	PartnerUnavail []int64 `json:"partnerUnavailable"`
}
