// Package schedule turns per-user availability into per-slot match
// candidates. It is a pure rules engine: all inputs are passed in, nothing
// is read from storage.
package schedule

import (
	"github.com/matchpoint-club/matchpoint/internal/availability"
)

// TeamAvailability is one team's availability input for a week.
type TeamAvailability struct {
	TeamID  string
	Members []string
	// Slots holds each member's slot states, keyed by user id.
	Slots map[string]map[int64]availability.SlotState
}

// ExistingMatch is the subset of a match row the engine needs to exclude
// already-booked team pairs.
type ExistingMatch struct {
	Team1     string
	Team2     string
	Completed bool
}

// Decision says what the calendar can offer for one slot.
type Decision int

const (
	// Unplayable: the slot is in the past or at/after the ladder's end date.
	Unplayable Decision = iota
	// NotReady: my team is not fully available at the slot.
	NotReady
	// NoOpponent: my team is ready but no candidate opponent exists.
	NoOpponent
	// Direct: exactly one candidate opponent; offer a one-click confirm.
	Direct
	// Choice: several candidates; offer a selection list.
	Choice
)

// SlotDecision is the engine's output for one slot.
type SlotDecision struct {
	Decision  Decision `json:"decision"`
	Opponents []string `json:"opponents,omitempty"`
}

// FullyAvailable reports whether every member of the team marked the slot
// available. A solo team needs only its single member's row.
func FullyAvailable(team TeamAvailability, slot int64) bool {
	for _, member := range team.Members {
		if team.Slots[member][slot].State != availability.Available {
			return false
		}
	}
	return len(team.Members) > 0
}

// hasOpenMatch reports whether a non-completed match between the two teams
// already exists. Both confirmed and pending rows block a new pairing.
func hasOpenMatch(matches []ExistingMatch, a, b string) bool {
	for _, m := range matches {
		if m.Completed {
			continue
		}
		if (m.Team1 == a && m.Team2 == b) || (m.Team1 == b && m.Team2 == a) {
			return true
		}
	}
	return false
}

// Reconcile decides what a slot offers my team, given every other team in
// the ladder and the ladder's existing matches. Candidate order follows
// the order of the others slice; no tie-break is defined.
func Reconcile(myTeam TeamAvailability, others []TeamAvailability, matches []ExistingMatch, slot, now, ladderEnd int64) SlotDecision {
	if slot < now || slot >= ladderEnd {
		return SlotDecision{Decision: Unplayable}
	}
	if !FullyAvailable(myTeam, slot) {
		return SlotDecision{Decision: NotReady}
	}

	var candidates []string
	for _, other := range others {
		if other.TeamID == myTeam.TeamID {
			continue
		}
		if !FullyAvailable(other, slot) {
			continue
		}
		if hasOpenMatch(matches, myTeam.TeamID, other.TeamID) {
			continue
		}
		candidates = append(candidates, other.TeamID)
	}

	switch len(candidates) {
	case 0:
		return SlotDecision{Decision: NoOpponent}
	case 1:
		return SlotDecision{Decision: Direct, Opponents: candidates}
	default:
		return SlotDecision{Decision: Choice, Opponents: candidates}
	}
}

// Week runs Reconcile over every half-hour slot both my team and at least
// one opponent could play, returning only actionable or ready slots.
func Week(myTeam TeamAvailability, others []TeamAvailability, matches []ExistingMatch, weekStart, now, ladderEnd int64) map[int64]SlotDecision {
	const halfHour = 1800
	const slotsPerWeek = 7 * 48

	decisions := make(map[int64]SlotDecision)
	for i := 0; i < slotsPerWeek; i++ {
		slot := weekStart + int64(i)*halfHour
		d := Reconcile(myTeam, others, matches, slot, now, ladderEnd)
		if d.Decision == NoOpponent || d.Decision == Direct || d.Decision == Choice {
			decisions[slot] = d
		}
	}
	return decisions
}
