package schedule_test

import (
	"testing"

	"github.com/matchpoint-club/matchpoint/internal/availability"
	"github.com/matchpoint-club/matchpoint/internal/schedule"
	"github.com/stretchr/testify/assert"
)

const (
	now       = int64(1749427200) // 2025-06-09T00:00:00Z
	slot      = now + 18*3600     // same day, 18:00
	ladderEnd = now + 90*24*3600
)

func soloTeam(id string, st availability.State) schedule.TeamAvailability {
	slots := map[int64]availability.SlotState{}
	if st != availability.Unset {
		slots[slot] = availability.SlotState{State: st, SetBy: id}
	}
	return schedule.TeamAvailability{
		TeamID:  id,
		Members: []string{id},
		Slots:   map[string]map[int64]availability.SlotState{id: slots},
	}
}

func duoTeam(a, b string, stA, stB availability.State) schedule.TeamAvailability {
	mk := func(id string, st availability.State) map[int64]availability.SlotState {
		m := map[int64]availability.SlotState{}
		if st != availability.Unset {
			m[slot] = availability.SlotState{State: st, SetBy: id}
		}
		return m
	}
	return schedule.TeamAvailability{
		TeamID:  a + "-" + b,
		Members: []string{a, b},
		Slots:   map[string]map[int64]availability.SlotState{a: mk(a, stA), b: mk(b, stB)},
	}
}

func TestFullyAvailable(t *testing.T) {
	assert.True(t, schedule.FullyAvailable(soloTeam("x", availability.Available), slot))
	assert.False(t, schedule.FullyAvailable(soloTeam("x", availability.NotAvailable), slot))
	assert.False(t, schedule.FullyAvailable(soloTeam("x", availability.Unset), slot))

	assert.True(t, schedule.FullyAvailable(duoTeam("a", "b", availability.Available, availability.Available), slot))
	// A single unavailable or unset member makes the whole team unavailable.
	assert.False(t, schedule.FullyAvailable(duoTeam("a", "b", availability.Available, availability.NotAvailable), slot))
	assert.False(t, schedule.FullyAvailable(duoTeam("a", "b", availability.Available, availability.Unset), slot))
}

func TestReconcileSoloVersusSolo(t *testing.T) {
	me := soloTeam("x", availability.Available)
	them := soloTeam("y", availability.Available)

	d := schedule.Reconcile(me, []schedule.TeamAvailability{them}, nil, slot, now, ladderEnd)
	assert.Equal(t, schedule.Direct, d.Decision)
	assert.Equal(t, []string{"y"}, d.Opponents)
}

func TestReconcileMultipleCandidatesKeepInsertionOrder(t *testing.T) {
	me := soloTeam("x", availability.Available)
	others := []schedule.TeamAvailability{
		soloTeam("y", availability.Available),
		soloTeam("z", availability.Available),
	}

	d := schedule.Reconcile(me, others, nil, slot, now, ladderEnd)
	assert.Equal(t, schedule.Choice, d.Decision)
	assert.Equal(t, []string{"y", "z"}, d.Opponents)
}

func TestReconcileExcludesBookedPairs(t *testing.T) {
	me := soloTeam("x", availability.Available)
	others := []schedule.TeamAvailability{
		soloTeam("y", availability.Available),
		soloTeam("z", availability.Available),
	}
	matches := []schedule.ExistingMatch{{Team1: "x", Team2: "y"}}

	d := schedule.Reconcile(me, others, matches, slot, now, ladderEnd)
	assert.Equal(t, schedule.Direct, d.Decision)
	assert.Equal(t, []string{"z"}, d.Opponents)

	// A completed match no longer blocks a rematch.
	matches = []schedule.ExistingMatch{{Team1: "x", Team2: "y", Completed: true}}
	d = schedule.Reconcile(me, others, matches, slot, now, ladderEnd)
	assert.Equal(t, schedule.Choice, d.Decision)
	assert.Equal(t, []string{"y", "z"}, d.Opponents)
}

func TestReconcileNoOpponent(t *testing.T) {
	me := soloTeam("x", availability.Available)
	others := []schedule.TeamAvailability{soloTeam("y", availability.NotAvailable)}

	d := schedule.Reconcile(me, others, nil, slot, now, ladderEnd)
	assert.Equal(t, schedule.NoOpponent, d.Decision)
}

func TestReconcilePastAndEndedSlots(t *testing.T) {
	me := soloTeam("x", availability.Available)
	them := []schedule.TeamAvailability{soloTeam("y", availability.Available)}

	d := schedule.Reconcile(me, them, nil, slot, slot+1, ladderEnd)
	assert.Equal(t, schedule.Unplayable, d.Decision, "past slots are read-only")

	d = schedule.Reconcile(me, them, nil, slot, now, slot)
	assert.Equal(t, schedule.Unplayable, d.Decision, "slots at or after the ladder end are read-only")
}

func TestReconcileSkipsOwnTeam(t *testing.T) {
	me := soloTeam("x", availability.Available)

	d := schedule.Reconcile(me, []schedule.TeamAvailability{me}, nil, slot, now, ladderEnd)
	assert.Equal(t, schedule.NoOpponent, d.Decision)
}

func TestWeekOnlyReturnsActionableSlots(t *testing.T) {
	me := soloTeam("x", availability.Available)
	them := []schedule.TeamAvailability{soloTeam("y", availability.Available)}

	decisions := schedule.Week(me, them, nil, now, now, ladderEnd)
	assert.Len(t, decisions, 1)
	assert.Equal(t, schedule.Direct, decisions[slot].Decision)
}
