package availability_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/matchpoint-club/matchpoint/internal/availability"
	"github.com/matchpoint-club/matchpoint/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const week = int64(1749427200) // 2025-06-09T00:00:00Z, a Monday

func setupTestDB(t *testing.T) (availability.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO ladders (id, name, number, end_date) VALUES ('ladder-1', 'Division 1', 1, ?)`,
		time.Now().AddDate(0, 3, 0).Unix())
	require.NoError(t, err)
	for _, id := range []string{"user-a", "user-b", "user-c"} {
		_, err = db.Exec(`INSERT INTO users (id, email, name, password_hash, ladder_id, created_at) VALUES (?, ? || '@example.com', ?, 'x', 'ladder-1', 0)`, id, id, id)
		require.NoError(t, err)
	}

	return availability.New(db), db, dbTeardown
}

func TestReplaceWeekRoundTrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	t1, t2 := week+18*3600, week+18*3600+1800
	err := store.ReplaceWeek("user-a", "", week, []availability.Entry{
		{UserID: "user-a", StartAt: t1, State: availability.Available, SetBy: "user-a"},
		{UserID: "user-a", StartAt: t2, State: availability.Available, SetBy: "user-a"},
	})
	require.NoError(t, err)

	view, err := store.Week("user-a", "", week)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{t1, t2}, view.MySlots)
	assert.Empty(t, view.MyUnavailable)

	// Saving a different set replaces, not appends.
	err = store.ReplaceWeek("user-a", "", week, []availability.Entry{
		{UserID: "user-a", StartAt: t2, State: availability.NotAvailable, SetBy: "user-a"},
	})
	require.NoError(t, err)

	view, err = store.Week("user-a", "", week)
	require.NoError(t, err)
	assert.Empty(t, view.MySlots)
	assert.ElementsMatch(t, []int64{t2}, view.MyUnavailable)
}

func TestReplaceWeekPreservesPartnerSelfSet(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	slot := week + 18*3600

	// Partner marks themselves unavailable.
	require.NoError(t, store.ReplaceWeek("user-b", "user-a", week, []availability.Entry{
		{UserID: "user-b", StartAt: slot, State: availability.NotAvailable, SetBy: "user-b"},
	}))

	// A's save includes a partner entry for the same slot; B's own row wins.
	require.NoError(t, store.ReplaceWeek("user-a", "user-b", week, []availability.Entry{
		{UserID: "user-a", StartAt: slot, State: availability.Available, SetBy: "user-a"},
		{UserID: "user-b", StartAt: slot, State: availability.Available, SetBy: "user-a"},
	}))

	states, err := store.ForUsers([]string{"user-b"}, week)
	require.NoError(t, err)
	assert.Equal(t, availability.SlotState{State: availability.NotAvailable, SetBy: "user-b"}, states["user-b"][slot])
}

func TestReplaceWeekValidatesEntries(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	err := store.ReplaceWeek("user-a", "user-b", week, []availability.Entry{
		{UserID: "user-c", StartAt: week, State: availability.Available, SetBy: "user-a"},
	})
	assert.ErrorIs(t, err, availability.ErrBadEntry)

	err = store.ReplaceWeek("user-a", "user-b", week, []availability.Entry{
		{UserID: "user-b", StartAt: week, State: availability.Available, SetBy: "user-b"},
	})
	assert.ErrorIs(t, err, availability.ErrBadEntry, "partner entries must carry the author's id")
}

func TestProxySavePreservesSelfSetRows(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	selfSlot, proxySlot := week+10*3600, week+11*3600

	require.NoError(t, store.ReplaceWeek("user-b", "", week, []availability.Entry{
		{UserID: "user-b", StartAt: selfSlot, State: availability.Available, SetBy: "user-b"},
	}))

	err := store.ProxySave("user-c", "user-b", week, availability.Overlay{
		selfSlot:  availability.NotAvailable,
		proxySlot: availability.Available,
	})
	require.NoError(t, err)

	states, err := store.ForUsers([]string{"user-b"}, week)
	require.NoError(t, err)

	// The self-set row keeps both its state and its provenance.
	assert.Equal(t, availability.SlotState{State: availability.Available, SetBy: "user-b"}, states["user-b"][selfSlot])
	assert.Equal(t, availability.SlotState{State: availability.Available, SetBy: "user-c"}, states["user-b"][proxySlot])
}

func TestProxySaveReplacesEarlierProxyRows(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	slot := week + 10*3600

	require.NoError(t, store.ProxySave("user-c", "user-b", week, availability.Overlay{
		slot: availability.Available,
	}))
	require.NoError(t, store.ProxySave("user-a", "user-b", week, availability.Overlay{
		slot: availability.NotAvailable,
	}))

	states, err := store.ForUsers([]string{"user-b"}, week)
	require.NoError(t, err)
	assert.Equal(t, availability.SlotState{State: availability.NotAvailable, SetBy: "user-a"}, states["user-b"][slot])

	// An Unset touch clears the proxy row entirely.
	require.NoError(t, store.ProxySave("user-a", "user-b", week, availability.Overlay{
		slot: availability.Unset,
	}))
	states, err = store.ForUsers([]string{"user-b"}, week)
	require.NoError(t, err)
	assert.Equal(t, availability.Unset, states["user-b"][slot].State)
}

func TestTakeoverReclaimsProxyRows(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	slot := week + 10*3600
	require.NoError(t, store.ProxySave("user-c", "user-b", week, availability.Overlay{
		slot: availability.Available,
	}))

	require.NoError(t, store.Takeover("user-b", week, map[int64]availability.State{
		slot: availability.NotAvailable,
	}))

	states, err := store.ForUsers([]string{"user-b"}, week)
	require.NoError(t, err)
	assert.Equal(t, availability.SlotState{State: availability.NotAvailable, SetBy: "user-b"}, states["user-b"][slot])
}

func TestPruneBefore(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	past, future := week, week+7*24*3600
	require.NoError(t, store.ReplaceWeek("user-a", "", week, []availability.Entry{
		{UserID: "user-a", StartAt: past, State: availability.Available, SetBy: "user-a"},
		{UserID: "user-a", StartAt: future, State: availability.Available, SetBy: "user-a"},
	}))

	n, err := store.PruneBefore(week + 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	states, err := store.ForUsers([]string{"user-a"}, week)
	require.NoError(t, err)
	assert.Len(t, states["user-a"], 1)
}

func TestSetSlotUpsertsAndClears(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	slot := week + 17*3600

	err := store.SetSlot("user-a", week, slot, availability.SlotState{State: availability.Available, SetBy: "user-a"})
	require.NoError(t, err)

	states, err := store.ForUsers([]string{"user-a"}, week)
	require.NoError(t, err)
	assert.Equal(t, availability.SlotState{State: availability.Available, SetBy: "user-a"}, states["user-a"][slot])

	// A second set on the same slot replaces state and provenance in place.
	err = store.SetSlot("user-a", week, slot, availability.SlotState{State: availability.NotAvailable, SetBy: "user-b"})
	require.NoError(t, err)

	states, err = store.ForUsers([]string{"user-a"}, week)
	require.NoError(t, err)
	assert.Equal(t, availability.SlotState{State: availability.NotAvailable, SetBy: "user-b"}, states["user-a"][slot])

	// Setting Unset behaves like ClearSlot.
	err = store.SetSlot("user-a", week, slot, availability.SlotState{})
	require.NoError(t, err)

	states, err = store.ForUsers([]string{"user-a"}, week)
	require.NoError(t, err)
	assert.Empty(t, states["user-a"])

	require.NoError(t, store.SetSlot("user-a", week, slot, availability.SlotState{State: availability.Available, SetBy: "user-a"}))
	require.NoError(t, store.ClearSlot("user-a", slot))

	states, err = store.ForUsers([]string{"user-a"}, week)
	require.NoError(t, err)
	assert.Empty(t, states["user-a"])
}

func TestWritesRejectSlotsOutsideWeek(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	outside := week + 8*24*3600

	err := store.ReplaceWeek("user-a", "", week, []availability.Entry{
		{UserID: "user-a", StartAt: outside, State: availability.Available, SetBy: "user-a"},
	})
	assert.ErrorIs(t, err, availability.ErrBadEntry, "a slot after the week would vanish from weekly reads")

	err = store.ReplaceWeek("user-a", "", week, []availability.Entry{
		{UserID: "user-a", StartAt: week - 1800, State: availability.Available, SetBy: "user-a"},
	})
	assert.ErrorIs(t, err, availability.ErrBadEntry)

	err = store.ProxySave("user-c", "user-b", week, availability.Overlay{outside: availability.Available})
	assert.ErrorIs(t, err, availability.ErrBadEntry)

	err = store.Takeover("user-a", week, map[int64]availability.State{outside: availability.Available})
	assert.ErrorIs(t, err, availability.ErrBadEntry)

	err = store.SetSlot("user-a", week, outside, availability.SlotState{State: availability.Available, SetBy: "user-a"})
	assert.ErrorIs(t, err, availability.ErrBadEntry)
}
