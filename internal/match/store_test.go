package match_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/matchpoint-club/matchpoint/internal/database"
	"github.com/matchpoint-club/matchpoint/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userX = "0b6f2a1c-5a7e-4d2b-9c1f-111111111111"
	userY = "f3e9d8c7-2b4a-4e6d-8a9b-222222222222"
	userZ = "99999999-0000-4000-8000-333333333333"
)

func setupTestDB(t *testing.T) (match.MatchStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO ladders (id, name, number, end_date) VALUES ('ladder-1', 'Division 1', 1, ?)`,
		time.Now().AddDate(0, 3, 0).Unix())
	require.NoError(t, err)

	return match.New(db), db, dbTeardown
}

func TestConfirmSortsTeamPair(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Confirm(1000, userY, userX, "ladder-1")
	require.NoError(t, err)

	assert.Equal(t, userX, m.Team1ID, "pair is stored in canonical sorted order")
	assert.Equal(t, userY, m.Team2ID)
	assert.True(t, m.Confirmed)
	assert.False(t, m.Completed)
}

func TestConfirmDuplicatePairReturnsConflict(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	first, err := store.Confirm(1000, userX, userY, "ladder-1")
	require.NoError(t, err)

	// Same pair in either order conflicts, carrying the existing match.
	_, err = store.Confirm(2000, userY, userX, "ladder-1")
	require.ErrorIs(t, err, match.ErrConflict)
	var conflict *match.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.Existing.ID)
	assert.Equal(t, first.StartAt, conflict.Existing.StartAt)

	// A completed match between the pair does not block a new one.
	_, err = store.Score(first.ID, 2, 1, "6-4,3-6,7-5")
	require.NoError(t, err)
	_, err = store.Confirm(3000, userX, userY, "ladder-1")
	require.NoError(t, err)
}

func TestRescheduleRequiresMembership(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Confirm(1000, userX, userY, "ladder-1")
	require.NoError(t, err)

	_, err = store.Reschedule(m.ID, 5000, userZ)
	assert.ErrorIs(t, err, match.ErrForbidden)

	updated, err := store.Reschedule(m.ID, 5000, userX)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), updated.StartAt)

	_, err = store.Reschedule("missing", 5000, userX)
	assert.ErrorIs(t, err, match.ErrNotFound)
}

func TestCancelDeletesRow(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Confirm(1000, userX, userY, "ladder-1")
	require.NoError(t, err)

	_, err = store.Cancel(m.ID, userZ)
	assert.ErrorIs(t, err, match.ErrForbidden)

	cancelled, err := store.Cancel(m.ID, userY)
	require.NoError(t, err)
	assert.Equal(t, m.ID, cancelled.ID)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM matches").Scan(&count))
	assert.Zero(t, count)

	// The freed pair can confirm again.
	_, err = store.Confirm(1000, userX, userY, "ladder-1")
	require.NoError(t, err)
}

func TestScoreCompletesMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Confirm(1000, userX, userY, "ladder-1")
	require.NoError(t, err)

	scored, err := store.Score(m.ID, 2, 0, "6-2,6-3")
	require.NoError(t, err)
	assert.True(t, scored.Completed)
	require.NotNil(t, scored.Team1Score)
	require.NotNil(t, scored.Team2Score)
	assert.Equal(t, 2, *scored.Team1Score)
	assert.Equal(t, 0, *scored.Team2Score)
	require.NotNil(t, scored.DetailedScore)
	assert.Equal(t, "6-2,6-3", *scored.DetailedScore)

	_, err = store.Score("missing", 1, 0, "")
	assert.ErrorIs(t, err, match.ErrNotFound)
}

func TestLadderQueries(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	weekStart := int64(1749427200)
	inWeek, err := store.Confirm(weekStart+3600, userX, userY, "ladder-1")
	require.NoError(t, err)
	_, err = store.Confirm(weekStart+8*24*3600, userX, userZ, "ladder-1")
	require.NoError(t, err)

	week, err := store.ForLadderWeek("ladder-1", weekStart)
	require.NoError(t, err)
	require.Len(t, week, 1)
	assert.Equal(t, inWeek.ID, week[0].ID)

	open, err := store.OpenForLadder("ladder-1")
	require.NoError(t, err)
	assert.Len(t, open, 2)

	_, err = store.Score(inWeek.ID, 2, 1, "")
	require.NoError(t, err)
	open, err = store.OpenForLadder("ladder-1")
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestScoreRejectsCompletedMatch(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Confirm(1000, userX, userY, "ladder-1")
	require.NoError(t, err)

	scored, err := store.Score(m.ID, 2, 1, "6-4,3-6,7-5")
	require.NoError(t, err)
	require.True(t, scored.Completed)

	// A recorded result is final.
	_, err = store.Score(m.ID, 0, 2, "")
	assert.ErrorIs(t, err, match.ErrAlreadyScored)

	reloaded, err := store.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, *reloaded.Team1Score)
	assert.Equal(t, 1, *reloaded.Team2Score)
}

func TestScoreValidatesMatchFormat(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	m, err := store.Confirm(1000, userX, userY, "ladder-1")
	require.NoError(t, err)

	// The seeded ladder plays best of three: the winner records exactly 2.
	for _, scores := range [][2]int{{3, 0}, {1, 0}, {2, 2}, {-1, 2}, {2, -1}} {
		_, err = store.Score(m.ID, scores[0], scores[1], "")
		assert.ErrorIs(t, err, match.ErrBadScore, "scores %v should be rejected", scores)
	}

	reloaded, err := store.Get(m.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Completed)
}

func TestForTeamListsHistory(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	early, err := store.Confirm(2000, userX, userY, "ladder-1")
	require.NoError(t, err)
	late, err := store.Confirm(5000, userZ, userX, "ladder-1")
	require.NoError(t, err)
	_, err = store.Confirm(3000, userY, userZ, "ladder-1")
	require.NoError(t, err)

	history, err := store.ForTeam(userX)
	require.NoError(t, err)
	require.Len(t, history, 2, "only matches involving the team are listed")
	assert.Equal(t, early.ID, history[0].ID, "history is ordered oldest first")
	assert.Equal(t, late.ID, history[1].ID)

	history, err = store.ForTeam("not-a-team")
	require.NoError(t, err)
	assert.Empty(t, history)
}
