package ladder_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/matchpoint-club/matchpoint/internal/database"
	"github.com/matchpoint-club/matchpoint/internal/ladder"
	"github.com/matchpoint-club/matchpoint/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (ladder.LadderStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := ladder.New(db)
	endDate := time.Now().AddDate(0, 3, 0).Unix()
	require.NoError(t, store.Create(ladder.Ladder{ID: "ladder-1", Name: "Division 1", Number: 1, EndDate: endDate, SetsToWin: 2, GamesPerSet: 6, Tiebreak: true}))
	require.NoError(t, store.Create(ladder.Ladder{ID: "ladder-2", Name: "Division 2", Number: 2, EndDate: endDate, SetsToWin: 2, GamesPerSet: 6, Tiebreak: true}))

	return store, db, dbTeardown
}

func addUser(t *testing.T, db *sql.DB, id, ladderID string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, email, name, password_hash, ladder_id, created_at) VALUES (?, ? || '@example.com', ?, 'x', ?, 0)`, id, id, id, ladderID)
	require.NoError(t, err)
}

func TestListAndGet(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	ladders, err := store.List()
	require.NoError(t, err)
	require.Len(t, ladders, 2)
	assert.Equal(t, "Division 1", ladders[0].Name, "ordered by number")

	l, err := store.Get("ladder-2")
	require.NoError(t, err)
	assert.Equal(t, 2, l.Number)
	assert.True(t, l.Tiebreak)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ladder.ErrNotFound)
}

func TestStandingsAggregation(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	matches := match.New(db)
	m1, err := matches.Confirm(1000, "team-a", "team-b", "ladder-1")
	require.NoError(t, err)
	_, err = matches.Score(m1.ID, 2, 1, "6-4,3-6,7-5")
	require.NoError(t, err)

	m2, err := matches.Confirm(2000, "team-a", "team-c", "ladder-1")
	require.NoError(t, err)
	_, err = matches.Score(m2.ID, 0, 2, "2-6,4-6")
	require.NoError(t, err)

	// An unfinished match does not count.
	_, err = matches.Confirm(3000, "team-b", "team-c", "ladder-1")
	require.NoError(t, err)

	standings, err := store.Standings("ladder-1")
	require.NoError(t, err)
	require.Len(t, standings, 3)

	byTeam := map[string]ladder.Standing{}
	for _, st := range standings {
		byTeam[st.TeamID] = st
	}
	assert.Equal(t, 1, byTeam["team-a"].Wins)
	assert.Equal(t, 1, byTeam["team-a"].Losses)
	assert.Equal(t, 2, byTeam["team-a"].MatchesPlayed)
	assert.Equal(t, 2, byTeam["team-a"].SetsWon+byTeam["team-a"].SetsLost-2)
	assert.Equal(t, 1, byTeam["team-c"].Wins)
	assert.Equal(t, 0, byTeam["team-b"].Wins)

	// Winner with the most wins sorts first.
	assert.GreaterOrEqual(t, byTeam[standings[0].TeamID].Wins, byTeam[standings[1].TeamID].Wins)
}

func TestSwitchWipesMatchesAndAvailability(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	addUser(t, db, "user-x", "ladder-1")
	addUser(t, db, "user-p", "ladder-1")

	_, err := db.Exec("INSERT INTO availability (user_id, start_at, week_start, state, set_by_user_id) VALUES ('user-x', 1000, 0, 'AVAILABLE', 'user-x')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO availability (user_id, start_at, week_start, state, set_by_user_id) VALUES ('user-p', 1000, 0, 'AVAILABLE', 'user-p')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO matches (id, start_at, team1_id, team2_id, ladder_id, confirmed, completed, created_at) VALUES ('m1', 1000, 'user-p-user-x', 'other-team', 'ladder-1', 1, 0, 0)")
	require.NoError(t, err)

	require.NoError(t, store.Switch([]string{"user-x", "user-p"}, "ladder-2"))

	var ladderID string
	require.NoError(t, db.QueryRow("SELECT ladder_id FROM users WHERE id = 'user-x'").Scan(&ladderID))
	assert.Equal(t, "ladder-2", ladderID)
	require.NoError(t, db.QueryRow("SELECT ladder_id FROM users WHERE id = 'user-p'").Scan(&ladderID))
	assert.Equal(t, "ladder-2", ladderID)

	var avail, matches int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM availability").Scan(&avail))
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM matches").Scan(&matches))
	assert.Zero(t, avail)
	assert.Zero(t, matches)
}

func TestSwitchUnknownLadder(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	addUser(t, db, "user-x", "ladder-1")
	assert.ErrorIs(t, store.Switch([]string{"user-x"}, "missing"), ladder.ErrNotFound)
}
