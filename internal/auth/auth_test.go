package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matchpoint-club/matchpoint/internal/auth"
	"github.com/matchpoint-club/matchpoint/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessions(t *testing.T, ttl time.Duration) (auth.Sessions, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO ladders (id, name, number, end_date) VALUES ('ladder-1', 'Division 1', 1, ?)`,
		time.Now().AddDate(0, 3, 0).Unix())
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, email, name, password_hash, ladder_id, created_at) VALUES ('user-1', 'anna@example.com', 'Anna', 'x', 'ladder-1', 0)`)
	require.NoError(t, err)

	return auth.NewSessions(db, ttl), dbTeardown
}

func TestSessionLifecycle(t *testing.T) {
	sessions, teardown := setupSessions(t, time.Hour)
	defer teardown()

	token, err := sessions.Create("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := sessions.Lookup(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "anna@example.com", p.Email)

	require.NoError(t, sessions.Destroy(token))
	_, err = sessions.Lookup(token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestExpiredSessionRejected(t *testing.T) {
	sessions, teardown := setupSessions(t, -time.Minute)
	defer teardown()

	token, err := sessions.Create("user-1")
	require.NoError(t, err)

	_, err = sessions.Lookup(token)
	assert.ErrorIs(t, err, auth.ErrInvalidSession)

	n, err := sessions.PruneExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMiddleware(t *testing.T) {
	sessions, teardown := setupSessions(t, time.Hour)
	defer teardown()

	token, err := sessions.Create("user-1")
	require.NoError(t, err)

	var seen *auth.Principal
	handler := auth.Middleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No cookie.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Bad token.
	rr = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "bogus"})
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Valid session resolves a principal.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
}
