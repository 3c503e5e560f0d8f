package team_test

import (
	"testing"

	"github.com/matchpoint-club/matchpoint/internal/team"
	"github.com/stretchr/testify/assert"
)

func TestIDIsSymmetric(t *testing.T) {
	a := "0b6f2a1c-5a7e-4d2b-9c1f-111111111111"
	b := "f3e9d8c7-2b4a-4e6d-8a9b-222222222222"

	assert.Equal(t, team.ID(a, b), team.ID(b, a))
}

func TestIDSoloUser(t *testing.T) {
	a := "0b6f2a1c-5a7e-4d2b-9c1f-111111111111"

	assert.Equal(t, a, team.ID(a, ""))
	assert.Equal(t, a, team.ID(a, a))
	assert.True(t, team.Solo(a, ""))
	assert.True(t, team.Solo(a, a))
}

func TestIDSortsMembers(t *testing.T) {
	assert.Equal(t, "alice-bob", team.ID("bob", "alice"))
	assert.Equal(t, "alice-bob", team.ID("alice", "bob"))
}

func TestContains(t *testing.T) {
	a := "0b6f2a1c-5a7e-4d2b-9c1f-111111111111"
	b := "f3e9d8c7-2b4a-4e6d-8a9b-222222222222"
	c := "99999999-0000-4000-8000-333333333333"
	id := team.ID(a, b)

	assert.True(t, team.Contains(id, a))
	assert.True(t, team.Contains(id, b))
	assert.False(t, team.Contains(id, c))
	assert.False(t, team.Contains(id, ""))
}
