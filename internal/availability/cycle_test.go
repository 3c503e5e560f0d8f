package availability_test

import (
	"testing"

	"github.com/matchpoint-club/matchpoint/internal/availability"
	"github.com/stretchr/testify/assert"
)

func TestCycleWalksThreeStates(t *testing.T) {
	owner := "user-1"

	st := availability.Cycle(availability.SlotState{}, owner)
	assert.Equal(t, availability.Available, st.State)
	assert.Equal(t, owner, st.SetBy)

	st = availability.Cycle(st, owner)
	assert.Equal(t, availability.NotAvailable, st.State)

	st = availability.Cycle(st, owner)
	assert.Equal(t, availability.Unset, st.State)
	assert.Empty(t, st.SetBy)
}

func TestToggleBothSetsPartner(t *testing.T) {
	owner, partner := "user-1", "user-2"

	mine, theirs := availability.ToggleBoth(availability.SlotState{}, availability.SlotState{}, owner, partner)
	assert.Equal(t, availability.Available, mine.State)
	assert.Equal(t, availability.Available, theirs.State)
	assert.Equal(t, owner, theirs.SetBy, "partner row is tagged as set by the owner")
}

func TestToggleBothRemovesOwnPartnerEntry(t *testing.T) {
	owner, partner := "user-1", "user-2"

	// A partner entry previously written by the owner toggles off.
	prev := availability.SlotState{State: availability.Available, SetBy: owner}
	_, theirs := availability.ToggleBoth(availability.SlotState{}, prev, owner, partner)
	assert.Equal(t, availability.Unset, theirs.State)
}

func TestToggleBothPreservesPartnerSelfSet(t *testing.T) {
	owner, partner := "user-1", "user-2"

	selfSet := availability.SlotState{State: availability.NotAvailable, SetBy: partner}
	mine, theirs := availability.ToggleBoth(availability.SlotState{}, selfSet, owner, partner)
	assert.Equal(t, availability.Available, mine.State)
	assert.Equal(t, selfSet, theirs, "a slot the partner set for themselves is never touched")
}

func TestOverlayEffectiveAndProxyCycle(t *testing.T) {
	overlay := availability.Overlay{}
	base := availability.SlotState{State: availability.Available, SetBy: "user-2"}

	// Untouched slot shows the committed state.
	assert.Equal(t, availability.Available, overlay.Effective(100, base))

	// The proxy cycle runs relative to the effective state, so the first
	// click on an already-available slot moves to unavailable.
	overlay.CycleProxy(100, base)
	assert.Equal(t, availability.NotAvailable, overlay.Effective(100, base))

	overlay.CycleProxy(100, base)
	assert.Equal(t, availability.Unset, overlay.Effective(100, base))

	overlay.CycleProxy(100, base)
	assert.Equal(t, availability.Available, overlay.Effective(100, base))
}
