package availability

// The calendar gestures are modeled as pure transition functions over
// SlotState so a slot can never be available and unavailable at once.

// Cycle advances a slot through the owner's single-click cycle:
// unset -> available -> unavailable -> unset.
func Cycle(cur SlotState, owner string) SlotState {
	switch cur.State {
	case Unset:
		return SlotState{State: Available, SetBy: owner}
	case Available:
		return SlotState{State: NotAvailable, SetBy: owner}
	default:
		return SlotState{}
	}
}

// ToggleBoth is the double-click gesture on one's own slot: it marks both
// the owner and the partner available in one step, tagging the partner's
// row as set by the owner. If the partner slot was previously set by the
// owner, the gesture removes that entry instead; a slot the partner set
// for themselves is never touched.
func ToggleBoth(mine, partners SlotState, owner, partner string) (SlotState, SlotState) {
	if partners.State != Unset && partners.SetBy == owner {
		return SlotState{State: Available, SetBy: owner}, SlotState{}
	}
	if partners.SelfSet(partner) {
		return SlotState{State: Available, SetBy: owner}, partners
	}
	return SlotState{State: Available, SetBy: owner}, SlotState{State: Available, SetBy: owner}
}

// Overlay is a proxy-editing session's uncommitted changes, keyed by slot.
// A touched slot with Unset state clears the committed row on save.
type Overlay map[int64]State

// Effective returns the state a slot shows while a proxy overlay is
// active: the overlay value if the slot was touched this session,
// otherwise the committed base state.
func (o Overlay) Effective(slot int64, base SlotState) State {
	if st, ok := o[slot]; ok {
		return st
	}
	return base.State
}

// CycleProxy advances a slot within a proxy-editing session. The cycle is
// interpreted relative to the effective (committed plus overlay) state, so
// repeated clicks walk available -> unavailable -> unset regardless of
// what was already stored.
func (o Overlay) CycleProxy(slot int64, base SlotState) {
	switch o.Effective(slot, base) {
	case Unset:
		o[slot] = Available
	case Available:
		o[slot] = NotAvailable
	default:
		o[slot] = Unset
	}
}
