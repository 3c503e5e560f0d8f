package ladder

// LadderStore defines the interface for interacting with ladder data.
type LadderStore interface {
	List() ([]Ladder, error)
	Get(id string) (*Ladder, error)
	Create(l Ladder) error
	// Standings aggregates completed matches into per-team results, ordered
	// by wins descending.
	Standings(ladderID string) ([]Standing, error)
	// Switch moves the given users to another ladder and, in the same
	// transaction, deletes all availability and matches referencing them.
	Switch(userIDs []string, newLadderID string) error
}
