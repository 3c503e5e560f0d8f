package match

// MatchStore defines the interface for interacting with match data.
type MatchStore interface {
	// Confirm creates a confirmed match for a slot. The team pair is stored
	// in canonical sorted order. If a confirmed, non-completed match already
	// exists for the pair in this ladder a *ConflictError carrying the
	// existing row is returned.
	Confirm(startAt int64, teamA, teamB, ladderID string) (*Match, error)
	Get(id string) (*Match, error)
	// Reschedule moves the match to a new slot. Only a member of one of the
	// two teams may do it. The new slot is not re-validated against either
	// team's availability.
	Reschedule(id string, newStart int64, actorUserID string) (*Match, error)
	// Cancel deletes the match row and returns what was deleted.
	Cancel(id string, actorUserID string) (*Match, error)
	// Score records the result and marks the match completed. A completed
	// match cannot be re-scored, and the winning side must reach exactly
	// the ladder's sets_to_win.
	Score(id string, team1Score, team2Score int, detailedScore string) (*Match, error)
	ForLadderWeek(ladderID string, weekStart int64) ([]Match, error)
	// ForTeam returns the team's match history in the ladder, oldest first.
	ForTeam(teamID string) ([]Match, error)
	// OpenForLadder returns all non-completed matches in the ladder. Input
	// to the reconciliation engine.
	OpenForLadder(ladderID string) ([]Match, error)
}
