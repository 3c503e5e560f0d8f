package player

// PlayerStore defines the interface for interacting with player data.
type PlayerStore interface {
	// Register creates an unverified user and returns it together with the
	// email verification token.
	Register(email, name, password, ladderID string) (*User, string, error)
	// Verify activates the user holding the given verification token.
	Verify(token string) (*User, error)
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	// RequestPasswordReset stores a short-lived OTP for the user and returns it.
	RequestPasswordReset(email string) (*User, string, error)
	ResetPassword(email, otp, newPassword string) error
	UpdateProfile(id string, upd ProfileUpdate) (*User, error)
	// LinkPartner creates a reciprocal partner link. If the partner is in a
	// different ladder they are migrated to the user's ladder and their
	// availability and matches are wiped, all in one transaction.
	LinkPartner(userID, partnerEmail string) (*User, error)
	UnlinkPartner(userID string) error
	// Delete removes the account together with its availability rows and any
	// matches its team is part of.
	Delete(userID string) error
	ListByLadder(ladderID string) ([]User, error)
}
