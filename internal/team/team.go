// Package team derives stable team identities from user and partner ids.
// A team id is the sorted join of its member ids, so both halves of a
// partnership resolve to the same team. The id is always recomputed from
// the current partner link, never persisted on its own.
package team

import "strings"

// ID returns the team identity for a user and their optional partner.
// A solo user's team id is just their own id.
func ID(userID string, partnerID string) string {
	if partnerID == "" || partnerID == userID {
		return userID
	}
	if partnerID < userID {
		return partnerID + "-" + userID
	}
	return userID + "-" + partnerID
}

// Contains reports whether the given user is a member of the team.
// User ids are UUIDs, so a containment check cannot produce false
// positives across distinct ids.
func Contains(teamID, userID string) bool {
	if userID == "" {
		return false
	}
	return strings.Contains(teamID, userID)
}

// Solo reports whether the team has a single member.
func Solo(userID, partnerID string) bool {
	return partnerID == "" || partnerID == userID
}
