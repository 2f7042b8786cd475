package models

// Group represents a set of members sharing costs.
// Only group members may read or write group data; the owner additionally
// may edit or delete any member's expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// OwnerUserID is the user who created the group. The owner is always
	// also a member.
	OwnerUserID string

	// MemberIDs is the list of current member user IDs. Populated on load;
	// membership rows are stored separately.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is a current member of the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
