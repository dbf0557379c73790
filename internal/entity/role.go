package entity

// Role is a user's privilege level
type Role string

const (
	RoleLevel1 Role = "Level 1"
	RoleLevel2 Role = "Level 2"
	RoleLevel3 Role = "Level 3"
)

// Rank orders roles so they can be compared. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleLevel1:
		return 1
	case RoleLevel2:
		return 2
	case RoleLevel3:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the three known levels
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r is min or higher
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}
