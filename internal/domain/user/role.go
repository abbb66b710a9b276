package user

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleBarber Role = "BARBER"
	RoleOwner  Role = "OWNER"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleBarber || r == RoleOwner
}

// Satisfies reports whether r passes a check for any of required.
// OWNER passes every check.
func (r Role) Satisfies(required ...Role) bool {
	if r == RoleOwner {
		return true
	}
	for _, want := range required {
		if r == want {
			return true
		}
	}
	return false
}
