package middleware

// Actor is the authenticated caller as seen by authorization checks.
type Actor struct {
	UserID   string
	Username string
	Role     string
}

func (a Actor) IsAdmin() bool { return a.Role == "admin" }

// Capability is the access level a resource action demands.
type Capability int

const (
	Public Capability = iota
	Authenticated
	Owner // the resource's owner, or an admin
	Admin
)

// Allow is the single authorization policy: every role/ownership check in
// the handlers goes through it instead of ad hoc role-string comparisons.
// resourceOwner is the owning user's id, or "" when ownership does not apply.
func Allow(a Actor, resourceOwner string, c Capability) bool {
	switch c {
	case Public:
		return true
	case Authenticated:
		return a.UserID != ""
	case Owner:
		return a.IsAdmin() || (a.UserID != "" && a.UserID == resourceOwner)
	case Admin:
		return a.IsAdmin()
	default:
		return false
	}
}
