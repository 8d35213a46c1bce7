package roles

const (
	Public     = "public"
	Viewer     = "viewer"
	Editor     = "editor"
	Admin      = "admin"
	SuperAdmin = "super_admin"
)

var rank = map[string]int{
	Public:     0,
	Viewer:     1,
	Editor:     2,
	Admin:      3,
	SuperAdmin: 4,
}

// Assignable returns the roles an administrator may grant to an account.
func Assignable() []string {
	return []string{Viewer, Editor, Admin, SuperAdmin}
}

func IsValid(role string) bool {
	_, ok := rank[role]
	return ok
}

// Rank maps a role to its position in the hierarchy. An empty or unknown
// role ranks as public, which is what an unauthenticated caller holds.
func Rank(role string) int {
	if level, ok := rank[role]; ok {
		return level
	}
	return rank[Public]
}

// HasMinimumRole reports whether actorRole meets or exceeds requiredRole.
func HasMinimumRole(actorRole, requiredRole string) bool {
	return Rank(actorRole) >= Rank(requiredRole)
}

// CanAssignRole reports whether actorRole may grant targetRole to another
// account. Super admins may grant anything; admins may grant any role
// strictly below super_admin; nobody else grants roles.
func CanAssignRole(actorRole, targetRole string) bool {
	if !IsValid(targetRole) {
		return false
	}
	if actorRole == SuperAdmin {
		return true
	}
	if actorRole == Admin {
		return Rank(targetRole) < Rank(SuperAdmin)
	}
	return false
}

// CanModifyUser reports whether actorRole may act on an account that
// currently holds subjectRole. Super admin accounts are off limits to
// everyone except super admins.
func CanModifyUser(actorRole, subjectRole string) bool {
	if actorRole == SuperAdmin {
		return true
	}
	return subjectRole != SuperAdmin
}
