package auth

// Role constants.
const (
	RoleViewer = "viewer"
	RoleCoach  = "coach"
)

// AllRoles returns every role a token may carry.
func AllRoles() []string {
	return []string{RoleViewer, RoleCoach}
}

// WriteRoles returns roles that can modify records or generate reports.
func WriteRoles() []string {
	return []string{RoleCoach}
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	return role == RoleViewer || role == RoleCoach
}
