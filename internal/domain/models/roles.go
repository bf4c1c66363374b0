// internal/domain/models/roles.go
package models

// Roles assignable to users. The role on the user document mirrors the role
// claim on the authentication identity; the identity claim is authoritative
// for access checks and the document field is derived from it at
// provisioning time.
const (
	RoleAdmin   = "admin"
	RoleMentor  = "mentor"
	RoleVisitor = "visitor"
)

// ValidRole reports whether role is one of the fixed role enum values.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMentor, RoleVisitor:
		return true
	}
	return false
}
