// internal/app/system/status/status.go
package status

// User document lifecycle statuses.
//
// invited:  credentials sent, user has not signed in yet
// active:   user has signed in at least once
// disabled: access revoked (identity disabled, document retained or removed)
const (
	Invited  = "invited"
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a recognized status value.
func IsValid(s string) bool {
	switch s {
	case Invited, Active, Disabled:
		return true
	}
	return false
}
