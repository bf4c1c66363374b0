// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a program participant or staff member: admins, mentors, and
// visitors all live in the users collection, distinguished by Role.
//
// NOTE:
//   - Email is the natural key for duplicate detection and never changes
//     once the document is persisted. It is optional; a user may be
//     reachable by phone only.
//   - The authentication identity (credential + role claim) is a separate
//     record in the identities collection, linked via IdentityID.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       string             `bson:"role" json:"role"`     // admin | mentor | visitor
	Status     string             `bson:"status" json:"status"` // invited | active | disabled
	IdentityID string             `bson:"identity_id,omitempty" json:"identity_id,omitempty"`
	// LoginEmail is the identity's sign-in address: Email when present,
	// otherwise the synthesized placeholder address.
	LoginEmail string `bson:"login_email,omitempty" json:"login_email,omitempty"`

	// Optional profile fields imported from spreadsheets; passthrough, not
	// validated.
	StudentID        string `bson:"student_id,omitempty" json:"student_id,omitempty"`
	Program          string `bson:"program,omitempty" json:"program,omitempty"`
	Grade            string `bson:"grade,omitempty" json:"grade,omitempty"`
	School           string `bson:"school,omitempty" json:"school,omitempty"`
	Address          string `bson:"address,omitempty" json:"address,omitempty"`
	EmergencyContact string `bson:"emergency_contact,omitempty" json:"emergency_contact,omitempty"`
	Notes            string `bson:"notes,omitempty" json:"notes,omitempty"`

	// Extra holds spreadsheet columns that matched no canonical field.
	// Bounded by the importer; not an open bag for application writes.
	Extra map[string]string `bson:"extra,omitempty" json:"extra,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasContact reports whether the user is reachable by at least one channel.
// A user document is never persisted without this holding.
func (u User) HasContact() bool {
	return u.Email != "" || u.Phone != ""
}
