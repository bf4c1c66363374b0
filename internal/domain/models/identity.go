// internal/domain/models/identity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is an authentication-service entry: a login credential plus the
// role claim checked by access rules. Distinct from the User profile
// document; the two are linked by email (and User.IdentityID).
//
// PasswordHash is a bcrypt hash. Plain-text passwords exist only in memory
// during provisioning and in the outbound notification payload.
type Identity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"` // lower-cased; placeholder address when the user has none
	Phone        string             `bson:"phone,omitempty"`
	DisplayName  string             `bson:"display_name,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	RoleClaim    string             `bson:"role_claim"`
	Disabled     bool               `bson:"disabled"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}
