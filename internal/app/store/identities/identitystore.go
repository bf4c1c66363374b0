// internal/app/store/identities/identitystore.go

// Package identitystore is the authentication backend: login credentials and
// role claims, kept separate from the user profile documents. The role claim
// recorded here is the authoritative authorization value; the role field on
// the user document is derived from it at provisioning time.
package identitystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusbridge/precollegehub/internal/app/system/normalize"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// PlaceholderDomain is the domain synthesized for identities whose user has
// no email address. Such users sign in with their generated username; the
// login handler appends this domain before lookup.
const PlaceholderDomain = "login.precollegehub.app"

var (
	// ErrDuplicate is returned when an identity already exists for the email.
	ErrDuplicate = errors.New("an identity with this email already exists")
	// ErrNoIdentifier is returned when a record lacks any usable identifier.
	ErrNoIdentifier = errors.New("neither email nor phone is usable as an identifier")
	// ErrNotFound is returned by lookups that match no identity.
	ErrNotFound = errors.New("identity not found")
)

// bcryptCost matches the cost used for interactive logins elsewhere in the
// app; 12 keeps hashing under ~100ms on current hardware.
const bcryptCost = 12

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("identities")}
}

// CreateParams carries everything needed to create one identity.
// Password is plain text and is hashed before it touches the database.
type CreateParams struct {
	Email       string // optional; a placeholder is synthesized from Username
	Phone       string // optional, E.164
	Username    string // used for the placeholder address when Email is empty
	DisplayName string
	Password    string
	Role        string
}

// PlaceholderEmail synthesizes the login address for a username-only
// identity.
func PlaceholderEmail(username string) string {
	return username + "@" + PlaceholderDomain
}

// Create inserts a new identity and returns its id as a hex string.
//
// Returns ErrNoIdentifier when the params carry neither email nor phone,
// and ErrDuplicate when an identity already exists for the (possibly
// synthesized) email. Any other failure is a provider error and comes back
// wrapped.
func (s *Store) Create(ctx context.Context, p CreateParams) (string, error) {
	email := normalize.Email(p.Email)
	if email == "" && p.Phone == "" {
		return "", ErrNoIdentifier
	}
	if email == "" {
		email = PlaceholderEmail(p.Username)
	}
	if !models.ValidRole(p.Role) {
		return "", fmt.Errorf("invalid role claim %q", p.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	ident := models.Identity{
		Email:        email,
		Phone:        p.Phone,
		DisplayName:  p.DisplayName,
		PasswordHash: string(hash),
		RoleClaim:    p.Role,
		Disabled:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := s.c.InsertOne(ctx, ident)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("insert identity: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert identity: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// GetByEmail looks up an identity by normalized email.
// Returns ErrNotFound when no identity matches.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var ident models.Identity
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&ident)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &ident, nil
}

// SetRoleClaim updates the authorization role attached to an identity.
func (s *Store) SetRoleClaim(ctx context.Context, email, role string) error {
	if !models.ValidRole(role) {
		return fmt.Errorf("invalid role claim %q", role)
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"role_claim": role, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set role claim: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Disable turns off an identity; sign-in is rejected until re-enabled.
// Used both by user deletion (revoke access) and the orphan sweep.
func (s *Store) Disable(ctx context.Context, email string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{"disabled": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("disable identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the identity's password hash and re-enables the
// identity. Used by resend-invite and the admin credential reset.
func (s *Store) UpdatePassword(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": normalize.Email(email)},
		bson.M{"$set": bson.M{
			"password_hash": string(hash),
			"disabled":      false,
			"updated_at":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyPassword checks a login attempt. Disabled identities never verify.
// Returns the identity on success so callers can read the role claim.
func (s *Store) VerifyPassword(ctx context.Context, email, password string) (*models.Identity, error) {
	ident, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if ident.Disabled {
		return nil, ErrNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)) != nil {
		return nil, ErrNotFound
	}
	return ident, nil
}

// ListEmails returns the emails of non-disabled identities created before
// the cutoff. Used by the orphan reconciliation sweep, which must not see
// identities from imports still in flight; the identities collection stays
// small enough (one entry per program user) that a full scan is fine.
func (s *Store) ListEmails(ctx context.Context, createdBefore time.Time) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"disabled":   false,
		"created_at": bson.M{"$lt": createdBefore},
	})
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer cur.Close(ctx)

	var emails []string
	for cur.Next(ctx) {
		var row struct {
			Email string `bson:"email"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		emails = append(emails, row.Email)
	}
	return emails, cur.Err()
}
