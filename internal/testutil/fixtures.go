package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/campusbridge/precollegehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name, email, and role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Email:      email,
		LoginEmail: email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateIdentity creates a test identity with a pre-hashed password field.
// Use the identity store's Create for tests that exercise hashing.
func (f *Fixtures) CreateIdentity(ctx context.Context, email, role, passwordHash string) models.Identity {
	f.t.Helper()

	now := time.Now().UTC()
	ident := models.Identity{
		ID:           primitive.NewObjectID(),
		Email:        email,
		DisplayName:  email,
		PasswordHash: passwordHash,
		RoleClaim:    role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("identities").InsertOne(ctx, ident); err != nil {
		f.t.Fatalf("failed to create test identity: %v", err)
	}
	return ident
}
