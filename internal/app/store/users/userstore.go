// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/campusbridge/precollegehub/internal/app/system/normalize"
	"github.com/campusbridge/precollegehub/internal/app/system/status"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"mentor"|"visitor"`)
	errBadStatus      = errors.New(`status must be "invited"|"active"|"disabled"`)
	errNoContact      = errors.New("user must have an email or a phone number")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLoginEmail looks up a user by the identity's sign-in address. This
// is how phone-only users (placeholder address) resolve to a document.
func (s *Store) GetByLoginEmail(ctx context.Context, loginEmail string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"login_email": normalize.Email(loginEmail)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns users sorted by folded name. When role is non-empty, only
// users with that role are returned. When query is non-empty, only users
// whose folded name starts with the folded query are returned.
func (s *Store) List(ctx context.Context, role, query string) ([]models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = normalize.Role(role)
	}
	if query != "" {
		// Prefix match on the folded name key, so searches ignore case
		// and diacritics the same way the sort order does.
		filter["name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(query))}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a new user after normalizing & validating fields.
//
// The contact invariant is enforced here as the last line of defense: a
// user document is never persisted without at least one of email/phone.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	// Normalize core fields
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	if u.Status == "" {
		u.Status = status.Invited
	}

	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}
	if !u.HasContact() {
		return models.User{}, errNoContact
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// SetStatus updates a user's lifecycle status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	st = normalize.Status(st)
	if !status.IsValid(st) {
		return errBadStatus
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": st, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ProfileUpdate holds the mutable profile fields. Email is deliberately
// absent: it is the natural key for duplicate detection and never changes
// once persisted.
type ProfileUpdate struct {
	Name             string
	Phone            string
	StudentID        string
	Program          string
	Grade            string
	School           string
	Address          string
	EmergencyContact string
	Notes            string
}

// UpdateProfile updates a user's mutable fields.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	name := normalize.Name(upd.Name)
	set := bson.M{
		"name":              name,
		"name_ci":           text.Fold(name),
		"phone":             upd.Phone,
		"student_id":        upd.StudentID,
		"program":           upd.Program,
		"grade":             upd.Grade,
		"school":            upd.School,
		"address":           upd.Address,
		"emergency_contact": upd.EmergencyContact,
		"notes":             upd.Notes,
		"updated_at":        time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a user document by ID. Returns the number of documents
// deleted (0 or 1); disabling the matching identity is the caller's job.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// LoginEmailSet returns the set of login addresses backed by a user
// document. Used by the orphan reconciliation sweep to find identities with
// no matching document.
func (s *Store) LoginEmailSet(ctx context.Context) (map[string]bool, error) {
	cur, err := s.c.Find(ctx, bson.M{"login_email": bson.M{"$gt": ""}})
	if err != nil {
		return nil, fmt.Errorf("list login emails: %w", err)
	}
	defer cur.Close(ctx)

	set := make(map[string]bool)
	for cur.Next(ctx) {
		var row struct {
			LoginEmail string `bson:"login_email"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		set[row.LoginEmail] = true
	}
	return set, cur.Err()
}
