// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureIdentities(ctx, db); err != nil {
		problems = append(problems, "identities: "+err.Error())
	}
	if err := ensureImportRuns(ctx, db); err != nil {
		problems = append(problems, "import_runs: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	if logger != nil {
		logger.Info("indexes reconciled")
	}
	return nil
}

// ensureUsers creates the users indexes.
//
// Email is optional (phone-only users exist), so uniqueness is enforced with
// a partial index that only covers documents carrying a non-empty email.
func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")

	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("uniq_email").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string", "$gt": ""}}),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("role_name"),
		},
	})
	return ignoreConflict(err)
}

// ensureIdentities creates the identities indexes. Every identity has an
// email (a placeholder is synthesized when the user has none), so the
// unique index is unconditional. This index is what turns a concurrent
// double-create into a clean duplicate error.
func ensureIdentities(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("identities")

	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "disabled", Value: 1}},
			Options: options.Index().SetName("disabled"),
		},
	})
	return ignoreConflict(err)
}

func ensureImportRuns(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("import_runs")

	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}},
			Options: options.Index().SetName("uniq_run_id").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "started_at", Value: -1}},
			Options: options.Index().SetName("started_at_desc"),
		},
	})
	return ignoreConflict(err)
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
// Treat that as success so repeated boots against an older schema don't
// block startup.
func ignoreConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "IndexOptionsConflict") {
		return nil
	}
	return err
}
