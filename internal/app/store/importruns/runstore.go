// internal/app/store/importruns/runstore.go

// Package runstore persists the audit trail of bulk provisioning runs. A run
// document records per-row outcomes but never credentials.
package runstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusbridge/precollegehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by lookups that match no run.
var ErrNotFound = errors.New("import run not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("import_runs")}
}

// Insert persists a finished run report.
func (s *Store) Insert(ctx context.Context, run models.ImportRun) (models.ImportRun, error) {
	run.ID = primitive.NewObjectID()
	if _, err := s.c.InsertOne(ctx, run); err != nil {
		return models.ImportRun{}, fmt.Errorf("insert import run: %w", err)
	}
	return run, nil
}

// List returns runs newest-first, capped at limit (50 when limit <= 0).
func (s *Store) List(ctx context.Context, limit int64) ([]models.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}
	defer cur.Close(ctx)

	var runs []models.ImportRun
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetByRunID loads a single run by its public run id.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*models.ImportRun, error) {
	var run models.ImportRun
	err := s.c.FindOne(ctx, bson.M{"run_id": runID}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find import run: %w", err)
	}
	return &run, nil
}
