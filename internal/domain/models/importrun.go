// internal/domain/models/importrun.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImportRun is the persisted batch report for one bulk import: one entry
// per input record with its terminal state. Kept for audit; the UI only
// shows aggregate counts.
type ImportRun struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID string             `bson:"run_id" json:"run_id"` // uuid correlation ID
	Role  string             `bson:"role" json:"role"`     // role assigned to the batch

	Total     int `bson:"total" json:"total"`
	Succeeded int `bson:"succeeded" json:"succeeded"`
	Failed    int `bson:"failed" json:"failed"`

	Records []ImportRunRecord `bson:"records" json:"records"`

	StartedAt  time.Time `bson:"started_at" json:"started_at"`
	FinishedAt time.Time `bson:"finished_at" json:"finished_at"`
}

// ImportRunRecord is one record's outcome within an ImportRun.
// Credentials are never stored here; Username alone is kept so admins can
// answer "which login did this row get".
type ImportRunRecord struct {
	Row      int    `bson:"row" json:"row"` // 1-indexed input position
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
	Username string `bson:"username,omitempty" json:"username,omitempty"`
	State    string `bson:"state" json:"state"` // persisted | failed
	Step     string `bson:"step,omitempty" json:"step,omitempty"`
	Error    string `bson:"error,omitempty" json:"error,omitempty"`
}
