// internal/app/system/importer/orchestrator.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/campusbridge/precollegehub/internal/app/notify"
	identitystore "github.com/campusbridge/precollegehub/internal/app/store/identities"
	"github.com/campusbridge/precollegehub/internal/app/system/credentials"
	"github.com/campusbridge/precollegehub/internal/app/system/timeouts"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityProvisioner is the slice of the identity store the pipeline needs.
type IdentityProvisioner interface {
	Create(ctx context.Context, p identitystore.CreateParams) (string, error)
	Disable(ctx context.Context, email string) error
}

// UserWriter persists user documents.
type UserWriter interface {
	Create(ctx context.Context, u models.User) (models.User, error)
}

// InviteDispatcher delivers credentials to a provisioned user.
type InviteDispatcher interface {
	Dispatch(ctx context.Context, inv notify.Invitation) []notify.ChannelResult
}

// RunWriter persists the batch report.
type RunWriter interface {
	Insert(ctx context.Context, run models.ImportRun) (models.ImportRun, error)
}

// Orchestrator runs the per-record pipeline over a normalized batch with
// bounded concurrency. Records are isolated: one failing record never stops
// the others, and every record lands in the report with a terminal state.
type Orchestrator struct {
	Identities IdentityProvisioner
	Users      UserWriter
	Notify     InviteDispatcher
	Runs       RunWriter
	Log        *zap.Logger

	// Concurrency bounds in-flight records (min 1).
	Concurrency int
	// CallTimeout bounds each external call; timeouts.Medium() when zero.
	CallTimeout time.Duration
}

// Run executes the pipeline for every record and persists the batch report.
// The returned ImportRun is valid even when the report insert failed; the
// error then describes the insert failure only.
func (o *Orchestrator) Run(ctx context.Context, records []Record, role string) (models.ImportRun, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()

	conc := o.Concurrency
	if conc < 1 {
		conc = 1
	}

	o.Log.Info("bulk import started",
		zap.String("run_id", runID),
		zap.String("role", role),
		zap.Int("records", len(records)),
		zap.Int("concurrency", conc))

	results := make([]models.ImportRunRecord, len(records))
	sem := make(chan struct{}, conc)
	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rec Record) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = o.processRecord(ctx, rec, role)
		}(i, rec)
	}
	wg.Wait()

	run := models.ImportRun{
		RunID:     runID,
		Role:      role,
		Total:     len(records),
		Records:   results,
		StartedAt: started,
	}
	for _, r := range results {
		if r.State == StatePersisted {
			run.Succeeded++
		} else {
			run.Failed++
		}
	}
	run.FinishedAt = time.Now().UTC()

	o.Log.Info("bulk import finished",
		zap.String("run_id", runID),
		zap.Int("succeeded", run.Succeeded),
		zap.Int("failed", run.Failed))

	inserted, err := o.Runs.Insert(ctx, run)
	if err != nil {
		o.Log.Error("persist import run failed",
			zap.String("run_id", runID), zap.Error(err))
		return run, fmt.Errorf("persist import run: %w", err)
	}
	return inserted, nil
}

func (o *Orchestrator) callTimeout() time.Duration {
	if o.CallTimeout > 0 {
		return o.CallTimeout
	}
	return timeouts.Medium()
}

// ProcessOne runs the pipeline for a single record outside a batch. Used by
// the single-user create endpoint; no run report is written.
func (o *Orchestrator) ProcessOne(ctx context.Context, rec Record, role string) models.ImportRunRecord {
	return o.processRecord(ctx, rec, role)
}

// processRecord walks one record through the pipeline and returns its
// terminal report entry. Credentials never leave this function except inside
// the notification payload.
func (o *Orchestrator) processRecord(ctx context.Context, rec Record, role string) models.ImportRunRecord {
	out := models.ImportRunRecord{
		Row:   rec.Row,
		Name:  rec.Name,
		Email: rec.Email,
		Phone: rec.Phone,
	}
	fail := func(step string, err error) models.ImportRunRecord {
		out.State = StateFailed
		out.Step = step
		out.Error = err.Error()
		o.Log.Warn("import record failed",
			zap.Int("row", rec.Row),
			zap.String("step", step),
			zap.Error(err))
		return out
	}

	creds, err := credentials.Generate(rec.Name)
	if err != nil {
		return fail(StepCredentials, err)
	}

	identityID, identityEmail, err := o.provision(ctx, rec, &creds, role)
	if err != nil {
		return fail(StepProvision, err)
	}
	out.Username = creds.Username

	user := models.User{
		Name:             rec.Name,
		Email:            rec.Email,
		Phone:            rec.Phone,
		Role:             role,
		IdentityID:       identityID,
		LoginEmail:       identityEmail,
		StudentID:        rec.StudentID,
		Program:          rec.Program,
		Grade:            rec.Grade,
		School:           rec.School,
		Address:          rec.Address,
		EmergencyContact: rec.EmergencyContact,
		Notes:            rec.Notes,
		Extra:            rec.Extra,
	}
	pctx, cancel := timeouts.WithTimeout(ctx, o.callTimeout(), o.Log, "persist user")
	_, err = o.Users.Create(pctx, user)
	cancel()
	if err != nil {
		// Compensate: the identity exists but its document does not, so
		// disable it rather than leave a working orphan login.
		dctx, dcancel := timeouts.WithTimeout(ctx, o.callTimeout(), o.Log, "disable orphan identity")
		if derr := o.Identities.Disable(dctx, identityEmail); derr != nil {
			o.Log.Error("orphan identity not disabled",
				zap.String("identity", identityEmail), zap.Error(derr))
		}
		dcancel()
		return fail(StepPersist, err)
	}

	nctx, ncancel := timeouts.WithTimeout(ctx, o.callTimeout(), o.Log, "send invitation")
	channels := o.Notify.Dispatch(nctx, notify.Invitation{
		Name:     rec.Name,
		Email:    rec.Email,
		Phone:    rec.Phone,
		Username: creds.Username,
		Password: creds.Password,
	})
	ncancel()

	// Notification failures do not undo the account; the admin can resend
	// the invite. They are surfaced on the report entry instead.
	out.State = StatePersisted
	if msg := describeFailedChannels(channels); msg != "" {
		out.Step = StepNotify
		out.Error = msg
	}
	return out
}

// provision creates the identity, retrying once with fresh credentials when
// a username-only identity collides on its synthesized address. A duplicate
// for a record with a real email is a genuine conflict and is not retried.
// Returns the identity id and its sign-in address.
func (o *Orchestrator) provision(ctx context.Context, rec Record, creds *credentials.Credentials, role string) (string, string, error) {
	for attempt := 0; ; attempt++ {
		params := identitystore.CreateParams{
			Email:       rec.Email,
			Phone:       rec.Phone,
			Username:    creds.Username,
			DisplayName: rec.Name,
			Password:    creds.Password,
			Role:        role,
		}
		cctx, cancel := timeouts.WithTimeout(ctx, o.callTimeout(), o.Log, "provision identity")
		id, err := o.Identities.Create(cctx, params)
		cancel()
		if err == nil {
			if rec.Email != "" {
				return id, rec.Email, nil
			}
			return id, identitystore.PlaceholderEmail(creds.Username), nil
		}
		if errors.Is(err, identitystore.ErrDuplicate) && rec.Email == "" && attempt == 0 {
			regen, rerr := credentials.Generate(rec.Name)
			if rerr != nil {
				return "", "", rerr
			}
			*creds = regen
			continue
		}
		return "", "", err
	}
}

func describeFailedChannels(results []notify.ChannelResult) string {
	var failed []string
	for _, r := range results {
		if r.Attempted && r.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", r.Channel, r.Err))
		}
	}
	return strings.Join(failed, "; ")
}
