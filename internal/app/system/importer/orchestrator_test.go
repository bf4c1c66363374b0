package importer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/campusbridge/precollegehub/internal/app/notify"
	identitystore "github.com/campusbridge/precollegehub/internal/app/store/identities"
	"github.com/campusbridge/precollegehub/internal/domain/models"
	"go.uber.org/zap"
)

type fakeIdentities struct {
	mu       sync.Mutex
	created  []identitystore.CreateParams
	disabled []string
	// failEmail causes Create to fail for records with this email.
	failEmail string
	// dupFirstN returns ErrDuplicate for the first N placeholder creates.
	dupFirstN int
}

func (f *fakeIdentities) Create(_ context.Context, p identitystore.CreateParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEmail != "" && p.Email == f.failEmail {
		return "", errors.New("identity provider unavailable")
	}
	if p.Email == "" && f.dupFirstN > 0 {
		f.dupFirstN--
		return "", identitystore.ErrDuplicate
	}
	f.created = append(f.created, p)
	return "id" + p.Username, nil
}

func (f *fakeIdentities) Disable(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = append(f.disabled, email)
	return nil
}

type fakeUsers struct {
	mu      sync.Mutex
	created []models.User
	// failEmail causes Create to fail for this email.
	failEmail string
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEmail != "" && u.Email == f.failEmail {
		return models.User{}, errors.New("write conflict")
	}
	f.created = append(f.created, u)
	return u, nil
}

type fakeNotify struct {
	mu       sync.Mutex
	sent     []notify.Invitation
	emailErr error
}

func (f *fakeNotify) Dispatch(_ context.Context, inv notify.Invitation) []notify.ChannelResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, inv)
	results := []notify.ChannelResult{
		{Channel: notify.ChannelEmail},
		{Channel: notify.ChannelSMS},
	}
	if inv.Email != "" {
		results[0].Attempted = true
		results[0].Err = f.emailErr
	}
	if inv.Phone != "" {
		results[1].Attempted = true
	}
	return results
}

type fakeRuns struct {
	mu       sync.Mutex
	inserted []models.ImportRun
	err      error
}

func (f *fakeRuns) Insert(_ context.Context, run models.ImportRun) (models.ImportRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return models.ImportRun{}, f.err
	}
	f.inserted = append(f.inserted, run)
	return run, nil
}

func newOrchestrator(ids *fakeIdentities, users *fakeUsers, n *fakeNotify, runs *fakeRuns) *Orchestrator {
	return &Orchestrator{
		Identities:  ids,
		Users:       users,
		Notify:      n,
		Runs:        runs,
		Log:         zap.NewNop(),
		Concurrency: 4,
	}
}

func TestRun_TwoRowBatch(t *testing.T) {
	ids := &fakeIdentities{}
	users := &fakeUsers{}
	notifier := &fakeNotify{}
	runs := &fakeRuns{}
	o := newOrchestrator(ids, users, notifier, runs)

	records := []Record{
		{Row: 1, Name: "Jane Doe", Email: "jane@x.edu"},
		{Row: 2, Name: "John Roe", Phone: "+17655551234"},
	}
	run, err := o.Run(context.Background(), records, models.RoleVisitor)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if run.Total != 2 || run.Succeeded != 2 || run.Failed != 0 {
		t.Fatalf("counts: total=%d succeeded=%d failed=%d", run.Total, run.Succeeded, run.Failed)
	}
	if run.RunID == "" {
		t.Error("run should carry a run id")
	}
	if run.Role != models.RoleVisitor {
		t.Errorf("role: got %q", run.Role)
	}

	// The phone-only record gets a placeholder login address.
	if len(users.created) != 2 {
		t.Fatalf("users created: got %d, want 2", len(users.created))
	}
	for _, u := range users.created {
		switch u.Name {
		case "Jane Doe":
			if u.LoginEmail != "jane@x.edu" {
				t.Errorf("Jane login email: got %q", u.LoginEmail)
			}
		case "John Roe":
			if !strings.HasSuffix(u.LoginEmail, "@"+identitystore.PlaceholderDomain) {
				t.Errorf("John login email: got %q", u.LoginEmail)
			}
		default:
			t.Errorf("unexpected user %q", u.Name)
		}
		if u.IdentityID == "" {
			t.Errorf("user %q missing identity id", u.Name)
		}
	}

	// Each record got its credentials delivered exactly once.
	if len(notifier.sent) != 2 {
		t.Fatalf("invitations: got %d, want 2", len(notifier.sent))
	}
	for _, inv := range notifier.sent {
		if inv.Username == "" || inv.Password == "" {
			t.Errorf("invitation missing credentials: %+v", inv)
		}
	}

	// Report persisted, no credentials inside.
	if len(runs.inserted) != 1 {
		t.Fatalf("runs inserted: got %d", len(runs.inserted))
	}
	for _, r := range run.Records {
		if r.State != StatePersisted {
			t.Errorf("row %d: state %q", r.Row, r.State)
		}
		if r.Username == "" {
			t.Errorf("row %d: report should keep the username", r.Row)
		}
	}
}

// One record failing at any step must not affect the others.
func TestRun_RecordIsolation(t *testing.T) {
	ids := &fakeIdentities{failEmail: "bad@x.edu"}
	users := &fakeUsers{}
	notifier := &fakeNotify{}
	runs := &fakeRuns{}
	o := newOrchestrator(ids, users, notifier, runs)

	records := []Record{
		{Row: 1, Name: "Good One", Email: "good@x.edu"},
		{Row: 2, Name: "Bad One", Email: "bad@x.edu"},
		{Row: 3, Name: "Good Two", Email: "good2@x.edu"},
	}
	run, err := o.Run(context.Background(), records, models.RoleMentor)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if run.Succeeded != 2 || run.Failed != 1 {
		t.Fatalf("counts: succeeded=%d failed=%d", run.Succeeded, run.Failed)
	}
	for _, r := range run.Records {
		if r.Row == 2 {
			if r.State != StateFailed || r.Step != StepProvision {
				t.Errorf("row 2: state=%q step=%q", r.State, r.Step)
			}
			continue
		}
		if r.State != StatePersisted {
			t.Errorf("row %d should be persisted, got %q", r.Row, r.State)
		}
	}
}

func TestRun_PersistFailureDisablesIdentity(t *testing.T) {
	ids := &fakeIdentities{}
	users := &fakeUsers{failEmail: "jane@x.edu"}
	notifier := &fakeNotify{}
	runs := &fakeRuns{}
	o := newOrchestrator(ids, users, notifier, runs)

	run, err := o.Run(context.Background(), []Record{
		{Row: 1, Name: "Jane Doe", Email: "jane@x.edu"},
	}, models.RoleVisitor)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if run.Failed != 1 {
		t.Fatalf("failed: got %d, want 1", run.Failed)
	}
	if run.Records[0].Step != StepPersist {
		t.Errorf("step: got %q, want %q", run.Records[0].Step, StepPersist)
	}
	if len(ids.disabled) != 1 || ids.disabled[0] != "jane@x.edu" {
		t.Errorf("orphan identity should be disabled, got %v", ids.disabled)
	}
	if len(notifier.sent) != 0 {
		t.Error("no invitation should go out for an unpersisted record")
	}
}

func TestRun_PlaceholderCollisionRetries(t *testing.T) {
	ids := &fakeIdentities{dupFirstN: 1}
	users := &fakeUsers{}
	notifier := &fakeNotify{}
	runs := &fakeRuns{}
	o := newOrchestrator(ids, users, notifier, runs)

	run, err := o.Run(context.Background(), []Record{
		{Row: 1, Name: "Jane Doe", Phone: "+15550001111"},
	}, models.RoleVisitor)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.Succeeded != 1 {
		t.Fatalf("retry should have recovered the record: %+v", run.Records[0])
	}
	if len(ids.created) != 1 {
		t.Fatalf("identities created: got %d, want 1", len(ids.created))
	}
}

func TestRun_DuplicateEmailNotRetried(t *testing.T) {
	ids := &fakeIdentities{}
	// Force a dup on a real email by making Create return ErrDuplicate.
	idsDup := &dupIdentities{}
	users := &fakeUsers{}
	notifier := &fakeNotify{}
	runs := &fakeRuns{}
	o := newOrchestrator(ids, users, notifier, runs)
	o.Identities = idsDup

	run, err := o.Run(context.Background(), []Record{
		{Row: 1, Name: "Jane Doe", Email: "jane@x.edu"},
	}, models.RoleVisitor)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if run.Failed != 1 || run.Records[0].Step != StepProvision {
		t.Fatalf("expected provision failure: %+v", run.Records[0])
	}
	if idsDup.calls != 1 {
		t.Errorf("a real email duplicate must not be retried, got %d calls", idsDup.calls)
	}
}

type dupIdentities struct {
	mu    sync.Mutex
	calls int
}

func (d *dupIdentities) Create(_ context.Context, _ identitystore.CreateParams) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	return "", identitystore.ErrDuplicate
}

func (d *dupIdentities) Disable(_ context.Context, _ string) error { return nil }

func TestRun_NotifyFailureKeepsRecordPersisted(t *testing.T) {
	ids := &fakeIdentities{}
	users := &fakeUsers{}
	notifier := &fakeNotify{emailErr: errors.New("smtp down")}
	runs := &fakeRuns{}
	o := newOrchestrator(ids, users, notifier, runs)

	run, err := o.Run(context.Background(), []Record{
		{Row: 1, Name: "Jane Doe", Email: "jane@x.edu"},
	}, models.RoleVisitor)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rec := run.Records[0]
	if rec.State != StatePersisted {
		t.Fatalf("state: got %q, want persisted", rec.State)
	}
	if rec.Step != StepNotify || rec.Error == "" {
		t.Errorf("notification failure should be surfaced: %+v", rec)
	}
	if run.Succeeded != 1 {
		t.Errorf("succeeded: got %d, want 1", run.Succeeded)
	}
}

func TestRun_ReportInsertFailure(t *testing.T) {
	ids := &fakeIdentities{}
	users := &fakeUsers{}
	notifier := &fakeNotify{}
	runs := &fakeRuns{err: errors.New("db down")}
	o := newOrchestrator(ids, users, notifier, runs)

	run, err := o.Run(context.Background(), []Record{
		{Row: 1, Name: "Jane Doe", Email: "jane@x.edu"},
	}, models.RoleVisitor)
	if err == nil {
		t.Fatal("expected an error when the report cannot be persisted")
	}
	// The in-memory report is still usable for the response.
	if run.Total != 1 || run.Succeeded != 1 {
		t.Errorf("in-memory run should survive: %+v", run)
	}
}
