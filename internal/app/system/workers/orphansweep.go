// internal/app/system/workers/orphansweep.go

// Package workers holds the app's background loops.
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Grace is how old an identity must be before the sweep will consider it an
// orphan. An import creates the identity before the user document, so a
// younger identity may simply not have its document yet.
const Grace = 10 * time.Minute

// IdentityLister enumerates and disables identities; satisfied by the
// identity store.
type IdentityLister interface {
	ListEmails(ctx context.Context, createdBefore time.Time) ([]string, error)
	Disable(ctx context.Context, email string) error
}

// UserEmailSet returns the set of login addresses backed by a user document;
// satisfied by the user store.
type UserEmailSet interface {
	LoginEmailSet(ctx context.Context) (map[string]bool, error)
}

// OrphanSweep is a background worker that disables identities whose user
// document no longer exists. Such identities appear when a crash lands
// between identity creation and document persistence, or when the
// compensating disable after a failed persist itself failed.
type OrphanSweep struct {
	identities IdentityLister
	users      UserEmailSet
	log        *zap.Logger
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewOrphanSweep creates a new orphan identity sweep worker.
func NewOrphanSweep(identities IdentityLister, users UserEmailSet, logger *zap.Logger, interval time.Duration) *OrphanSweep {
	return &OrphanSweep{
		identities: identities,
		users:      users,
		log:        logger,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *OrphanSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("orphan identity sweep started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *OrphanSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("orphan identity sweep stopped")
}

func (w *OrphanSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep(context.Background())
		}
	}
}

// Sweep runs one reconciliation pass. Exported so startup and tests can run
// it on demand.
func (w *OrphanSweep) Sweep(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, 60*time.Second)
	defer cancel()

	known, err := w.users.LoginEmailSet(ctx)
	if err != nil {
		w.log.Error("orphan sweep: load user emails failed", zap.Error(err))
		return
	}
	// Only identities older than the grace window are candidates; anything
	// younger may belong to an import that has not persisted its document
	// yet.
	emails, err := w.identities.ListEmails(ctx, time.Now().Add(-Grace))
	if err != nil {
		w.log.Error("orphan sweep: list identities failed", zap.Error(err))
		return
	}

	var disabled int
	for _, email := range emails {
		if known[email] {
			continue
		}
		if err := w.identities.Disable(ctx, email); err != nil {
			w.log.Error("orphan sweep: disable failed",
				zap.String("identity", email), zap.Error(err))
			continue
		}
		disabled++
	}

	if disabled > 0 {
		w.log.Info("orphan sweep disabled identities", zap.Int("count", disabled))
	}
}
