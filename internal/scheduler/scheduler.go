// Package scheduler arms one recurring timer per enabled store and runs
// sync cycles on independent per-store intervals. Stores never block each
// other; within one store at most one cycle runs at a time.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pricesync/internal/logger"
	"pricesync/internal/models"
)

const defaultReconcileInterval = time.Minute

type StoreSource interface {
	ListEnabled(ctx context.Context) ([]models.Store, error)
}

type SyncService interface {
	SyncStore(ctx context.Context, store models.Store) (*models.SyncResult, error)
}

// storeRunner owns one store's timer. inFlight is shared with any
// replacement runner for the same store, so the at-most-one-cycle
// guarantee holds across a re-arm.
type storeRunner struct {
	store    models.Store
	cancel   context.CancelFunc
	inFlight *atomic.Bool
}

type Scheduler struct {
	stores            StoreSource
	syncs             SyncService
	logger            *logger.Logger
	reconcileInterval time.Duration

	mu      sync.Mutex
	runners map[string]*storeRunner
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(stores StoreSource, syncs SyncService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		stores:            stores,
		syncs:             syncs,
		logger:            log,
		reconcileInterval: defaultReconcileInterval,
		runners:           map[string]*storeRunner{},
	}
}

// Start arms a timer for every enabled store and begins the periodic
// reconciliation pass that picks up store changes.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	if err := s.Reconcile(ctx); err != nil {
		return err
	}

	s.wg.Add(1)
	go s.reconcileLoop(ctx)

	s.logger.Info("Scheduler started with %d store(s)", s.runnerCount())
	return nil
}

// Stop disarms all timers and waits for in-flight cycles to finish. A
// cycle that already started runs to completion so a store's catalogue is
// never left half-applied.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.cancel = nil
	for _, r := range s.runners {
		r.cancel()
	}
	s.runners = map[string]*storeRunner{}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

// Reconcile diffs the current enabled-store list against the armed timers:
// new stores get a timer, removed or disabled stores lose theirs, and a
// changed store (interval, credentials) is re-armed with its new settings.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	stores, err := s.stores.ListEnabled(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}

	seen := make(map[string]bool, len(stores))
	for _, store := range stores {
		seen[store.ID] = true

		existing, ok := s.runners[store.ID]
		if ok && existing.store.SyncInterval == store.SyncInterval && existing.store.UpdatedAt.Equal(store.UpdatedAt) {
			continue
		}
		inFlight := &atomic.Bool{}
		if ok {
			existing.cancel()
			// A cycle started under the old settings may still be running;
			// the replacement runner inherits its guard and skips firings
			// until that cycle finishes.
			inFlight = existing.inFlight
			s.logger.Info("Re-arming timer for store %s (settings changed)", store.ID)
		}
		s.armLocked(ctx, store, inFlight)
	}

	for id, r := range s.runners {
		if !seen[id] {
			r.cancel()
			delete(s.runners, id)
			s.logger.Info("Disarmed timer for store %s", id)
		}
	}

	return nil
}

func (s *Scheduler) armLocked(ctx context.Context, store models.Store, inFlight *atomic.Bool) {
	runCtx, cancel := context.WithCancel(ctx)
	runner := &storeRunner{store: store, cancel: cancel, inFlight: inFlight}
	s.runners[store.ID] = runner

	s.wg.Add(1)
	go s.runStore(runCtx, runner)
}

func (s *Scheduler) runStore(ctx context.Context, r *storeRunner) {
	defer s.wg.Done()

	interval := time.Duration(r.store.SyncInterval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	// First cycle fires immediately; the ticker covers the rest.
	s.fire(r)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(r)
		}
	}
}

// fire starts one cycle for the runner's store unless the previous cycle
// is still in progress, in which case the firing is skipped, not queued.
func (s *Scheduler) fire(r *storeRunner) {
	if !r.inFlight.CompareAndSwap(false, true) {
		s.logger.Info("Skipping sync for store %s: previous run still in progress", r.store.ID)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer r.inFlight.Store(false)

		// Deliberately not tied to the runner context: an in-flight cycle
		// runs to completion even while the scheduler shuts down.
		if _, err := s.syncs.SyncStore(context.Background(), r.store); err != nil {
			s.logger.Error("Sync cycle for store %s failed: %v", r.store.ID, err)
		}
	}()
}

func (s *Scheduler) runnerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runners)
}

func (s *Scheduler) reconcileLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reconcile(ctx); err != nil {
				s.logger.Error("Scheduler reconciliation failed: %v", err)
			}
		}
	}
}
