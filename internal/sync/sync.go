// Package sync pushes the state document to the remote store and runs the
// one-shot reconciliation when a session is established.
//
// Pushes serialize: at most one is in flight, and state changes arriving
// meanwhile coalesce into at most one deferred follow-up. Every push sends
// the entire current document, so coalescing never loses an update.
package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"time"

	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/merge"
	"github.com/lockinhq/lockin/internal/models"
)

// Remote is the slice of the remote client the syncer needs.
type Remote interface {
	FetchDocument(ctx context.Context, accountID string) (models.AppState, bool, error)
	PushDocument(ctx context.Context, accountID string, state models.AppState) error
}

const pushTimeout = 30 * time.Second

// ErrNotEstablished is returned when a push is requested before the sign-in
// reconciliation has completed.
var ErrNotEstablished = errors.New("sync session not established")

// Syncer owns the push pipeline for one signed-in account.
type Syncer struct {
	remote Remote

	mu        stdsync.Mutex
	cond      *stdsync.Cond
	accountID string
	status    models.SyncStatus
	ready     bool // reconciliation finished; pushes allowed
	inFlight  bool
	pending   bool
	latest    models.AppState
}

func New(remote Remote) *Syncer {
	s := &Syncer{remote: remote, status: models.SyncLocal}
	s.cond = stdsync.NewCond(&s.mu)
	return s
}

// Establish runs the sign-in reconciliation: fetch the remote document, merge
// it with local, and return the authoritative result. It must complete before
// any push is accepted. A fetch failure leaves local untouched, marks the
// status as error, and keeps the syncer in local-only mode.
//
// When the account has never pushed, local is returned unchanged and the
// remote is seeded by the next push.
func (s *Syncer) Establish(ctx context.Context, accountID string, local models.AppState) (models.AppState, error) {
	s.mu.Lock()
	s.accountID = accountID
	s.status = models.SyncSyncing
	s.mu.Unlock()

	remoteState, found, err := s.remote.FetchDocument(ctx, accountID)
	if err != nil {
		s.mu.Lock()
		s.status = models.SyncError
		s.mu.Unlock()
		logger.Error("Remote fetch failed, staying local-only", "error", err)
		return local, err
	}

	merged := local
	if found {
		merged = merge.States(local, remoteState)
	}

	s.mu.Lock()
	s.ready = true
	s.status = models.SyncSynced
	s.mu.Unlock()
	logger.Info("Sync session established", "remoteDocument", found)
	return merged, nil
}

// Queue records a state change for pushing. No-op until Establish has
// completed. Safe to call from the state engine's change observer.
func (s *Syncer) Queue(state models.AppState) {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return
	}
	s.latest = state
	if s.inFlight {
		// Coalesce: exactly one follow-up runs with the latest state.
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.status = models.SyncSyncing
	s.mu.Unlock()

	go s.run()
}

func (s *Syncer) run() {
	for {
		s.mu.Lock()
		state := s.latest
		accountID := s.accountID
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		err := s.remote.PushDocument(ctx, accountID, state)
		cancel()

		s.mu.Lock()
		if err != nil {
			// No retry loop: the next state change attempts again.
			s.status = models.SyncError
			logger.Error("Remote push failed", "error", err)
		} else {
			s.status = models.SyncSynced
		}
		if s.pending {
			s.pending = false
			s.mu.Unlock()
			continue
		}
		s.inFlight = false
		s.cond.Broadcast()
		s.mu.Unlock()
		return
	}
}

// Flush pushes the given state synchronously. Used by the explicit sync
// command.
func (s *Syncer) Flush(ctx context.Context, state models.AppState) error {
	s.mu.Lock()
	if !s.ready {
		s.mu.Unlock()
		return ErrNotEstablished
	}
	accountID := s.accountID
	s.mu.Unlock()

	err := s.remote.PushDocument(ctx, accountID, state)
	s.mu.Lock()
	if err != nil {
		s.status = models.SyncError
	} else {
		s.status = models.SyncSynced
	}
	s.mu.Unlock()
	return err
}

// Status returns the current sync indicator.
func (s *Syncer) Status() models.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Ready reports whether reconciliation has completed and pushes are allowed.
func (s *Syncer) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Drain blocks until no push is in flight. Used on shutdown and in tests.
func (s *Syncer) Drain() {
	s.mu.Lock()
	for s.inFlight {
		s.cond.Wait()
	}
	s.mu.Unlock()
}
