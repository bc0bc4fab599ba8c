package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"

	"github.com/lockinhq/lockin/internal/models"
)

// fakeRemote records pushes and serves a canned document.
type fakeRemote struct {
	mu       stdsync.Mutex
	doc      models.AppState
	found    bool
	fetchErr error
	pushErr  error
	pushes   []models.AppState
}

func (f *fakeRemote) FetchDocument(ctx context.Context, accountID string) (models.AppState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc, f.found, f.fetchErr
}

func (f *fakeRemote) PushDocument(ctx context.Context, accountID string, state models.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pushErr != nil {
		return f.pushErr
	}
	f.pushes = append(f.pushes, state)
	return nil
}

func (f *fakeRemote) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes)
}

func (f *fakeRemote) lastPush() models.AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pushes[len(f.pushes)-1]
}

func localWithLog(id string) models.AppState {
	s := models.Default()
	s.Logs = []models.FocusLog{{ID: id, Date: "2026-04-10", Subject: models.SubjectPhysics, Hours: 2, Quality: 4}}
	return s
}

func TestEstablish_MergesRemoteDocument(t *testing.T) {
	remote := &fakeRemote{doc: localWithLog("remote-log"), found: true}
	s := New(remote)

	merged, err := s.Establish(context.Background(), "acct", localWithLog("local-log"))
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if len(merged.Logs) != 2 {
		t.Errorf("expected both logs after merge, got %d", len(merged.Logs))
	}
	if !s.Ready() {
		t.Errorf("syncer should be ready")
	}
	if s.Status() != models.SyncSynced {
		t.Errorf("status = %s, want synced", s.Status())
	}
}

func TestEstablish_NoRemoteDocumentKeepsLocal(t *testing.T) {
	remote := &fakeRemote{found: false}
	s := New(remote)

	local := localWithLog("only")
	merged, err := s.Establish(context.Background(), "acct", local)
	if err != nil {
		t.Fatalf("Establish: %v", err)
	}
	if len(merged.Logs) != 1 || merged.Logs[0].ID != "only" {
		t.Errorf("local document should pass through unchanged: %+v", merged.Logs)
	}
}

func TestEstablish_FetchFailureStaysLocalOnly(t *testing.T) {
	remote := &fakeRemote{fetchErr: errors.New("connection refused")}
	s := New(remote)

	local := localWithLog("local")
	merged, err := s.Establish(context.Background(), "acct", local)
	if err == nil {
		t.Fatalf("expected fetch error")
	}
	if len(merged.Logs) != 1 || merged.Logs[0].ID != "local" {
		t.Errorf("local document must not change on a failed establish")
	}
	if s.Ready() {
		t.Errorf("syncer must not accept pushes after a failed establish")
	}
	if s.Status() != models.SyncError {
		t.Errorf("status = %s, want error", s.Status())
	}

	// Queued changes are dropped silently while not established.
	s.Queue(localWithLog("dropped"))
	s.Drain()
	if remote.pushCount() != 0 {
		t.Errorf("no pushes should happen before establish, got %d", remote.pushCount())
	}
}

func TestFlush_BeforeEstablishReturnsError(t *testing.T) {
	s := New(&fakeRemote{})
	if err := s.Flush(context.Background(), models.Default()); !errors.Is(err, ErrNotEstablished) {
		t.Fatalf("expected ErrNotEstablished, got %v", err)
	}
}

func TestQueue_PushesLatestState(t *testing.T) {
	remote := &fakeRemote{found: false}
	s := New(remote)
	if _, err := s.Establish(context.Background(), "acct", models.Default()); err != nil {
		t.Fatal(err)
	}

	s.Queue(localWithLog("first"))
	s.Drain()

	if remote.pushCount() == 0 {
		t.Fatalf("expected at least one push")
	}
	if got := remote.lastPush().Logs[0].ID; got != "first" {
		t.Errorf("pushed state = %s", got)
	}
	if s.Status() != models.SyncSynced {
		t.Errorf("status = %s, want synced", s.Status())
	}
}

func TestQueue_CoalescesBursts(t *testing.T) {
	remote := &fakeRemote{found: false}
	s := New(remote)
	if _, err := s.Establish(context.Background(), "acct", models.Default()); err != nil {
		t.Fatal(err)
	}

	// A burst of queued changes must be pushed no more than once per change
	// and the last push carries the newest state.
	for i := 0; i < 50; i++ {
		s.Queue(localWithLog("burst"))
	}
	final := localWithLog("final")
	s.Queue(final)
	s.Drain()

	if remote.pushCount() == 0 || remote.pushCount() > 51 {
		t.Fatalf("push count out of range: %d", remote.pushCount())
	}
	if got := remote.lastPush().Logs[0].ID; got != "final" {
		t.Errorf("last push should carry the newest state, got %s", got)
	}
}

func TestQueue_PushFailureSetsErrorStatus(t *testing.T) {
	remote := &fakeRemote{found: false, pushErr: errors.New("connection reset")}
	s := New(remote)
	if _, err := s.Establish(context.Background(), "acct", models.Default()); err != nil {
		t.Fatal(err)
	}

	s.Queue(localWithLog("x"))
	s.Drain()

	if s.Status() != models.SyncError {
		t.Errorf("status = %s, want error", s.Status())
	}

	// The next local change retries.
	remote.mu.Lock()
	remote.pushErr = nil
	remote.mu.Unlock()
	s.Queue(localWithLog("y"))
	s.Drain()
	if remote.pushCount() != 1 {
		t.Errorf("expected the follow-up push to succeed, got %d pushes", remote.pushCount())
	}
	if s.Status() != models.SyncSynced {
		t.Errorf("status = %s, want synced after recovery", s.Status())
	}
}
