package syncengine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/events"
	"auction-board/internal/models"

	"github.com/stretchr/testify/require"
)

// fakeSource serves a mutable snapshot and can be told to fail
type fakeSource struct {
	mu        sync.Mutex
	sessions  []models.Session
	bids      map[string][]models.Bid
	failWith  error
	sessCalls int
	bidCalls  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{bids: map[string][]models.Bid{}}
}

func (f *fakeSource) ListSessions(_ context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]models.Session(nil), f.sessions...), nil
}

func (f *fakeSource) ListBids(_ context.Context, sessionID string) ([]models.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bidCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]models.Bid(nil), f.bids[sessionID]...), nil
}

func (f *fakeSource) set(fn func(f *fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeSource) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessCalls
}

var base = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func session(id string, status models.SessionStatus, minute int) models.Session {
	return models.Session{
		ID:        id,
		ItemName:  "item " + id,
		Status:    status,
		CreatedAt: base.Add(time.Duration(minute) * time.Minute),
		UpdatedAt: base.Add(time.Duration(minute) * time.Minute),
	}
}

func TestEngine_NoSessionThenShowing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := newFakeSource()
	engine := New(src, Config{Name: "test"})

	view, err := engine.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, StateNoSession, view.State)
	require.Nil(t, view.Session)
	require.NotNil(t, view.Bids)

	src.set(func(f *fakeSource) {
		f.sessions = []models.Session{session("1", models.StatusCompleted, 1), session("2", models.StatusActive, 2), session("3", models.StatusActive, 3)}
		f.bids["2"] = []models.Bid{{ID: "a", Name: "Ann", Amount: 100}, {ID: "b", Name: "Bob", Amount: 300}}
	})

	view, err = engine.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, StateShowing, view.State)
	require.Equal(t, "2", view.Session.ID)
	require.Equal(t, "b", view.Bids[0].ID, "bids are ranked by amount")
	require.Equal(t, 2, view.Summary.Count)
	require.Equal(t, 300.0, view.Summary.Highest)
	require.Equal(t, uint64(2), view.Revision)
	require.Equal(t, "3", view.Sessions[0].ID, "sessions newest first")
}

func TestEngine_FailureKeepsLastKnownGood(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := newFakeSource()
	src.set(func(f *fakeSource) {
		f.sessions = []models.Session{session("1", models.StatusActive, 1)}
		f.bids["1"] = []models.Bid{{ID: "a", Name: "Ann", Amount: 100}}
	})
	engine := New(src, Config{Name: "test"})

	good, err := engine.Reconcile(ctx)
	require.NoError(t, err)

	storeDown := auctionerrors.StoreIO("list sessions", errors.New("connection refused"))
	src.set(func(f *fakeSource) { f.failWith = storeDown })

	view, err := engine.Reconcile(ctx)
	require.ErrorIs(t, err, auctionerrors.ErrStoreIO)
	require.Equal(t, good.State, view.State)
	require.Equal(t, good.Bids, view.Bids)
	require.Equal(t, good.Revision, view.Revision)
	require.Equal(t, good.LastSyncedAt, view.LastSyncedAt)
	require.NotEmpty(t, view.LastError)

	src.set(func(f *fakeSource) { f.failWith = nil })
	view, err = engine.Reconcile(ctx)
	require.NoError(t, err)
	require.Empty(t, view.LastError)
	require.Equal(t, good.Revision+1, view.Revision)
}

func TestEngine_BidFailureKeepsLastKnownGood(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := &bidFailSource{fakeSource: newFakeSource()}
	src.sessions = []models.Session{session("1", models.StatusActive, 1)}
	src.bids["1"] = []models.Bid{{ID: "a", Name: "Ann", Amount: 100}}
	engine := New(src, Config{})

	_, err := engine.Reconcile(ctx)
	require.NoError(t, err)

	src.failBids = true
	view, err := engine.Reconcile(ctx)
	require.Error(t, err)
	require.Len(t, view.Bids, 1)
	require.Equal(t, StateShowing, view.State)
}

type bidFailSource struct {
	*fakeSource
	failBids bool
}

func (s *bidFailSource) ListBids(ctx context.Context, sessionID string) ([]models.Bid, error) {
	if s.failBids {
		return nil, errors.New("timeout")
	}
	return s.fakeSource.ListBids(ctx, sessionID)
}

func TestEngine_SelectPinsSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := newFakeSource()
	src.set(func(f *fakeSource) {
		f.sessions = []models.Session{session("1", models.StatusCompleted, 1), session("2", models.StatusActive, 2)}
	})
	engine := New(src, Config{Selected: "1"})

	view, err := engine.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, "1", view.Session.ID)

	engine.Select("")
	view, err = engine.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, "2", view.Session.ID)
	require.Empty(t, engine.Selected())
}

func TestEngine_NotifyIsNonBlockingAndCoalesces(t *testing.T) {
	t.Parallel()

	engine := New(newFakeSource(), Config{})
	for i := 0; i < 100; i++ {
		engine.Notify(events.Change{Table: events.TableSessions})
	}
	require.Len(t, engine.kick, 1)
}

func TestEngine_NotifyIgnoresOtherSessionsBids(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.set(func(f *fakeSource) { f.sessions = []models.Session{session("1", models.StatusActive, 1)} })
	engine := New(src, Config{})
	_, err := engine.Reconcile(context.Background())
	require.NoError(t, err)

	engine.Notify(events.Change{Table: events.TableBids, SessionID: "other"})
	require.Len(t, engine.kick, 0)

	engine.Notify(events.Change{Table: events.TableBids, SessionID: "1"})
	require.Len(t, engine.kick, 1)
}

func TestEngine_RunReactsToPush(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newFakeSource()
	updates := make(chan View, 16)
	engine := New(src, Config{
		PollInterval: time.Hour,
		OnUpdate:     func(v View) { updates <- v },
	})

	bus := events.NewBus()
	sub := bus.Subscribe(4)
	defer sub.Close()

	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()
	go engine.Follow(ctx, sub.C)

	initial := waitView(t, updates)
	require.Equal(t, StateNoSession, initial.State)
	require.Equal(t, TriggerInitial, initial.Trigger)

	src.set(func(f *fakeSource) { f.sessions = []models.Session{session("1", models.StatusActive, 1)} })
	bus.Publish(events.Change{Table: events.TableSessions})

	pushed := waitView(t, updates)
	require.Equal(t, StateShowing, pushed.State)
	require.Equal(t, TriggerPush, pushed.Trigger)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestEngine_RunPollsWithoutPush(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := newFakeSource()
	engine := New(src, Config{PollInterval: 10 * time.Millisecond})
	go func() { _ = engine.Run(ctx) }()

	src.set(func(f *fakeSource) { f.sessions = []models.Session{session("1", models.StatusActive, 1)} })

	require.Eventually(t, func() bool {
		return engine.Snapshot().State == StateShowing
	}, 2*time.Second, 10*time.Millisecond)
	require.GreaterOrEqual(t, src.calls(), 2)
}

func TestEngine_ConcurrentReconcilesAreSerialized(t *testing.T) {
	t.Parallel()

	src := newFakeSource()
	src.set(func(f *fakeSource) { f.sessions = []models.Session{session("1", models.StatusActive, 1)} })
	engine := New(src, Config{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = engine.Reconcile(context.Background())
		}()
	}
	wg.Wait()

	require.Equal(t, uint64(20), engine.Snapshot().Revision)
}

func TestServiceSource(t *testing.T) {
	t.Parallel()

	src := NewServiceSource(stubSessions{}, stubBids{})
	list, err := src.ListSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	bids, err := src.ListBids(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "1", bids[0].SessionID)
}

type stubSessions struct{}

func (stubSessions) List(context.Context) ([]models.Session, error) {
	return []models.Session{session("1", models.StatusActive, 1)}, nil
}

type stubBids struct{}

func (stubBids) List(_ context.Context, sessionID string) ([]models.Bid, error) {
	return []models.Bid{{ID: "a", SessionID: sessionID}}, nil
}

func waitView(t *testing.T, updates <-chan View) View {
	t.Helper()
	select {
	case v := <-updates:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for view update")
		return View{}
	}
}
