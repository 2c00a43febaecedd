// Package syncengine keeps an observer's view of the auction in step with the
// stores. A push channel triggers immediate refetches and a poll ticker bounds
// staleness when pushes are lost. Every refresh recomputes the whole view.
package syncengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"auction-board/internal/events"
	"auction-board/internal/models"
	sessions "auction-board/internal/sessionService"
	"auction-board/utils"
)

// State of the session display
type State string

const (
	StateNoSession State = "NO_SESSION"
	StateShowing   State = "SHOWING"
)

// Trigger names what caused a reconcile
type Trigger string

const (
	TriggerInitial Trigger = "initial"
	TriggerPoll    Trigger = "poll"
	TriggerPush    Trigger = "push"
	TriggerSelect  Trigger = "select"
	TriggerManual  Trigger = "manual"
)

// Poll intervals observed for the two kinds of observer
const (
	DashboardPollInterval = 2 * time.Second
	AdminPollInterval     = 5 * time.Second
)

const defaultTimeout = 10 * time.Second

// Source is the read path every reconcile goes through
type Source interface {
	ListSessions(ctx context.Context) ([]models.Session, error)
	ListBids(ctx context.Context, sessionID string) ([]models.Bid, error)
}

// View is everything an observer renders
type View struct {
	State        State             `json:"state"`
	Session      *models.Session   `json:"session"`
	Sessions     []models.Session  `json:"sessions"`
	Bids         []models.Bid      `json:"bids"`
	Summary      models.BidSummary `json:"summary"`
	LastSyncedAt time.Time         `json:"last_synced_at"`
	LastError    string            `json:"last_error,omitempty"`
	Revision     uint64            `json:"revision"`
	Trigger      Trigger           `json:"trigger"`
}

// Config tunes an Engine
type Config struct {
	// Name identifies the observer in logs
	Name         string
	PollInterval time.Duration
	// Timeout bounds a single reconcile
	Timeout  time.Duration
	Selected string
	OnUpdate func(View)
}

// Engine drives one observer
type Engine struct {
	source Source
	cfg    Config
	now    func() time.Time

	reconcileMu sync.Mutex

	mu       sync.RWMutex
	view     View
	selected string

	kick chan Trigger
}

// New creates an engine in the NO_SESSION state; call Run to start syncing
func New(source Source, cfg Config) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DashboardPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Name == "" {
		cfg.Name = "observer"
	}

	return &Engine{
		source:   source,
		cfg:      cfg,
		now:      utils.Now,
		selected: cfg.Selected,
		view: View{
			State:    StateNoSession,
			Sessions: []models.Session{},
			Bids:     []models.Bid{},
		},
		kick: make(chan Trigger, 1),
	}
}

// Run reconciles once, then on every poll tick and push until ctx is done
func (e *Engine) Run(ctx context.Context) error {
	utils.Info("sync: engine started", map[string]any{
		"observer":      e.cfg.Name,
		"poll_interval": e.cfg.PollInterval.String(),
	})

	_, _ = e.reconcile(ctx, TriggerInitial)

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			utils.Info("sync: engine stopped", map[string]any{"observer": e.cfg.Name})
			return ctx.Err()
		case <-ticker.C:
			_, _ = e.reconcile(ctx, TriggerPoll)
		case trigger := <-e.kick:
			_, _ = e.reconcile(ctx, trigger)
		}
	}
}

// Notify schedules a refetch for change. It never blocks: pushes arriving
// while one is pending coalesce into it.
func (e *Engine) Notify(change events.Change) {
	if change.Table == events.TableBids && change.SessionID != "" {
		snap := e.Snapshot()
		if snap.Session != nil && snap.Session.ID != change.SessionID {
			return
		}
	}
	e.schedule(TriggerPush)
}

// Follow feeds changes into Notify until ctx is done or changes is closed
func (e *Engine) Follow(ctx context.Context, changes <-chan events.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			e.Notify(change)
		}
	}
}

// Select pins the displayed session; an empty id restores automatic selection
func (e *Engine) Select(id string) {
	e.mu.Lock()
	e.selected = id
	e.mu.Unlock()

	e.schedule(TriggerSelect)
}

// Selected returns the pinned session id, if any
func (e *Engine) Selected() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.selected
}

// Snapshot returns the current view
func (e *Engine) Snapshot() View {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view
}

// Reconcile refreshes the view now. On failure the previous view is kept,
// LastError records the failure and the error is returned.
func (e *Engine) Reconcile(ctx context.Context) (View, error) {
	return e.reconcile(ctx, TriggerManual)
}

func (e *Engine) schedule(trigger Trigger) {
	select {
	case e.kick <- trigger:
	default:
	}
}

func (e *Engine) reconcile(ctx context.Context, trigger Trigger) (View, error) {
	e.reconcileMu.Lock()
	defer e.reconcileMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	list, err := e.source.ListSessions(ctx)
	if err != nil {
		return e.fail(trigger, "list sessions", err)
	}
	if list == nil {
		list = []models.Session{}
	}
	models.SortSessions(list)

	current := sessions.ResolveCurrent(list, e.Selected())

	next := View{
		State:    StateNoSession,
		Sessions: list,
		Bids:     []models.Bid{},
		Trigger:  trigger,
	}

	if current != nil {
		bids, err := e.source.ListBids(ctx, current.ID)
		if err != nil {
			return e.fail(trigger, "list bids", err)
		}
		if bids != nil {
			models.RankBids(bids)
			next.Bids = bids
		}
		next.State = StateShowing
		next.Session = current
		next.Summary = models.Summarize(next.Bids)
	}

	e.mu.Lock()
	prev := e.view
	next.Revision = prev.Revision + 1
	next.LastSyncedAt = e.now()
	e.view = next
	e.mu.Unlock()

	if transitioned(prev, next) {
		fields := map[string]any{"observer": e.cfg.Name, "state": string(next.State), "trigger": string(trigger)}
		if next.Session != nil {
			fields["session_id"] = next.Session.ID
			fields["item_name"] = next.Session.ItemName
		}
		utils.Info("sync: display changed", fields)
	}

	if e.cfg.OnUpdate != nil {
		e.cfg.OnUpdate(next)
	}
	return next, nil
}

func (e *Engine) fail(trigger Trigger, op string, err error) (View, error) {
	level := utils.Warn
	if errors.Is(err, context.Canceled) {
		level = utils.Debug
	}
	level("sync: refresh failed, keeping last view", map[string]any{
		"observer": e.cfg.Name,
		"trigger":  string(trigger),
		"op":       op,
		"error":    err.Error(),
	})

	e.mu.Lock()
	e.view.LastError = err.Error()
	view := e.view
	e.mu.Unlock()

	return view, err
}

func transitioned(prev, next View) bool {
	if prev.State != next.State {
		return true
	}
	if prev.Session == nil || next.Session == nil {
		return false
	}
	return prev.Session.ID != next.Session.ID
}
