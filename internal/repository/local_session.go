package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"
)

// LocalItemName is the item shown for the built-in session
const LocalItemName = "Live Auction"

// LocalSessionRepo is the SessionRepository of the local-only variant. It
// always holds exactly one session, LocalSessionID, so the display resolves
// to it on every start and the bids in the JSON file stay visible.
type LocalSessionRepo struct {
	mu      sync.RWMutex
	session models.Session
}

// NewLocalSessionRepo creates the built-in session, active as of now
func NewLocalSessionRepo(now time.Time) *LocalSessionRepo {
	return &LocalSessionRepo{session: models.Session{
		ID:        LocalSessionID,
		ItemName:  LocalItemName,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}}
}

// CreateSession is rejected: the local variant has no other sessions
func (r *LocalSessionRepo) CreateSession(_ context.Context, session models.Session) error {
	return fmt.Errorf("create session %q: %w", session.ItemName, auctionerrors.ErrSingleSession)
}

// GetSession returns the built-in session
func (r *LocalSessionRepo) GetSession(_ context.Context, id string) (models.Session, error) {
	if id != LocalSessionID {
		return models.Session{}, fmt.Errorf("get session %s: %w", id, auctionerrors.ErrSessionNotFound)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.session, nil
}

// UpdateSession merges patch into the built-in session. Edits last for the
// life of the process.
func (r *LocalSessionRepo) UpdateSession(_ context.Context, id string, patch models.SessionPatch, at time.Time) (models.Session, error) {
	if id != LocalSessionID {
		return models.Session{}, fmt.Errorf("update session %s: %w", id, auctionerrors.ErrSessionNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = mergeSessionPatch(r.session, patch, at)
	return r.session, nil
}

// ListSessions returns the single built-in session
func (r *LocalSessionRepo) ListSessions(_ context.Context) ([]models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return []models.Session{r.session}, nil
}
