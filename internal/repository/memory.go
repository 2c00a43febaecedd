package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of BidRepository and SessionRepository
type MemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]models.Session // key: sessionID -> value: session
	bids     map[string][]models.Bid   // key: sessionID -> value: bids in insertion order
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sessions: make(map[string]models.Session),
		bids:     make(map[string][]models.Bid),
	}
}

// SaveBid creates or updates a bid in one critical section
func (r *MemoryRepo) SaveBid(_ context.Context, w BidWrite) (models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[w.SessionID]; !ok {
		return models.Bid{}, fmt.Errorf("save bid in session %s: %w", w.SessionID, auctionerrors.ErrSessionNotFound)
	}

	bids, bid, err := applyBidWrite(r.bids[w.SessionID], w)
	if err != nil {
		return models.Bid{}, fmt.Errorf("save bid %q in session %s: %w", w.Name, w.SessionID, err)
	}
	r.bids[w.SessionID] = bids
	return bid, nil
}

// DeleteBid removes a bid; missing bids are ignored
func (r *MemoryRepo) DeleteBid(_ context.Context, sessionID, bidID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bids, ok := r.bids[sessionID]; ok {
		r.bids[sessionID] = removeByID(bids, bidID)
	}
	return nil
}

// DeleteBids removes every bid of a session
func (r *MemoryRepo) DeleteBids(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.bids, sessionID)
	return nil
}

// ListBids returns the ranked bids of a session
func (r *MemoryRepo) ListBids(_ context.Context, sessionID string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return rankedCopy(r.bids[sessionID]), nil
}

// CreateSession stores a new session
func (r *MemoryRepo) CreateSession(_ context.Context, session models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("create session %s: %w: duplicate id", session.ID, auctionerrors.ErrValidation)
	}
	r.sessions[session.ID] = session
	return nil
}

// GetSession returns a session by id
func (r *MemoryRepo) GetSession(_ context.Context, id string) (models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return models.Session{}, fmt.Errorf("get session %s: %w", id, auctionerrors.ErrSessionNotFound)
	}
	return session, nil
}

// UpdateSession merges patch into a session
func (r *MemoryRepo) UpdateSession(_ context.Context, id string, patch models.SessionPatch, at time.Time) (models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return models.Session{}, fmt.Errorf("update session %s: %w", id, auctionerrors.ErrSessionNotFound)
	}

	session = mergeSessionPatch(session, patch, at)
	r.sessions[id] = session
	return session, nil
}

// ListSessions returns all sessions, newest first
func (r *MemoryRepo) ListSessions(_ context.Context) ([]models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]models.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	models.SortSessions(sessions)
	return sessions, nil
}

func mergeSessionPatch(session models.Session, patch models.SessionPatch, at time.Time) models.Session {
	if patch.ItemName != nil {
		session.ItemName = *patch.ItemName
	}
	if patch.ItemDescription != nil {
		session.ItemDescription = *patch.ItemDescription
	}
	if patch.StartingPrice != nil {
		session.StartingPrice = *patch.StartingPrice
	}
	if patch.Status != nil {
		session.Status = *patch.Status
	}
	session.UpdatedAt = at
	return session
}
