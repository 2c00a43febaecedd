package repository

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

import (
	"context"
	"time"

	"auction-board/internal/models"
)

// BidWrite is a resolved upsert request handed to a BidRepository.
// ID, when set, selects the bid to update; otherwise the bid is matched by
// case-insensitive Name and created with NewID when absent. The whole
// find-or-create happens atomically inside the repository.
type BidWrite struct {
	SessionID string
	ID        string
	NewID     string
	Name      string
	Amount    float64
	At        time.Time
}

// BidRepository defines bid storage for the auction board
type BidRepository interface {
	SaveBid(ctx context.Context, w BidWrite) (models.Bid, error)
	DeleteBid(ctx context.Context, sessionID, bidID string) error
	DeleteBids(ctx context.Context, sessionID string) error
	ListBids(ctx context.Context, sessionID string) ([]models.Bid, error)
}

// SessionRepository defines auction session storage
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (models.Session, error)
	UpdateSession(ctx context.Context, id string, patch models.SessionPatch, at time.Time) (models.Session, error)
	ListSessions(ctx context.Context) ([]models.Session, error)
}
