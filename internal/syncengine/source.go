package syncengine

import (
	"context"

	"auction-board/internal/models"
)

type sessionLister interface {
	List(ctx context.Context) ([]models.Session, error)
}

type bidLister interface {
	List(ctx context.Context, sessionID string) ([]models.Bid, error)
}

// ServiceSource reads straight from the in-process services
type ServiceSource struct {
	sessions sessionLister
	bids     bidLister
}

// NewServiceSource adapts the session and bidding services to a Source
func NewServiceSource(sessions sessionLister, bids bidLister) *ServiceSource {
	return &ServiceSource{sessions: sessions, bids: bids}
}

func (s *ServiceSource) ListSessions(ctx context.Context) ([]models.Session, error) {
	return s.sessions.List(ctx)
}

func (s *ServiceSource) ListBids(ctx context.Context, sessionID string) ([]models.Bid, error) {
	return s.bids.List(ctx, sessionID)
}
