package bidding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/events"
	"auction-board/internal/models"
	"auction-board/internal/repository"
	"auction-board/utils"
)

// BiddingService owns the ranked bid list of every session
type BiddingService struct {
	repo      repository.BidRepository
	publisher events.Publisher
	now       func() time.Time
	newID     func() string
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.BidRepository, publisher events.Publisher) *BiddingService {
	return &BiddingService{
		repo:      repo,
		publisher: publisher,
		now:       utils.Now,
		newID:     utils.GenerateID,
	}
}

// Upsert records a bidder's amount: an existing bid (same id, or same name
// ignoring case) is updated in place, otherwise a new bid is created.
func (s *BiddingService) Upsert(ctx context.Context, sessionID string, input models.BidInput) (models.Bid, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Bid{}, fmt.Errorf("service: %w", auctionerrors.ErrEmptyName)
	}

	bid, err := s.repo.SaveBid(ctx, repository.BidWrite{
		SessionID: sessionID,
		ID:        strings.TrimSpace(input.ID),
		NewID:     s.newID(),
		Name:      name,
		Amount:    models.NormalizeAmount(input.Amount),
		At:        s.now(),
	})
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to save bid %q in session %s: %w", name, sessionID, err)
	}

	s.publish(sessionID)
	return bid, nil
}

// Delete removes a bid; deleting a missing bid succeeds
func (s *BiddingService) Delete(ctx context.Context, sessionID, bidID string) error {
	if err := s.repo.DeleteBid(ctx, sessionID, bidID); err != nil {
		return fmt.Errorf("service: failed to delete bid %s in session %s: %w", bidID, sessionID, err)
	}

	s.publish(sessionID)
	return nil
}

// ResetAll removes every bid of a session
func (s *BiddingService) ResetAll(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteBids(ctx, sessionID); err != nil {
		return fmt.Errorf("service: failed to reset bids in session %s: %w", sessionID, err)
	}

	s.publish(sessionID)
	return nil
}

// List returns the bids of a session, highest amount first
func (s *BiddingService) List(ctx context.Context, sessionID string) ([]models.Bid, error) {
	bids, err := s.repo.ListBids(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids for session %s: %w", sessionID, err)
	}
	if bids == nil {
		bids = []models.Bid{}
	}
	models.RankBids(bids)
	return bids, nil
}

// Summary returns count, total and leader of a session's bids
func (s *BiddingService) Summary(ctx context.Context, sessionID string) (models.BidSummary, error) {
	bids, err := s.List(ctx, sessionID)
	if err != nil {
		return models.BidSummary{}, err
	}
	return models.Summarize(bids), nil
}

func (s *BiddingService) publish(sessionID string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Change{Table: events.TableBids, SessionID: sessionID, At: s.now()})
}
