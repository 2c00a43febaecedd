package repository

import (
	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"
)

// applyBidWrite resolves w against bids (id first, then name) and returns the
// updated slice and the stored bid. Callers must hold their write lock.
func applyBidWrite(bids []models.Bid, w BidWrite) ([]models.Bid, models.Bid, error) {
	key := models.NameKey(w.Name)

	if w.ID != "" {
		if idx := indexByID(bids, w.ID); idx >= 0 {
			if other := indexByName(bids, key); other >= 0 && other != idx {
				return bids, models.Bid{}, auctionerrors.ErrDuplicateName
			}
			b := bids[idx]
			b.Name = w.Name
			b.Amount = w.Amount
			b.UpdatedAt = w.At
			bids[idx] = b
			return bids, b, nil
		}
	}

	// first spelling of a name wins; only the amount moves
	if idx := indexByName(bids, key); idx >= 0 {
		b := bids[idx]
		b.Amount = w.Amount
		b.UpdatedAt = w.At
		bids[idx] = b
		return bids, b, nil
	}

	b := models.Bid{
		ID:        w.NewID,
		SessionID: w.SessionID,
		Name:      w.Name,
		Amount:    w.Amount,
		CreatedAt: w.At,
		UpdatedAt: w.At,
	}
	return append(bids, b), b, nil
}

func indexByID(bids []models.Bid, id string) int {
	for i, b := range bids {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func indexByName(bids []models.Bid, key string) int {
	for i, b := range bids {
		if models.NameKey(b.Name) == key {
			return i
		}
	}
	return -1
}

func removeByID(bids []models.Bid, id string) []models.Bid {
	out := bids[:0]
	for _, b := range bids {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

func rankedCopy(bids []models.Bid) []models.Bid {
	out := make([]models.Bid, len(bids))
	copy(out, bids)
	models.RankBids(out)
	return out
}
