package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"
)

// StorageKey names the persisted bid array of the local-only variant
const StorageKey = "auction-manager-bids-v1"

// LocalSessionID is the id of the single built-in session of the local-only
// variant. Bids are persisted without a session id.
const LocalSessionID = "local"

// inLocalScope reports whether sessionID addresses the built-in session
func inLocalScope(sessionID string) bool {
	return sessionID == "" || sessionID == LocalSessionID
}

// storedBid is the persisted shape: camelCase keys, epoch-millisecond timestamps
type storedBid struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
}

// EncodeBids serializes bids into the persisted array format
func EncodeBids(bids []models.Bid) ([]byte, error) {
	stored := make([]storedBid, 0, len(bids))
	for _, b := range bids {
		stored = append(stored, storedBid{
			ID:        b.ID,
			Name:      b.Name,
			Amount:    b.Amount,
			CreatedAt: b.CreatedAt.UnixMilli(),
			UpdatedAt: b.UpdatedAt.UnixMilli(),
		})
	}
	return json.Marshal(stored)
}

// DecodeBids parses the persisted array format. Missing or malformed data
// yields an empty list rather than an error.
func DecodeBids(data []byte) []models.Bid {
	var stored []storedBid
	if len(data) == 0 || json.Unmarshal(data, &stored) != nil {
		return []models.Bid{}
	}

	bids := make([]models.Bid, 0, len(stored))
	for _, s := range stored {
		bids = append(bids, models.Bid{
			ID:        s.ID,
			Name:      s.Name,
			Amount:    models.NormalizeAmount(s.Amount),
			CreatedAt: time.UnixMilli(s.CreatedAt).UTC(),
			UpdatedAt: time.UnixMilli(s.UpdatedAt).UTC(),
		})
	}
	return bids
}

// LocalRepo is the local-only BidRepository: a single built-in session whose
// bids live in one JSON file. Any other session scope holds no bids.
type LocalRepo struct {
	mu   sync.Mutex
	path string
}

// NewLocalRepo creates a LocalRepo persisting under dir
func NewLocalRepo(dir string) (*LocalRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare local store dir %s: %w", dir, err)
	}
	return &LocalRepo{path: filepath.Join(dir, StorageKey+".json")}, nil
}

// Path returns the file backing the store
func (r *LocalRepo) Path() string {
	return r.path
}

// SaveBid creates or updates a bid and rewrites the persisted array
func (r *LocalRepo) SaveBid(_ context.Context, w BidWrite) (models.Bid, error) {
	if !inLocalScope(w.SessionID) {
		return models.Bid{}, fmt.Errorf("save bid in session %s: %w", w.SessionID, auctionerrors.ErrSessionNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bids, err := r.load()
	if err != nil {
		return models.Bid{}, err
	}

	w.SessionID = ""
	bids, bid, err := applyBidWrite(bids, w)
	if err != nil {
		return models.Bid{}, fmt.Errorf("save bid %q: %w", w.Name, err)
	}
	models.RankBids(bids)

	if err := r.save(bids); err != nil {
		return models.Bid{}, err
	}
	return bid, nil
}

// DeleteBid removes a bid; missing bids are ignored
func (r *LocalRepo) DeleteBid(_ context.Context, sessionID, bidID string) error {
	if !inLocalScope(sessionID) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bids, err := r.load()
	if err != nil {
		return err
	}
	return r.save(removeByID(bids, bidID))
}

// DeleteBids clears the built-in session
func (r *LocalRepo) DeleteBids(_ context.Context, sessionID string) error {
	if !inLocalScope(sessionID) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save([]models.Bid{})
}

// ListBids re-reads the file so writes from other processes are picked up
func (r *LocalRepo) ListBids(_ context.Context, sessionID string) ([]models.Bid, error) {
	if !inLocalScope(sessionID) {
		return []models.Bid{}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bids, err := r.load()
	if err != nil {
		return nil, err
	}
	return rankedCopy(bids), nil
}

func (r *LocalRepo) load() ([]models.Bid, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Bid{}, nil
	}
	if err != nil {
		return nil, auctionerrors.StoreIO("read local bids", err)
	}
	return DecodeBids(data), nil
}

func (r *LocalRepo) save(bids []models.Bid) error {
	data, err := EncodeBids(bids)
	if err != nil {
		return auctionerrors.StoreIO("encode local bids", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return auctionerrors.StoreIO("write local bids", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return auctionerrors.StoreIO("replace local bids", err)
	}
	return nil
}
