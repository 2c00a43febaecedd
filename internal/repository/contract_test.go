package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"auction-board/internal/auctionerrors"
	"auction-board/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type repoFactory func(t *testing.T) (BidRepository, SessionRepository)

var baseTime = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

// Helper to create a new Session
func newSession(id, itemName string, status models.SessionStatus, createdAt time.Time) models.Session {
	return models.Session{
		ID:              id,
		ItemName:        itemName,
		ItemDescription: fmt.Sprintf("%s description", itemName),
		StartingPrice:   100,
		Status:          status,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
}

// Helper to create a new BidWrite
func newWrite(sessionID, id, name string, amount float64, at time.Time) BidWrite {
	return BidWrite{
		SessionID: sessionID,
		ID:        id,
		NewID:     uuid.NewString(),
		Name:      name,
		Amount:    amount,
		At:        at,
	}
}

func runBidRepositoryContract(t *testing.T, factory repoFactory) {
	ctx := context.Background()

	t.Run("create_then_update_by_name", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		created, err := bids.SaveBid(ctx, newWrite("s1", "", "Ann", 100, baseTime))
		require.NoError(t, err)
		require.Equal(t, "Ann", created.Name)
		require.Equal(t, "s1", created.SessionID)

		updated, err := bids.SaveBid(ctx, newWrite("s1", "", "ann", 200, baseTime.Add(time.Second)))
		require.NoError(t, err)
		require.Equal(t, created.ID, updated.ID)
		require.Equal(t, "Ann", updated.Name)
		require.Equal(t, 200.0, updated.Amount)
		require.True(t, created.CreatedAt.Equal(updated.CreatedAt))
		require.True(t, updated.UpdatedAt.Equal(baseTime.Add(time.Second)))

		list, err := bids.ListBids(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("update_by_id_renames", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		created, err := bids.SaveBid(ctx, newWrite("s1", "", "Ann", 100, baseTime))
		require.NoError(t, err)

		renamed, err := bids.SaveBid(ctx, newWrite("s1", created.ID, "Annie", 150, baseTime.Add(time.Second)))
		require.NoError(t, err)
		require.Equal(t, created.ID, renamed.ID)
		require.Equal(t, "Annie", renamed.Name)
		require.Equal(t, 150.0, renamed.Amount)
	})

	t.Run("rename_onto_other_bidder_rejected", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		ann, err := bids.SaveBid(ctx, newWrite("s1", "", "Ann", 100, baseTime))
		require.NoError(t, err)
		_, err = bids.SaveBid(ctx, newWrite("s1", "", "Bob", 50, baseTime))
		require.NoError(t, err)

		_, err = bids.SaveBid(ctx, newWrite("s1", ann.ID, "BOB", 300, baseTime.Add(time.Second)))
		require.ErrorIs(t, err, auctionerrors.ErrDuplicateName)

		list, err := bids.ListBids(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, list, 2)
	})

	t.Run("unknown_id_falls_back_to_name", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		ann, err := bids.SaveBid(ctx, newWrite("s1", "", "Ann", 100, baseTime))
		require.NoError(t, err)

		again, err := bids.SaveBid(ctx, newWrite("s1", "no-such-id", "ANN", 120, baseTime.Add(time.Second)))
		require.NoError(t, err)
		require.Equal(t, ann.ID, again.ID)
		require.Equal(t, 120.0, again.Amount)
	})

	t.Run("unknown_session", func(t *testing.T) {
		bids, _ := factory(t)
		_, err := bids.SaveBid(ctx, newWrite("missing", "", "Ann", 100, baseTime))
		require.ErrorIs(t, err, auctionerrors.ErrSessionNotFound)
	})

	t.Run("names_scoped_per_session", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))
		require.NoError(t, sessions.CreateSession(ctx, newSession("s2", "Lamp", models.StatusActive, baseTime)))

		_, err := bids.SaveBid(ctx, newWrite("s1", "", "Ann", 100, baseTime))
		require.NoError(t, err)
		_, err = bids.SaveBid(ctx, newWrite("s2", "", "Ann", 300, baseTime))
		require.NoError(t, err)

		s1, err := bids.ListBids(ctx, "s1")
		require.NoError(t, err)
		s2, err := bids.ListBids(ctx, "s2")
		require.NoError(t, err)
		require.Len(t, s1, 1)
		require.Len(t, s2, 1)
		require.Equal(t, 100.0, s1[0].Amount)
		require.Equal(t, 300.0, s2[0].Amount)
	})

	t.Run("list_is_ranked", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		for i, amount := range []float64{50, 500, 0, 250, 500} {
			_, err := bids.SaveBid(ctx, newWrite("s1", "", fmt.Sprintf("bidder-%d", i), amount, baseTime.Add(time.Duration(i)*time.Second)))
			require.NoError(t, err)
		}

		list, err := bids.ListBids(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, list, 5)
		require.True(t, models.IsRanked(list))
		require.Equal(t, "bidder-1", list[0].Name)
		require.Equal(t, "bidder-4", list[1].Name)
	})

	t.Run("delete_and_reset", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		ann, err := bids.SaveBid(ctx, newWrite("s1", "", "Ann", 100, baseTime))
		require.NoError(t, err)
		_, err = bids.SaveBid(ctx, newWrite("s1", "", "Bob", 200, baseTime))
		require.NoError(t, err)

		require.NoError(t, bids.DeleteBid(ctx, "s1", ann.ID))
		require.NoError(t, bids.DeleteBid(ctx, "s1", ann.ID), "delete must be idempotent")
		require.NoError(t, bids.DeleteBid(ctx, "s1", "does-not-exist"))

		list, err := bids.ListBids(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Bob", list[0].Name)

		require.NoError(t, bids.DeleteBids(ctx, "s1"))
		require.NoError(t, bids.DeleteBids(ctx, "s1"), "reset must be idempotent")

		list, err = bids.ListBids(ctx, "s1")
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)
	})

	t.Run("concurrent_same_new_name_creates_one_row", func(t *testing.T) {
		bids, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		const writers = 20
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := bids.SaveBid(ctx, newWrite("s1", "", "Zed", float64(100+i), baseTime))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		list, err := bids.ListBids(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.GreaterOrEqual(t, list[0].Amount, 100.0)
	})
}

func runSessionRepositoryContract(t *testing.T, factory repoFactory) {
	ctx := context.Background()

	t.Run("create_get", func(t *testing.T) {
		_, sessions := factory(t)
		s := newSession("s1", "Vase", models.StatusActive, baseTime)
		require.NoError(t, sessions.CreateSession(ctx, s))

		loaded, err := sessions.GetSession(ctx, "s1")
		require.NoError(t, err)
		require.Equal(t, s.ItemName, loaded.ItemName)
		require.Equal(t, s.ItemDescription, loaded.ItemDescription)
		require.Equal(t, s.StartingPrice, loaded.StartingPrice)
		require.Equal(t, models.StatusActive, loaded.Status)
		require.True(t, s.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("get_missing", func(t *testing.T) {
		_, sessions := factory(t)
		_, err := sessions.GetSession(ctx, "nope")
		require.ErrorIs(t, err, auctionerrors.ErrSessionNotFound)
	})

	t.Run("update_merges_fields", func(t *testing.T) {
		_, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "Vase", models.StatusActive, baseTime)))

		completed := models.StatusCompleted
		at := baseTime.Add(time.Minute)
		updated, err := sessions.UpdateSession(ctx, "s1", models.SessionPatch{Status: &completed}, at)
		require.NoError(t, err)
		require.Equal(t, models.StatusCompleted, updated.Status)
		require.Equal(t, "Vase", updated.ItemName)
		require.True(t, updated.UpdatedAt.Equal(at))
		require.True(t, updated.CreatedAt.Equal(baseTime))

		// completed is not terminal at the store layer
		active := models.StatusActive
		name := "Blue Vase"
		updated, err = sessions.UpdateSession(ctx, "s1", models.SessionPatch{Status: &active, ItemName: &name}, at.Add(time.Minute))
		require.NoError(t, err)
		require.Equal(t, models.StatusActive, updated.Status)
		require.Equal(t, "Blue Vase", updated.ItemName)
	})

	t.Run("update_missing", func(t *testing.T) {
		_, sessions := factory(t)
		completed := models.StatusCompleted
		_, err := sessions.UpdateSession(ctx, "nope", models.SessionPatch{Status: &completed}, baseTime)
		require.ErrorIs(t, err, auctionerrors.ErrSessionNotFound)
	})

	t.Run("list_newest_first", func(t *testing.T) {
		_, sessions := factory(t)
		require.NoError(t, sessions.CreateSession(ctx, newSession("s1", "A", models.StatusCompleted, baseTime)))
		require.NoError(t, sessions.CreateSession(ctx, newSession("s3", "C", models.StatusActive, baseTime.Add(2*time.Minute))))
		require.NoError(t, sessions.CreateSession(ctx, newSession("s2", "B", models.StatusActive, baseTime.Add(time.Minute))))

		list, err := sessions.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		require.Equal(t, "s3", list[0].ID)
		require.Equal(t, "s2", list[1].ID)
		require.Equal(t, "s1", list[2].ID)
	})

	t.Run("list_empty", func(t *testing.T) {
		_, sessions := factory(t)
		list, err := sessions.ListSessions(ctx)
		require.NoError(t, err)
		require.NotNil(t, list)
		require.Empty(t, list)
	})
}
