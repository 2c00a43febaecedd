package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount float64
		want   float64
	}{
		{name: "positive", amount: 150.5, want: 150.5},
		{name: "zero", amount: 0, want: 0},
		{name: "negative", amount: -10, want: 0},
		{name: "nan", amount: math.NaN(), want: 0},
		{name: "positive_inf", amount: math.Inf(1), want: 0},
		{name: "negative_inf", amount: math.Inf(-1), want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, NormalizeAmount(tc.amount))
		})
	}
}

func TestNameKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ann", NameKey("  Ann "))
	require.Equal(t, NameKey("ANN"), NameKey("ann"))
	require.Equal(t, "", NameKey("   "))
}

func TestRankBids(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	bids := []Bid{
		{ID: "a", Name: "A", Amount: 100, CreatedAt: base, UpdatedAt: base.Add(3 * time.Second)},
		{ID: "b", Name: "B", Amount: 300, CreatedAt: base, UpdatedAt: base},
		{ID: "c", Name: "C", Amount: 100, CreatedAt: base, UpdatedAt: base.Add(time.Second)},
		{ID: "d", Name: "D", Amount: 0, CreatedAt: base, UpdatedAt: base},
	}

	RankBids(bids)

	require.True(t, IsRanked(bids))
	ids := make([]string, 0, len(bids))
	for _, b := range bids {
		ids = append(ids, b.ID)
	}
	// c reached 100 before a did
	require.Equal(t, []string{"b", "c", "a", "d"}, ids)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, BidSummary{}, Summarize(nil))
	})

	t.Run("ranked_list", func(t *testing.T) {
		t.Parallel()
		summary := Summarize([]Bid{
			{Name: "Ann", Amount: 500},
			{Name: "Bob", Amount: 200},
			{Name: "Cid", Amount: 0},
		})
		require.Equal(t, 3, summary.Count)
		require.Equal(t, 700.0, summary.Total)
		require.Equal(t, 500.0, summary.Highest)
		require.Equal(t, "Ann", summary.LeaderName)
	})
}

func TestSortSessions(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions := []Session{
		{ID: "1", CreatedAt: base},
		{ID: "3", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "2", CreatedAt: base.Add(time.Minute)},
	}

	SortSessions(sessions)

	require.Equal(t, "3", sessions[0].ID)
	require.Equal(t, "2", sessions[1].ID)
	require.Equal(t, "1", sessions[2].ID)
}

func TestSessionStatus_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, StatusActive.Valid())
	require.True(t, StatusCompleted.Valid())
	require.False(t, SessionStatus("draft").Valid())
	require.False(t, SessionStatus("").Valid())
}
