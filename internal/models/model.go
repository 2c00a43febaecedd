package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

// SessionStatus is the lifecycle status of an auction session
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// Valid reports whether s is a known status
func (s SessionStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// Session represents one auction lot
type Session struct {
	ID              string        `json:"id"`
	ItemName        string        `json:"item_name"`
	ItemDescription string        `json:"item_description"`
	StartingPrice   float64       `json:"starting_price"`
	Status          SessionStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Bid represents a bidder's committed amount within a session
type Bid struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BidInput is the admin-side request to create or update a bid
type BidInput struct {
	ID     string
	Name   string
	Amount float64
}

// SessionPatch holds the fields to merge into a session; nil fields are left untouched
type SessionPatch struct {
	ItemName        *string
	ItemDescription *string
	StartingPrice   *float64
	Status          *SessionStatus
}

// Empty reports whether the patch changes nothing
func (p SessionPatch) Empty() bool {
	return p.ItemName == nil && p.ItemDescription == nil && p.StartingPrice == nil && p.Status == nil
}

// BidSummary aggregates the figures shown next to the waterfall
type BidSummary struct {
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	Highest    float64 `json:"highest"`
	LeaderName string  `json:"leader_name,omitempty"`
}

// NameKey is the case-insensitive identity of a bidder name
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeAmount maps invalid amounts (NaN, infinities, negatives) to 0
func NormalizeAmount(amount float64) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0
	}
	return amount
}

// bidRanksBefore orders by amount desc; ties go to whoever reached the amount first
func bidRanksBefore(a, b Bid) bool {
	if a.Amount != b.Amount {
		return a.Amount > b.Amount
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// RankBids sorts bids in place into display order
func RankBids(bids []Bid) {
	sort.SliceStable(bids, func(i, j int) bool { return bidRanksBefore(bids[i], bids[j]) })
}

// IsRanked reports whether bids are already in display order
func IsRanked(bids []Bid) bool {
	return sort.SliceIsSorted(bids, func(i, j int) bool { return bidRanksBefore(bids[i], bids[j]) })
}

// Summarize computes dashboard figures for a ranked bid list
func Summarize(bids []Bid) BidSummary {
	summary := BidSummary{Count: len(bids)}
	for i, b := range bids {
		summary.Total += b.Amount
		if i == 0 || b.Amount > summary.Highest {
			summary.Highest = b.Amount
			summary.LeaderName = b.Name
		}
	}
	return summary
}

// SortSessions orders sessions newest first
func SortSessions(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
		}
		return sessions[i].ID > sessions[j].ID
	})
}
