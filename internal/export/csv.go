// Package export renders a session's bids as a downloadable CSV report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"auction-board/internal/models"
)

// ContentType of the report
const ContentType = "text/csv; charset=utf-8"

// BidHeader is the column row preceding the bid rows
var BidHeader = []string{"Rank", "Name", "Amount", "Created At", "Updated At"}

// WriteCSV writes the session summary rows, a blank row, then one row per bid
// in ranked order.
func WriteCSV(w io.Writer, session models.Session, bids []models.Bid, exportedAt time.Time) error {
	ranked := append([]models.Bid(nil), bids...)
	models.RankBids(ranked)
	summary := models.Summarize(ranked)

	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Item", session.ItemName},
		{"Description", session.ItemDescription},
		{"Starting Price", formatAmount(session.StartingPrice)},
		{"Status", string(session.Status)},
		{"Total Bids", strconv.Itoa(summary.Count)},
		{"Highest Bid", formatAmount(summary.Highest)},
		{"Exported At", formatTime(exportedAt)},
		{},
		BidHeader,
	}
	for i, bid := range ranked {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			bid.Name,
			formatAmount(bid.Amount),
			formatTime(bid.CreatedAt),
			formatTime(bid.UpdatedAt),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Filename names the report after the item and the export date
func Filename(itemName string, exportedAt time.Time) string {
	slug := Slug(itemName)
	if slug == "" {
		slug = "session"
	}
	return fmt.Sprintf("auction-%s-%s.csv", slug, exportedAt.UTC().Format("2006-01-02"))
}

// Slug lowercases s and joins its letter and digit runs with hyphens
func Slug(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
