package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"auction-board/internal/syncengine"

	"github.com/dustin/go-humanize"
)

const (
	clearScreen = "\033[H\033[2J"
	barWidth    = 40
)

// Render draws view highest bid first: a waterfall of bars in dashboard
// mode, a table with ids and update times in admin mode.
func Render(view syncengine.View, mode string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "AUCTION %s  [%s]  rev %d\n", strings.ToUpper(mode), view.State, view.Revision)

	if view.State != syncengine.StateShowing || view.Session == nil {
		b.WriteString("\nNo auction session.\n")
		writeFooter(&b, view, now)
		return b.String()
	}

	s := view.Session
	fmt.Fprintf(&b, "\n%s (%s)\n", s.ItemName, s.Status)
	if s.ItemDescription != "" {
		fmt.Fprintf(&b, "%s\n", s.ItemDescription)
	}
	fmt.Fprintf(&b, "Starting price: %s\n\n", money(s.StartingPrice))

	if len(view.Bids) == 0 {
		b.WriteString("No bids yet.\n")
	}

	nameWidth := 4
	for _, bid := range view.Bids {
		if n := len([]rune(bid.Name)); n > nameWidth {
			nameWidth = n
		}
	}
	for i, bid := range view.Bids {
		if mode == "admin" {
			fmt.Fprintf(&b, "%3d. %-*s %14s  %s  updated %s\n", i+1, nameWidth, bid.Name, money(bid.Amount), bid.ID, humanize.RelTime(bid.UpdatedAt, now, "ago", "from now"))
			continue
		}
		fmt.Fprintf(&b, "%3d. %-*s %s %s\n", i+1, nameWidth, bid.Name, bar(bid.Amount, view.Summary.Highest), money(bid.Amount))
	}

	fmt.Fprintf(&b, "\nBids: %d  Total: %s  Highest: %s", view.Summary.Count, money(view.Summary.Total), money(view.Summary.Highest))
	if view.Summary.LeaderName != "" {
		fmt.Fprintf(&b, "  Leader: %s", view.Summary.LeaderName)
	}
	b.WriteString("\n")

	writeFooter(&b, view, now)
	return b.String()
}

func writeFooter(b *strings.Builder, view syncengine.View, now time.Time) {
	synced := "never"
	if !view.LastSyncedAt.IsZero() {
		synced = humanize.RelTime(view.LastSyncedAt, now, "ago", "from now")
	}
	fmt.Fprintf(b, "\nSynced %s", synced)
	if view.LastError != "" {
		fmt.Fprintf(b, "  (showing last known data: %s)", view.LastError)
	}
	b.WriteString("\n")
}

func bar(amount, highest float64) string {
	if highest <= 0 || amount <= 0 {
		return strings.Repeat(" ", barWidth)
	}
	n := int(math.Round(amount / highest * barWidth))
	if n < 1 {
		n = 1
	}
	return strings.Repeat("#", n) + strings.Repeat(" ", barWidth-n)
}

func money(amount float64) string {
	return "$" + humanize.CommafWithDigits(amount, 2)
}
