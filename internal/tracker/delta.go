// Package tracker records inventory movement between accepted snapshots.
package tracker

import (
	"time"

	"github.com/refurbtrack/price-tracker/internal/types"
)

// Delta is the movement of one competitor's product count between the
// previously persisted snapshot and a newly accepted one.
type Delta struct {
	Competitor    string    `json:"competitor"`
	PreviousCount int       `json:"previous_count"`
	NewCount      int       `json:"new_count"`
	Change        int       `json:"change"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// Compute returns the delta for an accepted update. Change is always
// new minus previous; a zero change is a real observation and is recorded
// like any other.
func Compute(competitor string, previousCount, newCount int, at time.Time) Delta {
	return Delta{
		Competitor:    competitor,
		PreviousCount: previousCount,
		NewCount:      newCount,
		Change:        newCount - previousCount,
		RecordedAt:    at,
	}
}

// Annotate stamps a snapshot with its change-tracking metadata so the
// delta survives in the durable dataset itself.
func Annotate(snap *types.CompetitorSnapshot, d Delta) {
	snap.TotalProducts = d.NewCount
	snap.PreviousCount = d.PreviousCount
	snap.Change = d.Change
	snap.ScrapeDate = d.RecordedAt
}

// Summarize builds deltas for every competitor in the dataset from the
// metadata stored on each snapshot. Used by the dashboard's overview.
func Summarize(data types.Dataset) []Delta {
	out := make([]Delta, 0, len(data))
	for name, snap := range data {
		out = append(out, Delta{
			Competitor:    name,
			PreviousCount: snap.PreviousCount,
			NewCount:      snap.TotalProducts,
			Change:        snap.Change,
			RecordedAt:    snap.ScrapeDate,
		})
	}
	return out
}
