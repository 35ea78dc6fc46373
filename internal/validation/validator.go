// Package validation guards the durable dataset against partial scrapes.
// A scrape that returns far fewer products than the last accepted run is
// far more likely a broken fetch than a real inventory collapse, so it is
// rejected before it can overwrite good data.
package validation

import "fmt"

// DefaultDropThreshold is the fraction of the previous count a snapshot
// may lose before it is rejected. 0.30 means a 30% drop is still
// acceptable; anything beyond is treated as a bad scrape.
const DefaultDropThreshold = 0.30

// Result is the outcome of validating one candidate snapshot.
type Result struct {
	Accepted      bool    `json:"accepted"`
	PreviousCount int     `json:"previous_count"`
	NewCount      int     `json:"new_count"`
	DropRatio     float64 `json:"drop_ratio"`
	Reason        string  `json:"reason,omitempty"`
}

// Validator decides whether a candidate snapshot may replace the last
// accepted one. It is stateless; both counts arrive from the caller, so
// the same validator serves every competitor.
type Validator struct {
	threshold float64
}

// New returns a validator with the given drop threshold. Out-of-range
// thresholds fall back to the default.
func New(threshold float64) *Validator {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultDropThreshold
	}
	return &Validator{threshold: threshold}
}

// Threshold returns the configured drop threshold.
func (v *Validator) Threshold() float64 { return v.threshold }

// Check compares the candidate count against the last persisted accepted
// count for the same competitor.
//
// A previous count of zero always accepts: with no baseline there is
// nothing to protect, and first runs must be able to seed the store. With
// a baseline, the snapshot is rejected only when the relative drop
// strictly exceeds the threshold. At the default 0.30 a drop from 100 to
// 70 is exactly 30% and is accepted; 100 to 69 is rejected. Growth never
// rejects.
func (v *Validator) Check(previousCount, newCount int) Result {
	res := Result{
		PreviousCount: previousCount,
		NewCount:      newCount,
	}

	if previousCount == 0 {
		res.Accepted = true
		res.Reason = "no baseline"
		return res
	}

	drop := float64(previousCount-newCount) / float64(previousCount)
	res.DropRatio = drop

	if drop > v.threshold {
		res.Accepted = false
		res.Reason = fmt.Sprintf("product count dropped %.1f%% (from %d to %d), exceeds %.0f%% threshold",
			drop*100, previousCount, newCount, v.threshold*100)
		return res
	}

	res.Accepted = true
	return res
}
