package wellness

import "time"

// Stats summarises weight over the visible entries.
type Stats struct {
	StartWeight   float64
	CurrentWeight float64
	TotalChange   float64
	PercentChange float64
	WeeklyAverage float64 // kg/week between first and last visible weigh-in
	Samples       int
}

// ComputeStats uses entries that carry a weight, in date order. startWeight
// overrides the first visible weigh-in as the baseline. ok is false when no
// entry has a weight.
func ComputeStats(entries []Entry, startWeight *float64) (Stats, bool) {
	var first, last *Entry
	n := 0
	for i := range entries {
		if entries[i].WeightKg == nil {
			continue
		}
		if first == nil {
			first = &entries[i]
		}
		last = &entries[i]
		n++
	}
	if first == nil {
		return Stats{}, false
	}

	start := *first.WeightKg
	if startWeight != nil && *startWeight > 0 {
		start = *startWeight
	}

	st := Stats{
		StartWeight:   start,
		CurrentWeight: *last.WeightKg,
		TotalChange:   *last.WeightKg - start,
		Samples:       n,
	}
	if start != 0 {
		st.PercentChange = st.TotalChange / start * 100
	}

	weeks := last.Date.Sub(first.Date).Hours() / (24 * 7)
	if weeks < 1 {
		weeks = 1
	}
	st.WeeklyAverage = (*last.WeightKg - *first.WeightKg) / weeks
	return st, true
}

// day truncates t to its UTC calendar date.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
