// Package schedule predicts when the next dose of a recurring plan is due.
package schedule

import (
	"math"
	"time"
)

type FrequencyKind string

const (
	FrequencyDaily            FrequencyKind = "daily"
	FrequencyEveryOtherDay    FrequencyKind = "eod"
	FrequencyThreeTimesWeekly FrequencyKind = "3x_week"
	FrequencyWeekly           FrequencyKind = "weekly"
	FrequencyCustom           FrequencyKind = "custom"
)

const day = 24 * time.Hour

// intervals has no zero entry, so Progress never divides by zero.
var intervals = map[FrequencyKind]float64{
	FrequencyDaily:            1,
	FrequencyEveryOtherDay:    2,
	FrequencyThreeTimesWeekly: 7.0 / 3.0,
	FrequencyWeekly:           7,
}

// fallbackInterval covers custom day lists and unknown kinds.
const fallbackInterval = 7.0

// IntervalDays maps a frequency to its average spacing in days.
func IntervalDays(kind FrequencyKind) float64 {
	if v, ok := intervals[kind]; ok {
		return v
	}
	return fallbackInterval
}

// Known reports whether kind is one of the supported frequency kinds.
func Known(kind FrequencyKind) bool {
	_, ok := intervals[kind]
	return ok || kind == FrequencyCustom
}

// Item is the part of a protocol entry the predictor needs.
type Item struct {
	CompoundID string
	Frequency  FrequencyKind
	DoseAmount float64
	DoseUnit   string
}

type Prediction struct {
	NextDueAt    time.Time
	IntervalDays float64
	HasHistory   bool
}

// PredictNext returns now when there is no prior dose; otherwise last plus
// one interval, even when that is already in the past.
func PredictNext(item Item, last *time.Time, now time.Time) Prediction {
	interval := IntervalDays(item.Frequency)
	if last == nil {
		return Prediction{NextDueAt: now, IntervalDays: interval}
	}
	return Prediction{
		NextDueAt:    last.Add(daysToDuration(interval)),
		IntervalDays: interval,
		HasHistory:   true,
	}
}

// Progress is the fraction of the interval still remaining, clamped to [0,1].
func Progress(nextDueAt time.Time, intervalDays float64, now time.Time) float64 {
	total := daysToDuration(intervalDays)
	if total <= 0 {
		return 0
	}
	p := float64(nextDueAt.Sub(now)) / float64(total)
	return math.Max(0, math.Min(1, p))
}

func (p Prediction) Progress(now time.Time) float64 {
	return Progress(p.NextDueAt, p.IntervalDays, now)
}

// Overdue is true once the due time has passed. A "no history" prediction
// is due, not overdue.
func (p Prediction) Overdue(now time.Time) bool {
	return p.HasHistory && p.NextDueAt.Before(now)
}

// Remaining is the time left until the dose, never negative.
func (p Prediction) Remaining(now time.Time) time.Duration {
	d := p.NextDueAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Event is a logged dose reduced to what matching needs.
type Event struct {
	CompoundID string
	At         time.Time
}

// LastMatching returns the latest event time for compoundID, or nil.
func LastMatching(events []Event, compoundID string) *time.Time {
	var last *time.Time
	for i := range events {
		if events[i].CompoundID != compoundID {
			continue
		}
		if last == nil || events[i].At.After(*last) {
			at := events[i].At
			last = &at
		}
	}
	return last
}

func daysToDuration(days float64) time.Duration {
	return time.Duration(days * float64(day))
}
