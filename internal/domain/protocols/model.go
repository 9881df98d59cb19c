package protocols

import (
	"time"

	"peptide-tracker/internal/schedule"
)

// Protocol is a dosing plan. Items keep their insertion order; the first
// item of the newest active protocol drives the next-dose gauge.
type Protocol struct {
	ID     string
	UserID string
	Name   string
	Active bool

	StartDate     *time.Time
	EndDate       *time.Time
	CycleOnWeeks  *int
	CycleOffWeeks *int
	Notes         string

	Items []Item

	CreatedAt time.Time
}

type Item struct {
	ID         string
	ProtocolID string
	CompoundID string
	CustomName string

	DoseAmount float64
	DoseUnit   string
	Route      string

	Frequency     schedule.FrequencyKind
	FrequencyDays []int  // 0=Sunday..6; only for custom
	PreferredTime string // "HH:MM", optional

	Position int
}

// ScheduleItem is the predictor's view of the item.
func (i Item) ScheduleItem() schedule.Item {
	return schedule.Item{
		CompoundID: i.CompoundID,
		Frequency:  i.Frequency,
		DoseAmount: i.DoseAmount,
		DoseUnit:   i.DoseUnit,
	}
}
