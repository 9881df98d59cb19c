package wellness

import "time"

// Entry is one day of self-reported wellness. One per user and date.
type Entry struct {
	ID     string
	UserID string
	Date   time.Time // midnight UTC

	// 1..10, nil when not reported
	SleepQuality *int
	EnergyLevel  *int
	Mood         *int

	WeightKg    *float64
	SideEffects []string
	Notes       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const DateLayout = "2006-01-02"
