package compounds

import (
	"time"

	"peptide-tracker/internal/schedule"
)

// Compound is a reference-library entry. Read-only for users.
type Compound struct {
	ID   string
	Slug string
	Name string

	Description string
	Routes      []string
	Tags        []string

	TypicalDoseMin float64
	TypicalDoseMax float64
	DoseUnit       string // "mcg", "mg", "iu"

	// HalfLifeHours is nil when unknown; simulators apply their own fallback.
	HalfLifeHours *float64

	DefaultFrequency schedule.FrequencyKind

	CreatedAt time.Time
}
