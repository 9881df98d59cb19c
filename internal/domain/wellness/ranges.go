package wellness

import (
	"fmt"
	"strings"
	"time"
)

// Range is a look-back selector shared by the results views.
type Range string

const (
	Range1M  Range = "1M"
	Range3M  Range = "3M"
	Range6M  Range = "6M"
	RangeAll Range = "ALL"
)

const DefaultRange = Range3M

func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToUpper(strings.TrimSpace(s))); r {
	case "":
		return DefaultRange, nil
	case Range1M, Range3M, Range6M, RangeAll:
		return r, nil
	default:
		return "", fmt.Errorf("%w: range must be 1M, 3M, 6M or ALL", ErrInvalidInput)
	}
}

// Months is the look-back length; ALL reports 0.
func (r Range) Months() int {
	switch r {
	case Range1M:
		return 1
	case Range3M:
		return 3
	case Range6M:
		return 6
	default:
		return 0
	}
}

// Cutoff is the earliest instant inside the range, nil for ALL.
func (r Range) Cutoff(now time.Time) *time.Time {
	m := r.Months()
	if m == 0 {
		return nil
	}
	t := now.AddDate(0, -m, 0)
	return &t
}
