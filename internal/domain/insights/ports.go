package insights

import (
	"context"
	"io"
	"time"

	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/domain/doses"
	"peptide-tracker/internal/domain/protocols"
	"peptide-tracker/internal/kinetics"
)

// DoseSource reads a user's dose log.
type DoseSource interface {
	Recent(ctx context.Context, userID string, limit int) ([]doses.Dose, error)
	Since(ctx context.Context, userID string, from *time.Time) ([]doses.Dose, error)
	List(ctx context.Context, userID string, filter doses.ListFilter) ([]doses.Dose, error)
}

type CompoundIndex interface {
	Index(ctx context.Context, ids []string) (map[string]compounds.Compound, error)
}

type PlanSource interface {
	NextDueItem(ctx context.Context, userID string) (protocols.Item, bool, error)
}

// Renderer draws PNGs for the chart and gauge endpoints.
type Renderer interface {
	Chart(w io.Writer, c Chart) error
	Gauge(w io.Writer, g Gauge) error
}

type Series struct {
	Label  string
	Points []kinetics.Sample
	Peak   kinetics.Peak
}

// Chart is a renderer-ready levels chart. Series only holds visible compounds.
type Chart struct {
	Title  string
	Start  time.Time
	End    time.Time
	Now    time.Time
	Max    float64
	Series []Series
}

type Gauge struct {
	Progress float64 // fraction of the interval remaining, 0..1
	Overdue  bool
	Title    string
	Caption  string
}
