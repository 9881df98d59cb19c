package insights

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/domain/doses"
	"peptide-tracker/internal/domain/protocols"
	"peptide-tracker/internal/domain/wellness"
	"peptide-tracker/internal/kinetics"
	"peptide-tracker/internal/schedule"
)

var ErrInvalidInput = errors.New("invalid input")

type WindowKind string

const (
	WindowShort WindowKind = "short"
	WindowLong  WindowKind = "long"
)

func ParseWindow(s string) (WindowKind, error) {
	switch w := WindowKind(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return WindowShort, nil
	case WindowShort, WindowLong:
		return w, nil
	default:
		return "", fmt.Errorf("%w: window must be short or long", ErrInvalidInput)
	}
}

// DefaultRecentLimit caps the dose history behind the short chart.
const DefaultRecentLimit = 200

// allFallbackMonths is the long-window span for ALL when there is no history.
const allFallbackMonths = 12

type Options struct {
	Short       kinetics.Simulator
	Long        kinetics.Simulator
	RecentLimit int
}

func DefaultOptions() Options {
	return Options{
		Short:       kinetics.ShortTerm(),
		Long:        kinetics.LongTerm(),
		RecentLimit: DefaultRecentLimit,
	}
}

type Service struct {
	doses     DoseSource
	compounds CompoundIndex
	plans     PlanSource
	renderer  Renderer
	opts      Options
	now       func() time.Time
}

func NewService(ds DoseSource, ci CompoundIndex, ps PlanSource, r Renderer, opts Options) *Service {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	return &Service{
		doses:     ds,
		compounds: ci,
		plans:     ps,
		renderer:  r,
		opts:      opts,
		now:       time.Now,
	}
}

type LevelsQuery struct {
	Window     WindowKind
	Range      wellness.Range // long window only
	CompoundID string
}

type Levels struct {
	Window    WindowKind
	Now       time.Time
	Result    kinetics.Result
	Compounds map[string]compounds.Compound
}

// Levels loads the user's doses and runs the simulator for the requested window.
func (s *Service) Levels(ctx context.Context, userID string, q LevelsQuery) (Levels, error) {
	now := s.now()

	var (
		items []doses.Dose
		sim   kinetics.Simulator
		win   kinetics.Window
		err   error
	)
	switch q.Window {
	case WindowShort, "":
		q.Window = WindowShort
		items, err = s.doses.Recent(ctx, userID, s.opts.RecentLimit)
		sim = s.opts.Short
		win = kinetics.ShortTermWindow(now)
	case WindowLong:
		// earlier doses still decay into the window, so load all of them
		items, err = s.doses.Since(ctx, userID, nil)
		sim = s.opts.Long
		win = kinetics.LongTermWindow(longStart(q.Range, items, now), now)
	default:
		return Levels{}, ErrInvalidInput
	}
	if err != nil {
		return Levels{}, err
	}

	if id := strings.TrimSpace(q.CompoundID); id != "" {
		filtered := items[:0:0]
		for _, d := range items {
			if d.CompoundID == id {
				filtered = append(filtered, d)
			}
		}
		items = filtered
	}

	idx, err := s.compounds.Index(ctx, compoundIDs(items))
	if err != nil {
		return Levels{}, err
	}

	return Levels{
		Window:    q.Window,
		Now:       now,
		Result:    sim.Simulate(toKinetics(items, idx), win),
		Compounds: idx,
	}, nil
}

// longStart is the range cutoff, or the first dose for ALL.
func longStart(r wellness.Range, items []doses.Dose, now time.Time) time.Time {
	if c := r.Cutoff(now); c != nil {
		return *c
	}
	if len(items) == 0 {
		return now.AddDate(0, -allFallbackMonths, 0)
	}
	first := items[0].LoggedAt
	for _, d := range items[1:] {
		if d.LoggedAt.Before(first) {
			first = d.LoggedAt
		}
	}
	return first
}

func compoundIDs(items []doses.Dose) []string {
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, d := range items {
		if !seen[d.CompoundID] {
			seen[d.CompoundID] = true
			out = append(out, d.CompoundID)
		}
	}
	sort.Strings(out)
	return out
}

func toKinetics(items []doses.Dose, idx map[string]compounds.Compound) []kinetics.Dose {
	out := make([]kinetics.Dose, 0, len(items))
	for _, d := range items {
		kd := kinetics.Dose{CompoundID: d.CompoundID, At: d.LoggedAt, Amount: d.Amount}
		if c, ok := idx[d.CompoundID]; ok {
			kd.HalfLifeHours = c.HalfLifeHours
		}
		out = append(out, kd)
	}
	return out
}

type NextDose struct {
	Item       protocols.Item
	Compound   *compounds.Compound
	LastDoseAt *time.Time
	Prediction schedule.Prediction
	Now        time.Time
}

func (n NextDose) Progress() float64        { return n.Prediction.Progress(n.Now) }
func (n NextDose) Overdue() bool            { return n.Prediction.Overdue(n.Now) }
func (n NextDose) Remaining() time.Duration { return n.Prediction.Remaining(n.Now) }

// NextDose predicts the next dose of the user's current plan item.
// ok is false when there is no active protocol.
func (s *Service) NextDose(ctx context.Context, userID string) (NextDose, bool, error) {
	item, ok, err := s.plans.NextDueItem(ctx, userID)
	if err != nil || !ok {
		return NextDose{}, false, err
	}

	latest, err := s.doses.List(ctx, userID, doses.ListFilter{CompoundID: item.CompoundID, Limit: 1})
	if err != nil {
		return NextDose{}, false, err
	}
	events := make([]schedule.Event, 0, len(latest))
	for _, d := range latest {
		events = append(events, schedule.Event{CompoundID: d.CompoundID, At: d.LoggedAt})
	}

	now := s.now()
	last := schedule.LastMatching(events, item.CompoundID)
	out := NextDose{
		Item:       item,
		LastDoseAt: last,
		Prediction: schedule.PredictNext(item.ScheduleItem(), last, now),
		Now:        now,
	}

	idx, err := s.compounds.Index(ctx, []string{item.CompoundID})
	if err != nil {
		return NextDose{}, false, err
	}
	if c, ok := idx[item.CompoundID]; ok {
		out.Compound = &c
	}
	return out, true, nil
}
