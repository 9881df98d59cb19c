// Package kinetics estimates compound concentration over time by superposing
// first-order exponential decay from every logged dose.
//
// The model is a display aid: every dose enters the blood at once and then
// halves every half-life. There is no absorption phase and no clearance other
// than the half-life.
package kinetics

import (
	"math"
	"sort"
	"time"
)

const (
	// ShortTermFallbackHours applies to the 48h dashboard chart.
	ShortTermFallbackHours = 4.0
	// LongTermFallbackHours applies to the multi-month results simulation.
	LongTermFallbackHours = 24.0

	// DefaultThreshold hides compounds whose peak never leaves zero.
	DefaultThreshold = 0.001

	// ShortTermSpan is the distance from now to each edge of the short window.
	ShortTermSpan  = 24 * time.Hour
	ShortTermSteps = 120
)

// Dose is one administration as seen by the simulator.
type Dose struct {
	CompoundID    string
	At            time.Time
	Amount        float64
	HalfLifeHours *float64 // nil => simulator fallback
}

// Window is the sampled range. Steps intervals give Steps+1 samples,
// both edges included.
type Window struct {
	Start time.Time
	End   time.Time
	Steps int
}

type Sample struct {
	At    time.Time
	Level float64
}

type Peak struct {
	Value float64
	At    time.Time
}

// ConcentrationSample is one column of the chart: every compound's level at At.
type ConcentrationSample struct {
	At     time.Time
	Levels map[string]float64
}

type Result struct {
	Window Window

	// PerCompound holds a series for every compound that had at least one dose
	// in the input, including flat-zero series.
	PerCompound map[string][]Sample

	// Peaks and Visible only list compounds whose peak reached the threshold.
	Peaks   map[string]Peak
	Visible []string

	// Max is the shared Y-axis ceiling; never zero.
	Max float64
}

// Simulator holds the context-dependent policy. The zero value is usable and
// behaves like ShortTerm().
type Simulator struct {
	FallbackHalfLife float64 // hours
	Threshold        float64
}

func NewSimulator(fallbackHours float64) Simulator {
	return Simulator{FallbackHalfLife: fallbackHours, Threshold: DefaultThreshold}
}

// ShortTerm is the dashboard chart policy.
func ShortTerm() Simulator { return NewSimulator(ShortTermFallbackHours) }

// LongTerm is the results page policy.
func LongTerm() Simulator { return NewSimulator(LongTermFallbackHours) }

// ShortTermWindow is now-24h .. now+24h in 120 steps.
func ShortTermWindow(now time.Time) Window {
	return Window{
		Start: now.Add(-ShortTermSpan),
		End:   now.Add(ShortTermSpan),
		Steps: ShortTermSteps,
	}
}

// LongTermWindow samples once per day from start to now. A start at or after
// now still yields a one-day window ending at now.
func LongTermWindow(start, now time.Time) Window {
	if !start.Before(now) {
		start = now.Add(-24 * time.Hour)
	}
	days := int(math.Ceil(now.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return Window{
		Start: now.Add(-time.Duration(days) * 24 * time.Hour),
		End:   now,
		Steps: days,
	}
}

func (s Simulator) fallback() float64 {
	if valid(s.FallbackHalfLife) {
		return s.FallbackHalfLife
	}
	return ShortTermFallbackHours
}

func (s Simulator) threshold() float64 {
	if s.Threshold > 0 && !math.IsInf(s.Threshold, 0) {
		return s.Threshold
	}
	return DefaultThreshold
}

// HalfLife returns the half-life the simulator uses for d.
func (s Simulator) HalfLife(d Dose) float64 {
	if d.HalfLifeHours != nil && valid(*d.HalfLifeHours) {
		return *d.HalfLifeHours
	}
	return s.fallback()
}

// Contribution is what d adds to the level at t. Zero before the dose.
func (s Simulator) Contribution(d Dose, t time.Time) float64 {
	if t.Before(d.At) {
		return 0
	}
	amount := d.Amount
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	hours := t.Sub(d.At).Hours()
	return amount * math.Exp2(-hours/s.HalfLife(d))
}

// Level sums the contributions of doses at t, whatever their compound.
func (s Simulator) Level(doses []Dose, t time.Time) float64 {
	var total float64
	for _, d := range doses {
		total += s.Contribution(d, t)
	}
	return total
}

// Simulate samples every compound across w.
func (s Simulator) Simulate(doses []Dose, w Window) Result {
	res := Result{
		Window:      w,
		PerCompound: map[string][]Sample{},
		Peaks:       map[string]Peak{},
		Visible:     []string{},
		Max:         1,
	}
	if !w.Start.Before(w.End) {
		return res
	}
	if w.Steps < 1 {
		w.Steps = 1
		res.Window = w
	}

	byCompound := map[string][]Dose{}
	for _, d := range doses {
		byCompound[d.CompoundID] = append(byCompound[d.CompoundID], d)
	}
	ids := make([]string, 0, len(byCompound))
	for id := range byCompound {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	span := w.End.Sub(w.Start)
	threshold := s.threshold()
	globalMax := 0.0

	for _, id := range ids {
		series := make([]Sample, 0, w.Steps+1)
		peak := Peak{At: w.Start}
		for i := 0; i <= w.Steps; i++ {
			t := w.Start.Add(time.Duration(float64(span) * float64(i) / float64(w.Steps)))
			if i == w.Steps {
				t = w.End
			}
			level := s.Level(byCompound[id], t)
			if level > peak.Value {
				peak = Peak{Value: level, At: t}
			}
			series = append(series, Sample{At: t, Level: level})
		}
		res.PerCompound[id] = series

		if peak.Value < threshold {
			continue
		}
		res.Peaks[id] = peak
		res.Visible = append(res.Visible, id)
		if peak.Value > globalMax {
			globalMax = peak.Value
		}
	}

	if globalMax > 0 {
		res.Max = globalMax
	}
	return res
}

// Samples transposes the visible series into chart columns.
func (r Result) Samples() []ConcentrationSample {
	if len(r.Visible) == 0 {
		return nil
	}
	n := len(r.PerCompound[r.Visible[0]])
	out := make([]ConcentrationSample, n)
	for i := 0; i < n; i++ {
		out[i] = ConcentrationSample{
			At:     r.PerCompound[r.Visible[0]][i].At,
			Levels: make(map[string]float64, len(r.Visible)),
		}
		for _, id := range r.Visible {
			out[i].Levels[id] = r.PerCompound[id][i].Level
		}
	}
	return out
}

// Scale maps a level onto [0,1] of the shared axis.
func (r Result) Scale(level float64) float64 {
	if r.Max <= 0 {
		return level
	}
	return level / r.Max
}

func valid(hours float64) bool {
	return hours > 0 && !math.IsNaN(hours) && !math.IsInf(hours, 0)
}
