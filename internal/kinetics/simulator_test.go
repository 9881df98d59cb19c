package kinetics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hl(h float64) *float64 { return &h }

var t0 = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func TestContribution_HalvesEveryHalfLife(t *testing.T) {
	sim := ShortTerm()
	d := Dose{CompoundID: "bpc-157", At: t0, Amount: 250, HalfLifeHours: hl(4)}

	assert.InDelta(t, 250.0, sim.Contribution(d, t0), 1e-9)
	assert.InDelta(t, 125.0, sim.Contribution(d, t0.Add(4*time.Hour)), 1e-9)
	assert.InDelta(t, 62.5, sim.Contribution(d, t0.Add(8*time.Hour)), 1e-9)
	assert.Equal(t, 0.0, sim.Contribution(d, t0.Add(-time.Hour)))
}

func TestContribution_NeverBeforeDose(t *testing.T) {
	sim := LongTerm()
	d := Dose{CompoundID: "x", At: t0, Amount: 1e6, HalfLifeHours: hl(1000)}
	for _, back := range []time.Duration{time.Nanosecond, time.Minute, 24 * time.Hour, 365 * 24 * time.Hour} {
		assert.Equal(t, 0.0, sim.Contribution(d, t0.Add(-back)), "offset %s", back)
	}
}

func TestLevel_Superposition(t *testing.T) {
	sim := ShortTerm()
	a := Dose{CompoundID: "c", At: t0, Amount: 100, HalfLifeHours: hl(6)}
	b := Dose{CompoundID: "c", At: t0.Add(3 * time.Hour), Amount: 40, HalfLifeHours: hl(6)}
	at := t0.Add(10 * time.Hour)

	want := sim.Contribution(a, at) + sim.Contribution(b, at)
	assert.InDelta(t, want, sim.Level([]Dose{a, b}, at), 1e-12)
}

func TestHalfLife_InvalidFallsBack(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		sim  Simulator
		want float64
	}{
		{"nil short", nil, ShortTerm(), 4},
		{"nil long", nil, LongTerm(), 24},
		{"zero", hl(0), ShortTerm(), 4},
		{"negative", hl(-3), LongTerm(), 24},
		{"nan", hl(math.NaN()), ShortTerm(), 4},
		{"inf", hl(math.Inf(1)), ShortTerm(), 4},
		{"valid", hl(12), LongTerm(), 12},
		{"zero value simulator", nil, Simulator{}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.sim.HalfLife(Dose{HalfLifeHours: tt.in})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContribution_NonFiniteAmountIsZero(t *testing.T) {
	sim := ShortTerm()
	for _, amt := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		d := Dose{At: t0, Amount: amt}
		got := sim.Contribution(d, t0.Add(time.Hour))
		assert.Equal(t, 0.0, got)
	}
}

func TestSimulate_SamplesAndPeak(t *testing.T) {
	sim := ShortTerm()
	w := Window{Start: t0.Add(-4 * time.Hour), End: t0.Add(8 * time.Hour), Steps: 3}
	res := sim.Simulate([]Dose{{CompoundID: "bpc", At: t0, Amount: 250, HalfLifeHours: hl(4)}}, w)

	series := res.PerCompound["bpc"]
	require.Len(t, series, 4)
	assert.Equal(t, w.Start, series[0].At)
	assert.Equal(t, w.End, series[3].At)

	assert.Equal(t, 0.0, series[0].Level)
	assert.InDelta(t, 250.0, series[1].Level, 1e-9)
	assert.InDelta(t, 125.0, series[2].Level, 1e-9)
	assert.InDelta(t, 62.5, series[3].Level, 1e-9)

	peak, ok := res.Peaks["bpc"]
	require.True(t, ok)
	assert.InDelta(t, 250.0, peak.Value, 1e-9)
	assert.Equal(t, t0, peak.At)
	assert.InDelta(t, 250.0, res.Max, 1e-9)
	assert.Equal(t, []string{"bpc"}, res.Visible)
}

func TestSimulate_ZeroDoseWindowIsFlatAndHidden(t *testing.T) {
	sim := ShortTerm()
	now := t0
	doses := []Dose{
		{CompoundID: "later", At: now.Add(72 * time.Hour), Amount: 500},
		{CompoundID: "active", At: now.Add(-time.Hour), Amount: 10, HalfLifeHours: hl(4)},
	}
	res := sim.Simulate(doses, ShortTermWindow(now))

	flat := res.PerCompound["later"]
	require.Len(t, flat, ShortTermSteps+1)
	for _, s := range flat {
		assert.Equal(t, 0.0, s.Level)
	}
	_, ok := res.Peaks["later"]
	assert.False(t, ok)
	assert.Equal(t, []string{"active"}, res.Visible)
}

func TestSimulate_SharedMaxAcrossCompounds(t *testing.T) {
	sim := ShortTerm()
	doses := []Dose{
		{CompoundID: "a", At: t0, Amount: 100, HalfLifeHours: hl(2)},
		{CompoundID: "b", At: t0, Amount: 300, HalfLifeHours: hl(2)},
	}
	res := sim.Simulate(doses, Window{Start: t0, End: t0.Add(4 * time.Hour), Steps: 4})

	assert.InDelta(t, 300.0, res.Max, 1e-9)
	assert.InDelta(t, 1.0/3.0, res.Scale(res.Peaks["a"].Value), 1e-9)
	assert.Equal(t, []string{"a", "b"}, res.Visible)
}

func TestSimulate_Degenerate(t *testing.T) {
	sim := ShortTerm()

	empty := sim.Simulate(nil, ShortTermWindow(t0))
	assert.Empty(t, empty.PerCompound)
	assert.Empty(t, empty.Peaks)
	assert.Equal(t, 1.0, empty.Max)
	assert.Nil(t, empty.Samples())

	inverted := sim.Simulate([]Dose{{CompoundID: "a", At: t0, Amount: 1}}, Window{Start: t0, End: t0, Steps: 10})
	assert.Empty(t, inverted.PerCompound)
	assert.Equal(t, 1.0, inverted.Max)

	noSteps := sim.Simulate([]Dose{{CompoundID: "a", At: t0, Amount: 1}}, Window{Start: t0, End: t0.Add(time.Hour), Steps: 0})
	assert.Equal(t, 1, noSteps.Window.Steps)
	assert.Len(t, noSteps.PerCompound["a"], 2)
}

func TestSimulate_NegativeAmountNeverVisible(t *testing.T) {
	res := ShortTerm().Simulate([]Dose{{CompoundID: "neg", At: t0, Amount: -50}}, Window{Start: t0, End: t0.Add(time.Hour), Steps: 2})
	assert.Empty(t, res.Visible)
	assert.Equal(t, 1.0, res.Max)
}

func TestResult_Samples(t *testing.T) {
	sim := ShortTerm()
	doses := []Dose{
		{CompoundID: "a", At: t0, Amount: 8, HalfLifeHours: hl(1)},
		{CompoundID: "b", At: t0, Amount: 16, HalfLifeHours: hl(2)},
	}
	res := sim.Simulate(doses, Window{Start: t0, End: t0.Add(2 * time.Hour), Steps: 2})
	cols := res.Samples()

	require.Len(t, cols, 3)
	assert.InDelta(t, 2.0, cols[2].Levels["a"], 1e-9)
	assert.InDelta(t, 8.0, cols[2].Levels["b"], 1e-9)
	assert.Equal(t, t0.Add(time.Hour), cols[1].At)
}

func TestLongTermWindow(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	w := LongTermWindow(now.Add(-30*24*time.Hour), now)
	assert.Equal(t, 30, w.Steps)
	assert.Equal(t, now, w.End)
	assert.Equal(t, now.Add(-30*24*time.Hour), w.Start)

	partial := LongTermWindow(now.Add(-36*time.Hour), now)
	assert.Equal(t, 2, partial.Steps)
	assert.False(t, partial.Start.After(now.Add(-36*time.Hour)))

	future := LongTermWindow(now.Add(time.Hour), now)
	assert.Equal(t, 1, future.Steps)
}

func TestShortTermWindow(t *testing.T) {
	w := ShortTermWindow(t0)
	assert.Equal(t, t0.Add(-24*time.Hour), w.Start)
	assert.Equal(t, t0.Add(24*time.Hour), w.End)
	assert.Equal(t, 120, w.Steps)
}
