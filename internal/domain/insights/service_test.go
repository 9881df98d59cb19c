package insights

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/domain/doses"
	"peptide-tracker/internal/domain/protocols"
	"peptide-tracker/internal/domain/wellness"
	"peptide-tracker/internal/kinetics"
	"peptide-tracker/internal/schedule"
)

type testDoses []doses.Dose

func (t testDoses) List(ctx context.Context, userID string, f doses.ListFilter) ([]doses.Dose, error) {
	out := make([]doses.Dose, 0)
	for _, d := range t {
		if d.UserID != userID {
			continue
		}
		if f.CompoundID != "" && d.CompoundID != f.CompoundID {
			continue
		}
		if f.From != nil && d.LoggedAt.Before(*f.From) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (t testDoses) Recent(ctx context.Context, userID string, limit int) ([]doses.Dose, error) {
	return t.List(ctx, userID, doses.ListFilter{Limit: limit})
}

func (t testDoses) Since(ctx context.Context, userID string, from *time.Time) ([]doses.Dose, error) {
	return t.List(ctx, userID, doses.ListFilter{From: from})
}

type testIndex map[string]compounds.Compound

func (t testIndex) Index(ctx context.Context, ids []string) (map[string]compounds.Compound, error) {
	out := map[string]compounds.Compound{}
	for _, id := range ids {
		if c, ok := t[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

type testPlans struct {
	item protocols.Item
	ok   bool
}

func (p testPlans) NextDueItem(ctx context.Context, userID string) (protocols.Item, bool, error) {
	return p.item, p.ok, nil
}

type testRenderer struct {
	chart *Chart
	gauge *Gauge
}

func (r *testRenderer) Chart(w io.Writer, c Chart) error {
	r.chart = &c
	_, err := w.Write([]byte("chart"))
	return err
}

func (r *testRenderer) Gauge(w io.Writer, g Gauge) error {
	r.gauge = &g
	_, err := w.Write([]byte("gauge"))
	return err
}

func hours(h float64) *float64 { return &h }

var (
	now   = time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	index = testIndex{
		"bpc":  {ID: "bpc", Name: "BPC-157", DoseUnit: "mcg", HalfLifeHours: hours(4)},
		"tb":   {ID: "tb", Name: "TB-500", DoseUnit: "mg"},
		"sema": {ID: "sema", Name: "Semaglutide", DoseUnit: "mg", HalfLifeHours: hours(168)},
	}
)

func newTestService(ds testDoses, plans testPlans) (*Service, *testRenderer) {
	r := &testRenderer{}
	svc := NewService(ds, index, plans, r, DefaultOptions())
	svc.now = func() time.Time { return now }
	return svc, r
}

func TestLevels_ShortWindow(t *testing.T) {
	svc, _ := newTestService(testDoses{
		{UserID: "u-1", CompoundID: "bpc", LoggedAt: now.Add(-4 * time.Hour), Amount: 250},
		{UserID: "u-1", CompoundID: "tb", LoggedAt: now.Add(-72 * time.Hour), Amount: 2},
		{UserID: "u-2", CompoundID: "bpc", LoggedAt: now, Amount: 999},
	}, testPlans{})

	l, err := svc.Levels(context.Background(), "u-1", LevelsQuery{})
	require.NoError(t, err)
	assert.Equal(t, WindowShort, l.Window)
	assert.Equal(t, kinetics.ShortTermWindow(now), l.Result.Window)

	bpc := l.Result.PerCompound["bpc"]
	require.Len(t, bpc, kinetics.ShortTermSteps+1)
	assert.Equal(t, now, bpc[60].At)
	assert.InDelta(t, 125, bpc[60].Level, 1e-9)

	// tb has no half-life: 4h fallback, 72h+ ago is far below 0.001 of 2mg
	assert.Contains(t, l.Result.PerCompound, "tb")
	assert.Equal(t, []string{"bpc"}, l.Result.Visible)
	assert.InDelta(t, 250, l.Result.Max, 1e-9)
	assert.Equal(t, "BPC-157", l.Compounds["bpc"].Name)
}

func TestLevels_LongWindowUsesDailyFallback(t *testing.T) {
	svc, _ := newTestService(testDoses{
		{UserID: "u-1", CompoundID: "tb", LoggedAt: now.Add(-48 * time.Hour), Amount: 4},
		{UserID: "u-1", CompoundID: "sema", LoggedAt: now.AddDate(0, -2, 0), Amount: 1},
	}, testPlans{})

	l, err := svc.Levels(context.Background(), "u-1", LevelsQuery{Window: WindowLong, Range: wellness.Range1M})
	require.NoError(t, err)
	assert.Equal(t, now, l.Result.Window.End)
	assert.Equal(t, 31, l.Result.Window.Steps, "Dec 2 .. Jan 2")

	tb := l.Result.PerCompound["tb"]
	last := tb[len(tb)-1]
	assert.Equal(t, now, last.At)
	assert.InDelta(t, 1, last.Level, 1e-9, "24h fallback: 4 -> 1 after 48h")

	// dose from before the window still decays into it
	assert.Contains(t, l.Result.Visible, "sema")
}

func TestLevels_AllStartsAtFirstDose(t *testing.T) {
	first := now.AddDate(0, 0, -10)
	svc, _ := newTestService(testDoses{
		{UserID: "u-1", CompoundID: "sema", LoggedAt: first, Amount: 1},
		{UserID: "u-1", CompoundID: "sema", LoggedAt: now.AddDate(0, 0, -3), Amount: 1},
	}, testPlans{})

	l, err := svc.Levels(context.Background(), "u-1", LevelsQuery{Window: WindowLong, Range: wellness.RangeAll})
	require.NoError(t, err)
	assert.Equal(t, 10, l.Result.Window.Steps)
	assert.Equal(t, first, l.Result.Window.Start)
}

func TestLevels_CompoundFilterAndEmpty(t *testing.T) {
	svc, _ := newTestService(testDoses{
		{UserID: "u-1", CompoundID: "bpc", LoggedAt: now, Amount: 250},
		{UserID: "u-1", CompoundID: "sema", LoggedAt: now, Amount: 1},
	}, testPlans{})

	l, err := svc.Levels(context.Background(), "u-1", LevelsQuery{CompoundID: "sema"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sema"}, l.Result.Visible)

	l, err = svc.Levels(context.Background(), "nobody", LevelsQuery{})
	require.NoError(t, err)
	assert.Empty(t, l.Result.Visible)
	assert.Equal(t, 1.0, l.Result.Max)
}

func TestNextDose_EveryOtherDay(t *testing.T) {
	item := protocols.Item{ID: "it-1", CompoundID: "bpc", DoseAmount: 250, DoseUnit: "mcg", Frequency: schedule.FrequencyEveryOtherDay}
	lastDose := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	svc, _ := newTestService(testDoses{
		{UserID: "u-1", CompoundID: "bpc", LoggedAt: lastDose.Add(-48 * time.Hour), Amount: 250},
		{UserID: "u-1", CompoundID: "bpc", LoggedAt: lastDose, Amount: 250},
		{UserID: "u-1", CompoundID: "sema", LoggedAt: now, Amount: 1},
	}, testPlans{item: item, ok: true})

	n, ok, err := svc.NextDose(context.Background(), "u-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), n.Prediction.NextDueAt)
	assert.Equal(t, 2.0, n.Prediction.IntervalDays)
	assert.InDelta(t, 0.5, n.Progress(), 1e-9)
	assert.False(t, n.Overdue())
	assert.Equal(t, 24*time.Hour, n.Remaining())
	require.NotNil(t, n.LastDoseAt)
	assert.Equal(t, lastDose, *n.LastDoseAt)
	require.NotNil(t, n.Compound)
	assert.Equal(t, "BPC-157", n.Compound.Name)
}

func TestNextDose_NoHistoryIsDueNow(t *testing.T) {
	item := protocols.Item{CompoundID: "sema", Frequency: schedule.FrequencyWeekly}
	svc, _ := newTestService(testDoses{}, testPlans{item: item, ok: true})

	n, ok, err := svc.NextDose(context.Background(), "u-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now, n.Prediction.NextDueAt)
	assert.False(t, n.Prediction.HasHistory)
	assert.False(t, n.Overdue())
	assert.Equal(t, "due now", GaugeFor(n).Caption)
}

func TestNextDose_Overdue(t *testing.T) {
	item := protocols.Item{CompoundID: "bpc", Frequency: schedule.FrequencyDaily, DoseAmount: 250, DoseUnit: "mcg"}
	svc, _ := newTestService(testDoses{
		{UserID: "u-1", CompoundID: "bpc", LoggedAt: now.AddDate(0, 0, -10), Amount: 250},
	}, testPlans{item: item, ok: true})

	n, ok, err := svc.NextDose(context.Background(), "u-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now.AddDate(0, 0, -9), n.Prediction.NextDueAt)
	assert.True(t, n.Overdue())
	assert.Equal(t, 0.0, n.Progress())

	g := GaugeFor(n)
	assert.True(t, g.Overdue)
	assert.Equal(t, "overdue by 9d", g.Caption)
	assert.Equal(t, "BPC-157 250mcg", g.Title)
}

func TestNextDose_NoActiveProtocol(t *testing.T) {
	svc, r := newTestService(testDoses{}, testPlans{})

	_, ok, err := svc.NextDose(context.Background(), "u-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.RenderNextDose(context.Background(), "u-1", io.Discard)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, r.gauge)
}

func TestRenderLevels_PassesVisibleSeries(t *testing.T) {
	svc, r := newTestService(testDoses{
		{UserID: "u-1", CompoundID: "bpc", LoggedAt: now.Add(-time.Hour), Amount: 250},
	}, testPlans{})

	require.NoError(t, svc.RenderLevels(context.Background(), "u-1", LevelsQuery{}, io.Discard))
	require.NotNil(t, r.chart)
	require.Len(t, r.chart.Series, 1)
	assert.Equal(t, "BPC-157 (mcg)", r.chart.Series[0].Label)
	assert.Equal(t, now, r.chart.Now)
}

func TestRender_NoRenderer(t *testing.T) {
	svc := NewService(testDoses{}, index, testPlans{}, nil, Options{})
	assert.ErrorIs(t, svc.RenderLevels(context.Background(), "u-1", LevelsQuery{}, io.Discard), ErrNoRenderer)
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("")
	require.NoError(t, err)
	assert.Equal(t, WindowShort, w)
	w, err = ParseWindow("LONG")
	require.NoError(t, err)
	assert.Equal(t, WindowLong, w)
	_, err = ParseWindow("week")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
