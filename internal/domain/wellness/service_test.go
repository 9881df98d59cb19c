package wellness

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byKey map[string]Entry
}

func newTestRepo() *testRepo {
	return &testRepo{byKey: map[string]Entry{}}
}

func key(userID string, d time.Time) string { return userID + "|" + d.Format(DateLayout) }

func (r *testRepo) Upsert(ctx context.Context, e Entry) error {
	r.byKey[key(e.UserID, e.Date)] = e
	return nil
}

func (r *testRepo) GetByDate(ctx context.Context, userID string, date time.Time) (Entry, error) {
	e, ok := r.byKey[key(userID, date)]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string, from *time.Time) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range r.byKey {
		if e.UserID != userID || (from != nil && e.Date.Before(*from)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func kg(v float64) *float64 { return &v }
func score(v int) *int { return &v }

var now = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestUpsert_ReplacesSameDay(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	date := time.Date(2024, 6, 1, 22, 30, 0, 0, time.UTC)

	first, err := svc.Upsert(ctx, "u-1", date, UpsertInput{Mood: score(6), SideEffects: []string{"nausea", " nausea ", ""}})
	require.NoError(t, err)
	assert.Equal(t, []string{"nausea"}, first.SideEffects)
	assert.Equal(t, "2024-06-01", first.Date.Format(DateLayout))

	second, err := svc.Upsert(ctx, "u-1", date, UpsertInput{WeightKg: kg(90)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Nil(t, second.Mood, "upsert replaces the whole entry")
	assert.Len(t, repo.byKey, 1)
}

func TestUpsert_Validates(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u-1", now, UpsertInput{Mood: score(11)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Upsert(ctx, "u-1", now, UpsertInput{SleepQuality: score(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Upsert(ctx, "u-1", now, UpsertInput{WeightKg: kg(-1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Upsert(ctx, "", now, UpsertInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_RespectsRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, d := range []time.Time{now.AddDate(0, -5, 0), now.AddDate(0, -2, 0), now.AddDate(0, 0, -3)} {
		_, err := svc.Upsert(ctx, "u-1", d, UpsertInput{WeightKg: kg(80)})
		require.NoError(t, err)
	}

	got, err := svc.List(ctx, "u-1", Range1M)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(ctx, "u-1", Range3M)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(ctx, "u-1", RangeAll)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestComputeStats(t *testing.T) {
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Date: d0, WeightKg: kg(100)},
		{Date: d0.AddDate(0, 0, 7), Mood: score(5)},
		{Date: d0.AddDate(0, 0, 28), WeightKg: kg(96)},
	}

	st, ok := ComputeStats(entries, nil)
	require.True(t, ok)
	assert.Equal(t, 100.0, st.StartWeight)
	assert.Equal(t, 96.0, st.CurrentWeight)
	assert.InDelta(t, -4.0, st.TotalChange, 1e-9)
	assert.InDelta(t, -4.0, st.PercentChange, 1e-9)
	assert.InDelta(t, -1.0, st.WeeklyAverage, 1e-9)
	assert.Equal(t, 2, st.Samples)

	st, ok = ComputeStats(entries, kg(120))
	require.True(t, ok)
	assert.InDelta(t, -24.0, st.TotalChange, 1e-9)
	assert.InDelta(t, -20.0, st.PercentChange, 1e-9)
	assert.InDelta(t, -1.0, st.WeeklyAverage, 1e-9, "weekly average ignores the baseline")

	_, ok = ComputeStats([]Entry{{Date: d0, Mood: score(3)}}, nil)
	assert.False(t, ok)
}

func TestComputeStats_ShortSpanCountsAsOneWeek(t *testing.T) {
	d0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st, ok := ComputeStats([]Entry{
		{Date: d0, WeightKg: kg(80)},
		{Date: d0.AddDate(0, 0, 2), WeightKg: kg(79)},
	}, nil)
	require.True(t, ok)
	assert.InDelta(t, -1.0, st.WeeklyAverage, 1e-9)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("")
	require.NoError(t, err)
	assert.Equal(t, Range3M, r)

	r, err = ParseRange("all")
	require.NoError(t, err)
	assert.Equal(t, RangeAll, r)
	assert.Nil(t, r.Cutoff(now))

	_, err = ParseRange("2Y")
	assert.ErrorIs(t, err, ErrInvalidInput)

	c := Range6M.Cutoff(now)
	require.NotNil(t, c)
	assert.Equal(t, time.Date(2023, 12, 30, 12, 0, 0, 0, time.UTC), *c)
}
