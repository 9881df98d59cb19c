package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalDays(t *testing.T) {
	tests := []struct {
		kind FrequencyKind
		want float64
	}{
		{FrequencyDaily, 1},
		{FrequencyEveryOtherDay, 2},
		{FrequencyThreeTimesWeekly, 7.0 / 3.0},
		{FrequencyWeekly, 7},
		{FrequencyCustom, 7},
		{FrequencyKind("biweekly"), 7},
		{FrequencyKind(""), 7},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := IntervalDays(tt.kind)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.Greater(t, got, 0.0)
		})
	}
}

func TestPredictNext_NoHistoryIsDueNow(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	p := PredictNext(Item{CompoundID: "sema", Frequency: FrequencyWeekly}, nil, now)

	assert.Equal(t, now, p.NextDueAt)
	assert.Equal(t, 7.0, p.IntervalDays)
	assert.False(t, p.HasHistory)
	assert.False(t, p.Overdue(now.Add(time.Hour)))
}

func TestPredictNext_EveryOtherDay(t *testing.T) {
	last := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)

	p := PredictNext(Item{CompoundID: "bpc", Frequency: FrequencyEveryOtherDay}, &last, now)

	assert.Equal(t, time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), p.NextDueAt)
	assert.Equal(t, 2.0, p.IntervalDays)
	assert.InDelta(t, 0.5, p.Progress(now), 1e-12)
	assert.False(t, p.Overdue(now))
	assert.Equal(t, 24*time.Hour, p.Remaining(now))
}

func TestPredictNext_OverdueIsNotClamped(t *testing.T) {
	now := time.Date(2024, 2, 20, 12, 0, 0, 0, time.UTC)
	last := now.Add(-10 * 24 * time.Hour)

	p := PredictNext(Item{CompoundID: "bpc", Frequency: FrequencyDaily}, &last, now)

	assert.Equal(t, now.Add(-9*24*time.Hour), p.NextDueAt)
	assert.True(t, p.Overdue(now))
	assert.Equal(t, 0.0, Progress(p.NextDueAt, p.IntervalDays, now))
	assert.Equal(t, time.Duration(0), p.Remaining(now))
}

func TestPredictNext_ThreeTimesWeekly(t *testing.T) {
	last := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := PredictNext(Item{Frequency: FrequencyThreeTimesWeekly}, &last, last)

	want := last.Add(time.Duration(7.0 / 3.0 * float64(24*time.Hour)))
	assert.Equal(t, want, p.NextDueAt)
}

func TestProgress_Clamped(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1.0, Progress(now.Add(30*24*time.Hour), 7, now))
	assert.Equal(t, 0.0, Progress(now.Add(-time.Hour), 1, now))
	assert.InDelta(t, 0.25, Progress(now.Add(6*time.Hour), 1, now), 1e-12)
}

func TestLastMatching(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{CompoundID: "a", At: base},
		{CompoundID: "b", At: base.Add(5 * time.Hour)},
		{CompoundID: "a", At: base.Add(3 * time.Hour)},
		{CompoundID: "a", At: base.Add(time.Hour)},
	}

	got := LastMatching(events, "a")
	require.NotNil(t, got)
	assert.Equal(t, base.Add(3*time.Hour), *got)

	assert.Nil(t, LastMatching(events, "missing"))
	assert.Nil(t, LastMatching(nil, "a"))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(FrequencyCustom))
	assert.True(t, Known(FrequencyDaily))
	assert.False(t, Known("monthly"))
}
