package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"peptide-tracker/internal/domain/doses"
	"peptide-tracker/internal/domain/protocols"
	"peptide-tracker/internal/platform/logger"
	"peptide-tracker/internal/schedule"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePlans struct {
	list []protocols.Protocol
	err  error
}

func (f fakePlans) ListActive(ctx context.Context) ([]protocols.Protocol, error) {
	return f.list, f.err
}

type fakeDoses struct {
	byCompound map[string][]doses.Dose
}

func (f fakeDoses) List(ctx context.Context, userID string, filter doses.ListFilter) ([]doses.Dose, error) {
	return f.byCompound[filter.CompoundID], nil
}

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func plan() fakePlans {
	return fakePlans{list: []protocols.Protocol{{
		ID:     "p-1",
		UserID: "u-1",
		Active: true,
		Items: []protocols.Item{
			{ID: "i-daily", CompoundID: "bpc", Frequency: schedule.FrequencyDaily},
			{ID: "i-weekly", CompoundID: "sema", Frequency: schedule.FrequencyWeekly},
			{ID: "i-fresh", CompoundID: "tb", Frequency: schedule.FrequencyDaily},
			{ID: "i-custom", CustomName: "own blend", Frequency: schedule.FrequencyDaily},
		},
	}}}
}

func history() fakeDoses {
	return fakeDoses{byCompound: map[string][]doses.Dose{
		"bpc":  {{CompoundID: "bpc", LoggedAt: now.Add(-30 * time.Hour)}},
		"sema": {{CompoundID: "sema", LoggedAt: now.Add(-3 * 24 * time.Hour)}},
	}}
}

func newTestScanner(t *testing.T, p PlanSource, d DoseSource) (*Scanner, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewScanner(p, d, logger.FromZap(zap.New(core)), time.Minute)
	s.now = func() time.Time { return now }
	return s, logs
}

func TestScan_ReportsOverdueOnce(t *testing.T) {
	s, logs := newTestScanner(t, plan(), history())

	got, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "i-daily", got[0].ItemID)
	assert.Equal(t, 6*time.Hour, got[0].Overdue)

	warn := logs.FilterMessage("dose overdue").All()
	require.Len(t, warn, 1)
	assert.Equal(t, "u-1", warn[0].ContextMap()["user_id"])
	assert.Equal(t, "reminders", warn[0].ContextMap()["component"])

	// same due time, nothing new
	got, err = s.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScan_NewDueTimeReportsAgain(t *testing.T) {
	d := history()
	s, _ := newTestScanner(t, plan(), d)

	_, err := s.Scan(context.Background())
	require.NoError(t, err)

	// a later dose that is itself overdue again
	d.byCompound["bpc"] = []doses.Dose{{CompoundID: "bpc", LoggedAt: now.Add(-25 * time.Hour)}}
	got, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Hour, got[0].Overdue)
}

func TestScan_PlanError(t *testing.T) {
	s, _ := newTestScanner(t, fakePlans{err: errors.New("db down")}, history())
	_, err := s.Scan(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s, logs := newTestScanner(t, plan(), history())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("dose overdue").Len() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
