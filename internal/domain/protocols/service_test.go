package protocols

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/schedule"
)

type testRepo struct {
	byID map[string]Protocol
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Protocol{}}
}

func (r *testRepo) Create(ctx context.Context, p Protocol) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Protocol, error) {
	p, ok := r.byID[id]
	if !ok {
		return Protocol{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Protocol, error) {
	out := make([]Protocol, 0)
	for _, p := range r.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *testRepo) ListActive(ctx context.Context) ([]Protocol, error) {
	out := make([]Protocol, 0)
	for _, p := range r.byID {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) SetActive(ctx context.Context, id string, active bool) error {
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = active
	r.byID[id] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type testCompounds map[string]compounds.Compound

func (c testCompounds) GetByID(ctx context.Context, id string) (compounds.Compound, error) {
	v, ok := c[id]
	if !ok {
		return compounds.Compound{}, compounds.ErrNotFound
	}
	return v, nil
}

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, testCompounds{
		"c-sema": {ID: "c-sema", Name: "Semaglutide", DoseUnit: "mg", DefaultFrequency: schedule.FrequencyWeekly},
		"c-bpc":  {ID: "c-bpc", Name: "BPC-157", DoseUnit: "mcg"},
	})
	clock := t0
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, repo
}

func TestCreate_DefaultsFrequencyAndUnit(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), "u-1", CreateInput{
		Name:   "Cut",
		Active: true,
		Items: []ItemInput{
			{CompoundID: "c-sema", DoseAmount: 0.25},
			{CompoundID: "c-bpc", DoseAmount: 250},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.Items, 2)

	assert.Equal(t, schedule.FrequencyWeekly, p.Items[0].Frequency)
	assert.Equal(t, "mg", p.Items[0].DoseUnit)
	assert.Equal(t, schedule.FrequencyDaily, p.Items[1].Frequency, "from name catalog")
	assert.Equal(t, 1, p.Items[1].Position)
	assert.Equal(t, p.ID, p.Items[1].ProtocolID)
}

func TestCreate_CustomNeedsDays(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u-1", CreateInput{Name: "x", Items: []ItemInput{
		{CompoundID: "c-bpc", DoseAmount: 1, Frequency: schedule.FrequencyCustom},
	}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, "u-1", CreateInput{Name: "x", Items: []ItemInput{
		{CompoundID: "c-bpc", DoseAmount: 1, Frequency: schedule.FrequencyCustom, FrequencyDays: []int{1, 7}},
	}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := svc.Create(ctx, "u-1", CreateInput{Name: "x", Items: []ItemInput{
		{CompoundID: "c-bpc", DoseAmount: 1, Frequency: "CUSTOM", FrequencyDays: []int{5, 1, 3, 1}},
	}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, p.Items[0].FrequencyDays)
}

func TestCreate_Rejects(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	start := t0
	end := t0.Add(-24 * time.Hour)
	neg := -1

	cases := map[string]CreateInput{
		"no name":       {Items: []ItemInput{{CompoundID: "c-bpc", DoseAmount: 1}}},
		"no items":      {Name: "x"},
		"bad compound":  {Name: "x", Items: []ItemInput{{CompoundID: "nope", DoseAmount: 1}}},
		"zero dose":     {Name: "x", Items: []ItemInput{{CompoundID: "c-bpc"}}},
		"bad frequency": {Name: "x", Items: []ItemInput{{CompoundID: "c-bpc", DoseAmount: 1, Frequency: "hourly"}}},
		"bad time":      {Name: "x", Items: []ItemInput{{CompoundID: "c-bpc", DoseAmount: 1, PreferredTime: "25:00"}}},
		"end < start":   {Name: "x", StartDate: &start, EndDate: &end, Items: []ItemInput{{CompoundID: "c-bpc", DoseAmount: 1}}},
		"neg cycle":     {Name: "x", CycleOnWeeks: &neg, Items: []ItemInput{{CompoundID: "c-bpc", DoseAmount: 1}}},
	}
	for name, in := range cases {
		_, err := svc.Create(ctx, "u-1", in)
		assert.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestNextDueItem_NewestActiveFirstItem(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, ok, err := svc.NextDueItem(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Create(ctx, "u-1", CreateInput{Name: "old", Active: true, Items: []ItemInput{{CompoundID: "c-sema", DoseAmount: 0.5}}})
	require.NoError(t, err)
	newer, err := svc.Create(ctx, "u-1", CreateInput{Name: "new", Active: true, Items: []ItemInput{
		{CompoundID: "c-bpc", DoseAmount: 250, Frequency: schedule.FrequencyEveryOtherDay},
		{CompoundID: "c-sema", DoseAmount: 0.5},
	}})
	require.NoError(t, err)

	item, ok, err := svc.NextDueItem(ctx, "u-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c-bpc", item.CompoundID)
	assert.Equal(t, schedule.Item{CompoundID: "c-bpc", Frequency: schedule.FrequencyEveryOtherDay, DoseAmount: 250, DoseUnit: "mcg"}, item.ScheduleItem())

	_, err = svc.SetActive(ctx, "u-1", newer.ID, false)
	require.NoError(t, err)
	item, ok, err = svc.NextDueItem(ctx, "u-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c-sema", item.CompoundID)
}

func TestOwnerScoping(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, "u-1", CreateInput{Name: "mine", Items: []ItemInput{{CompoundID: "c-bpc", DoseAmount: 1}}})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "u-2", p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.SetActive(ctx, "u-2", p.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "u-2", p.ID), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "u-1", p.ID))
	assert.Empty(t, repo.byID)
}
