package wellness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("wellness entry not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type UpsertInput struct {
	SleepQuality *int
	EnergyLevel  *int
	Mood         *int
	WeightKg     *float64
	SideEffects  []string
	Notes        string
}

// Upsert writes the entry for date, replacing any previous one for that day.
func (s *Service) Upsert(ctx context.Context, userID string, date time.Time, in UpsertInput) (Entry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || date.IsZero() {
		return Entry{}, ErrInvalidInput
	}
	for name, v := range map[string]*int{"sleep_quality": in.SleepQuality, "energy_level": in.EnergyLevel, "mood": in.Mood} {
		if v != nil && (*v < 1 || *v > 10) {
			return Entry{}, fmt.Errorf("%w: %s must be 1-10", ErrInvalidInput, name)
		}
	}
	if w := in.WeightKg; w != nil && (math.IsNaN(*w) || math.IsInf(*w, 0) || *w <= 0) {
		return Entry{}, fmt.Errorf("%w: weight_kg must be positive", ErrInvalidInput)
	}

	date = day(date)
	now := s.now()
	e := Entry{
		ID:           uuid.NewString(),
		UserID:       userID,
		Date:         date,
		SleepQuality: in.SleepQuality,
		EnergyLevel:  in.EnergyLevel,
		Mood:         in.Mood,
		WeightKg:     in.WeightKg,
		SideEffects:  cleanList(in.SideEffects),
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	prev, err := s.repo.GetByDate(ctx, userID, date)
	switch {
	case err == nil:
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
	case !errors.Is(err, ErrNotFound):
		return Entry{}, err
	}

	if err := s.repo.Upsert(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, userID string, r Range) ([]Entry, error) {
	var from *time.Time
	if c := r.Cutoff(s.now()); c != nil {
		d := day(*c)
		from = &d
	}
	return s.repo.ListByUser(ctx, userID, from)
}

func (s *Service) Stats(ctx context.Context, userID string, r Range, startWeight *float64) (Stats, bool, error) {
	entries, err := s.List(ctx, userID, r)
	if err != nil {
		return Stats{}, false, err
	}
	st, ok := ComputeStats(entries, startWeight)
	return st, ok, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
