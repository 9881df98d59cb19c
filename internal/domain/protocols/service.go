package protocols

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/schedule"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("protocol not found")
)

type CompoundLookup interface {
	GetByID(ctx context.Context, id string) (compounds.Compound, error)
}

type Service struct {
	repo      Repository
	compounds CompoundLookup
	now       func() time.Time
}

func NewService(repo Repository, lookup CompoundLookup) *Service {
	return &Service{
		repo:      repo,
		compounds: lookup,
		now:       time.Now,
	}
}

type CreateInput struct {
	Name          string
	Active        bool
	StartDate     *time.Time
	EndDate       *time.Time
	CycleOnWeeks  *int
	CycleOffWeeks *int
	Notes         string
	Items         []ItemInput
}

type ItemInput struct {
	CompoundID    string
	CustomName    string
	DoseAmount    float64
	DoseUnit      string
	Route         string
	Frequency     schedule.FrequencyKind // empty: compound default
	FrequencyDays []int
	PreferredTime string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Protocol, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Protocol{}, ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Protocol{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return Protocol{}, fmt.Errorf("%w: at least one item required", ErrInvalidInput)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return Protocol{}, fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}
	if negative(in.CycleOnWeeks) || negative(in.CycleOffWeeks) {
		return Protocol{}, fmt.Errorf("%w: cycle weeks must be >= 0", ErrInvalidInput)
	}

	p := Protocol{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          name,
		Active:        in.Active,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		CycleOnWeeks:  in.CycleOnWeeks,
		CycleOffWeeks: in.CycleOffWeeks,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     s.now(),
	}

	for i, ii := range in.Items {
		item, err := s.buildItem(ctx, ii)
		if err != nil {
			return Protocol{}, fmt.Errorf("item %d: %w", i, err)
		}
		item.ProtocolID = p.ID
		item.Position = i
		p.Items = append(p.Items, item)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Protocol{}, err
	}
	return p, nil
}

func (s *Service) buildItem(ctx context.Context, in ItemInput) (Item, error) {
	if math.IsNaN(in.DoseAmount) || math.IsInf(in.DoseAmount, 0) || in.DoseAmount <= 0 {
		return Item{}, fmt.Errorf("%w: dose_amount must be a positive number", ErrInvalidInput)
	}

	c, err := s.compounds.GetByID(ctx, strings.TrimSpace(in.CompoundID))
	if err != nil {
		if errors.Is(err, compounds.ErrNotFound) || errors.Is(err, compounds.ErrInvalidInput) {
			return Item{}, fmt.Errorf("%w: unknown compound", ErrInvalidInput)
		}
		return Item{}, err
	}

	freq := schedule.FrequencyKind(strings.ToLower(strings.TrimSpace(string(in.Frequency))))
	if freq == "" {
		freq = c.DefaultFrequency
		if freq == "" {
			freq = compounds.DefaultFrequency(c.Name)
		}
	}
	if !schedule.Known(freq) {
		return Item{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, freq)
	}

	var days []int
	if freq == schedule.FrequencyCustom {
		days, err = normalizeDays(in.FrequencyDays)
		if err != nil {
			return Item{}, err
		}
	}

	pt := strings.TrimSpace(in.PreferredTime)
	if pt != "" {
		if _, err := time.Parse("15:04", pt); err != nil {
			return Item{}, fmt.Errorf("%w: preferred_time must be HH:MM", ErrInvalidInput)
		}
	}

	unit := strings.TrimSpace(in.DoseUnit)
	if unit == "" {
		unit = c.DoseUnit
	}

	return Item{
		ID:            uuid.NewString(),
		CompoundID:    c.ID,
		CustomName:    strings.TrimSpace(in.CustomName),
		DoseAmount:    in.DoseAmount,
		DoseUnit:      unit,
		Route:         strings.TrimSpace(in.Route),
		Frequency:     freq,
		FrequencyDays: days,
		PreferredTime: pt,
	}, nil
}

// normalizeDays sorts and dedupes weekdays; custom plans need at least one.
func normalizeDays(in []int) ([]int, error) {
	seen := map[int]bool{}
	out := make([]int, 0, len(in))
	for _, d := range in {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: frequency_days must be 0-6", ErrInvalidInput)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: custom frequency needs frequency_days", ErrInvalidInput)
	}
	sort.Ints(out)
	return out, nil
}

func negative(n *int) bool { return n != nil && *n < 0 }

func (s *Service) Get(ctx context.Context, userID, id string) (Protocol, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Protocol{}, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Protocol{}, err
	}
	if p.UserID != userID {
		return Protocol{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Protocol, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) SetActive(ctx context.Context, userID, id string, active bool) (Protocol, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return Protocol{}, err
	}
	if p.Active == active {
		return p, nil
	}
	if err := s.repo.SetActive(ctx, p.ID, active); err != nil {
		return Protocol{}, err
	}
	p.Active = active
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}

// NextDueItem is the first item of the newest active protocol.
// ok is false when the user has no active protocol with items.
func (s *Service) NextDueItem(ctx context.Context, userID string) (Item, bool, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Item{}, false, err
	}
	for _, p := range items {
		if p.Active && len(p.Items) > 0 {
			return p.Items[0], true, nil
		}
	}
	return Item{}, false, nil
}

// ListActive feeds the reminder scanner.
func (s *Service) ListActive(ctx context.Context) ([]Protocol, error) {
	return s.repo.ListActive(ctx)
}
