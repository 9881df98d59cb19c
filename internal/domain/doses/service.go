package doses

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/platform/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dose not found")
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// CompoundLookup is the slice of the compound library the log needs.
type CompoundLookup interface {
	GetByID(ctx context.Context, id string) (compounds.Compound, error)
}

type Service struct {
	repo      Repository
	compounds CompoundLookup
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, lookup CompoundLookup, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:      repo,
		compounds: lookup,
		log:       log,
		now:       time.Now,
	}
}

type LogInput struct {
	CompoundID     string
	ProtocolItemID string
	LoggedAt       time.Time
	Amount         float64
	Unit           string
	Route          string
	InjectionSite  string
	LotNumber      string
	Provider       string
	Notes          string
}

// Log records a dose. Amounts must be finite and positive: the simulator
// tolerates bad values, the log does not accept them.
func (s *Service) Log(ctx context.Context, userID string, in LogInput) (Dose, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Dose{}, ErrInvalidInput
	}
	if in.LoggedAt.IsZero() {
		return Dose{}, fmt.Errorf("%w: logged_at required", ErrInvalidInput)
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		s.log.Warn("dose rejected", map[string]any{
			"user_id":     userID,
			"compound_id": in.CompoundID,
			"amount":      fmt.Sprint(in.Amount),
		})
		return Dose{}, fmt.Errorf("%w: amount must be a positive number", ErrInvalidInput)
	}

	c, err := s.compounds.GetByID(ctx, strings.TrimSpace(in.CompoundID))
	if err != nil {
		if errors.Is(err, compounds.ErrNotFound) || errors.Is(err, compounds.ErrInvalidInput) {
			return Dose{}, fmt.Errorf("%w: unknown compound", ErrInvalidInput)
		}
		return Dose{}, err
	}

	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = c.DoseUnit
	}

	now := s.now()
	d := Dose{
		ID:             ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:         userID,
		CompoundID:     c.ID,
		ProtocolItemID: strings.TrimSpace(in.ProtocolItemID),
		LoggedAt:       in.LoggedAt.UTC(),
		Amount:         in.Amount,
		Unit:           unit,
		Route:          strings.TrimSpace(in.Route),
		InjectionSite:  strings.TrimSpace(in.InjectionSite),
		LotNumber:      strings.TrimSpace(in.LotNumber),
		Provider:       strings.TrimSpace(in.Provider),
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dose{}, err
	}
	return d, nil
}

// Get returns the dose if it belongs to userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Dose, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Dose{}, ErrInvalidInput
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dose{}, err
	}
	if d.UserID != userID {
		return Dose{}, ErrNotFound
	}
	return d, nil
}

// List applies the HTTP paging rules (default 50, max 200).
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Dose, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	return s.repo.ListByUser(ctx, userID, filter)
}

// Recent returns up to limit doses, newest first.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]Dose, error) {
	return s.repo.ListByUser(ctx, userID, ListFilter{Limit: limit})
}

// Since returns every dose logged at or after from (all history when from is nil).
func (s *Service) Since(ctx context.Context, userID string, from *time.Time) ([]Dose, error) {
	return s.repo.ListByUser(ctx, userID, ListFilter{From: from})
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, d.ID)
}
