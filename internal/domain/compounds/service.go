package compounds

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("compound not found")
)

// catalogNamespace keeps seeded ids stable across restarts and databases.
var catalogNamespace = uuid.MustParse("6f1c9f0e-3a43-4b8e-9a55-1d0e6a8c2f10")

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

// IDForSlug is the id a seeded compound gets.
func IDForSlug(slug string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(strings.ToLower(strings.TrimSpace(slug)))).String()
}

// Seed upserts the builtin catalog. Safe to call on every start.
func (s *Service) Seed(ctx context.Context) (int, error) {
	now := s.now()
	n := 0
	for _, c := range Builtin() {
		c.ID = IDForSlug(c.Slug)
		if c.DefaultFrequency == "" {
			c.DefaultFrequency = DefaultFrequency(c.Name)
		}
		if existing, err := s.repo.GetByID(ctx, c.ID); err == nil {
			c.CreatedAt = existing.CreatedAt
		} else {
			c.CreatedAt = now
		}
		if err := s.repo.Upsert(ctx, c); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Compound, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Compound{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Compound, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Compound{}, ErrInvalidInput
	}
	return s.repo.GetBySlug(ctx, slug)
}

// Resolve accepts either an id or a slug.
func (s *Service) Resolve(ctx context.Context, idOrSlug string) (Compound, error) {
	c, err := s.GetByID(ctx, idOrSlug)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Compound{}, err
	}
	return s.GetBySlug(ctx, idOrSlug)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Compound, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Tag = strings.TrimSpace(filter.Tag)
	return s.repo.List(ctx, filter)
}

// Index loads the compounds behind ids; missing ids are skipped.
func (s *Service) Index(ctx context.Context, ids []string) (map[string]Compound, error) {
	out := make(map[string]Compound, len(ids))
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		c, err := s.repo.GetByID(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[id] = c
	}
	return out, nil
}
