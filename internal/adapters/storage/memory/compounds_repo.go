package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"peptide-tracker/internal/domain/compounds"
)

type compoundRepo struct {
	mu   sync.RWMutex
	byID map[string]compounds.Compound
}

func NewCompoundRepo() compounds.Repository {
	return &compoundRepo{
		byID: make(map[string]compounds.Compound),
	}
}

func (r *compoundRepo) Upsert(ctx context.Context, c compounds.Compound) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("compound id required")
	}
	for id, other := range r.byID {
		if id != c.ID && other.Slug == c.Slug {
			return errors.New("compound slug already exists")
		}
	}
	r.byID[c.ID] = c
	return nil
}

func (r *compoundRepo) GetByID(ctx context.Context, id string) (compounds.Compound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return compounds.Compound{}, compounds.ErrNotFound
	}
	return c, nil
}

func (r *compoundRepo) GetBySlug(ctx context.Context, slug string) (compounds.Compound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return compounds.Compound{}, compounds.ErrNotFound
}

func (r *compoundRepo) List(ctx context.Context, filter compounds.ListFilter) ([]compounds.Compound, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(filter.Query)
	out := make([]compounds.Compound, 0)
	for _, c := range r.byID {
		if q != "" && !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(c.Slug, q) {
			continue
		}
		if filter.Tag != "" && !hasTag(c.Tags, filter.Tag) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
