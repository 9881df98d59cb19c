package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"peptide-tracker/internal/domain/doses"
)

type doseRepo struct {
	mu   sync.RWMutex
	byID map[string]doses.Dose
}

func NewDoseRepo() doses.Repository {
	return &doseRepo{
		byID: make(map[string]doses.Dose),
	}
}

func (r *doseRepo) Create(ctx context.Context, d doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		return errors.New("dose id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dose already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *doseRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return doses.Dose{}, doses.ErrNotFound
	}
	return d, nil
}

func (r *doseRepo) ListByUser(ctx context.Context, userID string, filter doses.ListFilter) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if d.UserID != userID {
			continue
		}
		if filter.CompoundID != "" && d.CompoundID != filter.CompoundID {
			continue
		}
		if filter.From != nil && d.LoggedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && d.LoggedAt.After(*filter.To) {
			continue
		}
		out = append(out, d)
	}

	// newest first; ULIDs break ties in creation order
	sort.Slice(out, func(i, j int) bool {
		if out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].LoggedAt.After(out[j].LoggedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *doseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return doses.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
